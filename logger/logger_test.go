package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level     string
		debugSeen bool
		infoSeen  bool
	}{
		{"debug", true, true},
		{"INFO", false, true},
		{"warn", false, false},
		{"nonsense", false, true},
		{"", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(&buf, tt.level, false)
			log.Debug().Msg("debug line")
			log.Info().Str("table", "prices").Msg("info line")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.debugSeen {
				t.Errorf("debug line written = %v, want %v", got, tt.debugSeen)
			}
			if got := strings.Contains(out, `"table":"prices"`); got != tt.infoSeen {
				t.Errorf("info line written = %v, want %v\n%s", got, tt.infoSeen, out)
			}
		})
	}
}

func TestNew_Pretty(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, "info", true)
	log.Warn().Msg("no data to copy")
	if out := buf.String(); strings.HasPrefix(out, "{") || !strings.Contains(out, "no data to copy") {
		t.Errorf("pretty output = %q", out)
	}
}
