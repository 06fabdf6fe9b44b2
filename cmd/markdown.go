package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/fundrecon/renderer"
)

// printMarkdown renders markdown for the terminal, or prints it raw if that fails.
func printMarkdown(md string) {
	out, err := glamour.Render(md, "auto")
	if err != nil {
		fmt.Print(md)
		return
	}
	fmt.Print(out)
}

// writeHTML writes md as HTML next to the workbook, with the .html extension.
func writeHTML(workbook, md string) error {
	html, err := renderer.HTML(md)
	if err != nil {
		return err
	}
	path := strings.TrimSuffix(workbook, filepath.Ext(workbook)) + ".html"
	if err := os.WriteFile(path, []byte(html), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
