// Package checklist renders entries as a markdown task list.
package checklist

import (
	"fmt"
	"os"
	"strings"

	"github.com/harrisonrobin/orgtodo/pkg/model"
)

const (
	itemPrefix = " - [ ] #todo "
	spanOpen   = "  <span class='cm-strong'>"
	spanClose  = "</span>\n"
)

// FormatEntry renders one scheduled entry as a checklist line. The
// description is written as extracted, including its trailing space.
func FormatEntry(e model.Entry) string {
	date := ""
	if e.Scheduled != nil {
		date = e.Scheduled.String()
	}
	return itemPrefix + e.Description + spanOpen + date + spanClose
}

// Render concatenates the checklist lines of entries in order.
func Render(entries []model.Entry) string {
	var b strings.Builder
	for _, e := range entries {
		b.WriteString(FormatEntry(e))
	}
	return b.String()
}

// WriteFile replaces the contents of path with a checklist produced by Render.
func WriteFile(path, content string) error {
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return fmt.Errorf("writing checklist %s: %w", path, err)
	}
	return nil
}
