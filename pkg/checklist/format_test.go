package checklist

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrisonrobin/orgtodo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scheduled(desc string, y int, m time.Month, d int, tags ...string) model.Entry {
	date := model.Date{Year: y, Month: m, Day: d}
	return model.Entry{Description: desc, Tags: tags, Scheduled: &date}
}

func TestFormatEntry(t *testing.T) {
	e := scheduled("Buy milk ", 2024, time.January, 1, "errand")
	want := " - [ ] #todo Buy milk   <span class='cm-strong'>2024-01-01</span>\n"
	assert.Equal(t, want, FormatEntry(e))
	assert.Equal(t, FormatEntry(e), FormatEntry(e))
	assert.NotContains(t, FormatEntry(e), "errand")
}

func TestFormatEntryKeepsDescriptionVerbatim(t *testing.T) {
	e := scheduled("Water plants", 2024, time.March, 5)
	assert.Equal(t, " - [ ] #todo Water plants  <span class='cm-strong'>2024-03-05</span>\n", FormatEntry(e))
}

func TestRender(t *testing.T) {
	entries := []model.Entry{
		scheduled("First ", 2024, time.January, 1),
		scheduled("Second ", 2023, time.December, 24),
	}
	want := " - [ ] #todo First   <span class='cm-strong'>2024-01-01</span>\n" +
		" - [ ] #todo Second   <span class='cm-strong'>2023-12-24</span>\n"
	assert.Equal(t, want, Render(entries))
	assert.Equal(t, "", Render(nil))
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todo.md")
	require.NoError(t, os.WriteFile(path, []byte("stale content that is longer\n"), 0644))

	require.NoError(t, WriteFile(path, Render([]model.Entry{scheduled("Buy milk ", 2024, time.January, 1)})))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, " - [ ] #todo Buy milk   <span class='cm-strong'>2024-01-01</span>\n", string(data))
}

func TestWriteFileFailure(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "todo.md"), "")
	assert.Error(t, err)
}
