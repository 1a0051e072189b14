package taskwarrior

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/harrisonrobin/orgtodo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buyMilk() model.Entry {
	d := model.Date{Year: 2024, Month: time.January, Day: 1}
	return model.Entry{Description: "Buy milk ", Tags: []string{"errand"}, Scheduled: &d, Source: "inbox.org", Line: 1}
}

func TestFromEntry(t *testing.T) {
	e := buyMilk()
	task := FromEntry(e)

	assert.Equal(t, e.Key(), task.UUID)
	assert.Equal(t, "Buy milk", task.Description)
	assert.Equal(t, PENDING, task.Status)
	assert.Equal(t, []string{"errand"}, task.Tags)
	require.NotNil(t, task.Scheduled)
	assert.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), task.Scheduled.Time)
	require.Len(t, task.Annotations, 1)
	assert.Equal(t, "org: inbox.org:1", task.Annotations[0].Description)
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FromEntries([]model.Entry{buyMilk()})))

	var decoded []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	require.Len(t, decoded, 1)
	assert.Equal(t, "20240101T000000Z", decoded[0]["scheduled"])
	assert.Equal(t, "Buy milk", decoded[0]["description"])

	var tasks []Task
	require.NoError(t, json.Unmarshal(buf.Bytes(), &tasks))
	assert.True(t, tasks[0].Scheduled.Equal(time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)))
}

func TestImport(t *testing.T) {
	dir := t.TempDir()
	captured := filepath.Join(dir, "stdin.json")
	script := filepath.Join(dir, "task")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\ncat > "+captured+"\n"), 0755))

	c := &Client{Binary: script}
	require.NoError(t, c.Import(context.Background(), FromEntries([]model.Entry{buyMilk()})))

	data, err := os.ReadFile(captured)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"description":"Buy milk"`)
}

func TestImportFailure(t *testing.T) {
	dir := t.TempDir()
	script := filepath.Join(dir, "task")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho boom >&2\nexit 3\n"), 0755))

	err := (&Client{Binary: script}).Import(context.Background(), FromEntries([]model.Entry{buyMilk()}))
	assert.ErrorContains(t, err, "exit code 3")
	assert.ErrorContains(t, err, "boom")
}

func TestImportNothing(t *testing.T) {
	c := &Client{Binary: filepath.Join(t.TempDir(), "does-not-exist")}
	assert.NoError(t, c.Import(context.Background(), nil))
}
