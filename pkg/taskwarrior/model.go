package taskwarrior

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrisonrobin/orgtodo/pkg/model"
)

const PENDING = "pending"

type CustomTime struct {
	time.Time
}

const taskwarriorTimeLayout = "20060102T150405Z" // YYYYMMDDTHHMMSSZ, 'Z' indicates UTC

// UnmarshalJSON implements the json.Unmarshaler interface for CustomTime.
func (ct *CustomTime) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "0" {
		ct.Time = time.Time{}
		return nil
	}

	t, err := time.Parse(taskwarriorTimeLayout, s)
	if err != nil {
		return fmt.Errorf("failed to parse Taskwarrior time string '%s': %w", s, err)
	}
	ct.Time = t
	return nil
}

// MarshalJSON implements the json.Marshaler interface for CustomTime.
func (ct CustomTime) MarshalJSON() ([]byte, error) {
	if ct.Time.IsZero() {
		return []byte(`""`), nil
	}
	return []byte(`"` + ct.Time.UTC().Format(taskwarriorTimeLayout) + `"`), nil
}

type Annotation struct {
	Description string      `json:"description"`
	Entry       *CustomTime `json:"entry,omitempty"`
}

// Task is the subset of a Taskwarrior task that an org entry maps onto.
type Task struct {
	UUID        string       `json:"uuid"`
	Description string       `json:"description"`
	Scheduled   *CustomTime  `json:"scheduled,omitempty"`
	Status      string       `json:"status"`
	Tags        []string     `json:"tags,omitempty"`
	Annotations []Annotation `json:"annotations,omitempty"`
}

// FromEntry converts an org entry. The entry key doubles as the task UUID so
// importing the same entry twice updates one task.
func FromEntry(e model.Entry) Task {
	task := Task{
		UUID:        e.Key(),
		Description: strings.TrimSpace(e.Description),
		Status:      PENDING,
	}
	if len(e.Tags) > 0 {
		task.Tags = append([]string(nil), e.Tags...)
	}
	if e.Scheduled != nil {
		d := e.Scheduled
		task.Scheduled = &CustomTime{Time: time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)}
	}
	if e.Source != "" {
		task.Annotations = []Annotation{{Description: fmt.Sprintf("org: %s:%d", e.Source, e.Line)}}
	}
	return task
}

// FromEntries converts entries in order.
func FromEntries(entries []model.Entry) []Task {
	tasks := make([]Task, 0, len(entries))
	for _, e := range entries {
		tasks = append(tasks, FromEntry(e))
	}
	return tasks
}
