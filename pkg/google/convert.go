package google

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harrisonrobin/orgtodo/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// EntryKeyProperty is the private extended property holding an event's entry key.
const EntryKeyProperty = "orgtodo_id"

// ErrUnscheduled is returned when converting an entry without a date.
var ErrUnscheduled = errors.New("entry has no scheduled date")

// EntryToEvent builds the all-day event mirroring e.
func EntryToEvent(e model.Entry, colorID string) (*calendar.Event, error) {
	if e.Scheduled == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnscheduled, e.Description)
	}

	var desc strings.Builder
	if len(e.Tags) > 0 {
		for i, tag := range e.Tags {
			if i > 0 {
				desc.WriteString(" ")
			}
			desc.WriteString("#" + tag)
		}
		desc.WriteString("\n\n")
	}
	fmt.Fprintf(&desc, "Source: %s:%d\n", e.Source, e.Line)

	return &calendar.Event{
		Summary:     strings.TrimSpace(e.Description),
		Description: desc.String(),
		ColorId:     colorID,
		Start:       &calendar.EventDateTime{Date: e.Scheduled.String()},
		End:         &calendar.EventDateTime{Date: e.Scheduled.AddDays(1).String()},
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				EntryKeyProperty: e.Key(),
			},
		},
	}, nil
}

// EventNeedsUpdate returns a patch carrying the fields of target that differ
// from existing, or nil when they already agree.
func EventNeedsUpdate(existing, target *calendar.Event) *calendar.Event {
	patch := &calendar.Event{}
	needsUpdate := false

	if existing.Summary != target.Summary {
		patch.Summary = target.Summary
		needsUpdate = true
	}
	if existing.Description != target.Description {
		patch.Description = target.Description
		needsUpdate = true
	}
	if existing.ColorId != target.ColorId {
		patch.ColorId = target.ColorId
		needsUpdate = true
	}
	if eventDate(existing.Start) != eventDate(target.Start) || eventDate(existing.End) != eventDate(target.End) {
		patch.Start = target.Start
		patch.End = target.End
		needsUpdate = true
	}

	if needsUpdate {
		return patch
	}
	return nil
}

func eventDate(dt *calendar.EventDateTime) string {
	if dt == nil {
		return ""
	}
	return dt.Date
}
