package google

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/orgtodo/pkg/colors"
	"github.com/harrisonrobin/orgtodo/pkg/index"
	"github.com/harrisonrobin/orgtodo/pkg/model"
	"google.golang.org/api/calendar/v3"
)

// CalendarClient mirrors org entries into one Google Calendar.
type CalendarClient struct {
	srv        *calendar.Service
	calendarID string
	index      *index.EventIndex
	colors     *colors.ColorCache
}

// NewCalendarClient wraps an existing service. idx and cc may be nil.
func NewCalendarClient(srv *calendar.Service, calendarID string, idx *index.EventIndex, cc *colors.ColorCache) *CalendarClient {
	return &CalendarClient{srv: srv, calendarID: calendarID, index: idx, colors: cc}
}

// SyncEntry creates the event for e, or patches the existing one if it drifted.
func (c *CalendarClient) SyncEntry(ctx context.Context, e model.Entry) (*calendar.Event, error) {
	colorID := colors.Untagged
	if c.colors != nil {
		colorID = c.colors.ColorFor(e.Tags)
	}
	event, err := EntryToEvent(e, colorID)
	if err != nil {
		return nil, err
	}
	key := e.Key()

	var existing *calendar.Event
	if c.index != nil {
		if eventID := c.index.Get(key); eventID != "" {
			existing, err = c.srv.Events.Get(c.calendarID, eventID).Context(ctx).Do()
			if err != nil || existing.Status == "cancelled" {
				existing = nil
			}
		}
	}
	if existing == nil {
		existing, err = c.GetEventByEntryKey(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("error searching for event: %w", err)
		}
	}

	if existing != nil {
		patch := EventNeedsUpdate(existing, event)
		if patch == nil {
			c.remember(key, e, existing.Id)
			return existing, nil
		}
		updated, err := c.PatchEvent(ctx, existing.Id, patch)
		if err != nil {
			return nil, err
		}
		c.remember(key, e, updated.Id)
		return updated, nil
	}

	created, err := c.srv.Events.Insert(c.calendarID, event).Context(ctx).Do()
	if err != nil {
		return nil, err
	}
	c.remember(key, e, created.Id)
	return created, nil
}

// SyncEntries mirrors every entry and deletes the events of entries that
// are no longer retained. Per-entry failures are logged and counted.
func (c *CalendarClient) SyncEntries(ctx context.Context, entries []model.Entry) (synced, failed int) {
	keep := make(map[string]bool, len(entries))
	for _, e := range entries {
		keep[e.Key()] = true
		if _, err := c.SyncEntry(ctx, e); err != nil {
			log.Error("calendar sync failed", "entry", e.Description, "file", e.Source, "err", err)
			failed++
			continue
		}
		synced++
	}

	if c.index != nil {
		for _, key := range c.index.Keys() {
			if keep[key] {
				continue
			}
			rec, _ := c.index.Lookup(key)
			if err := c.DeleteEvent(ctx, rec.EventID); err != nil {
				log.Warn("could not delete stale event", "entry", rec.Description, "source", rec.Source, "err", err)
				continue
			}
			log.Debug("deleted stale event", "entry", rec.Description, "scheduled", rec.Scheduled)
			c.index.Remove(key)
		}
		if err := c.index.Save(); err != nil {
			log.Warn("could not save event index", "err", err)
		}
	}
	if c.colors != nil {
		if err := c.colors.Save(); err != nil {
			log.Warn("could not save tag colors", "err", err)
		}
	}
	return synced, failed
}

func (c *CalendarClient) remember(key string, e model.Entry, eventID string) {
	if c.index == nil {
		return
	}
	rec := index.Record{
		EventID:     eventID,
		Description: strings.TrimSpace(e.Description),
		Source:      fmt.Sprintf("%s:%d", e.Source, e.Line),
	}
	if e.Scheduled != nil {
		rec.Scheduled = e.Scheduled.String()
	}
	c.index.Set(key, rec)
}

// PatchEvent performs a partial update on an event.
func (c *CalendarClient) PatchEvent(ctx context.Context, eventID string, patch *calendar.Event) (*calendar.Event, error) {
	return c.srv.Events.Patch(c.calendarID, eventID, patch).Context(ctx).Do()
}

// DeleteEvent deletes an event from the calendar.
func (c *CalendarClient) DeleteEvent(ctx context.Context, eventID string) error {
	return c.srv.Events.Delete(c.calendarID, eventID).Context(ctx).Do()
}

// GetEventByEntryKey finds the event carrying key in its private extended properties.
func (c *CalendarClient) GetEventByEntryKey(ctx context.Context, key string) (*calendar.Event, error) {
	events, err := c.srv.Events.List(c.calendarID).
		PrivateExtendedProperty(fmt.Sprintf("%s=%s", EntryKeyProperty, key)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, err
	}
	if len(events.Items) > 0 {
		return events.Items[0], nil
	}
	return nil, nil
}
