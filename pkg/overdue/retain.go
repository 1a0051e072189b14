// Package overdue decides which scheduled entries are due within a horizon.
package overdue

import (
	"time"

	"github.com/harrisonrobin/orgtodo/pkg/model"
)

// Clock reads the current time.
type Clock func() time.Time

// Delta returns how many days after today the entry is scheduled.
// Negative values are overdue. ok is false for unscheduled entries.
func Delta(e model.Entry, today model.Date) (days int, ok bool) {
	if e.Scheduled == nil {
		return 0, false
	}
	return e.Scheduled.Sub(today), true
}

// Retain returns the entries scheduled no later than postdays after today,
// in their original order. Unscheduled entries are always dropped and
// overdue ones always kept.
func Retain(entries []model.Entry, today model.Date, postdays int) []model.Entry {
	retained := make([]model.Entry, 0, len(entries))
	for _, e := range entries {
		if delta, ok := Delta(e, today); ok && delta <= postdays {
			retained = append(retained, e)
		}
	}
	return retained
}

// RetainAt is Retain with today read once from clock. It also returns the
// date it used. A nil clock reads time.Now.
func RetainAt(entries []model.Entry, clock Clock, postdays int) ([]model.Entry, model.Date) {
	if clock == nil {
		clock = time.Now
	}
	today := model.Today(clock())
	return Retain(entries, today, postdays), today
}
