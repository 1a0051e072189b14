package overdue

import (
	"testing"
	"time"

	"github.com/harrisonrobin/orgtodo/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) *model.Date {
	t.Helper()
	d, err := model.ParseDate(s)
	require.NoError(t, err)
	return &d
}

func buyMilk(t *testing.T) model.Entry {
	return model.Entry{Description: "Buy milk ", Tags: []string{"errand"}, Scheduled: date(t, "2024-01-01")}
}

func TestRetainScenarios(t *testing.T) {
	entries := []model.Entry{buyMilk(t)}

	// Due today.
	assert.Len(t, Retain(entries, *date(t, "2024-01-01"), 0), 1)
	// 31 days in the future with no horizon.
	assert.Empty(t, Retain(entries, *date(t, "2023-12-01"), 0))
	// 31 days in the future within a 35 day horizon.
	assert.Len(t, Retain(entries, *date(t, "2023-12-01"), 35), 1)
	// Exactly on the horizon.
	assert.Len(t, Retain(entries, *date(t, "2023-12-01"), 31), 1)
	assert.Empty(t, Retain(entries, *date(t, "2023-12-01"), 30))
}

func TestRetainDropsUnscheduled(t *testing.T) {
	entries := []model.Entry{
		{Description: "Water plants", Tags: []string{}},
		{Description: "Pay rent", Tags: []string{}},
	}
	for _, postdays := range []int{-10, 0, 10, 100000} {
		assert.Empty(t, Retain(entries, *date(t, "2024-01-01"), postdays))
	}
}

func TestRetainKeepsOverdue(t *testing.T) {
	entries := []model.Entry{{Description: "Ancient", Scheduled: date(t, "1999-01-01")}}
	assert.Len(t, Retain(entries, *date(t, "2024-01-01"), 0), 1)
	assert.Len(t, Retain(entries, *date(t, "2024-01-01"), -30), 1)
}

func TestRetainNegativePostdays(t *testing.T) {
	entries := []model.Entry{
		{Description: "Yesterday", Scheduled: date(t, "2023-12-31")},
		{Description: "Last week", Scheduled: date(t, "2023-12-25")},
	}
	retained := Retain(entries, *date(t, "2024-01-01"), -2)
	require.Len(t, retained, 1)
	assert.Equal(t, "Last week", retained[0].Description)
}

func TestRetainPreservesOrderAndInput(t *testing.T) {
	entries := []model.Entry{
		{Description: "c", Scheduled: date(t, "2024-01-03")},
		{Description: "none"},
		{Description: "a", Scheduled: date(t, "2023-06-01")},
		{Description: "far", Scheduled: date(t, "2030-01-01")},
		{Description: "b", Scheduled: date(t, "2024-01-01")},
	}
	retained := Retain(entries, *date(t, "2024-01-01"), 5)

	var got []string
	for _, e := range retained {
		got = append(got, e.Description)
	}
	assert.Equal(t, []string{"c", "a", "b"}, got)
	assert.Len(t, entries, 5)
	assert.Equal(t, "none", entries[1].Description)
}

func TestRetainMonotonicInPostdays(t *testing.T) {
	today := *date(t, "2024-01-01")
	var entries []model.Entry
	for i := -20; i <= 20; i += 3 {
		d := today.AddDays(i)
		entries = append(entries, model.Entry{Description: d.String(), Scheduled: &d})
	}
	entries = append(entries, model.Entry{Description: "none"})

	prev := map[string]bool{}
	for postdays := -25; postdays <= 25; postdays++ {
		cur := map[string]bool{}
		for _, e := range Retain(entries, today, postdays) {
			cur[e.Description] = true
		}
		for desc := range prev {
			assert.True(t, cur[desc], "postdays %d dropped %s", postdays, desc)
		}
		prev = cur
	}
}

func TestDelta(t *testing.T) {
	d, ok := Delta(buyMilk(t), *date(t, "2023-12-01"))
	assert.True(t, ok)
	assert.Equal(t, 31, d)

	_, ok = Delta(model.Entry{Description: "x"}, *date(t, "2023-12-01"))
	assert.False(t, ok)
}

func TestRetainAt(t *testing.T) {
	clock := func() time.Time { return time.Date(2024, time.January, 1, 9, 30, 0, 0, time.Local) }
	retained, today := RetainAt([]model.Entry{buyMilk(t)}, clock, 0)
	assert.Len(t, retained, 1)
	assert.Equal(t, "2024-01-01", today.String())
}

func TestRetainFarFuture(t *testing.T) {
	far := model.Entry{Description: "Far ", Scheduled: date(t, "9999-12-31")}
	today := *date(t, "2024-01-01")

	d, ok := Delta(far, today)
	require.True(t, ok)
	assert.Equal(t, 2913173, d)

	assert.Empty(t, Retain([]model.Entry{far}, today, 200000))
	assert.Len(t, Retain([]model.Entry{far}, today, 2913173), 1)

	ancient := model.Entry{Description: "Ancient ", Scheduled: date(t, "0001-01-01")}
	d, ok = Delta(ancient, today)
	require.True(t, ok)
	assert.Equal(t, -738885, d)
}
