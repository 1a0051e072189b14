package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDate(t *testing.T) {
	d, err := NewDate(2024, 2, 29)
	require.NoError(t, err)
	assert.Equal(t, "2024-02-29", d.String())

	for _, tc := range []struct{ y, m, d int }{
		{2024, 13, 1},
		{2024, 0, 1},
		{2023, 2, 29},
		{2024, 4, 31},
		{0, 1, 1},
		{10000, 1, 1},
	} {
		_, err := NewDate(tc.y, tc.m, tc.d)
		assert.ErrorIs(t, err, ErrInvalidDate, "%d-%d-%d", tc.y, tc.m, tc.d)
	}
}

func TestDateSub(t *testing.T) {
	jan1 := Date{2024, time.January, 1}
	dec1 := Date{2023, time.December, 1}

	assert.Equal(t, 31, jan1.Sub(dec1))
	assert.Equal(t, -31, dec1.Sub(jan1))
	assert.Equal(t, 0, jan1.Sub(jan1))

	// DST transitions must not shift the day count.
	mar1 := Date{2024, time.March, 1}
	apr1 := Date{2024, time.April, 1}
	assert.Equal(t, 31, apr1.Sub(mar1))

	// Far beyond what a time.Duration can hold.
	first := Date{1, time.January, 1}
	last := Date{9999, time.December, 31}
	assert.Equal(t, 3652058, last.Sub(first))
	assert.Equal(t, -3652058, first.Sub(last))
	assert.Equal(t, 2913173, last.Sub(jan1))
	assert.Equal(t, last, first.AddDays(3652058))
}

func TestDateAddDays(t *testing.T) {
	d := Date{2023, time.December, 31}
	assert.Equal(t, Date{2024, time.January, 1}, d.AddDays(1))
	assert.Equal(t, Date{2023, time.December, 1}, d.AddDays(-30))
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-01-01")
	require.NoError(t, err)
	assert.Equal(t, Date{2024, time.January, 1}, d)

	_, err = ParseDate("2024-13-01")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestToday(t *testing.T) {
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.Local)
	assert.Equal(t, Date{2024, time.January, 1}, Today(now))
}

func TestEntryHasTag(t *testing.T) {
	e := Entry{Description: "Buy milk ", Tags: []string{"errand", "home"}}
	assert.True(t, e.HasTag("home"))
	assert.False(t, e.HasTag("work"))
}

func TestEntryKey(t *testing.T) {
	a := Entry{Description: "Buy milk ", Source: "a.org"}
	b := Entry{Description: "Buy milk ", Source: "b.org"}
	d := Date{2024, time.January, 1}
	moved := a
	moved.Scheduled = &d
	moved.Line = 40

	assert.Equal(t, a.Key(), a.Key())
	assert.Equal(t, a.Key(), moved.Key())
	assert.NotEqual(t, a.Key(), b.Key())
	assert.Len(t, a.Key(), 36)

	dup := a
	dup.Line = 41
	dup.Occurrence = 1
	assert.NotEqual(t, a.Key(), dup.Key())
}
