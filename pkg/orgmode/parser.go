package orgmode

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/orgtodo/pkg/model"
)

// ErrNotScheduled is returned by ParseScheduled for lines that are not a SCHEDULED annotation.
var ErrNotScheduled = errors.New("not a SCHEDULED line")

// LineKind is the role a line plays in the scan.
type LineKind int

const (
	KindOther LineKind = iota
	KindMarker
	KindScheduled
)

func (k LineKind) String() string {
	switch k {
	case KindMarker:
		return "marker"
	case KindScheduled:
		return "scheduled"
	default:
		return "other"
	}
}

var (
	markerRegex    = regexp.MustCompile(`^\*\sTODO\s`)
	todoRegex      = regexp.MustCompile(`^\*\sTODO\s(?P<description>[A-Za-z0-9-]+\s(?:[A-Za-z0-9-]*\s)*)(?P<tags>(?::[\w-]+)*)`)
	scheduledRegex = regexp.MustCompile(`^SCHEDULED:\s<(?P<year>\d+)-(?P<month>\d+)-(?P<day>\d+)\s(?P<weekday>\w*)`)
)

// Classify reports whether line is a TODO headline, a SCHEDULED annotation or neither.
func Classify(line string) LineKind {
	switch {
	case markerRegex.MatchString(line):
		return KindMarker
	case scheduledRegex.MatchString(line):
		return KindScheduled
	default:
		return KindOther
	}
}

// ParseLine extracts the description and tags of a TODO headline.
// It returns false when the headline body does not fit the description grammar.
func ParseLine(line string) (model.Entry, bool) {
	// The description grammar consumes a trailing whitespace per word, so the
	// terminator is restored to let the last word match.
	m := todoRegex.FindStringSubmatch(line + "\n")
	if m == nil {
		return model.Entry{}, false
	}
	desc := strings.TrimSuffix(m[todoRegex.SubexpIndex("description")], "\n")
	tags := []string{}
	if raw := m[todoRegex.SubexpIndex("tags")]; raw != "" {
		tags = strings.Split(strings.TrimPrefix(raw, ":"), ":")
	}
	return model.Entry{Description: desc, Tags: tags}, true
}

// ParseScheduled parses a "SCHEDULED: <YYYY-MM-DD Day ...>" line.
func ParseScheduled(line string) (model.Date, error) {
	m := scheduledRegex.FindStringSubmatch(line)
	if m == nil {
		return model.Date{}, ErrNotScheduled
	}
	var parts [3]int
	for i, name := range []string{"year", "month", "day"} {
		n, err := strconv.Atoi(m[scheduledRegex.SubexpIndex(name)])
		if err != nil {
			return model.Date{}, fmt.Errorf("%w: %s %q", model.ErrInvalidDate, name, m[scheduledRegex.SubexpIndex(name)])
		}
		parts[i] = n
	}
	return model.NewDate(parts[0], parts[1], parts[2])
}

// NextScheduled looks at the line right after the marker at index k and
// returns its scheduled date, if it has one.
func NextScheduled(source string, lines []string, k int) (model.Date, bool) {
	if k+1 >= len(lines) {
		return model.Date{}, false
	}
	date, err := ParseScheduled(lines[k+1])
	if err != nil {
		if !errors.Is(err, ErrNotScheduled) {
			log.Warn("ignoring malformed scheduled date", "file", source, "line", k+2, "err", err)
		}
		return model.Date{}, false
	}
	return date, true
}

// Scan extracts the TODO entries of one file. Each entry takes its date only
// from the line directly below its own headline.
func Scan(source string, lines []string) []model.Entry {
	var entries []model.Entry
	seen := make(map[string]int)
	for k, line := range lines {
		if Classify(line) != KindMarker {
			continue
		}
		entry, ok := ParseLine(line)
		date, scheduled := NextScheduled(source, lines, k)
		if !ok {
			// The date belongs to this headline alone; it is dropped rather
			// than attached to the previous entry.
			log.Debug("skipping unparsable TODO headline", "file", source, "line", k+1, "scheduled", scheduled)
			continue
		}
		entry.Source = source
		entry.Line = k + 1
		entry.Occurrence = seen[entry.Description]
		seen[entry.Description]++
		if scheduled {
			entry.Scheduled = &date
		}
		log.Debug("found TODO", "file", source, "line", entry.Line, "text", entry.Description, "tags", entry.Tags)
		entries = append(entries, entry)
	}
	return entries
}

// Parse reads an org document and returns its TODO entries.
func Parse(r io.Reader, source string) ([]model.Entry, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", source, err)
	}
	return Scan(source, lines), nil
}

// FilterByTag keeps the entries carrying tag, in order.
func FilterByTag(entries []model.Entry, tag string) []model.Entry {
	var filtered []model.Entry
	for _, e := range entries {
		if e.HasTag(tag) {
			filtered = append(filtered, e)
		}
	}
	return filtered
}
