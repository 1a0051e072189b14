package model

import (
	"strconv"

	"github.com/google/uuid"
)

var entryNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/harrisonrobin/orgtodo"))

// Entry represents a TODO headline pulled out of an org file.
type Entry struct {
	Description string
	Tags        []string
	Scheduled   *Date
	Source      string // path of the org file
	Line        int    // 1-based line of the TODO headline

	// Occurrence counts earlier entries in the same file with the same
	// description, so repeated headlines keep distinct keys.
	Occurrence int
}

// Key identifies the entry across runs. It depends on the file, the
// description and the occurrence, so a rescheduled or moved headline keeps
// its key.
func (e Entry) Key() string {
	name := e.Source + "\x00" + e.Description
	if e.Occurrence > 0 {
		name += "\x00" + strconv.Itoa(e.Occurrence)
	}
	return uuid.NewSHA1(entryNamespace, []byte(name)).String()
}

// HasTag reports whether the entry carries the given tag.
func (e Entry) HasTag(tag string) bool {
	for _, t := range e.Tags {
		if t == tag {
			return true
		}
	}
	return false
}
