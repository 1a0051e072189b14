// Package colors hands out Google Calendar event colors per org tag.
package colors

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
)

// Untagged is the color of entries without tags (graphite).
const Untagged = "8"

// Google Calendar event color IDs run from 1 to 11.
const paletteSize = 11

const cacheFile = "tag_colors.json"

type TagState struct {
	ColorID      string    `json:"color_id"`
	LastModified time.Time `json:"last_modified"`
}

type ColorCache struct {
	Path  string
	Tags  map[string]*TagState `json:"tags"`
	dirty bool
	now   func() time.Time
}

// DefaultPath returns ~/.config/orgtodo/tag_colors.json.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "orgtodo", cacheFile), nil
}

func NewColorCache(path string) (*ColorCache, error) {
	cache := &ColorCache{
		Path: path,
		Tags: make(map[string]*TagState),
		now:  time.Now,
	}

	if _, err := os.Stat(path); err == nil {
		if err := cache.Load(); err != nil {
			return nil, err
		}
	}
	return cache, nil
}

func (c *ColorCache) Load() error {
	f, err := os.Open(c.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(&c.Tags)
}

func (c *ColorCache) Save() error {
	if !c.dirty {
		return nil
	}
	dir := filepath.Dir(c.Path)
	if err := os.MkdirAll(dir, 0700); err != nil {
		log.Error("creating color cache directory", "dir", dir, "err", err)
		return err
	}

	f, err := os.Create(c.Path)
	if err != nil {
		log.Error("creating color cache file", "path", c.Path, "err", err)
		return err
	}
	defer f.Close()
	err = json.NewEncoder(f).Encode(c.Tags)
	if err == nil {
		c.dirty = false
	}
	return err
}

// ColorFor returns the color of the first tag, or Untagged.
func (c *ColorCache) ColorFor(tags []string) string {
	if len(tags) == 0 {
		return Untagged
	}
	return c.GetColorID(tags[0])
}

// GetColorID returns the color assigned to tag, assigning one if needed.
// When every color is taken, the least recently used tag gives up its color.
func (c *ColorCache) GetColorID(tag string) string {
	if tag == "" {
		return Untagged
	}

	if state, exists := c.Tags[tag]; exists {
		state.LastModified = c.now()
		c.dirty = true
		return state.ColorID
	}
	return c.assignColor(tag)
}

func (c *ColorCache) assignColor(tag string) string {
	used := make(map[string]bool)
	for _, s := range c.Tags {
		used[s.ColorID] = true
	}

	for i := 1; i <= paletteSize; i++ {
		id := strconv.Itoa(i)
		if !used[id] {
			c.claim(tag, id)
			return id
		}
	}

	var oldestTag string
	var oldestTime time.Time
	for t, s := range c.Tags {
		if oldestTag == "" || s.LastModified.Before(oldestTime) {
			oldestTime = s.LastModified
			oldestTag = t
		}
	}

	recycled := c.Tags[oldestTag].ColorID
	delete(c.Tags, oldestTag)
	c.claim(tag, recycled)
	return recycled
}

func (c *ColorCache) claim(tag, id string) {
	c.Tags[tag] = &TagState{ColorID: id, LastModified: c.now()}
	c.dirty = true
}
