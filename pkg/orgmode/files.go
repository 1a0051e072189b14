package orgmode

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/harrisonrobin/orgtodo/pkg/model"
)

// DefaultSuffix selects org files.
const DefaultSuffix = ".org"

const maxLineSize = 1024 * 1024

// ListFiles returns the files directly inside dir whose names end in suffix,
// sorted by name. Subdirectories are not descended into.
func ListFiles(dir, suffix string) ([]string, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var paths []string
	for _, e := range dirEntries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), suffix) {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	return paths, nil
}

func readLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// parseFile reads one org file and returns its TODO entries.
func parseFile(path string) ([]model.Entry, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	defer file.Close()
	return Parse(file, path)
}

// ParseFiles parses each file in order and concatenates the entries, file
// order first and line order second. ctx is checked between files.
func ParseFiles(ctx context.Context, paths []string) ([]model.Entry, error) {
	var all []model.Entry
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := parseFile(path)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}
