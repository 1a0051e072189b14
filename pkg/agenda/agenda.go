// Package agenda runs the org TODO pipeline: scan every file, keep the
// entries due within the horizon and write them out as a checklist.
package agenda

import (
	"context"
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/harrisonrobin/orgtodo/pkg/checklist"
	"github.com/harrisonrobin/orgtodo/pkg/model"
	"github.com/harrisonrobin/orgtodo/pkg/orgmode"
	"github.com/harrisonrobin/orgtodo/pkg/overdue"
)

// Options configures a single run.
type Options struct {
	Source   string // directory holding the org files
	Suffix   string
	PostDays int
	Output   string // checklist path; empty skips writing
	Tag      string // when set, only entries carrying this tag are kept
	Clock    overdue.Clock
	Today    *model.Date // overrides Clock
}

// Result summarizes a run.
type Result struct {
	Files     int
	Found     int
	Retained  []model.Entry
	Checklist string
	Today     model.Date
}

// Collect scans the files of dir in name order and returns their entries,
// file order first and line order second.
func Collect(ctx context.Context, dir, suffix string) ([]model.Entry, int, error) {
	if suffix == "" {
		suffix = orgmode.DefaultSuffix
	}
	paths, err := orgmode.ListFiles(dir, suffix)
	if err != nil {
		return nil, 0, fmt.Errorf("listing %s: %w", dir, err)
	}

	entries, err := orgmode.ParseFiles(ctx, paths)
	if err != nil {
		return nil, 0, err
	}
	return entries, len(paths), nil
}

// Run executes the whole pipeline once.
func Run(ctx context.Context, opts Options) (*Result, error) {
	entries, files, err := Collect(ctx, opts.Source, opts.Suffix)
	if err != nil {
		return nil, err
	}

	var (
		retained []model.Entry
		today    model.Date
	)
	if opts.Today != nil {
		today = *opts.Today
		retained = overdue.Retain(entries, today, opts.PostDays)
	} else {
		retained, today = overdue.RetainAt(entries, opts.Clock, opts.PostDays)
	}
	if opts.Tag != "" {
		retained = orgmode.FilterByTag(retained, opts.Tag)
	}

	res := &Result{
		Files:     files,
		Found:     len(entries),
		Retained:  retained,
		Checklist: checklist.Render(retained),
		Today:     today,
	}

	if opts.Output != "" {
		if err := checklist.WriteFile(opts.Output, res.Checklist); err != nil {
			return nil, err
		}
	}

	log.Info("agenda updated",
		"files", res.Files,
		"found", res.Found,
		"retained", len(res.Retained),
		"today", today,
		"postdays", opts.PostDays,
		"output", opts.Output)
	return res, nil
}
