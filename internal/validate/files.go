package validate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"decisim-mcp/internal/document"
)

// FileResult pairs one document file with its validation outcome.
type FileResult struct {
	Path   string `json:"path"`
	Result Result `json:"result"`
}

// DirResult aggregates per-file results for one directory.
type DirResult struct {
	Valid   bool         `json:"valid"`
	Files   []FileResult `json:"files"`
	Checked int          `json:"checked"`
}

// ValidateFile parses and validates a single document file. A parse failure
// is reported as a structural-stage error in the result rather than a Go
// error, so callers get the same shape for broken YAML and broken documents.
func ValidateFile(path string) Result {
	doc, err := document.LoadFile(path)
	if err != nil {
		return Result{
			Valid:    false,
			Errors:   []string{fmt.Sprintf("parse: %v", err)},
			Warnings: []string{},
		}
	}
	return ValidateDocument(doc)
}

// ValidateDir validates every .yaml/.yml/.json document under dir,
// non-recursively, with a bounded number of files in flight. The aggregate
// is valid only when every file is.
func ValidateDir(ctx context.Context, dir string) (DirResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return DirResult{}, fmt.Errorf("read directory %s: %w", dir, err)
	}

	var (
		mu      sync.Mutex
		results []FileResult
	)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(8)

	for _, entry := range entries {
		if entry.IsDir() || !isDocumentFile(entry.Name()) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := ValidateFile(path)
			mu.Lock()
			results = append(results, FileResult{Path: path, Result: res})
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return DirResult{}, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	agg := DirResult{Valid: true, Files: results, Checked: len(results)}
	for _, fr := range results {
		if !fr.Result.Valid {
			agg.Valid = false
		}
	}
	return agg, nil
}

func isDocumentFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml", ".json":
		return true
	}
	return false
}
