package ingest

import (
	"context"
	"fmt"
	"os"

	"git.sr.ht/~whereswaldon/benchplot/backend"
	"golang.org/x/perf/benchfmt"
)

// Follow reads benchmark output from a file that is still being written. Each
// time new results arrive, update is called with the summary of everything read
// so far. Only complete lines are parsed. Follow returns when ctx is done, when
// update fails or when the file can no longer be read.
func Follow(ctx context.Context, path string, update func([]*backend.Series) error) error {
	// Watch before the first read so that no write goes unnoticed.
	watcher, err := backend.NewWatcher(path)
	if err != nil {
		return err
	}
	defer watcher.Close()
	changes := watcher.Changes(ctx)

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	lines := backend.NewLineReader(f)
	reader := benchfmt.NewReader(lines, path)
	c := NewCollector()
	for {
		n, err := c.Read(reader)
		if err != nil {
			return fmt.Errorf("failed reading %s: %w", path, err)
		}
		if n > 0 {
			if err := update(c.Series()); err != nil {
				return err
			}
		}
		select {
		case <-ctx.Done():
			return nil
		case _, ok := <-changes:
			if !ok {
				return nil
			}
		}
		// The reader stops at the first EOF. Lines appended since then are
		// picked up by a fresh scan over the same file offset.
		reader.Reset(lines, path)
	}
}
