// Package corpus defines the document collection the index is built from
// and its loaders. A Corpus is immutable once loaded; the build phase
// iterates it in sorted document-ID order so index construction is
// deterministic.
package corpus

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Corpus maps document identifiers to raw document text.
type Corpus map[string]string

// DocIDs returns all document identifiers in sorted order. This is the
// stable iteration order used by the index builder.
func (c Corpus) DocIDs() []string {
	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Universe returns the set of all document IDs, used by the boolean
// evaluator to resolve NOT against the whole collection.
func (c Corpus) Universe() map[string]struct{} {
	u := make(map[string]struct{}, len(c))
	for id := range c {
		u[id] = struct{}{}
	}
	return u
}

// LoadDir reads every .txt file directly under dir into a Corpus. The file
// name without extension becomes the document ID. Files are read
// concurrently with a bounded worker count.
func LoadDir(dir string) (Corpus, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading corpus directory %s: %w", dir, err)
	}

	docs := make(Corpus)
	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".txt") {
			continue
		}
		name := entry.Name()
		g.Go(func() error {
			data, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				return fmt.Errorf("reading document %s: %w", name, err)
			}
			docID := strings.TrimSuffix(name, filepath.Ext(name))
			mu.Lock()
			docs[docID] = string(data)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return docs, nil
}
