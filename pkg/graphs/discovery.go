package graphs

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Extension is the file extension of graph files in FMI text format
const Extension = ".fmi"

// DirLister lists the graph files stored under a local directory. Graph
// identifiers are paths relative to Dir, using forward slashes.
type DirLister struct {
	Dir string
}

// ListGraphs walks Dir and returns every *.fmi file in sorted order
func (l DirLister) ListGraphs(ctx context.Context) ([]string, error) {
	info, err := os.Stat(l.Dir)
	if err != nil {
		return nil, fmt.Errorf("failed to open graph directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("graph directory %s is not a directory", l.Dir)
	}

	var graphs []string
	err = filepath.WalkDir(l.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if d.IsDir() || !strings.EqualFold(filepath.Ext(d.Name()), Extension) {
			return nil
		}

		rel, err := filepath.Rel(l.Dir, path)
		if err != nil {
			return err
		}
		graphs = append(graphs, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan for graphs: %w", err)
	}

	sort.Strings(graphs)
	return graphs, nil
}
