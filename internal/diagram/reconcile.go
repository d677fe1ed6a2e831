package diagram

import (
	"path"
	"path/filepath"
	"strings"
)

// ReconcilePaths repairs node source-file references against the
// caller-supplied canonical file list. An exact match passes through
// unchanged; otherwise the first canonical path (in caller order) with
// the same trailing segment wins; with no match the original value is
// kept. Best effort, never fails.
func ReconcilePaths(g *Graph, canonical []string) {
	if g == nil || len(canonical) == 0 {
		return
	}
	for i := range g.Nodes {
		g.Nodes[i].Source.File = reconcileOne(g.Nodes[i].Source.File, canonical)
	}
}

func reconcileOne(file string, canonical []string) string {
	file = strings.TrimSpace(file)
	if file == "" {
		return file
	}
	for _, c := range canonical {
		if file == c {
			return file
		}
	}
	base := path.Base(filepath.ToSlash(file))
	for _, c := range canonical {
		if path.Base(filepath.ToSlash(c)) == base {
			return c
		}
	}
	return file
}
