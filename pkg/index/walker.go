// Package index implements the plugin indexing pipeline: depth-one
// directory enumeration, marker-based language detection, configuration
// discovery, and assembly of the plugin collection.
package index

import (
	"os"
	"strings"

	"github.com/clightning4j/reckless/pkg/domain/repository"
)

// Walk returns the immediate child entries of root, excluding hidden
// entries (name starting with a dot). Entries come back in lexicographic
// filename order, which pins the enumeration order all downstream
// tie-breaks depend on. An unreadable root aborts the indexing pass.
func Walk(root string) ([]os.DirEntry, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, &repository.FilesystemError{Path: root, Err: err}
	}

	visible := make([]os.DirEntry, 0, len(entries))
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		visible = append(visible, entry)
	}
	return visible, nil
}
