package index

import (
	"path/filepath"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
)

// Detection is the result of scanning one plugin directory: the derived
// name and path plus the inferred language.
type Detection struct {
	Name string
	Path string
	Lang plugin.Lang
}

// Detect scans the immediate files of a plugin directory against the marker
// table and infers the implementation language.
//
// The scan is a fold over the entries in enumeration order: every marker
// match overwrites the running result, so when a directory contains several
// marker files the last one in lexicographic order wins. This tie-break is
// deliberate and tested; detection is advisory, and no fixed priority list
// among co-existing markers is defined.
func Detect(dir string) (Detection, error) {
	entries, err := Walk(dir)
	if err != nil {
		return Detection{}, err
	}

	det := Detection{
		Name: filepath.Base(dir),
		Path: dir,
		Lang: plugin.LangUnknown,
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if lang, ok := plugin.MarkerLang(entry.Name()); ok {
			det.Lang = lang
		}
	}
	return det, nil
}
