package inventory

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/barchart/dockerup/internal/logging"
)

// loadConfDir reads every *.json file in dir, lexicographically by
// filename, merging each into a single document. A missing directory
// is an error for the caller to log and treat as an empty inventory.
// A malformed individual file is skipped with a warning, not fatal.
func loadConfDir(dir string, log *logging.Logger) (document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return document{}, err
	}

	var names []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".json" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	var merged document
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			log.Warn("inventory: skipping unreadable spec file", "file", path, "error", err)
			continue
		}
		doc, err := parseDocument(data)
		if err != nil {
			log.Warn("inventory: skipping malformed spec file", "file", path, "error", err)
			continue
		}
		merged.merge(doc)
	}
	return merged, nil
}
