package machine

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Load reads a machine definition from disk.
// Files ending in .cue are compiled with ParseCUE; anything else is read as
// the delimited text format.
func Load(path string) (*Machine, error) {
	if strings.EqualFold(filepath.Ext(path), ".cue") {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("load machine: %w", err)
		}
		return ParseCUE(src, path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load machine: %w", err)
	}
	defer f.Close()

	return Parse(f, path)
}
