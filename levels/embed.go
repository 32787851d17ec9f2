package levels

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

//go:embed *.yaml
var LevelsFS embed.FS

// Load reads a scene document by name. A file of that name on disk wins
// over the embedded copy; names without an extension get .yaml.
func Load(name string) ([]byte, error) {
	if name == "" {
		return nil, fmt.Errorf("levels: empty name")
	}
	if data, err := os.ReadFile(name); err == nil {
		return data, nil
	}
	clean := strings.TrimPrefix(filepath.ToSlash(name), "levels/")
	if filepath.Ext(clean) == "" {
		clean += ".yaml"
	}
	if data, err := os.ReadFile(filepath.Join("levels", filepath.FromSlash(clean))); err == nil {
		return data, nil
	}
	data, err := fs.ReadFile(LevelsFS, clean)
	if err != nil {
		return nil, fmt.Errorf("read level: %w", err)
	}
	return data, nil
}

func Names() []string {
	entries, err := fs.ReadDir(LevelsFS, ".")
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())))
	}
	sort.Strings(out)
	return out
}
