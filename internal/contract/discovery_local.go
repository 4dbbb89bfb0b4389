package contract

import (
	"fmt"
	"os"
	"sort"
)

// LocalDiscovery implements the Discovery interface on the local filesystem.
type LocalDiscovery struct{}

var _ Discovery = &LocalDiscovery{} // Compile-time check

// NewLocalDiscovery creates a new instance of the local discovery.
func NewLocalDiscovery() *LocalDiscovery {
	return &LocalDiscovery{}
}

// ListSubdirectories implements the Discovery interface.
func (d *LocalDiscovery) ListSubdirectories(root string) ([]string, error) {
	return d.list(root, true)
}

// ListFiles implements the Discovery interface.
func (d *LocalDiscovery) ListFiles(dir string) ([]string, error) {
	return d.list(dir, false)
}

// ReadFile implements the Discovery interface.
func (d *LocalDiscovery) ReadFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}

func (d *LocalDiscovery) list(dir string, dirs bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", dir, err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() == dirs && (dirs || e.Type().IsRegular()) {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
