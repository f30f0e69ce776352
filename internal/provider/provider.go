// Package provider maps global region coordinates onto region files on
// disk, opening or creating them as needed. It is a thin factory: it
// does not cache handles (see internal/handlecache for that) and does
// not interpret file contents beyond the filename grammar.
package provider

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/nickheyer/anvilstore/internal/anvil"
)

// Provider resolves (region_x, region_z) coordinates to an opened
// region handle.
type Provider interface {
	GetRegion(regionX, regionZ int32) (*anvil.Region, error)
}

// FolderProvider is a directory-backed Provider. Region files are
// named "r.<x>.<z>.mca" — signed decimal, no zero-padding, no leading
// sign for non-negative values — matching Go's default %d formatting.
type FolderProvider struct {
	dir string
}

var filenamePattern = regexp.MustCompile(`^r\.(-?[0-9]+)\.(-?[0-9]+)\.mca$`)

// NewFolderProvider creates dir if it does not already exist.
func NewFolderProvider(dir string) (*FolderProvider, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("anvil: create region directory %s: %w", dir, err)
	}
	return &FolderProvider{dir: dir}, nil
}

func (p *FolderProvider) path(regionX, regionZ int32) string {
	return filepath.Join(p.dir, fmt.Sprintf("r.%d.%d.mca", regionX, regionZ))
}

// GetRegion opens the region file for (regionX, regionZ) read-write,
// creating it empty if it does not exist. The region façade extends it
// to header length on first write, per spec.
func (p *FolderProvider) GetRegion(regionX, regionZ int32) (*anvil.Region, error) {
	path := p.path(regionX, regionZ)

	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("anvil: open region file %s: %w", path, err)
	}

	r, err := anvil.Load(regionX, regionZ, anvil.NewFileSource(f))
	if err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

// ListRegions enumerates directory entries matching the region
// filename grammar. Unparseable entries are silently skipped.
func (p *FolderProvider) ListRegions() ([][2]int32, error) {
	entries, err := os.ReadDir(p.dir)
	if err != nil {
		return nil, fmt.Errorf("anvil: list region directory %s: %w", p.dir, err)
	}

	var out [][2]int32
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		m := filenamePattern.FindStringSubmatch(e.Name())
		if m == nil {
			continue
		}
		x, err := strconv.ParseInt(m[1], 10, 32)
		if err != nil {
			continue
		}
		z, err := strconv.ParseInt(m[2], 10, 32)
		if err != nil {
			continue
		}
		out = append(out, [2]int32{int32(x), int32(z)})
	}
	return out, nil
}
