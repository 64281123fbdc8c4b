package xmlloader

import (
	"encoding/xml"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/go-asterix/gobelix/descriptor"
)

// LoadCategory parses one category description XML file and registers it
// into lib. It is the single-file counterpart to LoadFromDir, mirroring the
// Core API's DescriptionLibrary::load_category (spec.md §6.4).
func LoadCategory(lib *descriptor.Library, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("xmlloader: %s: %w", path, err)
	}

	var xc xmlCategory
	if err := xml.Unmarshal(data, &xc); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidXML, path, err)
	}

	cd, err := convertCategory(&xc)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if err := lib.AddCategory(cd); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}

// LoadFromDir loads every *.xml file directly within dir (non-recursive,
// matching how the teacher bundles one file per category) into lib. It is
// the DescriptionLibrary::load_from_dir Core API entry point (spec.md §6.4).
func LoadFromDir(lib *descriptor.Library, dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("xmlloader: %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		if err := LoadCategory(lib, filepath.Join(dir, e.Name())); err != nil {
			return err
		}
	}
	return nil
}

// LoadFromFS is the fs.FS-based variant of LoadFromDir, used to load the
// category descriptions bundled into the binary via go:embed (descriptions
// package).
func LoadFromFS(lib *descriptor.Library, fsys fs.FS, dir string) error {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return fmt.Errorf("xmlloader: %s: %w", dir, err)
	}

	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".xml" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return fmt.Errorf("xmlloader: %s: %w", path, err)
		}

		var xc xmlCategory
		if err := xml.Unmarshal(data, &xc); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidXML, path, err)
		}
		cd, err := convertCategory(&xc)
		if err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
		if err := lib.AddCategory(cd); err != nil {
			return fmt.Errorf("%s: %w", path, err)
		}
	}
	return nil
}
