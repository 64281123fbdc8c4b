// Package descriptions bundles the ASTERIX category description XML files
// shipped with this module (spec.md §6.4's "built-in descriptions"
// requirement) so a caller gets CAT021/048/062/063 support without pointing
// at an external directory.
package descriptions

import (
	"embed"
	"fmt"

	"github.com/go-asterix/gobelix/descriptor"
	"github.com/go-asterix/gobelix/xmlloader"
)

//go:embed *.xml
var files embed.FS

// Load registers every bundled category description into lib.
func Load(lib *descriptor.Library) error {
	if err := xmlloader.LoadFromFS(lib, files, "."); err != nil {
		return fmt.Errorf("descriptions: %w", err)
	}
	return nil
}

// NewLibrary builds and freezes a descriptor.Library from the bundled
// descriptions, the common case for callers that don't need to add their
// own category files alongside the built-in ones.
func NewLibrary() (*descriptor.Library, error) {
	lib := descriptor.NewLibrary()
	if err := Load(lib); err != nil {
		return nil, err
	}
	lib.Freeze()
	return lib, nil
}
