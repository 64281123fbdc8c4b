// cmd/common.go
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/go-asterix/gobelix/descriptions"
	"github.com/go-asterix/gobelix/descriptor"
	"github.com/go-asterix/gobelix/xmlloader"
)

// ConfigureLogger sets up a structured logger with appropriate options
func ConfigureLogger(verbose bool, jsonFormat bool) *slog.Logger {
	var handler slog.Handler

	opts := &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}

	if verbose {
		opts.Level = slog.LevelDebug
	}

	if jsonFormat {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	logger := slog.New(handler)

	// Set as default logger
	slog.SetDefault(logger)

	return logger
}

// buildLibrary assembles the frozen descriptor.Library idefix decodes
// against: the bundled descriptions, plus any extra directories named by
// --descriptions.
func buildLibrary(extraDirs []string) (*descriptor.Library, error) {
	lib := descriptor.NewLibrary()
	if err := descriptions.Load(lib); err != nil {
		return nil, fmt.Errorf("loading bundled descriptions: %w", err)
	}
	for _, dir := range extraDirs {
		if err := xmlloader.LoadFromDir(lib, dir); err != nil {
			return nil, fmt.Errorf("loading descriptions from %s: %w", dir, err)
		}
	}
	lib.Freeze()
	return lib, nil
}
