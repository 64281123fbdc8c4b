// cmd/validate.go
package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/go-asterix/gobelix/descriptions"
	"github.com/go-asterix/gobelix/descriptor"
	"github.com/go-asterix/gobelix/xmlloader"
)

var validateDirs []string

func init() {
	validateCmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate category description XML files without decoding data",
		Long: `Validate loads the bundled descriptions plus any directories given by
--dir, freezes the resulting library, and reports per-category load errors.
Use it to check a new or edited description file before pointing decode at
it with --descriptions.`,
		RunE: runValidate,
	}

	validateCmd.Flags().StringSliceVar(&validateDirs, "dir", nil, "Directories of category description XML to validate, in addition to the bundled set")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JsonLogs)

	lib := descriptor.NewLibrary()
	loadErrs := 0

	if err := descriptions.Load(lib); err != nil {
		logger.Error("bundled descriptions failed to load", "error", err)
		loadErrs++
	}

	for _, dir := range validateDirs {
		if err := xmlloader.LoadFromDir(lib, dir); err != nil {
			logger.Error("directory failed to load", "dir", dir, "error", err)
			loadErrs++
			continue
		}
		logger.Info("directory loaded", "dir", dir)
	}

	lib.Freeze()

	cats := lib.Categories()
	for _, cat := range cats {
		cd, ok := lib.Lookup(cat)
		if !ok {
			continue
		}
		if cd.UAP == nil || len(cd.UAP.Slots) == 0 {
			logger.Error("category has no usable UAP", "category", cd.ID.String())
			loadErrs++
			continue
		}
		logger.Info("category ok",
			"id", cd.ID.String(),
			"name", cd.Name,
			"version", cd.Version,
			"items", len(cd.Items),
			"slots", len(cd.UAP.Slots),
		)
	}

	if loadErrs > 0 {
		return fmt.Errorf("validate: %d problem(s) found across %d categories", loadErrs, len(cats))
	}
	logger.Info("validate: all categories loaded cleanly", "categories", len(cats))
	return nil
}
