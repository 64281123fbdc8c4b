// cmd/list.go
package cmd

import (
	"sort"

	"github.com/spf13/cobra"
)

func init() {
	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List loaded ASTERIX category descriptions",
		Long: `Display the categories available to decode: the bundled description set
plus anything loaded via --descriptions.`,
		RunE: runList,
	}

	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	logger := ConfigureLogger(Verbose, JsonLogs)

	lib, err := buildLibrary(DescriptionDir)
	if err != nil {
		return err
	}

	cats := lib.Categories()
	sort.Slice(cats, func(i, j int) bool { return cats[i] < cats[j] })

	for _, cat := range cats {
		cd, ok := lib.Lookup(cat)
		if !ok {
			continue
		}
		logger.Info("category",
			"id", cd.ID.String(),
			"name", cd.Name,
			"version", cd.Version,
			"items", len(cd.Items),
			"mandatory", cd.Mandatory,
		)
	}
	return nil
}
