// cmd/root.go
package cmd

import (
	"github.com/spf13/cobra"
)

// Global flags
var (
	Verbose        bool
	JsonLogs       bool
	ConfigFile     string
	DescriptionDir []string
)

var rootCmd = &cobra.Command{
	Use:   "idefix",
	Short: "ASTERIX message decoder and analyzer",
	Long: `
 ______        __             ______   __
/      |      /  |           /      \ /  |
$$$$$$/   ____$$ |  ______  /$$$$$$  |$$/  __    __
  $$ |   /    $$ | /      \ $$ |_ $$/ /  |/  \  /  |
  $$ |  /$$$$$$$ |/$$$$$$  |$$   |    $$ |$$  \/$$/
  $$ |  $$ |  $$ |$$    $$ |$$$$/     $$ | $$  $$<
 _$$ |_ $$ \__$$ |$$$$$$$$/ $$ |      $$ | /$$$$  \
/ $$   |$$    $$ |$$       |$$ |      $$ |/$$/ $$  |
$$$$$$/  $$$$$$$/  $$$$$$$/ $$/       $$/ $$/   $$/

Idefix decodes ASTERIX surveillance data from a file, stdin, or a TCP/UDP
socket, against a description-driven model of a category's User
Application Profile, and renders it as line, text, JSON, or XML output.
`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&Verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&JsonLogs, "json", false, "Log in JSON format")
	rootCmd.PersistentFlags().StringVar(&ConfigFile, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().StringSliceVar(&DescriptionDir, "descriptions", nil, "Additional directories of category description XML to load, beyond the bundled set")

	// Version flag
	rootCmd.Flags().BoolP("version", "V", false, "Print version information")
	rootCmd.SetVersionTemplate("Idefix v{{.Version}} - ASTERIX decoder companion\n")
	rootCmd.Version = "1.0.0"
}
