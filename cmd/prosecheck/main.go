// Command prosecheck checks prose for spelling, grammar, and style errors
// with byte-exact offsets into the original text.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/avandersen/prosecheck/internal/storage"
)

// Build metadata, set via -ldflags
var (
	version   = "dev"
	buildTime = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "prosecheck",
		Short: "Prose checking with byte-exact error offsets",
		Long: `prosecheck segments prose into sentence chunks, masks named entities,
sends the chunks to correction providers, and maps every finding back to
byte-exact offsets in the original text.

Configuration is read from the YAML file named by PROSECHECK_CONFIG,
then overridden by PROSECHECK_* environment variables.`,
		Version: fmt.Sprintf("%s (built %s, %s, driver %s)",
			version, buildTime, storage.BuildMode, storage.DriverName),
	}

	rootCmd.AddCommand(
		newServeCmd(),
		newMCPCmd(),
		newCheckCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
