// Command spritesheet packs a directory of images into a single sprite sheet
// and can cut a sheet back into its sprites.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "0.1.0"

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "spritesheet",
		Short:        "Pack images into a sprite sheet",
		Version:      version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(withLogger(ctx, newLogger(cmd.ErrOrStderr(), level)))
		},
	}
	root.SetVersionTemplate(fmt.Sprintf("spritesheet %s\n", version))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(newPackCmd())
	root.AddCommand(newUnpackCmd())
	return root
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}
