package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/wesleyorama2/k6probe/internal/probe"
)

func newScriptCmd(a *app) *cobra.Command {
	var writePath string

	cmd := &cobra.Command{
		Use:   "script",
		Short: "Print or install the bundled probe script",
		Long: `Print the bundled k6 probe script, or write it to a file with --write.

Install it as scripts/probe.js next to the k6probe binary to have it picked
up without --script.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			script := probe.EmbeddedScript()
			if writePath == "" {
				_, err := a.stdout.Write(script)
				return err
			}

			if dir := filepath.Dir(writePath); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("failed to create %s: %w", dir, err)
				}
			}
			if err := os.WriteFile(writePath, script, 0o644); err != nil {
				return fmt.Errorf("failed to write probe script: %w", err)
			}
			fmt.Fprintf(a.stdout, "Wrote probe script to %s\n", writePath)
			return nil
		},
	}

	cmd.Flags().StringVar(&writePath, "write", "", "Write the script to this path")

	return cmd
}

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the k6probe version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "k6probe version %s\n", version)
		},
	}
}
