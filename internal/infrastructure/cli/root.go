// Package cli wires the reckless commands: registering GitHub plugin
// repositories, indexing them, and querying the resulting plugin index.
package cli

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/pkg/storage"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

var (
	flagVerbose bool
	flagRoot    string
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "reckless",
	Version: Version,
	Short:   "A plugin repository manager for Core Lightning",
	Long: `Reckless discovers installable plugins inside source repositories.
It fetches a repository onto local disk, infers each plugin's
implementation language from marker files, attaches the optional
reckless.yaml configuration found alongside the sources, and lets you
query the resulting index by name.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := slog.LevelInfo
		if flagVerbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: level,
		})))
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() error {
	err := RootCmd.Execute()
	if err != nil {
		var cliErr *CLIError
		if errors.As(err, &cliErr) && cliErr.Hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", cliErr.Hint)
		}
	}
	return err
}

// store returns the filesystem store for the configured root directory.
func store() (*storage.FilesystemStore, error) {
	root := flagRoot
	if root == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("cannot resolve home directory: %w", err)
		}
		root = home
	}
	return storage.NewFilesystemStore(root), nil
}

func init() {
	RootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
	RootCmd.PersistentFlags().StringVar(&flagRoot, "root", "", "state directory root (defaults to the home directory)")
}
