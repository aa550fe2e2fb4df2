package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/internal/infrastructure/watch"
	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/repository/local"
)

var flagWatchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <remote>",
	Short: "Watch a remote's local tree and re-index on changes",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store()
		if err != nil {
			return err
		}

		remotes, err := st.LoadRemotes()
		if err != nil {
			return err
		}
		remote := remotes.Get(args[0])
		if remote == nil {
			return NewCLIError(
				fmt.Sprintf("remote %q is not registered", args[0]),
				"Run 'reckless add <name> <url>' to register it",
				nil,
			)
		}

		repo, err := local.New(remote.Name, remote.Path)
		if err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		if err := repo.Init(ctx); err != nil {
			return MapError(err)
		}
		fmt.Printf("Watching %s (%d plugins indexed)\n", remote.Path, len(repo.List()))

		reindexer, err := watch.NewReindexer(repo, flagWatchDebounce, func(plugins []plugin.Plugin, err error) {
			if err != nil {
				fmt.Printf("re-index failed: %v\n", MapError(err))
				return
			}
			fmt.Printf("re-indexed: %d plugins\n", len(plugins))
		}, slog.Default())
		if err != nil {
			return err
		}

		if err := reindexer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	watchCmd.Flags().DurationVar(&flagWatchDebounce, "debounce", 500*time.Millisecond, "quiet window before re-indexing")
	RootCmd.AddCommand(watchCmd)
}
