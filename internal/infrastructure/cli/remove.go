package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var removeCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Unregister a remote and delete its fetched contents",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name := args[0]

		st, err := store()
		if err != nil {
			return err
		}

		remotes, err := st.LoadRemotes()
		if err != nil {
			return err
		}
		remote := remotes.Get(name)
		if remote == nil {
			return NewCLIError(
				fmt.Sprintf("remote %q is not registered", name),
				"Run 'reckless list' to see registered remotes",
				nil,
			)
		}

		if _, err := st.RemoveRemote(name); err != nil {
			return err
		}
		if err := os.RemoveAll(remote.Path); err != nil {
			return fmt.Errorf("failed to remove %s: %w", remote.Path, err)
		}

		fmt.Printf("Removed remote %q\n", name)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(removeCmd)
}
