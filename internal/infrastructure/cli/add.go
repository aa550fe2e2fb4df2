package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/pkg/repository/github"
	"github.com/clightning4j/reckless/pkg/storage"
)

var flagAddToken string

var addCmd = &cobra.Command{
	Use:   "add <name> <url>",
	Short: "Register a GitHub plugin repository and index its plugins",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, url := args[0], args[1]

		st, err := store()
		if err != nil {
			return err
		}
		if err := st.Initialize(); err != nil {
			return err
		}

		remotes, err := st.LoadRemotes()
		if err != nil {
			return err
		}
		if remotes.Get(name) != nil {
			return NewCLIError(
				fmt.Sprintf("remote %q already registered", name),
				"Pick another name or run 'reckless remove' first",
				nil,
			)
		}

		token := flagAddToken
		if token == "" {
			token = os.Getenv("GITHUB_TOKEN")
		}

		path := st.RepoPath(name)
		repo, err := github.New(name, url, path, github.WithToken(token))
		if err != nil {
			return err
		}
		if err := repo.Init(cmd.Context()); err != nil {
			return MapError(err)
		}

		if err := st.AddRemote(storage.Remote{Name: name, URL: url, Path: path}); err != nil {
			return err
		}

		plugins := repo.List()
		fmt.Printf("Indexed %d plugins from %s\n", len(plugins), url)
		for _, p := range plugins {
			fmt.Printf("- %s (%s)\n", p.Name, p.Lang)
		}
		return nil
	},
}

func init() {
	addCmd.Flags().StringVar(&flagAddToken, "token", "", "GitHub API token (defaults to GITHUB_TOKEN)")
	RootCmd.AddCommand(addCmd)
}
