package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/pkg/repository/local"
	"github.com/clightning4j/reckless/pkg/storage"
)

var listCmd = &cobra.Command{
	Use:   "list [remote]",
	Short: "List the indexed plugins of one or all registered remotes",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store()
		if err != nil {
			return err
		}

		remotes, err := st.LoadRemotes()
		if err != nil {
			return err
		}

		selected := remotes.Remotes
		if len(args) > 0 {
			remote := remotes.Get(args[0])
			if remote == nil {
				return NewCLIError(
					fmt.Sprintf("remote %q is not registered", args[0]),
					"Run 'reckless add <name> <url>' to register it",
					nil,
				)
			}
			selected = []storage.Remote{*remote}
		}

		if len(selected) == 0 {
			fmt.Println("No remotes registered.")
			return nil
		}

		columns := []table.Column{
			{Title: "Remote", Width: 15},
			{Title: "Plugin", Width: 25},
			{Title: "Language", Width: 12},
			{Title: "Conf", Width: 5},
			{Title: "Path", Width: 45},
		}

		rows := []table.Row{}
		for _, remote := range selected {
			repo, err := local.New(remote.Name, remote.Path)
			if err != nil {
				return err
			}
			if err := repo.Init(cmd.Context()); err != nil {
				return MapError(err)
			}

			for _, p := range repo.List() {
				conf := ""
				if p.HasConf() {
					conf = "yes"
				}
				rows = append(rows, table.Row{remote.Name, p.Name, string(p.Lang), conf, p.Path})
			}
		}

		if len(rows) == 0 {
			fmt.Println("No plugins indexed.")
			return nil
		}

		t := table.New(
			table.WithColumns(columns),
			table.WithRows(rows),
			table.WithHeight(len(rows)+1),
		)

		s := table.DefaultStyles()
		s.Header = s.Header.
			BorderStyle(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Bold(true)
		s.Selected = lipgloss.NewStyle() // Disable selection style for static view
		t.SetStyles(s)

		fmt.Printf("Plugins (%d)\n", len(rows))
		fmt.Println(t.View())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(listCmd)
}
