package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/pkg/repository/local"
)

var (
	showLabelStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	showValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

var showCmd = &cobra.Command{
	Use:   "show <remote> <plugin>",
	Short: "Show details of one indexed plugin",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		remoteName, pluginName := args[0], args[1]

		st, err := store()
		if err != nil {
			return err
		}

		remotes, err := st.LoadRemotes()
		if err != nil {
			return err
		}
		remote := remotes.Get(remoteName)
		if remote == nil {
			return NewCLIError(
				fmt.Sprintf("remote %q is not registered", remoteName),
				"Run 'reckless add <name> <url>' to register it",
				nil,
			)
		}

		repo, err := local.New(remote.Name, remote.Path)
		if err != nil {
			return err
		}
		if err := repo.Init(cmd.Context()); err != nil {
			return MapError(err)
		}

		p, err := repo.GetPluginByName(pluginName)
		if err != nil {
			return MapError(err)
		}

		field := func(label, value string) {
			fmt.Printf("%s %s\n", showLabelStyle.Render(label+":"), showValueStyle.Render(value))
		}

		field("Name", p.Name)
		field("Language", string(p.Lang))
		field("Path", p.Path)
		field("Remote", remote.Name)
		if p.HasConf() {
			field("Configured name", p.Conf.Plugin.Name)
			field("Declared language", p.Conf.Plugin.Lang)
			if len(p.Conf.Plugin.Deps) > 0 {
				field("Dependencies", strings.Join(p.Conf.Plugin.Deps, ", "))
			}
			if p.Conf.Plugin.Install != "" {
				field("Install", p.Conf.Plugin.Install)
			}
		} else {
			field("Configuration", "none")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)
}
