package cli

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/clightning4j/reckless/pkg/domain/plugin"
	"github.com/clightning4j/reckless/pkg/repository/local"
)

var (
	browseTitleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	browseDetailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

type browseModel struct {
	table   table.Model
	plugins []plugin.Plugin
}

func newBrowseModel(plugins []plugin.Plugin) browseModel {
	columns := []table.Column{
		{Title: "Plugin", Width: 25},
		{Title: "Language", Width: 12},
		{Title: "Conf", Width: 5},
	}

	rows := make([]table.Row, 0, len(plugins))
	for _, p := range plugins {
		conf := ""
		if p.HasConf() {
			conf = "yes"
		}
		rows = append(rows, table.Row{p.Name, string(p.Lang), conf})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(min(len(rows)+1, 15)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Bold(true)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57"))
	t.SetStyles(s)

	return browseModel{table: t, plugins: plugins}
}

func (m browseModel) Init() tea.Cmd {
	return nil
}

func (m browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m browseModel) View() string {
	detail := ""
	if cursor := m.table.Cursor(); cursor >= 0 && cursor < len(m.plugins) {
		detail = browseDetailStyle.Render(m.plugins[cursor].Path)
	}
	return browseTitleStyle.Render("Plugins") + "\n" +
		m.table.View() + "\n" +
		detail + "\n" +
		browseDetailStyle.Render("q: quit") + "\n"
}

var browseCmd = &cobra.Command{
	Use:   "browse <remote>",
	Short: "Browse the indexed plugins of a remote interactively",
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
		if err := repo.Init(cmd.Context()); err != nil {
			return MapError(err)
		}

		plugins := repo.List()
		if len(plugins) == 0 {
			fmt.Println("No plugins indexed.")
			return nil
		}

		_, err = tea.NewProgram(newBrowseModel(plugins)).Run()
		return err
	},
}

func init() {
	RootCmd.AddCommand(browseCmd)
}
