package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/planforge/dayplan/pkg/models"
)

// Board panel indices.
const (
	panelBoxes = iota
	panelFrogs
	panelCount
)

var (
	boardPanelStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(1, 2)

	boardActivePanelStyle = lipgloss.NewStyle().
				BorderStyle(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("62")).
				Padding(1, 2)

	boardHelpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type boardModel struct {
	date        string
	activePanel int
	width       int

	schedule *models.Schedule
	loading  bool
	err      error
}

// boardLoadedMsg carries the loaded plan back to the model.
type boardLoadedMsg struct {
	schedule *models.Schedule
	err      error
}

func newBoardModel(date string) boardModel {
	return boardModel{date: date, loading: true}
}

func loadBoard(date string) tea.Cmd {
	return func() tea.Msg {
		schedule, err := Store.Get(date)
		if err == nil && schedule == nil {
			err = fmt.Errorf("no plan stored for %s", date)
		}
		return boardLoadedMsg{schedule: schedule, err: err}
	}
}

func (m boardModel) Init() tea.Cmd {
	return loadBoard(m.date)
}

func (m boardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "tab":
			m.activePanel = (m.activePanel + 1) % panelCount
			return m, nil
		case "r":
			m.loading = true
			return m, loadBoard(m.date)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case boardLoadedMsg:
		m.loading = false
		m.schedule = msg.schedule
		m.err = msg.err
		return m, nil
	}
	return m, nil
}

func (m boardModel) View() string {
	var b strings.Builder
	b.WriteString(planTitleStyle.Render(fmt.Sprintf("dayplan board · %s", m.date)))
	b.WriteString("\n\n")

	switch {
	case m.loading:
		b.WriteString("loading…\n")
	case m.err != nil:
		b.WriteString(fmt.Sprintf("error: %v\n", m.err))
	default:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top,
			m.renderPanel(panelBoxes, m.boxesPanel()),
			m.renderPanel(panelFrogs, m.frogsPanel()),
		))
		b.WriteString("\n")
	}

	b.WriteString(boardHelpStyle.Render("tab: switch panel · r: refresh · q: quit"))
	return b.String()
}

func (m boardModel) renderPanel(idx int, content string) string {
	if idx == m.activePanel {
		return boardActivePanelStyle.Render(content)
	}
	return boardPanelStyle.Render(content)
}

func (m boardModel) boxesPanel() string {
	var b strings.Builder
	b.WriteString(storyHeaderStyle.Render("Time boxes"))
	b.WriteString("\n")
	clock := m.schedule.StartTime
	for _, block := range m.schedule.StoryBlocks {
		b.WriteString(fmt.Sprintf("%s\n", block.Title))
		for _, box := range block.TimeBoxes {
			b.WriteString(fmt.Sprintf("  %s %s\n", clock.Format("15:04"), renderBox(box)))
			clock = clock.Add(time.Duration(box.Duration) * time.Minute)
		}
	}
	return b.String()
}

func (m boardModel) frogsPanel() string {
	var b strings.Builder
	b.WriteString(storyHeaderStyle.Render("Frogs"))
	b.WriteString("\n")
	b.WriteString(fmt.Sprintf("total:         %d\n", m.schedule.Frogs.Total))
	b.WriteString(fmt.Sprintf("scheduled:     %d\n", m.schedule.Frogs.Scheduled))
	b.WriteString(fmt.Sprintf("within target: %d\n", m.schedule.Frogs.WithinTarget))
	b.WriteString(fmt.Sprintf("\ntotal plan:    %d min\n", m.schedule.TotalDuration))
	return b.String()
}

var boardCmd = &cobra.Command{
	Use:   "board [date]",
	Short: "Interactive board for a stored plan",
	Long:  "Open an interactive terminal board showing a stored plan's time boxes and frog metrics.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("schedule store not initialized")
		}

		date := models.DateKey(time.Now())
		if len(args) == 1 {
			date = args[0]
		}

		p := tea.NewProgram(newBoardModel(date))
		if _, err := p.Run(); err != nil {
			return fmt.Errorf("running board: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(boardCmd)
}
