package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/planforge/dayplan/pkg/models"
)

// Style definitions for plan rendering.
var (
	planTitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("62")).
			Padding(0, 1)

	storyHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("62"))

	workBoxStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	breakBoxStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("71"))
	debriefBoxStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	frogMarkStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	summaryStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Display the stored work plan for a date",
	Long: `Display the stored work plan for a date (default today), with its
time boxes, break pacing, and frog placement.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if Store == nil {
			return fmt.Errorf("schedule store not initialized")
		}

		date := models.DateKey(time.Now())
		if len(args) == 1 {
			date = args[0]
		}

		schedule, err := Store.Get(date)
		if err != nil {
			return err
		}
		if schedule == nil {
			return fmt.Errorf("no plan stored for %s (run 'dayplan plan' first)", date)
		}

		fmt.Println(renderSchedule(schedule))
		return nil
	},
}

// renderSchedule formats a schedule as a styled timeline.
func renderSchedule(schedule *models.Schedule) string {
	var b strings.Builder

	b.WriteString(planTitleStyle.Render(fmt.Sprintf("Work plan %s", schedule.Date)))
	b.WriteString("\n\n")

	clock := schedule.StartTime
	for _, block := range schedule.StoryBlocks {
		b.WriteString(storyHeaderStyle.Render(fmt.Sprintf("%s (%d min)", block.Title, block.TotalDuration)))
		b.WriteString("\n")

		for _, box := range block.TimeBoxes {
			b.WriteString(fmt.Sprintf("  %s  %s\n", clock.Format("15:04"), renderBox(box)))
			clock = clock.Add(time.Duration(box.Duration) * time.Minute)
		}
		b.WriteString("\n")
	}

	b.WriteString(summaryStyle.Render(fmt.Sprintf(
		"%d min total · frogs %d/%d scheduled, %d within the early target",
		schedule.TotalDuration, schedule.Frogs.Scheduled, schedule.Frogs.Total, schedule.Frogs.WithinTarget)))
	return b.String()
}

func renderBox(box models.TimeBox) string {
	switch box.Type {
	case models.BoxWork:
		label := fmt.Sprintf("%3d min  %s", box.Duration, boxTaskLine(box))
		return workBoxStyle.Render(label)
	case models.BoxDebrief:
		return debriefBoxStyle.Render(fmt.Sprintf("%3d min  debrief", box.Duration))
	default:
		return breakBoxStyle.Render(fmt.Sprintf("%3d min  %s", box.Duration, box.Type))
	}
}

func boxTaskLine(box models.TimeBox) string {
	var titles []string
	for _, task := range box.Tasks {
		title := task.Title
		if task.IsFrog {
			title = frogMarkStyle.Render("🐸 ") + title
		}
		titles = append(titles, title)
	}
	return strings.Join(titles, ", ")
}

func init() {
	rootCmd.AddCommand(showCmd)
}
