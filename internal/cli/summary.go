package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/terraincognita07/myfit/internal/services"
)

var (
	styleTitle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	styleLabel = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	styleValue = lipgloss.NewStyle().Bold(true)
	styleMuted = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
	styleBox   = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(0, 1)
)

func newSummaryCommand(state *command) *cobra.Command {
	var email string
	var rangeRaw string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print the dashboard and daily totals for a user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			timeRange, err := services.ParseTimeRange(rangeRaw)
			if err != nil {
				return fmt.Errorf("unknown range %q (week, month, 3months)", rangeRaw)
			}

			rt, err := openRuntime(state.cfg, state.stderr)
			if err != nil {
				return err
			}
			defer func() {
				_ = rt.close()
			}()

			user, err := rt.deps.Auth.FindByEmail(email)
			if err != nil {
				return userLookupError(email, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), 2*state.cfg.Health.Timeout)
			defer cancel()
			now := time.Now()

			dashboard, err := rt.deps.Dashboard.Build(ctx, user.ID, now)
			if err != nil {
				return err
			}
			trend, err := rt.deps.Analytics.Trend(user.ID, timeRange, now)
			if err != nil {
				return err
			}
			return renderSummary(state.stdout, user.Email, dashboard, trend, rt.location)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&rangeRaw, "range", "week", "trend range: week, month, 3months")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func renderSummary(w io.Writer, email string, dashboard services.DashboardSummary, trend services.Trend, location *time.Location) error {
	var body strings.Builder
	body.WriteString(styleTitle.Render("MyFit - "+email) + "\n\n")
	body.WriteString(summaryLine("Streak", fmt.Sprintf("%d day(s)", dashboard.Streak)))

	latest := "none"
	if dashboard.Latest != nil && dashboard.Latest.Date != nil {
		latest = fmt.Sprintf("%s  %d kcal / %d g",
			dashboard.Latest.Date.In(location).Format("2006-01-02 15:04"),
			dashboard.Latest.Calories,
			dashboard.Latest.Protein)
	}
	body.WriteString(summaryLine("Latest", latest))
	body.WriteString(summaryLine("Active energy (7d)", healthValue(dashboard.Health.EnergyBurned, "kcal")))
	body.WriteString(summaryLine("Steps (7d)", healthValue(dashboard.Health.StepCount, "steps")))

	body.WriteString("\n" + styleTitle.Render(trend.Range.Label()) + "\n")
	if len(trend.Days) == 0 {
		body.WriteString(styleMuted.Render("no entries in range"))
	}
	for index, day := range trend.Days {
		if index > 0 {
			body.WriteString("\n")
		}
		body.WriteString(fmt.Sprintf("%s  %s kcal  %s g",
			styleLabel.Render(day.Day.Format("Mon 2006-01-02")),
			styleValue.Render(fmt.Sprintf("%6d", day.Calories)),
			styleValue.Render(fmt.Sprintf("%4d", day.Protein))))
	}

	_, err := fmt.Fprintln(w, styleBox.Render(body.String()))
	return err
}

func summaryLine(label string, value string) string {
	return fmt.Sprintf("%s %s\n", styleLabel.Render(fmt.Sprintf("%-20s", label+":")), styleValue.Render(value))
}

func healthValue(reading services.HealthReading, unit string) string {
	switch reading.Source {
	case services.HealthSourceLive:
		return fmt.Sprintf("%.0f %s", reading.Value, unit)
	case services.HealthSourceCached:
		return fmt.Sprintf("%.0f %s %s", reading.Value, unit, styleMuted.Render("(cached)"))
	default:
		return styleMuted.Render("unavailable")
	}
}
