package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/client"
)

func newDashboardCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show deadline counts and the agenda",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			ov, err := cc.Client.Dashboard().Overview(ctx)
			if err != nil {
				return err
			}
			return render(cmd, cc, ov, func(w io.Writer) { printOverview(w, ov) })
		},
	}
}

func newSummaryCmd() *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Show the AI summary of the week",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			s, err := cc.Client.Dashboard().Summary(ctx, refresh)
			if err != nil {
				return err
			}
			return render(cmd, cc, s, func(w io.Writer) {
				if !s.Available || s.Result == nil {
					fmt.Fprintln(w, "No summary available yet.")
					return
				}
				printResult(w, s.Result)
				fmt.Fprintf(w, "\n%s\n", color.New(color.Faint).Sprintf("generated %s", s.GeneratedAt.Format("2006-01-02 15:04")))
			})
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "regenerate instead of using the cached summary")
	return cmd
}

func printOverview(w io.Writer, ov *client.Overview) {
	fmt.Fprintf(w, "Today: %s   Active clients: %d\n\n", ov.Today, ov.ActiveClients)
	fmt.Fprintf(w, "%s %d   %s %d   %s %d\n\n",
		color.RedString("Overdue:"), ov.Counts.Overdue,
		color.YellowString("Upcoming:"), ov.Counts.Upcoming,
		color.CyanString("This week:"), ov.Counts.ThisWeek,
	)
	if len(ov.Agenda) == 0 {
		fmt.Fprintln(w, "Nothing on the agenda.")
		return
	}
	fmt.Fprint(w, FormatTable(
		[]string{"DUE", "DAYS", "PRIORITY", "STATUS", "CLIENT", "TITLE"},
		agendaRows(ov.Agenda),
	))
}

func agendaRows(items []client.AgendaItem) [][]string {
	rows := make([][]string, 0, len(items))
	for _, it := range items {
		days := fmt.Sprintf("%d", it.DaysUntil)
		if it.DaysUntil < 0 {
			days = color.RedString(days)
		}
		rows = append(rows, []string{
			it.DueDate.String(),
			days,
			colorPriority(it.Priority),
			it.StatusLabel,
			it.ClientName,
			it.Title,
		})
	}
	return rows
}

// printResult renders a normalized agent answer.
func printResult(w io.Writer, r *client.Result) {
	if r.Summary != "" {
		fmt.Fprintln(w, r.Summary)
	}
	if r.Details != "" {
		fmt.Fprintf(w, "\n%s\n", r.Details)
	}
	printList(w, color.YellowString("Action items:"), r.ActionItems)
	printList(w, color.RedString("Alerts:"), r.Alerts)
}

func printList(w io.Writer, title string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", title)
	for _, it := range items {
		fmt.Fprintf(w, "  - %s\n", it)
	}
}

func colorPriority(p string) string {
	switch strings.ToLower(p) {
	case "high":
		return color.RedString(p)
	case "medium":
		return color.YellowString(p)
	case "low":
		return color.GreenString(p)
	}
	return p
}

func colorStatus(s string) string {
	switch strings.ToLower(s) {
	case "complete", "active":
		return color.GreenString(s)
	case "in_progress":
		return color.CyanString(s)
	}
	return s
}

//Personal.AI order the ending
