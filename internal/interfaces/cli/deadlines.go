package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/client"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/errors"
	"github.com/turtacn/ConsultTrack-Intelligence/pkg/types/common"
)

func newDeadlinesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "deadlines",
		Aliases: []string{"dl"},
		Short:   "List and update deadlines",
	}
	cmd.AddCommand(
		newDeadlinesListCmd(),
		newDeadlinesAddCmd(),
		newDeadlinesCycleCmd(),
		newDeadlinesCompleteCmd(),
		newDeadlinesDeleteCmd(),
	)
	return cmd
}

func newDeadlinesListCmd() *cobra.Command {
	var opts client.ListDeadlinesOptions
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List deadlines",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			items, err := cc.Client.Deadlines().List(ctx, opts)
			if err != nil {
				return err
			}
			return render(cmd, cc, items, func(w io.Writer) { printDeadlines(w, items) })
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.ClientID, "client", "", "only deadlines of this client id")
	f.StringVar(&opts.Priority, "priority", "", "filter by priority (high, medium, low)")
	f.StringVar(&opts.Status, "status", "", "filter by status (todo, in_progress, complete)")
	f.StringVar(&opts.Sort, "sort", "", "sort key (dueDate, priority, title)")
	f.StringVar(&opts.Order, "order", "", "asc or desc")
	return cmd
}

func newDeadlinesAddCmd() *cobra.Command {
	var (
		req client.CreateDeadlineRequest
		due string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Create a deadline; omitted fields take the server defaults",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			if len(args) == 1 {
				req.Title = args[0]
			}
			if due != "" {
				d, err := common.ParseDate(due)
				if err != nil {
					return errors.New(errors.ErrCodeBadRequest, "due must be YYYY-MM-DD").WithDetail(due)
				}
				req.DueDate = &d
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			d, err := cc.Client.Deadlines().Create(ctx, req)
			if err != nil {
				return err
			}
			return render(cmd, cc, d, func(w io.Writer) {
				PrintSuccess(w, fmt.Sprintf("created %s %q due %s", d.ID, d.Title, d.DueDate))
			})
		},
	}
	f := cmd.Flags()
	f.StringVar(&req.ClientID, "client", "", "client id")
	f.StringVar(&due, "due", "", "due date (YYYY-MM-DD)")
	f.StringVar(&req.Priority, "priority", "", "high, medium or low")
	f.StringVar(&req.Description, "description", "", "free text")
	return cmd
}

func newDeadlinesCycleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cycle <id>",
		Short: "Advance a deadline to its next status",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			d, err := cc.Client.Deadlines().Cycle(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd, cc, d, func(w io.Writer) {
				PrintSuccess(w, fmt.Sprintf("%s is now %s", d.ID, colorStatus(d.Status)))
			})
		},
	}
}

func newDeadlinesCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "complete <id>...",
		Short: "Mark deadlines complete",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			n, err := cc.Client.Deadlines().Complete(ctx, args)
			if err != nil {
				return err
			}
			out := struct {
				Completed int `json:"completed"`
			}{n}
			return render(cmd, cc, out, func(w io.Writer) {
				PrintSuccess(w, fmt.Sprintf("completed %d of %d", n, len(args)))
			})
		},
	}
}

func newDeadlinesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a deadline",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			if err := cc.Client.Deadlines().Delete(ctx, args[0]); err != nil {
				return err
			}
			out := map[string]string{"deleted": args[0]}
			return render(cmd, cc, out, func(w io.Writer) {
				PrintSuccess(w, "deleted "+args[0])
			})
		},
	}
}

func printDeadlines(w io.Writer, items []client.Deadline) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No deadlines.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, d := range items {
		rows = append(rows, []string{d.ID, d.DueDate.String(), colorPriority(d.Priority), colorStatus(d.Status), d.ClientID, d.Title})
	}
	fmt.Fprint(w, FormatTable([]string{"ID", "DUE", "PRIORITY", "STATUS", "CLIENT", "TITLE"}, rows))
}

//Personal.AI order the ending
