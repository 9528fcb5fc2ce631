package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/client"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat <message>",
		Short: "Ask the assistant about your clients and deadlines",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			turn, err := cc.Client.Chat().Send(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			return render(cmd, cc, turn, func(w io.Writer) { printTurn(w, turn) })
		},
	}
	cmd.AddCommand(newChatQuickCmd(), newChatHistoryCmd(), newChatResetCmd(), newChatExportCmd())
	return cmd
}

func newChatQuickCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quick [id]",
		Short: "Run a canned query, or list them without an id",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			if len(args) == 0 {
				qs, err := cc.Client.Chat().QuickQueries(ctx)
				if err != nil {
					return err
				}
				return render(cmd, cc, qs, func(w io.Writer) {
					rows := make([][]string, 0, len(qs))
					for _, q := range qs {
						rows = append(rows, []string{q.ID, q.Prompt})
					}
					fmt.Fprint(w, FormatTable([]string{"ID", "PROMPT"}, rows))
				})
			}

			turn, err := cc.Client.Chat().RunQuickQuery(ctx, args[0])
			if err != nil {
				return err
			}
			return render(cmd, cc, turn, func(w io.Writer) { printTurn(w, turn) })
		},
	}
}

func newChatHistoryCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the conversation so far",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			msgs, err := cc.Client.Chat().Messages(ctx)
			if err != nil {
				return err
			}
			return render(cmd, cc, msgs, func(w io.Writer) {
				for i := range msgs {
					printMessage(w, &msgs[i])
				}
			})
		},
	}
}

func newChatResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Clear the conversation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			if err := cc.Client.Chat().Reset(ctx); err != nil {
				return err
			}
			return render(cmd, cc, map[string]bool{"reset": true}, func(w io.Writer) {
				PrintSuccess(w, "conversation cleared")
			})
		},
	}
}

func newChatExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export",
		Short: "Archive the transcript to object storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			ex, err := cc.Client.Chat().Export(ctx)
			if err != nil {
				return err
			}
			return render(cmd, cc, ex, func(w io.Writer) {
				PrintSuccess(w, fmt.Sprintf("%d messages archived to %s", ex.Messages, ex.Location))
			})
		},
	}
}

func printTurn(w io.Writer, t *client.Turn) {
	printMessage(w, &t.User)
	printMessage(w, &t.Assistant)
}

func printMessage(w io.Writer, m *client.Message) {
	switch m.Role {
	case "user":
		fmt.Fprintf(w, "%s %s\n", color.CyanString("you>"), m.Content)
	default:
		fmt.Fprintf(w, "%s\n", color.GreenString("assistant>"))
		if m.Result != nil {
			printResult(w, m.Result)
		} else {
			fmt.Fprintln(w, m.Content)
		}
	}
	fmt.Fprintln(w)
}

//Personal.AI order the ending
