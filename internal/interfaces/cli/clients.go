package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/turtacn/ConsultTrack-Intelligence/pkg/client"
)

func newClientsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clients",
		Short: "List consulting clients",
	}
	cmd.AddCommand(newClientsListCmd())
	return cmd
}

func newClientsListCmd() *cobra.Command {
	var (
		search     string
		activeOnly bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List clients by name",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := GetCLIContext(cmd)
			if err != nil {
				return err
			}
			ctx, cancel := commandContext(cmd, cc)
			defer cancel()

			items, err := cc.Client.Clients().List(ctx, search, activeOnly)
			if err != nil {
				return err
			}
			return render(cmd, cc, items, func(w io.Writer) { printClients(w, items) })
		},
	}
	cmd.Flags().StringVar(&search, "search", "", "substring of name, company or industry")
	cmd.Flags().BoolVar(&activeOnly, "active", false, "only active clients")
	return cmd
}

func printClients(w io.Writer, items []client.ClientRecord) {
	if len(items) == 0 {
		fmt.Fprintln(w, "No clients.")
		return
	}
	rows := make([][]string, 0, len(items))
	for _, c := range items {
		rows = append(rows, []string{c.ID, c.Name, c.Company, c.Industry, colorStatus(c.Status)})
	}
	fmt.Fprint(w, FormatTable([]string{"ID", "NAME", "COMPANY", "INDUSTRY", "STATUS"}, rows))
}

//Personal.AI order the ending
