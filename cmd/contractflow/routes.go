package main

import (
	"fmt"
	"io"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/contractflow/dashboard/internal/app"
	"github.com/contractflow/dashboard/pkg/storage"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "List the route table in match order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := app.New(app.Config{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
			sess, err := a.NewSession(storage.NewMemory(), "/", nil)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PATTERN\tAUTH\tPERMISSION")
			for _, r := range sess.Router.Routes() {
				authCol, perm := "-", "-"
				if r.Guards.RequiresAuth {
					authCol = "yes"
				}
				if r.Guards.RequiredPermission != "" {
					perm = r.Guards.RequiredPermission
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", r.Pattern, authCol, perm)
			}
			return w.Flush()
		},
	}
}
