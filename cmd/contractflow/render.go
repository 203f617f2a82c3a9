package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/contractflow/dashboard/internal/app"
	"github.com/contractflow/dashboard/pkg/auth"
	"github.com/contractflow/dashboard/pkg/mockdata"
	"github.com/contractflow/dashboard/pkg/render"
	"github.com/contractflow/dashboard/pkg/storage"
	"github.com/contractflow/dashboard/pkg/toast"
)

// maxRedirects bounds how many guard or handler redirects render follows.
const maxRedirects = 5

func renderCmd(load configLoader) *cobra.Command {
	var (
		as     string
		pretty bool
	)

	cmd := &cobra.Command{
		Use:   "render <hash>",
		Short: "Render one page to HTML",
		Long: `Render the page at a location fragment without starting a server.

Redirects are followed, so a guarded page rendered without --as shows
the login form. The final fragment and any toasts go to stderr.

Examples:
  contractflow render /login
  contractflow render /contracts?status=signed --as admin@example.com
  contractflow render /organization --as viewer@example.com --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := slog.New(slog.NewTextHandler(io.Discard, nil))
			a := app.New(app.Config{
				Data:        mockdata.New(mockdata.WithSeed(cfg.Data.Seed)),
				Logger:      logger,
				AuthOptions: []auth.Option{auth.WithDelays(0, 0)},
			})
			return renderPage(cmd.Context(), a, args[0], as, pretty, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	cmd.Flags().StringVar(&as, "as", "", "Sign in as this user's email first")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the HTML")

	return cmd
}

func renderPage(ctx context.Context, a *app.App, hash, as string, pretty bool, out, errOut io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}
	toasts := toast.EmitterFunc(func(event string, data any) {
		if t, ok := data.(toast.Toast); ok {
			fmt.Fprintf(errOut, "toast [%s] %s\n", t.Level, t.Message)
		}
	})

	sess, err := a.NewSession(storage.NewMemory(), hash, toasts)
	if err != nil {
		return err
	}
	if as != "" {
		err := sess.Dispatch(ctx, app.ActionLogin, app.Fields{"email": as, "redirect": sess.Location.Hash()})
		if err != nil {
			return err
		}
	}

	for range maxRedirects {
		before := sess.Location.Hash()
		sess.Router.HandleRouteChange(ctx)
		if sess.Location.Hash() == before {
			break
		}
	}
	fmt.Fprintf(errOut, "hash %s\n", sess.Location.Hash())

	r := render.NewRenderer(render.RendererConfig{Pretty: pretty})
	if err := r.RenderToWriter(out, sess.Container.Tree()); err != nil {
		return err
	}
	_, err = fmt.Fprintln(out)
	return err
}
