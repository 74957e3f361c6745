package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gowade/view/internal/log"
	"github.com/gowade/view/template"
)

func (a *app) watchCmd() *cobra.Command {
	var opts renderOptions

	c := &cobra.Command{
		Use:   "watch <template>",
		Short: "Render a template and render it again whenever its file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return watch(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), a.loader(), args[0], opts)
		},
	}

	addRenderFlags(c, &opts)
	return c
}

// watch renders name, then renders it again on every change of its file
// until ctx is done. Render failures are reported to errw and do not stop
// the watch.
func watch(ctx context.Context, w, errw io.Writer, loader *template.Loader, name string, opts renderOptions) error {
	if err := render(w, loader, name, opts); err != nil {
		fmt.Fprintln(errw, "error:", err)
	}

	return loader.Watch(ctx, func(changed string) {
		if changed != name {
			return
		}

		log.Info(log.CatCLI, "re-rendering", "template", name)
		fmt.Fprintf(w, "--- %s changed\n", name)
		if err := render(w, loader, name, opts); err != nil {
			fmt.Fprintln(errw, "error:", err)
		}
	})
}
