package cli

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/andreicstoica/refract/internal/server"
)

func newServeCmd(app *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			srv := &http.Server{
				Addr:    addr,
				Handler: server.New(app.Prod, app.Analysis).Handler(),
			}
			fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
			err := srv.ListenAndServe()
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8787", "listen address")
	return cmd
}
