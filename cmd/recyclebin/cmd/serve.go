package cmd

import (
	"fmt"
	"net"

	"github.com/spf13/cobra"

	filesmod "github.com/dmitrymomot/recyclebin/modules/files"
	"github.com/dmitrymomot/recyclebin/pkg/httpserver"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			a, err := newApp(ctx, cmd, opts)
			if err != nil {
				return err
			}
			if addr != "" {
				a.cfg.HTTP.Addr = addr
			}

			router := filesmod.Router(filesmod.RouterOptions{
				Files: filesmod.NewModule(a.svc,
					filesmod.WithMaxUploadSize(a.cfg.Files.MaxUploadSize),
					filesmod.WithLogger(a.logger),
				),
				Checks: a.svc.Checks(),
				Logger: a.logger,
			})

			srv := httpserver.NewFromConfig(a.cfg.HTTP,
				httpserver.WithLogger(a.logger),
				httpserver.WithStartHook(func(addr net.Addr) {
					fmt.Fprintf(cmd.OutOrStdout(), "listening on %s\n", addr)
				}),
			)
			return srv.Run(ctx, router)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides HTTP_ADDR)")
	return cmd
}
