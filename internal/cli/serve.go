package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soochol/viscribe/internal/api"
	"github.com/soochol/viscribe/internal/mcpserver"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	var withAgent bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the tools over HTTP (REST and MCP)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := o.remoteRegistry()
			srv := api.NewServer(reg)
			srv.SetJWTSecret(o.cfg.Server.JWTSecret)

			mcpSrv, err := mcpserver.New(reg, Version)
			if err != nil {
				return err
			}
			srv.SetMCPHandler(mcpserver.HTTPHandler(mcpSrv))

			if withAgent {
				a, err := o.agent(reg)
				if err != nil {
					return err
				}
				srv.SetAgent(a)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			httpSrv := &http.Server{
				Addr:              o.cfg.Addr(),
				Handler:           srv.Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() {
				slog.Info("starting viscribe server", "addr", httpSrv.Addr, "auth", o.cfg.Server.JWTSecret != "")
				errCh <- httpSrv.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				if errors.Is(err, http.ErrServerClosed) {
					return nil
				}
				return err
			case <-ctx.Done():
			}

			slog.Info("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			return httpSrv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().BoolVar(&withAgent, "agent", false, "enable POST /api/chat backed by the configured LLM")
	return cmd
}

func newMCPCommand(o *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the tools over MCP on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := mcpserver.New(o.registry(), Version)
			if err != nil {
				return err
			}
			slog.Info("serving MCP on stdio")
			return mcpserver.ServeStdio(s)
		},
	}
}
