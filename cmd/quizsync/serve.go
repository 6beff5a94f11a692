package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aretw0/quizsync/internal/server"
)

var (
	serveAddr    string
	serveOrigins []string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for a form front-end",
	Run: func(cmd *cobra.Command, args []string) {
		addr := serveAddr
		if addr == "" {
			addr = cfg.Addr
		}

		ctx := cmd.Context()
		svc := newService(ctx)
		srv := server.New(svc, server.Config{
			AssetDir:     cfg.AssetDir,
			AllowOrigins: serveOrigins,
			Logger:       slog.Default(),
		})

		if err := srv.Start(ctx, addr); err != nil {
			fatal("Server failed", err)
		}
		slog.Info("server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (default: addr from config)")
	serveCmd.Flags().StringSliceVar(&serveOrigins, "allow-origin", nil, "Browser origins allowed to call the API (default: same origin only)")
}
