package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sprite-ai/consent/internal/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the consent flow.

Endpoints:
  GET  /health  Health check
  POST /api/plan  — Resolve the layout and row plan for a viewport
  GET  /api/ws  WebSocket for interactive consent sessions`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringP("addr", "a", "", "address to listen on (default from config)")
	serveCmd.Flags().IntP("port", "p", 0, "port to listen on (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	addr, _ := cmd.Flags().GetString("addr")
	port, _ := cmd.Flags().GetInt("port")
	if addr == "" {
		addr = cfg.Server.Addr
	}
	if port == 0 {
		port = cfg.Server.Port
	}

	listen := fmt.Sprintf("%s:%d", addr, port)
	srv := api.New(listen, cfg)
	return srv.ListenAndServe()
}
