package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/mark3labs/mcp-go/server"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/perihelia/graphlink"
	"github.com/perihelia/graphlink/internal/mcptools"
	"github.com/perihelia/graphlink/metrics"
)

var (
	mcpTransport string
	mcpListen    string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Expose the client as an MCP server",
	Long: `Start an MCP server that exposes graphql_query and graphql_mutation
tools backed by the configured endpoint.

With --transport stdio the server speaks MCP over stdin/stdout, which
is what most MCP hosts expect. With --transport sse it listens on
--listen and serves the SSE transport over HTTP.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		var hooks graphlink.Hooks
		if cfg.Metrics.Addr != "" {
			reg := prometheus.NewRegistry()
			hooks = metrics.NewCollector(reg).Hooks()
			go serveDiagnostics(cfg.Metrics.Addr, reg, logger)
		}

		client, err := buildClient(cfg, logger, hooks)
		if err != nil {
			return err
		}

		srv := server.NewMCPServer("graphlink", graphlink.Version, server.WithToolCapabilities(false))
		mcptools.RegisterAll(srv, mcptools.All(client, logger))

		switch mcpTransport {
		case "stdio":
			logger.Info("starting MCP server", "transport", "stdio", "endpoint", cfg.Endpoint)
			return server.ServeStdio(srv)
		case "sse":
			logger.Info("starting MCP server", "transport", "sse", "addr", mcpListen, "endpoint", cfg.Endpoint)
			return server.NewSSEServer(srv).Start(mcpListen)
		default:
			return fmt.Errorf("unknown transport %q: use stdio or sse", mcpTransport)
		}
	},
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "MCP transport (stdio or sse)")
	mcpCmd.Flags().StringVar(&mcpListen, "listen", ":8090", "listen address for the sse transport")
	rootCmd.AddCommand(mcpCmd)
}

// serveDiagnostics exposes liveness and Prometheus metrics on a side
// listener so the MCP transport keeps stdout to itself.
func serveDiagnostics(addr string, reg *prometheus.Registry, logger *slog.Logger) {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	logger.Info("diagnostics listening", "addr", addr)
	if err := http.ListenAndServe(addr, r); err != nil {
		logger.Error("diagnostics server failed", "err", err)
	}
}
