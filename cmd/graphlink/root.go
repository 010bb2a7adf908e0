package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/perihelia/graphlink"
	"github.com/perihelia/graphlink/cache"
	"github.com/perihelia/graphlink/internal/cliconfig"
	"github.com/perihelia/graphlink/internal/logging"
)

var (
	cfgFile   string
	endpoint  string
	headers   []string
	timeout   int
	debugMode bool
	logLevel  string
)

var rootCmd = &cobra.Command{
	Use:   "graphlink",
	Short: "GraphQL client for queries, mutations and file uploads",
	Long: `graphlink talks to a single GraphQL endpoint over HTTP.

Operations are read from an argument, a file or stdin, and results are
printed as JSON. Configuration comes from a YAML file, environment
variables and flags, in that order of precedence.`,
	SilenceUsage: true,
}

// Execute runs the root command. Cobra prints the error; we only set
// the exit code.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&endpoint, "endpoint", "", "GraphQL endpoint URL")
	rootCmd.PersistentFlags().StringArrayVar(&headers, "header", nil, "header to send with every request, as 'Name: value' (repeatable)")
	rootCmd.PersistentFlags().IntVar(&timeout, "timeout", 0, "HTTP timeout in seconds")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "attach request/response details to returned errors")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// loadConfig resolves the effective configuration: defaults, then the
// optional config file, then environment variables, then flags.
func loadConfig(cmd *cobra.Command) (cliconfig.Config, error) {
	_ = godotenv.Load()

	cfg, err := cliconfig.Load(cfgFile)
	if err != nil {
		return cliconfig.Config{}, err
	}

	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = endpoint
	}
	if cmd.Flags().Changed("timeout") {
		cfg.TimeoutSeconds = timeout
	}
	if cmd.Flags().Changed("debug") {
		cfg.Debug = debugMode
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = logLevel
	}
	for _, h := range headers {
		name, value, err := parseHeader(h)
		if err != nil {
			return cliconfig.Config{}, err
		}
		cfg.Headers[name] = value
	}

	if cfg.Endpoint == "" {
		return cliconfig.Config{}, fmt.Errorf("no endpoint configured: set --endpoint, GRAPHLINK_ENDPOINT or the config file")
	}
	return cfg, nil
}

func newLogger(cfg cliconfig.Config) *slog.Logger {
	return logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
}

// buildClient assembles a client from the resolved configuration,
// including the configured cache backend.
func buildClient(cfg cliconfig.Config, logger *slog.Logger, hooks graphlink.Hooks) (*graphlink.Client, error) {
	opts := []graphlink.Option{
		graphlink.WithHeaders(cfg.Headers),
		graphlink.WithLogger(logger),
		graphlink.WithHooks(hooks),
	}
	if cfg.TimeoutSeconds > 0 {
		opts = append(opts, graphlink.WithHTTPClient(&http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		}))
	}
	if cfg.Retries > 0 {
		opts = append(opts, graphlink.WithRetries(cfg.Retries))
	}
	if cfg.Debug {
		opts = append(opts, graphlink.WithDebug(true))
	}

	switch cfg.Store.Backend {
	case "", "memory":
		if cfg.Store.Capacity > 0 {
			opts = append(opts, graphlink.WithCacheCapacity(cfg.Store.Capacity))
		}
	case "redis":
		var redisOpts []cache.RedisOption
		if cfg.Store.Redis.Prefix != "" {
			redisOpts = append(redisOpts, cache.WithPrefix(cfg.Store.Redis.Prefix))
		}
		if cfg.Store.Redis.TTLSeconds > 0 {
			redisOpts = append(redisOpts, cache.WithTTL(time.Duration(cfg.Store.Redis.TTLSeconds)*time.Second))
		}
		store := cache.NewRedis(cfg.Store.Redis.Addr, cfg.Store.Redis.Password, cfg.Store.Redis.DB, redisOpts...)
		opts = append(opts, graphlink.WithStore(store))
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}

	return graphlink.New(cfg.Endpoint, opts...)
}

// parseHeader splits a 'Name: value' flag into its parts.
func parseHeader(s string) (string, string, error) {
	name, value, ok := strings.Cut(s, ":")
	if !ok {
		return "", "", fmt.Errorf("invalid header %q: expected 'Name: value'", s)
	}
	name = strings.TrimSpace(name)
	value = strings.TrimSpace(value)
	if name == "" {
		return "", "", fmt.Errorf("invalid header %q: empty name", s)
	}
	return name, value, nil
}

// readDocument resolves the operation source: the positional argument
// wins, then --file, then stdin.
func readDocument(args []string, file string) (string, error) {
	if len(args) > 0 && args[0] != "" {
		return args[0], nil
	}
	if file != "" && file != "-" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read document: %w", err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", fmt.Errorf("read document from stdin: %w", err)
	}
	return string(data), nil
}
