package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/haowjy/meridian-assistants-go"
	"github.com/haowjy/meridian-assistants-go/transport/httpjson"
	"github.com/haowjy/meridian-assistants-go/transport/lorem"
	"github.com/haowjy/meridian-assistants-go/transport/stainless"
)

const (
	transportHTTP  = "http"
	transportRetry = "retry"
	transportLorem = "lorem"
)

// app holds the state shared by all commands of one invocation.
type app struct {
	configPath    string
	baseURL       string
	transportName string
	verbose       bool

	// transport, when set, is used instead of the one named by --transport.
	transport assistants.Transport

	logger *zap.Logger
	client *assistants.Client
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:          "assistants",
		Short:        "Work with assistant threads, messages and runs",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, _ []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "YAML config file overlaid on the defaults")
	flags.StringVar(&a.baseURL, "base-url", "", "API base URL (overrides config and environment)")
	flags.StringVar(&a.transportName, "transport", transportHTTP, "transport: http, retry or lorem")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "log requests to stderr")

	root.AddCommand(
		newThreadCmd(a),
		newMessageCmd(a),
		newRunCmd(a),
	)
	return root
}

// setup resolves configuration, logging and transport.
func (a *app) setup() error {
	// A missing .env file is not an error.
	_ = godotenv.Load()

	cfg := assistants.DefaultConfig()
	if a.configPath != "" {
		loaded, err := assistants.LoadConfigFile(a.configPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	cfg = assistants.ConfigFromEnv(cfg)
	if a.baseURL != "" {
		cfg.BaseURL = a.baseURL
	}

	a.logger = zap.NewNop()
	if a.verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("failed to create logger: %w", err)
		}
		a.logger = logger
	}

	transport := a.transport
	if transport == nil {
		var err error
		transport, err = newTransport(a.transportName, a.logger)
		if err != nil {
			return err
		}
	}

	a.client = assistants.NewClient(transport, cfg)
	a.logger.Debug("configured",
		zap.String("transport", a.transportName),
		zap.String("base_url", cfg.BaseURL),
	)
	return nil
}

func newTransport(name string, logger *zap.Logger) (assistants.Transport, error) {
	switch name {
	case transportHTTP:
		return httpjson.New(httpjson.WithLogger(logger)), nil
	case transportRetry:
		return stainless.New(stainless.WithLogger(logger)), nil
	case transportLorem:
		return lorem.New(lorem.WithLogger(logger)), nil
	default:
		return nil, fmt.Errorf("unknown transport %q (want %s, %s or %s)", name, transportHTTP, transportRetry, transportLorem)
	}
}

// config returns the per-call configuration.
func (a *app) config() assistants.Config {
	return a.client.Config()
}

// printJSON writes resp as indented JSON.
func printJSON(w io.Writer, resp assistants.Response) error {
	encoded, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode response: %w", err)
	}
	_, err = fmt.Fprintln(w, string(encoded))
	return err
}

// call runs fn and prints its response.
func call(cmd *cobra.Command, fn func(ctx context.Context) (assistants.Response, error)) error {
	resp, err := fn(cmd.Context())
	if err != nil {
		return err
	}
	return printJSON(cmd.OutOrStdout(), resp)
}

// parseSet turns key=value flags into pairs. Values that parse as JSON are
// sent as JSON; anything else is sent as a string.
func parseSet(raw []string) (assistants.Pairs, error) {
	pairs := make(assistants.Pairs, 0, len(raw))
	for _, kv := range raw {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --set %q: expected key=value", kv)
		}
		pairs = append(pairs, assistants.Pair{Key: key, Value: parseValue(value)})
	}
	return pairs, nil
}

func parseValue(s string) any {
	var v any
	if err := json.Unmarshal([]byte(s), &v); err == nil {
		return v
	}
	return s
}

func addListFlags(cmd *cobra.Command, p *assistants.ListParams) {
	cmd.Flags().IntVar(&p.Limit, "limit", 0, "page size (1-100)")
	cmd.Flags().StringVar(&p.Order, "order", "", "sort order by created_at: asc or desc")
	cmd.Flags().StringVar(&p.After, "after", "", "cursor: list objects after this id")
	cmd.Flags().StringVar(&p.Before, "before", "", "cursor: list objects before this id")
}
