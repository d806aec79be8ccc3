package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/spf13/cobra"

	"github.com/ftsanjuan/modern-react-redux-blog/client"
	"github.com/ftsanjuan/modern-react-redux-blog/remote"
)

// errReported is returned once a command already printed why it failed.
var errReported = errors.New("postctl: command failed")

// app carries what every subcommand needs.
type app struct {
	opts   options
	logger *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{opts: defaultOptions()}

	cmd := &cobra.Command{
		Use:   "postctl",
		Short: "Manage posts",
		Long: `postctl manages a remote collection of posts.
It talks to the posts HTTP API or directly to the DynamoDB posts table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if a.opts.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVarP(&a.opts.Backend, "backend", "b", a.opts.Backend, "Remote backend (http or dynamodb)")
	flags.StringVar(&a.opts.APIURL, "api-url", a.opts.APIURL, "Posts API root URL")
	flags.StringVar(&a.opts.APIKey, "api-key", a.opts.APIKey, "Posts API key")
	flags.StringVar(&a.opts.Table, "table", a.opts.Table, "DynamoDB posts table")
	flags.IntVar(&a.opts.Shards, "shards", a.opts.Shards, "Number of shards of the posts table")
	flags.DurationVar(&a.opts.Timeout, "timeout", a.opts.Timeout, "Timeout for each command")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "Log debug output to stderr")

	cmd.AddCommand(
		newListCmd(a),
		newShowCmd(a),
		newNewCmd(a),
		newDeleteCmd(a),
	)
	return cmd
}

// buildRemote creates the remote selected by opts.Backend.
func buildRemote(ctx context.Context, opts options, logger *slog.Logger) (client.Remote, error) {
	switch opts.Backend {
	case backendHTTP:
		return remote.NewHTTP(nil, httpConfig(opts), logger), nil

	case backendDynamoDB:
		cfg, err := config.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, fmt.Errorf("load AWS config: %w", err)
		}
		return remote.NewDynamo(dynamodb.NewFromConfig(cfg), remote.DynamoConfig{
			Table:     opts.Table,
			NumShards: opts.Shards,
		}, logger), nil
	}
	return nil, fmt.Errorf("unknown backend %q (want %s or %s)", opts.Backend, backendHTTP, backendDynamoDB)
}

// httpConfig overrides the remote defaults with the flags that map onto them.
func httpConfig(opts options) remote.HTTPConfig {
	cfg := remote.DefaultHTTPConfig()
	cfg.BaseURL = opts.APIURL
	cfg.APIKey = opts.APIKey
	if opts.Timeout > 0 {
		cfg.Timeout = opts.Timeout
	}
	return cfg
}

// run builds a client for one command and closes it afterwards.
func (a *app) run(cmd *cobra.Command, fn func(ctx context.Context, c *client.Client, out io.Writer) error) error {
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if a.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeout(cmd.Context(), a.opts.Timeout)
	} else {
		ctx, cancel = context.WithCancel(cmd.Context())
	}
	defer cancel()

	r, err := buildRemote(ctx, a.opts, a.logger)
	if err != nil {
		return err
	}
	c := client.New(r, a.logger)
	defer c.Close()

	return fn(ctx, c, cmd.OutOrStdout())
}
