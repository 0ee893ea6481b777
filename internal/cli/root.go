// Package cli implements the viscribe command line.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/soochol/viscribe/internal/config"
	"github.com/soochol/viscribe/internal/tools"
	"github.com/soochol/viscribe/internal/viscribe"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "0.1.0"

// IOStreams are the standard streams a command reads and writes.
type IOStreams struct {
	In     io.Reader
	Out    io.Writer
	ErrOut io.Writer
}

// rootOptions holds flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	streams    IOStreams

	cfg *config.Config
}

// NewDefaultCommand creates the viscribe command on the process streams.
func NewDefaultCommand() *cobra.Command {
	return NewCommand(IOStreams{In: os.Stdin, Out: os.Stdout, ErrOut: os.Stderr})
}

func NewCommand(streams IOStreams) *cobra.Command {
	o := &rootOptions{streams: streams}

	cmd := &cobra.Command{
		Use:   "viscribe",
		Short: "Viscribe image analysis tools for agents",
		Long: `viscribe exposes the Viscribe image API (describe, ask, classify, extract,
compare, credits, feedback) as agent tools over HTTP, MCP and the command line.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return o.load()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.ErrOut)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&o.configPath, "config", "c", "config.yaml", "path to the YAML config file")
	flags.StringVar(&o.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		newServeCommand(o),
		newMCPCommand(o),
		newToolsCommand(o),
		newInvokeCommand(o),
		newChatCommand(o),
		newTokenCommand(o),
		newVersionCommand(o),
	)
	return cmd
}

// load reads config and installs the slog default. Logs go to ErrOut so
// stdout stays clean for command output and the MCP stdio transport.
func (o *rootOptions) load() error {
	cfg, err := config.LoadFile(o.configPath)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if o.logLevel != "" {
		cfg.LogLevel = o.logLevel
	}
	o.cfg = cfg
	slog.SetDefault(slog.New(slog.NewTextHandler(o.streams.ErrOut, &slog.HandlerOptions{Level: cfg.SlogLevel()})))
	return nil
}

func (o *rootOptions) client() *viscribe.Client {
	opts := []viscribe.Option{viscribe.WithBaseURL(o.cfg.Viscribe.BaseURL)}
	if o.cfg.Viscribe.Timeout > 0 {
		opts = append(opts, viscribe.WithTimeout(o.cfg.Viscribe.Timeout))
	}
	return viscribe.NewClient(o.cfg.Viscribe.APIKey, opts...)
}

func (o *rootOptions) registry(opts ...tools.Option) *tools.Registry {
	if o.cfg.Viscribe.APIKey == "" {
		slog.Warn("no Viscribe API key configured; tool calls will fail", "env", config.EnvViscribeAPIKey)
	}
	return tools.NewDefaultRegistry(o.client(), opts...)
}

// remoteRegistry is the registry for network surfaces. Local path sources
// stay disabled unless server.allow_local_paths is set.
func (o *rootOptions) remoteRegistry() *tools.Registry {
	if o.cfg.Server.AllowLocalPaths {
		slog.Warn("local image paths are enabled for remote callers")
		return o.registry()
	}
	return o.registry(tools.WithoutLocalPaths())
}
