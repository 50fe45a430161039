package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"plancal/internal/config"
	"plancal/internal/gateway"
	appLog "plancal/internal/log"
	"plancal/internal/onboarding"
	"plancal/internal/planner"
	"plancal/internal/tui"
	"plancal/internal/webui"

	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		os.Exit(1)
	}
}

// errReported marks failures already shown to the user.
var errReported = errors.New("reported")

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "plancal",
		Short:         "Turn a free-text request into a dated plan and calendar",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the YAML config file")

	root.AddCommand(
		newServeCmd(&configPath),
		newPlanCmd(&configPath),
		newTUICmd(&configPath),
		newConfigCmd(&configPath),
		newInitCmd(&configPath),
	)
	return root
}

// loadConfig reads the config and applies its log level.
func loadConfig(path string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	appLog.SetLevel(appLog.ParseLevel(cfg.LogLevel))
	return cfg, nil
}

func newServeCmd(configPath *string) *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Listen = listen
			}

			p, cleanup, err := gateway.New(cfg).Planner(cmd.Context())
			if errors.Is(err, config.ErrMissingCredential) {
				appLog.Error("no credential configured, serving error page only", err)
				return webui.NewUnavailableServer(err, cfg.Listen).Start(cmd.Context())
			}
			if err != nil {
				return err
			}
			defer cleanup()

			return webui.NewServer(p, cfg.Listen).Start(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "HTTP listen address (overrides config)")
	return cmd
}

func newTUICmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the terminal form",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			// Log lines would tear the full-screen view.
			appLog.SetLevel(appLog.LevelError)

			p, cleanup, err := newPlanner(cmd, cfg)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.Run(cmd.Context(), p)
		},
	}
}

// newPlanner builds the planner for the one-shot commands. Startup failures
// are printed as the user-facing message and reported as errReported.
func newPlanner(cmd *cobra.Command, cfg *config.Config) (*planner.Planner, func(), error) {
	p, cleanup, err := gateway.New(cfg).Planner(cmd.Context())
	if err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), planner.Message(err))
		return nil, nil, errReported
	}
	return p, cleanup, nil
}

func newConfigCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			out, err := cfg.Dump()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}

func newInitCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Interactive setup that writes the config file",
		RunE: func(cmd *cobra.Command, args []string) error {
			saved, err := onboarding.Run(*configPath)
			if err != nil || !saved {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "config written to %s\n", *configPath)
			return nil
		},
	}
}
