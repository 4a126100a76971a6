package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/pukpuk-backend/internal/app"
	"github.com/yungbote/pukpuk-backend/internal/platform/shutdown"
)

var (
	cfgFile string
	v       = app.NewViper()
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "pukpuk",
		Short:         "Pukpuk sales-tracking backend",
		Long:          `Serves the Pukpuk demand API and runs operator maintenance on the demand store.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags
	root.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().String("db-driver", "mongo", "store backend: mongo, postgres or sqlite")
	root.PersistentFlags().String("log-mode", "development", "log mode: development, production or test")

	// Bind flags to viper
	_ = v.BindPFlag("db_driver", root.PersistentFlags().Lookup("db-driver"))
	_ = v.BindPFlag("log_mode", root.PersistentFlags().Lookup("log-mode"))

	// Commands
	root.AddCommand(serveCmd())
	root.AddCommand(migrateCmd())
	root.AddCommand(demandsCmd())
	root.AddCommand(configCmd())
	root.AddCommand(versionCmd())
	return root
}

func main() {
	ctx, cancel := shutdown.NotifyContext(context.Background())
	err := newRootCmd().ExecuteContext(ctx)
	cancel()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// bootstrap loads configuration, wires the application and brings the schema
// up to date. Callers own the returned App and must close it.
func bootstrap(ctx context.Context) (*app.App, error) {
	cfg, err := app.LoadConfig(v, cfgFile)
	if err != nil {
		return nil, err
	}
	log, err := app.NewLogger(cfg)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	a, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	if err := a.Migrate(ctx); err != nil {
		a.Close(context.Background())
		return nil, err
	}
	return a, nil
}
