package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long:  `Serve the demand and product API until interrupted, then drain in-flight requests.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			// The command context is already cancelled once a signal arrives.
			defer a.Close(context.Background())
			return a.Run(cmd.Context())
		},
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	_ = v.BindPFlag("http_addr", cmd.Flags().Lookup("addr"))

	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create tables or indexes",
		Long:  `Create the SQL tables or Mongo indexes for the configured store. Safe to run repeatedly.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a, err := bootstrap(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close(context.Background())
			fmt.Fprintf(cmd.OutOrStdout(), "Schema up to date (%s)\n", a.Cfg.DBDriver)
			return nil
		},
	}
}
