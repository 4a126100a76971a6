package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/yungbote/pukpuk-backend/internal/app"
)

func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long:  `Print the merged defaults, config file and environment as YAML. Credentials are masked.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := app.LoadConfig(v, cfgFile); err != nil {
				return err
			}
			settings := v.AllSettings()
			for key, val := range settings {
				if secretKey(key) && fmt.Sprint(val) != "" {
					settings[key] = "********"
				}
			}
			enc := yaml.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent(2)
			if err := enc.Encode(settings); err != nil {
				return err
			}
			return enc.Close()
		},
	}
}

func secretKey(key string) bool {
	for _, needle := range []string{"password", "private_key", "mongodb_uri", "postgres_dsn", "headers"} {
		if strings.Contains(key, needle) {
			return true
		}
	}
	return false
}
