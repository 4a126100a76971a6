package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yungbote/pukpuk-backend/internal/app"
)

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pukpuk %s\n", app.Version)
		},
	}
}
