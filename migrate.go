package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewMigrateCmd creates the migrate subcommand.
func NewMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and print the schema version",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			_, db, err := bootstrap(ctx, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			defer db.Close()

			version, err := db.Version(ctx)
			if err != nil {
				return fmt.Errorf("read schema version: %w", err)
			}
			cmd.Printf("schema version %d\n", version)
			return nil
		},
	}
}
