package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/camtools/config"
	"github.com/shashiranjanraj/camtools/database/seeders"
	"github.com/shashiranjanraj/camtools/pkg/database"
)

// camtools seed — insert the starter catalog.
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx := cmd.Context()
		db, err := database.Connect(ctx)
		if err != nil {
			return fmt.Errorf("connect mongo: %w", err)
		}
		defer db.Close(context.Background())

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, db)
	},
}
