package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/threadline/threadline/config"
	"github.com/threadline/threadline/database/seeders"
	"github.com/threadline/threadline/pkg/database"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// threadline db:seed
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Seed the demo catalog and admin account",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		fmt.Println("Running seeders…")
		return seeders.RunAll(database.DB())
	},
}
