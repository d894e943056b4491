package main

import (
	"climblog/climbing-app/internal/config"
	"fmt"

	"github.com/spf13/cobra"
)

var indexesCmd = &cobra.Command{
	Use:   "indexes",
	Short: "Create the MongoDB indexes and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if cfg.Database.Driver != config.DriverMongo {
			return fmt.Errorf("indexes need the mongo driver, got %q", cfg.Database.Driver)
		}
		repos, err := openRepositories(cmd.Context(), cfg.Database)
		if err != nil {
			return err
		}
		repos.close()
		fmt.Fprintln(cmd.OutOrStdout(), "indexes are up to date")
		return nil
	},
}
