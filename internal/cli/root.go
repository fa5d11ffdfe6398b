package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/db"
	"github.com/essence-shop/essence/internal/logger"
)

var (
	cfgFile string
	envFile string
	cfg     *config.Config
	log     *logger.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "essence",
	Short: "Essence select shop API",
	Long: `Essence is the backend of a minimal premium select shop.

It serves the shop's REST API (users, brands, products, carts, orders,
reviews and coupons), manages the database schema and runs the
maintenance jobs that expire coupons and purge abandoned carts.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Skip init for the init command itself
		if cmd.Name() == "init" {
			return nil
		}

		opts := config.LoadOptions{EnvFile: envFile, ConfigFile: cfgFile}
		if opts.ConfigFile == "" {
			if path := config.GetConfigPath(); config.Exists(path) {
				opts.ConfigFile = path
			}
		}

		var err error
		cfg, err = config.Load(opts)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if err := cfg.Settings.Validate(); err != nil {
			return err
		}

		log = logger.New(logger.Options{
			Level: logger.ParseLogLevel(cfg.Settings.LogLevel),
			JSON:  !cfg.Settings.Debug,
		})
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			_ = log.Sync()
		}
		return nil
	},
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.essence/config.yaml when present)")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "dotenv file applied under the process environment")

	// Disable completion command
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	// Add subcommands
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(schedulerCmd)
	rootCmd.AddCommand(statsCmd)
}

// openDatabase opens the configured database. The caller closes the manager.
func openDatabase(ctx context.Context) (*db.Manager, *db.Handle, error) {
	manager := db.NewManager(cfg.Database, log)
	handle, err := manager.Open(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	return manager, handle, nil
}
