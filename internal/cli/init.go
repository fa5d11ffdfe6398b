package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/db"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize essence configuration",
	Long:  `Interactive wizard to set up the essence configuration file: database connection, listen address and CORS origins.`,
	RunE:  runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	w := newWizard(os.Stdin, cmd.OutOrStdout())

	fmt.Println("🚀 Welcome to Essence - Select Shop API Setup")
	fmt.Println("=============================================")
	fmt.Println()

	// Check if config already exists
	configPath := cfgFile
	if configPath == "" {
		configPath = config.GetConfigPath()
	}
	if config.Exists(configPath) {
		fmt.Printf("Configuration file already exists at: %s\n", configPath)
		if !w.confirm("Do you want to overwrite it?") {
			fmt.Println("Setup cancelled.")
			return nil
		}
	}

	// Start from whatever the environment already says
	setup, err := config.Load(config.LoadOptions{EnvFile: envFile})
	if err != nil {
		return fmt.Errorf("failed to load defaults: %w", err)
	}
	if err := w.askSettings(setup); err != nil {
		return err
	}

	// Test database connection
	fmt.Println("\n🔌 Testing database connection...")
	testCfg := setup.Database
	testCfg.RequireSchema = false
	manager := db.NewManager(testCfg, nil)

	ctx := context.Background()
	handle, err := manager.Open(ctx)
	if err != nil {
		fmt.Printf("❌ Failed to connect to database: %v\n", err)
		fmt.Println("\nPlease check your database configuration and try again.")
		return err
	}
	defer manager.Close()

	if err := handle.Ping(ctx); err != nil {
		fmt.Printf("❌ Failed to ping database: %v\n", err)
		return err
	}
	fmt.Println("✅ Database connection successful!")

	status, err := db.NewMigrator(setup.Database.URL, nil).Status(ctx)
	if err == nil && status.Pending() {
		fmt.Printf("%s⏳ %d migration(s) pending%s\n", WarningStyle, status.Latest-status.Version, Reset)
	}

	// Save configuration
	fmt.Println("\n💾 Saving configuration...")
	if err := setup.Save(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("✅ Configuration saved to: %s\n", configPath)

	// Summary
	fmt.Println("\n📋 Configuration Summary")
	fmt.Println("========================")
	fmt.Printf("Database: %s\n", setup.Database.URL)
	fmt.Printf("Address: %s\n", setup.Settings.Address())
	fmt.Printf("CORS Origins: %s\n", strings.Join(setup.Settings.CORSOrigins, ", "))
	fmt.Println()
	fmt.Println("🎉 Setup complete!")
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Apply migrations: essence migrate up")
	fmt.Println("  2. Start the server: essence serve")

	return nil
}
