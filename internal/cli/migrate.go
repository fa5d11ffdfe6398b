package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/db"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long:  `Apply, revert and inspect the migrations embedded in the binary.`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run all pending migrations",
	Long:  `Apply all pending database migrations.`,
	RunE:  runMigrateUp,
}

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert migrations",
	Long:  `Revert the given number of migrations, or all of them when --steps is 0.`,
	RunE:  runMigrateDown,
}

var migrateStatusCmd = &cobra.Command{
	Use:     "status",
	Aliases: []string{"version"},
	Short:   "Show migration status",
	Long:    `Show the current migration version and whether migrations are pending.`,
	RunE:    runMigrateStatus,
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateDownCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateDownCmd.Flags().IntVarP(&migrateSteps, "steps", "n", 1, "Number of migrations to revert (0 reverts all)")
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	fmt.Println("🔄 Running database migrations...")

	if err := db.NewMigrator(cfg.Database.URL, log).Up(context.Background()); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("%s✅ Migrations completed successfully!%s\n", SuccessStyle, Reset)
	return runMigrateStatus(cmd, args)
}

func runMigrateDown(cmd *cobra.Command, args []string) error {
	if migrateSteps == 0 {
		fmt.Printf("%s⚠️  Reverting every migration%s\n", WarningStyle, Reset)
	} else {
		fmt.Printf("🔄 Reverting %s migration(s)...\n", FormatCount(migrateSteps))
	}

	if err := db.NewMigrator(cfg.Database.URL, log).Down(context.Background(), migrateSteps); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Printf("%s✅ Migrations reverted%s\n", SuccessStyle, Reset)
	return runMigrateStatus(cmd, args)
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	status, err := db.NewMigrator(cfg.Database.URL, log).Status(context.Background())
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	fmt.Printf("%s📊 Migration Status%s\n", HeaderStyle, Reset)
	fmt.Printf("%s===================%s\n", DimStyle, Reset)
	fmt.Println(FormatLabelValue("Current version:", fmt.Sprintf("%d", status.Version)))
	fmt.Println(FormatLabelValue("Latest version:", fmt.Sprintf("%d", status.Latest)))

	switch {
	case status.Dirty:
		fmt.Printf("%s❌ Database is dirty at version %d; fix it by hand and force the version%s\n", ErrorStyle, status.Version, Reset)
	case status.Pending():
		fmt.Printf("%s⏳ %d migration(s) pending. Run 'essence migrate up'%s\n", WarningStyle, status.Latest-status.Version, Reset)
	default:
		fmt.Printf("%s✅ Schema is up to date%s\n", SuccessStyle, Reset)
	}
	return nil
}
