package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/scheduler"
	"github.com/essence-shop/essence/internal/services"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Inspect and run maintenance jobs",
	Long:  `Inspect the maintenance jobs and run them on demand, outside their schedule.`,
}

var schedulerListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured jobs",
	RunE:  runSchedulerList,
}

var schedulerRunCmd = &cobra.Command{
	Use:   "run [job]",
	Short: "Run a job now",
	Args:  cobra.ExactArgs(1),
	RunE:  runSchedulerRun,
}

func init() {
	schedulerCmd.AddCommand(schedulerListCmd)
	schedulerCmd.AddCommand(schedulerRunCmd)
}

func runSchedulerList(cmd *cobra.Command, args []string) error {
	jobs := map[string]string{
		scheduler.JobCouponSweep: cfg.Settings.Jobs.CouponSweep,
		scheduler.JobCartSweep:   cfg.Settings.Jobs.CartSweep,
	}

	fmt.Printf("%s📅 Maintenance Jobs%s\n", HeaderStyle, Reset)
	fmt.Printf("%s==================%s\n", DimStyle, Reset)
	if !cfg.Settings.Jobs.Enabled {
		fmt.Printf("%s⚠️  Jobs are disabled (JOBS_ENABLED=false)%s\n", WarningStyle, Reset)
	}
	for _, name := range []string{scheduler.JobCouponSweep, scheduler.JobCartSweep} {
		spec := jobs[name]
		if spec == "" {
			spec = FormatMeta("(not scheduled)")
		}
		fmt.Printf("  %s  %s\n", FormatValue(name), spec)
	}
	fmt.Println(FormatLabelValue("Cart TTL:", cfg.Settings.Jobs.CartTTL.String()))
	return nil
}

func runSchedulerRun(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	manager, handle, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer manager.Close()

	store := handle.Store()
	sched := scheduler.New(cfg.Settings.Jobs, services.NewCouponService(store), services.NewCartService(store), log)

	fmt.Printf("🔄 Running %s...\n", FormatValue(args[0]))
	if err := sched.RunNow(ctx, args[0]); err != nil {
		return fmt.Errorf("job %s failed: %w", args[0], err)
	}
	fmt.Printf("%s✅ Job %s finished%s\n", SuccessStyle, args[0], Reset)
	return nil
}
