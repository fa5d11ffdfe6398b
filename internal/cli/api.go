package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/essence-shop/essence/internal/api"
	"github.com/essence-shop/essence/internal/config"
	"github.com/essence-shop/essence/internal/scheduler"
	"github.com/essence-shop/essence/internal/services"
)

var (
	servePort    int
	serveHost    string
	serveNoJobs  bool
	serveOrigins string
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"api"},
	Short:   "Start the Essence REST API server",
	Long: `Start the Essence REST API server. The database must be migrated first
(see 'essence migrate up').

Unless disabled, the maintenance scheduler runs alongside the server.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVarP(&servePort, "port", "p", 0, "Port to run the API server on (overrides PORT)")
	serveCmd.Flags().StringVarP(&serveHost, "host", "H", "", "Host to bind the API server to (overrides HOST)")
	serveCmd.Flags().StringVarP(&serveOrigins, "cors-origins", "c", "", "Comma separated CORS origins (overrides CORS_ORIGINS, use '*' for all origins)")
	serveCmd.Flags().BoolVar(&serveNoJobs, "no-jobs", false, "Do not run the maintenance scheduler")
}

// serveSettings applies the serve flags on top of the loaded settings
func serveSettings(settings config.Settings) (config.Settings, error) {
	if servePort != 0 {
		settings.Port = servePort
	}
	if serveHost != "" {
		settings.Host = serveHost
	}
	if serveOrigins != "" {
		settings.CORSOrigins = config.SplitList(serveOrigins)
	}
	return settings, settings.Validate()
}

func runServe(cmd *cobra.Command, args []string) error {
	settings, err := serveSettings(cfg.Settings)
	if err != nil {
		return err
	}

	if settings.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fmt.Printf("%s🚀 Starting %s API Server%s\n", HeaderStyle, settings.AppName, Reset)
	fmt.Printf("%s===========================%s\n", DimStyle, Reset)
	fmt.Println(FormatLabelValue("Version:", settings.AppVersion))
	fmt.Println(FormatLabelValue("Address:", settings.Address()))
	fmt.Println(FormatLabelValue("CORS Origins:", strings.Join(settings.CORSOrigins, ", ")))
	fmt.Println(FormatLabelValue("URL:", fmt.Sprintf("http://%s%s", settings.Address(), api.APIPrefix)))
	fmt.Println()

	manager, handle, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := manager.Close(); err != nil {
			log.Error("Failed to close database: %v", err)
		}
	}()
	fmt.Printf("%s✅ Database connection successful!%s\n", SuccessStyle, Reset)

	server, err := api.NewServer(settings, handle, log)
	if err != nil {
		return err
	}

	if settings.Jobs.Enabled && !serveNoJobs {
		store := handle.Store()
		sched := scheduler.New(settings.Jobs, services.NewCouponService(store), services.NewCartService(store), log)
		if err := sched.Start(ctx); err != nil {
			return fmt.Errorf("failed to start scheduler: %w", err)
		}
		defer sched.Stop()
		fmt.Printf("%s📅 Running %s maintenance job(s)%s\n", InfoStyle, FormatCount(len(sched.Jobs())), Reset)
	}

	fmt.Printf("%s🌐 API Server is running! Press Ctrl+C to stop%s\n", InfoStyle, Reset)
	fmt.Println()

	if err := server.Run(ctx); err != nil {
		return err
	}
	fmt.Printf("\n%s🛑 API server stopped%s\n", InfoStyle, Reset)
	return nil
}
