package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/zionge2k/news-alert-system/internal/bootstrap"
	"github.com/zionge2k/news-alert-system/internal/config"
	"github.com/zionge2k/news-alert-system/internal/crawler"
	"github.com/zionge2k/news-alert-system/internal/enqueue"
	"github.com/zionge2k/news-alert-system/internal/publish"
	"github.com/zionge2k/news-alert-system/internal/server"
	"github.com/zionge2k/news-alert-system/internal/service"
	"github.com/zionge2k/news-alert-system/pkg/logger"
)

var (
	configPath string
	version    = "0.1.0"
	gitCommit  = "unknown"
	buildTime  = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "newsalert",
	Short: "newsalert - breaking-news dedup queue and chat publisher",
	Long:  `newsalert crawls news sources, deduplicates articles into a durable queue, and publishes them to a chat channel. Each claim dispatches an item at most once; a failed or stuck item is retried, so a send can repeat when its success was not recorded.`,
}

var runAllCmd = &cobra.Command{
	Use:   "run-all",
	Short: "Run one crawl-and-enqueue cycle, then exit",
	RunE:  runRunAll,
}

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Start the publisher worker loop",
	RunE:  runPublish,
}

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Start the crawl-and-enqueue daemon, running on a fixed interval",
	RunE:  runIngest,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the admin HTTP server",
	RunE:  runServe,
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "Inspect and manage the queue directly",
}

var queueStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print queue status counts",
	RunE:  runQueueStatus,
}

var queueRetryCmd = &cobra.Command{
	Use:   "retry",
	Short: "Move eligible FAILED items back to PENDING",
	RunE:  runQueueRetry,
}

var queueCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete old COMPLETED items",
	RunE:  runQueueClean,
}

var queueAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Enqueue eligible articles from the article store",
	RunE:  runQueueAdd,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("newsalert %s\n", version)
		fmt.Printf("git commit: %s\n", gitCommit)
		fmt.Printf("build time: %s\n", buildTime)
	},
}

var (
	queueMaxRetries int
	queueCleanAge   string
	queuePlatform   string
	queueCategory   string
	queueHours      int
	queueLimit      int
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/newsalert.yaml", "config file path")

	queueRetryCmd.Flags().IntVar(&queueMaxRetries, "max-retries", 3, "retry_count threshold below which FAILED items are retried")
	queueCleanCmd.Flags().StringVar(&queueCleanAge, "age", "168h", "age threshold for deleting COMPLETED items")
	queueAddCmd.Flags().StringVar(&queuePlatform, "platform", "", "restrict to a single platform")
	queueAddCmd.Flags().StringVar(&queueCategory, "category", "", "restrict to a single category")
	queueAddCmd.Flags().IntVar(&queueHours, "hours", 24, "recency window in hours")
	queueAddCmd.Flags().IntVar(&queueLimit, "limit", 100, "max articles to consider")

	queueCmd.AddCommand(queueStatusCmd, queueRetryCmd, queueCleanCmd, queueAddCmd)
	rootCmd.AddCommand(runAllCmd, ingestCmd, publishCmd, serveCmd, queueCmd, versionCmd)
}

func loadAppLogger(cfg *config.Config) (*zap.Logger, error) {
	appLogger, err := logger.NewLogger(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return appLogger, nil
}

func runRunAll(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	ctx := cmd.Context()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	result := crawler.RunCycle(ctx, app.Adapters, app.Articles, appLogger)
	appLogger.Info("crawl cycle completed",
		zap.Int("inserted", result.Inserted),
		zap.Int("skipped", result.Skipped),
		zap.Int("sources_failed", len(result.Failed)))

	inserted, err := app.Enqueue.AddArticlesFromDB(ctx, filterFromConfig(cfg))
	if err != nil {
		return fmt.Errorf("enqueue failed: %w", err)
	}
	appLogger.Info("enqueue completed", zap.Int("inserted", inserted))

	return nil
}

func runPublish(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	target, err := bootstrap.NewChatTarget(cfg)
	if err != nil {
		return err
	}

	workerCfg, err := bootstrap.PublisherConfig(cfg)
	if err != nil {
		return err
	}

	worker := publish.New(workerCfg, app.Queue, app.Published, target, app.Monitor, appLogger)

	appLogger.Info("starting publisher worker")
	return worker.Run(ctx)
}

func runIngest(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	interval, err := time.ParseDuration(cfg.Scheduler.IngestInterval)
	if err != nil {
		return fmt.Errorf("invalid ingest_interval: %w", err)
	}

	scheduler := service.NewIngestScheduler(interval, app.Adapters, app.Articles, app.Enqueue, filterFromConfig(cfg), appLogger)

	appLogger.Info("starting ingest scheduler")
	scheduler.Start(ctx)

	<-ctx.Done()
	appLogger.Info("shutting down ingest scheduler")
	scheduler.Stop()
	return nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	app, err := bootstrap.New(ctx, cfg, appLogger)
	if err != nil {
		return err
	}

	srv := server.NewServer(cfg, app.DB, app.Queue, app.Enqueue, app.Published, app.Monitor, appLogger)

	go func() {
		if err := srv.Start(ctx); err != nil {
			appLogger.Error("admin server failed to start", zap.Error(err))
			cancel()
		}
	}()

	<-ctx.Done()
	appLogger.Info("shutting down admin server")
	return srv.Shutdown(context.Background())
}

func runQueueStatus(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	app, err := bootstrap.New(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}

	counts, err := app.Queue.Status(cmd.Context())
	if err != nil {
		return err
	}
	for status, n := range counts {
		fmt.Printf("%-12s %d\n", status, n)
	}
	return nil
}

func runQueueRetry(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	app, err := bootstrap.New(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}

	n, err := app.Queue.Retry(cmd.Context(), queueMaxRetries)
	if err != nil {
		return err
	}
	fmt.Printf("retried %d items\n", n)
	return nil
}

func runQueueClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	age, err := time.ParseDuration(queueCleanAge)
	if err != nil {
		return fmt.Errorf("invalid age: %w", err)
	}

	app, err := bootstrap.New(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}

	n, err := app.Queue.Clean(cmd.Context(), age)
	if err != nil {
		return err
	}
	fmt.Printf("cleaned %d items\n", n)
	return nil
}

func runQueueAdd(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	appLogger, err := loadAppLogger(cfg)
	if err != nil {
		return err
	}
	defer appLogger.Sync()

	app, err := bootstrap.New(cmd.Context(), cfg, appLogger)
	if err != nil {
		return err
	}

	inserted, err := app.Enqueue.AddArticlesFromDB(cmd.Context(), enqueue.Filter{
		Platform: queuePlatform,
		Category: queueCategory,
		Hours:    queueHours,
		Limit:    queueLimit,
	})
	if err != nil {
		return err
	}
	fmt.Printf("inserted %d items\n", inserted)
	return nil
}

func filterFromConfig(cfg *config.Config) enqueue.Filter {
	platform := ""
	if len(cfg.Filter.Platforms) > 0 {
		platform = cfg.Filter.Platforms[0]
	}
	category := ""
	if len(cfg.Filter.Categories) > 0 {
		category = cfg.Filter.Categories[0]
	}
	return enqueue.Filter{
		Platform: platform,
		Category: category,
		Hours:    cfg.Filter.Hours,
		Limit:    cfg.Filter.Limit,
	}
}

func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		cancel()
	}()
	return ctx, cancel
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
