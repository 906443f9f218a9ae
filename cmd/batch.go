package cmd

import (
	"context"
	"log"
	"market-sentiment/internal/repository"
	"market-sentiment/internal/service"
	"market-sentiment/pkg/utils"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var (
	batchDelay        time.Duration
	batchLimit        int
	batchTicker       string
	batchTimePeriod   string
	batchSkipExisting bool
	batchForce        bool
)

func runBatch(fn func(ctx context.Context, services *service.Service) error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	appDep, err := NewAppDependency(ctx)
	if err != nil {
		log.Fatalf("Failed to create app dependency: %v", err)
	}
	defer appDep.Close()

	repo, err := repository.NewRepository(appDep.cfg, appDep.db.DB, appDep.log)
	if err != nil {
		log.Fatalf("Failed to create repository: %v", err)
	}

	services := service.NewService(appDep.cfg, appDep.log, repo, appDep.cache)
	if err := fn(ctx, services); err != nil {
		log.Fatalf("Batch job failed: %v", err)
	}
}

func batchOptions() service.BatchOptions {
	return service.BatchOptions{
		Tickers:      utils.SplitTickers(batchTicker),
		Limit:        batchLimit,
		TimePeriod:   batchTimePeriod,
		Delay:        batchDelay,
		SkipExisting: batchSkipExisting,
		Force:        batchForce,
	}
}

var populateStocksCmd = &cobra.Command{
	Use:   "populate-stocks",
	Short: "Refresh quotes for the popular ticker universe",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) error {
			_, err := services.BatchService.PopulateStocks(ctx, batchOptions())
			return err
		})
	},
}

var populateNewsCmd = &cobra.Command{
	Use:   "populate-news",
	Short: "Fetch and store news articles for the popular ticker universe",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) error {
			_, err := services.BatchService.PopulateNews(ctx, batchOptions())
			return err
		})
	},
}

var analyzeSentimentsCmd = &cobra.Command{
	Use:   "analyze-sentiments",
	Short: "Classify stored news articles that have no sentiment yet",
	Run: func(cmd *cobra.Command, args []string) {
		runBatch(func(ctx context.Context, services *service.Service) error {
			_, err := services.BatchService.AnalyzeSentiments(ctx, batchOptions())
			return err
		})
	},
}

func init() {
	for _, c := range []*cobra.Command{populateStocksCmd, populateNewsCmd, analyzeSentimentsCmd} {
		c.Flags().DurationVar(&batchDelay, "delay", time.Second, "pause between provider calls")
		c.Flags().StringVar(&batchTicker, "ticker", "", "comma-separated tickers, defaults to the popular universe")
	}
	populateNewsCmd.Flags().IntVar(&batchLimit, "limit", 20, "articles to fetch per ticker")
	populateNewsCmd.Flags().StringVar(&batchTimePeriod, "time-period", "7d", "news window: 1d, 7d or 30d")
	populateNewsCmd.Flags().BoolVar(&batchSkipExisting, "skip-existing", false, "skip tickers that already meet the limit")
	populateStocksCmd.Flags().BoolVar(&batchSkipExisting, "skip-existing", false, "skip tickers with a fresh quote")
	analyzeSentimentsCmd.Flags().IntVar(&batchLimit, "limit", 0, "max articles to classify, 0 for all")
	analyzeSentimentsCmd.Flags().BoolVar(&batchForce, "force", false, "re-classify already analyzed articles")
}
