package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/user/notice-crawler/internal/bootstrap"
	"github.com/user/notice-crawler/internal/entity"
	"github.com/user/notice-crawler/internal/usecase"
	"github.com/user/notice-crawler/pkg/config"
	"github.com/user/notice-crawler/pkg/logger"
)

var errInvalidFlag = errors.New("invalid flag value")

// output is what the command prints. Notifications is only set with --summarize.
type output struct {
	Items         []entity.ExtractedItem `json:"items"`
	Notifications []*entity.Notification `json:"notifications,omitempty"`
	Stats         entity.CrawlStats      `json:"stats"`
}

// NewRootCmd creates the crawl command.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <url>",
		Short: "Crawl a site for public notices and print them as JSON",
		Long: `Crawl starts at the given URL, follows in-scope links breadth first and
prints the extracted notices together with crawl statistics.

robots.txt is honoured and requests are spaced by the politeness delay
(3s for government hosts, 1s otherwise) unless --delay is given.

Environment variables (USER_AGENT, FETCH_BACKEND, GEMINI_API_KEY, ...) are
read the same way as by the API server; flags take precedence.

Examples:
  crawl https://www.city.gov.in/notices
  crawl --backend http --max-pages 5 https://news.ycombinator.com
  crawl --summarize --allowed-domain city.gov.in https://www.city.gov.in`,
		Args:          cobra.ExactArgs(1),
		RunE:          runCrawlCmd,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().IntP("max-depth", "d", usecase.DefaultMaxDepth, "Maximum link depth from the start URL")
	cmd.Flags().IntP("max-pages", "p", usecase.DefaultMaxPages, "Maximum number of successfully crawled pages")
	cmd.Flags().Duration("delay", 0, "Fixed delay between requests (default: politeness delay)")
	cmd.Flags().StringSlice("allowed-domain", nil, "Domain the crawl may visit (repeatable, default: start host)")
	cmd.Flags().StringP("backend", "b", "", "Fetch backend: browser or http (default: FETCH_BACKEND)")
	cmd.Flags().BoolP("summarize", "s", false, "Summarize and categorize every extracted item")
	cmd.Flags().BoolP("verbose", "v", false, "Enable debug logging")

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	opts, err := crawlOptions(cmd)
	if err != nil {
		return err
	}
	summarize, _ := cmd.Flags().GetBool("summarize")

	// The production logger writes to stderr, so stdout stays valid JSON.
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	crawler := bootstrap.NewCrawler(cfg, bootstrap.NewFetcher(cfg, log), log, nil)
	result, crawlErr := crawler.Crawl(ctx, args[0], opts)
	if result == nil {
		return crawlErr
	}
	if crawlErr != nil {
		log.Warn("Crawl stopped early, printing partial result", zap.Error(crawlErr))
	}

	out := output{Items: result.Items, Stats: result.Stats}
	if out.Items == nil {
		out.Items = []entity.ExtractedItem{}
	}
	if summarize {
		processor := usecase.NewNotificationProcessor(nil, bootstrap.NewSummarizer(cfg, log, nil), log, nil)
		for _, item := range result.Items {
			if strings.TrimSpace(item.Title) == "" {
				continue
			}
			out.Notifications = append(out.Notifications, processor.Enrich(context.WithoutCancel(ctx), "", item))
		}
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return err
	}
	return crawlErr
}

// applyFlags overrides configuration values with the flags that were set.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("backend") {
		backend, _ := cmd.Flags().GetString("backend")
		cfg.FetchBackend = strings.ToLower(strings.TrimSpace(backend))
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("%w: %w", errInvalidFlag, err)
	}
	return nil
}

// crawlOptions builds the crawl options. --delay is only an override when given,
// so --delay 0 disables the politeness delay.
func crawlOptions(cmd *cobra.Command) (usecase.CrawlOptions, error) {
	maxDepth, _ := cmd.Flags().GetInt("max-depth")
	maxPages, _ := cmd.Flags().GetInt("max-pages")
	domains, _ := cmd.Flags().GetStringSlice("allowed-domain")

	if maxDepth < 0 {
		return usecase.CrawlOptions{}, fmt.Errorf("%w: --max-depth must be non-negative", errInvalidFlag)
	}
	if maxPages <= 0 {
		return usecase.CrawlOptions{}, fmt.Errorf("%w: --max-pages must be positive", errInvalidFlag)
	}

	opts := usecase.CrawlOptions{
		MaxDepth:       maxDepth,
		MaxPages:       maxPages,
		AllowedDomains: domains,
	}
	if cmd.Flags().Changed("delay") {
		delay, _ := cmd.Flags().GetDuration("delay")
		if delay < 0 {
			return usecase.CrawlOptions{}, fmt.Errorf("%w: --delay must be non-negative", errInvalidFlag)
		}
		opts.Delay = &delay
	}
	return opts, nil
}
