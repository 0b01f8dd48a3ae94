package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"liscraper/pkg/auth"
	"liscraper/pkg/browser"
	"liscraper/pkg/config"
	"liscraper/pkg/logger"
	"liscraper/pkg/scraper"
	"liscraper/pkg/storage"
	"liscraper/pkg/ui"
)

var (
	// Scrape command flags
	outputDir   string
	scrollCount int
	maxComments int
	scrollPause time.Duration
	accountName string
	headless    bool
	noSave      bool
	fullScroll  bool
)

// scrapeCmd represents the scrape command
var scrapeCmd = &cobra.Command{
	Use:   "scrape <company-url>",
	Short: "Extract posts from a LinkedIn company page",
	Long: `Extract posts, engagement counts, media URLs, and top comments from a
LinkedIn company page.

This command requires valid LinkedIn credentials configured through one of:
  - Stored credentials (use 'liscraper auth login' to store)
  - Environment variables (LISCRAPER_EMAIL and LISCRAPER_PASSWORD)
  - Configuration file

The URL may point at the company page or its posts listing; it is normalized
to the posts listing either way. The result is written to the output
directory as a UTF-8 JSON report named after the company.`,
	Example: `  # Scrape a company's posts with default settings
  liscraper scrape https://www.linkedin.com/company/acme

  # Scrape deeper into the feed with more comments per post
  liscraper scrape https://www.linkedin.com/company/acme --scrolls 30 --max-comments 50

  # Use a specific stored account and a custom output directory
  liscraper scrape https://www.linkedin.com/company/acme --account me@example.com --output ./reports

  # Watch the browser work
  liscraper scrape https://www.linkedin.com/company/acme --headless=false

  # Scroll the full budget even when the feed stops growing
  liscraper scrape https://www.linkedin.com/company/acme --full-scroll`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		runScrape(cmd, args)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	scrapeCmd.Flags().StringVarP(&outputDir, "output", "o", "", "output directory for results (default: ./results)")
	scrapeCmd.Flags().IntVar(&scrollCount, "scrolls", -1, "scroll budget for feed pagination")
	scrapeCmd.Flags().IntVar(&maxComments, "max-comments", -1, "maximum comments extracted per post")
	scrapeCmd.Flags().DurationVar(&scrollPause, "scroll-pause", 0, "pause between scrolls (e.g. 2s)")
	scrapeCmd.Flags().StringVarP(&accountName, "account", "a", "", "use a specific stored account")
	scrapeCmd.Flags().BoolVar(&headless, "headless", true, "run the browser without a visible window")
	scrapeCmd.Flags().BoolVar(&noSave, "no-save", false, "print the summary without writing a result file")
	scrapeCmd.Flags().BoolVar(&fullScroll, "full-scroll", false, "always use the full scroll budget")
}

func runScrape(cmd *cobra.Command, args []string) {
	companyURL := strings.TrimSpace(args[0])
	ui.PrintInfo("Target Company", companyURL)

	// Build flags map from command line
	flags := make(map[string]interface{})
	if outputDir != "" {
		flags["output"] = outputDir
	}
	if scrollCount >= 0 {
		flags["scrolls"] = scrollCount
	}
	if maxComments >= 0 {
		flags["max-comments"] = maxComments
	}
	if scrollPause > 0 {
		flags["scroll-pause"] = scrollPause
	}
	if cmd.Flags().Changed("headless") {
		flags["headless"] = headless
	}
	if noSave {
		flags["no-save"] = true
	}
	if fullScroll {
		flags["full-scroll"] = true
	}
	if logLevel != "info" {
		flags["log-level"] = logLevel
	}

	// Load configuration
	cfg, err := config.Load(configFile, flags)
	if err != nil {
		ui.PrintError("Failed to load configuration", err.Error())
		os.Exit(1)
	}

	// Initialize logger
	logger.Initialize(&cfg.Logging)
	logger.WithField("version", version).Info("LinkedIn Scraper starting")

	email, password := resolveCredentials(cfg)

	ui.PrintHighlight("[STARTING BROWSER]")
	session, err := browser.NewSession(cfg)
	if err != nil {
		ui.PrintError("Failed to start browser", err.Error())
		os.Exit(1)
	}
	defer session.Close()

	// os.Exit skips deferred calls, so failure paths below close the
	// browser explicitly.
	if err := session.Login(email, password); err != nil {
		logger.WithError(err).Error("Login failed")
		ui.PrintError("LOGIN FAILED", err.Error())
		session.Close()
		os.Exit(1)
	}

	sink, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		ui.PrintError("Failed to prepare output directory", err.Error())
		session.Close()
		os.Exit(1)
	}

	s := scraper.New(session, cfg)
	s.SetSink(sink)

	ui.PrintHighlight("[EXTRACTING COMPANY FEED]")
	result, err := s.ScrapeCompanyPosts(companyURL)
	if err != nil {
		logger.WithError(err).WithField("url", companyURL).Error("Extraction failed")
		ui.PrintError("EXTRACTION FAILED", err.Error())
		session.Close()
		os.Exit(1)
	}

	logger.WithField("posts", len(result.Posts)).Info("Extraction completed successfully")
	ui.PrintSuccess(fmt.Sprintf("[EXTRACTED %d POSTS FROM %s]", len(result.Posts), result.CompanyName))
	if cfg.Output.AutoSave {
		name := fmt.Sprintf("%s_posts_%s.json", result.CompanyName, result.Timestamp)
		ui.PrintInfo("Result file", sink.Path(name))
	}
}

// resolveCredentials picks the LinkedIn account for this run: an explicitly
// named stored account, then credentials from config or environment, then the
// default stored account.
func resolveCredentials(cfg *config.Config) (email, password string) {
	manager, err := auth.NewManager()
	if err != nil {
		ui.PrintError("Failed to initialize credential manager", err.Error())
		os.Exit(1)
	}

	if accountName != "" {
		account, err := manager.Retrieve(accountName)
		if err != nil {
			ui.PrintError("Account not found", accountName)
			ui.PrintInfo("Available accounts", "Use 'liscraper auth list' to see stored accounts")
			os.Exit(1)
		}
		logger.WithField("account", account.Email).Info("Using stored credentials")
		ui.PrintInfo("Using account", account.Email)
		return account.Email, account.Password
	}

	if cfg.LinkedIn.Email != "" && cfg.LinkedIn.Password != "" {
		logger.Info("Using credentials from configuration")
		return cfg.LinkedIn.Email, cfg.LinkedIn.Password
	}

	account, err := manager.RetrieveDefault()
	if err != nil {
		logger.Error("No credentials found")
		ui.PrintError("No LinkedIn credentials found", "")
		fmt.Println("\nTo store credentials securely, run:")
		fmt.Println("  liscraper auth login")
		fmt.Println("\nYou can also set environment variables:")
		fmt.Println("  export LISCRAPER_EMAIL=you@example.com")
		fmt.Println("  export LISCRAPER_PASSWORD=your_password")
		os.Exit(1)
	}
	logger.WithField("account", account.Email).Info("Using stored credentials")
	ui.PrintInfo("Using account", account.Email)
	return account.Email, account.Password
}
