package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/leadforge/leadforge/internal/activity"
	"github.com/leadforge/leadforge/internal/api"
	"github.com/leadforge/leadforge/internal/config"
	"github.com/leadforge/leadforge/internal/email"
	"github.com/leadforge/leadforge/internal/inbox"
	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/notify"
	"github.com/leadforge/leadforge/internal/registry"
	"github.com/leadforge/leadforge/internal/suppress"
	"github.com/leadforge/leadforge/internal/template"
	"github.com/leadforge/leadforge/internal/track"
	"github.com/leadforge/leadforge/internal/web"
)

var (
	cfgFile      string
	suppressFile string
)

func resolveConfigPath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultConfigPath()
}

func resolveSuppressPath() string {
	if suppressFile != "" {
		return suppressFile
	}
	return suppress.DefaultPath()
}

func main() {
	rootCmd := &cobra.Command{
		Use:   "leadforge",
		Short: "LeadForge - Lead generation and outreach dashboard",
		Long: `LeadForge is a local dashboard and CLI for managing lead generation
campaigns on a LeadForge backend.

It scrapes leads, tracks long-running AI generation jobs, sends outreach
emails and WhatsApp messages, and monitors your inbox for replies.`,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.leadforge/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&suppressFile, "suppressions", "", "do-not-contact file (default is $HOME/.leadforge/do_not_contact.yaml)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(watchCmd())
	rootCmd.AddCommand(campaignsCmd())
	rootCmd.AddCommand(leadsCmd())
	rootCmd.AddCommand(scrapeCmd())
	rootCmd.AddCommand(generateCmd())
	rootCmd.AddCommand(cancelCmd())
	rootCmd.AddCommand(bulkCmd())
	rootCmd.AddCommand(sendCmd())
	rootCmd.AddCommand(uploadCmd())
	rootCmd.AddCommand(enrichCmd())
	rootCmd.AddCommand(exportCmd())
	rootCmd.AddCommand(templatesCmd())
	rootCmd.AddCommand(analyticsCmd())
	rootCmd.AddCommand(statusCmd())
	rootCmd.AddCommand(monitorCmd())
	rootCmd.AddCommand(cleanupBouncesCmd())
	rootCmd.AddCommand(suppressCmd())
	rootCmd.AddCommand(testConnectionCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadClient loads config and builds an API client from it
func loadClient() (*config.Config, *api.Client, error) {
	cfg, err := config.Load(resolveConfigPath())
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	var opts []api.Option
	if cfg.API.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.API.RateLimit))
	}
	return cfg, api.NewClient(cfg.API.BaseURL, cfg.API.Token, opts...), nil
}

// signalContext returns a context cancelled on SIGINT/SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		fmt.Println("\nShutting down...")
		cancel()
	}()
	return ctx, cancel
}

func initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize configuration interactively",
		Long:  "Create a new configuration file with your backend credentials and company information.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit()
		},
	}
}

func runInit() error {
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("🔧 LeadForge Configuration Setup")
	fmt.Println("=================================")
	fmt.Println()

	cfg := &config.Config{}

	fmt.Println("🌐 Backend API")
	fmt.Println()

	cfg.API.BaseURL = prompt(reader, "API base URL (e.g. https://api.example.com): ")
	cfg.API.Token = prompt(reader, "API token: ")

	fmt.Println()
	fmt.Println("🏢 Company Information (used in AI generation)")
	fmt.Println()

	cfg.Company.Name = prompt(reader, "Company name: ")
	cfg.Company.Description = prompt(reader, "Company description (what you sell, to whom): ")
	cfg.Company.CustomInstruction = prompt(reader, "Extra generation instructions (optional): ")

	fmt.Println()
	fmt.Println("📧 Sender Settings (for email delivery, optional)")
	fmt.Println()

	cfg.Sender.Email = prompt(reader, "Sender email address: ")
	if cfg.Sender.Email != "" {
		cfg.Sender.Password = prompt(reader, "App password (16-character code for Gmail): ")
	}

	fmt.Println()
	fmt.Println("⚙️  Options")
	fmt.Println()

	autoRefresh := prompt(reader, "Enable auto-refresh polling in the dashboard? (y/n) [y]: ")
	cfg.Polling.AutoRefresh = autoRefresh == "" || strings.EqualFold(autoRefresh, "y")

	configPath := resolveConfigPath()
	if err := config.Save(configPath, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Println()
	fmt.Printf("✅ Configuration saved to: %s\n", configPath)
	fmt.Println()
	fmt.Println("Next steps:")
	fmt.Println("  1. Run 'leadforge campaigns' to list your campaigns")
	fmt.Println("  2. Run 'leadforge scrape --campaign <id> --query \"...\"' to find leads")
	fmt.Println("  3. Run 'leadforge serve' to open the dashboard")

	return nil
}

func serveCmd() *cobra.Command {
	var port int

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the local dashboard server",
		Long: `Start a local server providing the dashboard API for LeadForge.

The server tracks long-running generation jobs across restarts, polls the
backend for completions, and coordinates bulk operations over your lead
selection. It binds to localhost only.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(port)
		},
	}

	cmd.Flags().IntVar(&port, "port", 8080, "Port to listen on")

	return cmd
}

func runServe(port int) error {
	configPath := resolveConfigPath()
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	reg := registry.New(registry.NewFileStore(registry.DefaultPath()))
	if _, err := reg.Load(); err != nil {
		fmt.Printf("⚠️  Could not load pending tasks, starting fresh: %v\n", err)
	}

	center := notify.NewCenter()
	tracker := track.New(client, reg, center)
	tracker.SetAutoRefresh(cfg.Polling.AutoRefresh)
	applyPollingConfig(tracker, cfg)

	store, err := activity.NewStore(activity.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to initialize activity store: %w", err)
	}
	defer store.Close()

	server, err := web.NewServer(port, cfg, configPath, client, tracker, center, store)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	ctx, cancel := signalContext()
	defer cancel()

	go func() {
		<-ctx.Done()
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shutdownCancel()
		server.Shutdown(shutdownCtx)
	}()

	return server.Start(ctx)
}

// applyPollingConfig copies configured polling intervals onto the tracker
func applyPollingConfig(tracker *track.Tracker, cfg *config.Config) {
	iv := track.DefaultIntervals()
	if cfg.Polling.IntervalSeconds > 0 {
		iv.Poll = time.Duration(cfg.Polling.IntervalSeconds) * time.Second
	}
	if cfg.Polling.InitialDelaySeconds > 0 {
		iv.InitialDelay = time.Duration(cfg.Polling.InitialDelaySeconds) * time.Second
	}
	if cfg.Polling.MinFetchGapSeconds > 0 {
		iv.MinFetchGap = time.Duration(cfg.Polling.MinFetchGapSeconds) * time.Second
	}
	tracker.SetIntervals(iv)
}

func watchCmd() *cobra.Command {
	var campaignID string

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Watch pending generation jobs until they complete",
		Long: `Run the reconciliation loop in the foreground: poll the backend for
the campaign's leads and report each pending generation job as its content
arrives. Press Ctrl+C to stop; jobs continue running server-side.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(campaignID)
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID to watch (required)")
	cmd.MarkFlagRequired("campaign")

	return cmd
}

func runWatch(campaignID string) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	reg := registry.New(registry.NewFileStore(registry.DefaultPath()))
	if _, err := reg.Load(); err != nil {
		fmt.Printf("⚠️  Could not load pending tasks, starting fresh: %v\n", err)
	}

	center := notify.NewCenter()
	center.Attach(notify.Func(func(level notify.Level, format string, args ...interface{}) {
		icon := "ℹ️ "
		switch level {
		case notify.LevelSuccess:
			icon = "✅"
		case notify.LevelWarning:
			icon = "⚠️ "
		case notify.LevelError:
			icon = "❌"
		}
		fmt.Printf("%s %s\n", icon, fmt.Sprintf(format, args...))
	}))

	tracker := track.New(client, reg, center)
	tracker.SetAutoRefresh(true)
	applyPollingConfig(tracker, cfg)
	tracker.SetCampaign(campaignID)

	pending := reg.Tasks()
	if len(pending) == 0 {
		fmt.Println("No pending jobs. Watching for completions anyway; Ctrl+C to stop.")
	} else {
		fmt.Printf("👀 Watching %d pending job(s):\n", len(pending))
		for _, task := range pending {
			fmt.Printf("   • %s: %s (started %s ago)\n", task.EntityLabel, task.Kind, task.Age(time.Now()).Round(time.Second))
		}
	}
	fmt.Println()

	ctx, cancel := signalContext()
	defer cancel()

	tracker.Run(ctx)
	return nil
}

func campaignsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "campaigns",
		Short: "List campaigns on the backend",
		RunE: func(cmd *cobra.Command, args []string) error {
			_, client, err := loadClient()
			if err != nil {
				return err
			}

			campaigns, err := client.Campaigns(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list campaigns: %w", err)
			}

			fmt.Printf("📋 Campaigns (%d total)\n", len(campaigns))
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			for _, c := range campaigns {
				fmt.Printf("\n%s [%s]\n", c.Name, c.ID)
				fmt.Printf("  Status: %s\n", c.Status)
				fmt.Printf("  Leads:  %d\n", c.LeadCount)
				if c.Source != "" {
					fmt.Printf("  Source: %s\n", c.Source)
				}
			}
			return nil
		},
	}
}

func leadsCmd() *cobra.Command {
	var campaignID string

	cmd := &cobra.Command{
		Use:   "leads",
		Short: "List leads in a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			leads, err := client.CampaignLeads(context.Background(), campaignID)
			if err != nil {
				return fmt.Errorf("failed to fetch leads: %w", err)
			}

			fmt.Printf("📋 Leads (%d total)\n", len(leads))
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			for _, l := range leads {
				fmt.Printf("\n%s [%s]\n", l.Name, l.ID)
				if l.Email != "" {
					fmt.Printf("  📧 %s\n", l.Email)
				}
				if l.Phone != "" {
					fmt.Printf("  📞 %s\n", l.Phone)
				}
				if l.Website != "" {
					fmt.Printf("  🌐 %s\n", l.Website)
				}
				var ready []string
				for _, kind := range lead.Kinds {
					if l.HasContent(kind) {
						ready = append(ready, string(kind))
					}
				}
				if len(ready) > 0 {
					fmt.Printf("  ✅ Generated: %s\n", strings.Join(ready, ", "))
				}
				if l.EmailSent {
					fmt.Printf("  📤 Email sent\n")
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")

	return cmd
}

func scrapeCmd() *cobra.Command {
	var (
		campaignID string
		source     string
		query      string
		location   string
		maxResults int
	)

	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Start scraping leads into a campaign",
		Long: `Ask the backend to scrape new leads into a campaign.

Sources: google_maps, linkedin, instagram. Scraping runs server-side; use
'leadforge leads' or the dashboard to see results as they arrive.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" || query == "" {
				return fmt.Errorf("--campaign and --query are required")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			err = client.GenerateLeads(context.Background(), campaignID, lead.Source(source), api.ScrapeParams{
				Query:      query,
				Location:   location,
				MaxResults: maxResults,
			})
			if err != nil {
				return fmt.Errorf("failed to start scraping: %w", err)
			}

			fmt.Printf("🔍 Scraping started for campaign %s\n", campaignID)
			fmt.Println("Run 'leadforge leads --campaign " + campaignID + "' to see results")
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().StringVar(&source, "source", "google_maps", "Lead source (google_maps/linkedin/instagram)")
	cmd.Flags().StringVar(&query, "query", "", "Search query (e.g. \"dentists\")")
	cmd.Flags().StringVar(&location, "location", "", "Location filter (e.g. \"Austin, TX\")")
	cmd.Flags().IntVar(&maxResults, "max", 50, "Maximum leads to scrape")

	return cmd
}

func generateCmd() *cobra.Command {
	var (
		leadID string
		kind   string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Start a generation job for a lead",
		Long: `Start an AI generation job for a single lead.

Kinds: description, deep_research, email, whatsapp. Jobs run server-side;
the dashboard tracks completion. Company information from your config is
passed as generation context.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if leadID == "" {
				return fmt.Errorf("--lead is required")
			}
			k := lead.Kind(kind)
			if !k.Valid() {
				return fmt.Errorf("unknown kind %q (use description, deep_research, email or whatsapp)", kind)
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			params := api.GenerateParams{
				CompanyInfo:       cfg.Company.Description,
				CustomInstruction: cfg.Company.CustomInstruction,
			}
			if err := client.Generate(context.Background(), leadID, k, params); err != nil {
				return fmt.Errorf("failed to start generation: %w", err)
			}

			fmt.Printf("⚙️  %s generation queued for lead %s\n", kind, leadID)
			return nil
		},
	}

	cmd.Flags().StringVar(&leadID, "lead", "", "Lead ID")
	cmd.Flags().StringVar(&kind, "kind", "description", "Generation kind")

	return cmd
}

func cancelCmd() *cobra.Command {
	var (
		leadID     string
		campaignID string
	)

	cmd := &cobra.Command{
		Use:   "cancel",
		Short: "Cancel an in-flight generation or scraping job",
		RunE: func(cmd *cobra.Command, args []string) error {
			if leadID == "" && campaignID == "" {
				return fmt.Errorf("specify --lead or --campaign")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			if leadID != "" {
				result, err := client.CancelLeadGeneration(context.Background(), leadID)
				if err != nil {
					return fmt.Errorf("failed to cancel: %w", err)
				}
				if result.Cancelled {
					fmt.Printf("🛑 Cancelled generation for lead %s\n", leadID)
				} else {
					fmt.Printf("ℹ️  Nothing to cancel for lead %s\n", leadID)
				}
				return nil
			}

			result, err := client.CancelCampaignGeneration(context.Background(), campaignID)
			if err != nil {
				return fmt.Errorf("failed to cancel: %w", err)
			}
			if result.Cancelled {
				fmt.Printf("🛑 Cancelled scraping for campaign %s\n", campaignID)
			} else {
				fmt.Printf("ℹ️  No scraping job running for campaign %s\n", campaignID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&leadID, "lead", "", "Lead ID to cancel generation for")
	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID to cancel scraping for")

	return cmd
}

func bulkCmd() *cobra.Command {
	var (
		campaignID string
		kind       string
		ids        []string
		all        bool
	)

	cmd := &cobra.Command{
		Use:   "bulk",
		Short: "Run a generation job for many leads at once",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}
			k := lead.Kind(kind)
			if !k.Valid() {
				return fmt.Errorf("unknown kind %q", kind)
			}
			if len(ids) == 0 && !all {
				return fmt.Errorf("specify --ids or --all")
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			if cfg.Company.Description == "" {
				return fmt.Errorf("company description is required, set it with 'leadforge init'")
			}

			ctx := context.Background()

			leadIDs := ids
			if all {
				leads, err := client.CampaignLeads(ctx, campaignID)
				if err != nil {
					return fmt.Errorf("failed to fetch leads: %w", err)
				}
				leadIDs = leadIDs[:0]
				for _, l := range leads {
					if !l.HasContent(k) {
						leadIDs = append(leadIDs, l.ID)
					}
				}
				if len(leadIDs) == 0 {
					fmt.Println("✅ All leads already have this content")
					return nil
				}
			}

			fmt.Printf("⚙️  Starting %s generation for %d leads...\n", kind, len(leadIDs))

			report, err := client.BulkGenerate(ctx, campaignID, k, leadIDs, api.GenerateParams{
				CompanyInfo:       cfg.Company.Description,
				CustomInstruction: cfg.Company.CustomInstruction,
			})
			if err != nil {
				return fmt.Errorf("bulk generation failed: %w", err)
			}

			printBulkReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().StringVar(&kind, "kind", "description", "Generation kind")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Lead IDs (comma-separated)")
	cmd.Flags().BoolVar(&all, "all", false, "Target every lead in the campaign missing this content")

	return cmd
}

func sendCmd() *cobra.Command {
	var (
		campaignID string
		ids        []string
		all        bool
		whatsapp   bool
		dryRun     bool
	)

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send generated outreach to leads",
		Long: `Send the generated emails (or WhatsApp messages) for leads in a
campaign. Leads on the do-not-contact list are skipped automatically.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}
			if len(ids) == 0 && !all {
				return fmt.Errorf("specify --ids or --all")
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			if !whatsapp {
				if err := cfg.ValidateSender(); err != nil {
					return fmt.Errorf("sender not configured: %w", err)
				}
			}

			suppressions, err := suppress.LoadFromFile(resolveSuppressPath())
			if err != nil {
				return fmt.Errorf("failed to load do-not-contact list: %w", err)
			}

			ctx := context.Background()

			leads, err := client.CampaignLeads(ctx, campaignID)
			if err != nil {
				return fmt.Errorf("failed to fetch leads: %w", err)
			}

			contentKind := lead.KindEmail
			if whatsapp {
				contentKind = lead.KindWhatsApp
			}

			wanted := make(map[string]bool, len(ids))
			for _, id := range ids {
				wanted[id] = true
			}

			var leadIDs []string
			skippedSuppressed := 0
			skippedEmpty := 0
			for _, l := range leads {
				if !all && !wanted[l.ID] {
					continue
				}
				if suppressions.IsBlocked(l.Email) {
					skippedSuppressed++
					continue
				}
				if !l.HasContent(contentKind) {
					skippedEmpty++
					continue
				}
				leadIDs = append(leadIDs, l.ID)
			}

			if skippedSuppressed > 0 {
				fmt.Printf("⏭️  Skipping %d lead(s) on the do-not-contact list\n", skippedSuppressed)
			}
			if skippedEmpty > 0 {
				fmt.Printf("⏭️  Skipping %d lead(s) without generated content\n", skippedEmpty)
			}
			if len(leadIDs) == 0 {
				fmt.Println("No leads to send to.")
				return nil
			}

			if dryRun {
				fmt.Printf("🔍 DRY RUN - would send to %d lead(s)\n", len(leadIDs))
				return nil
			}

			params := api.SendParams{
				LeadIDs: leadIDs,
				Sender: &api.SenderCredentials{
					Email:    cfg.Sender.Email,
					Password: cfg.Sender.Password,
					Host:     cfg.Sender.Host,
					Port:     cfg.Sender.Port,
				},
				MinDelaySeconds: cfg.Sender.MinDelaySeconds,
				MaxDelaySeconds: cfg.Sender.MaxDelaySeconds,
			}

			fmt.Printf("📤 Sending to %d lead(s)...\n", len(leadIDs))

			var report api.BulkReport
			if whatsapp {
				report, err = client.SendWhatsApp(ctx, campaignID, params)
			} else {
				report, err = client.SendEmails(ctx, campaignID, params)
			}
			if err != nil {
				return fmt.Errorf("send failed: %w", err)
			}

			printBulkReport(report)
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().StringSliceVar(&ids, "ids", nil, "Lead IDs (comma-separated)")
	cmd.Flags().BoolVar(&all, "all", false, "Send to every lead with generated content")
	cmd.Flags().BoolVar(&whatsapp, "whatsapp", false, "Send WhatsApp messages instead of emails")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Preview recipients without sending")

	return cmd
}

func printBulkReport(report api.BulkReport) {
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("📊 Complete: %d succeeded, %d failed of %d\n", report.Succeeded, report.Failed, report.Total)
	for _, f := range report.Failures {
		fmt.Printf("  ❌ %s: %s\n", f.LeadID, f.Reason)
	}
}

func uploadCmd() *cobra.Command {
	var (
		campaignID string
		filePath   string
		genDesc    bool
		genEmails  bool
	)

	cmd := &cobra.Command{
		Use:   "upload",
		Short: "Upload leads from a CSV or Excel file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" || filePath == "" {
				return fmt.Errorf("--campaign and --file are required")
			}

			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("failed to open file: %w", err)
			}
			defer f.Close()

			opts := api.UploadOptions{
				GenerateDescriptions: genDesc,
				GenerateEmails:       genEmails,
			}
			if genDesc || genEmails {
				opts.CompanyInfo = cfg.Company.Description
			}

			fmt.Printf("📤 Uploading %s...\n", filePath)

			report, err := client.UploadLeads(context.Background(), campaignID, filePath, f, opts)
			if err != nil {
				return fmt.Errorf("upload failed: %w", err)
			}

			fmt.Printf("📊 Imported %d of %d rows", report.Imported, report.Total)
			if report.Failed > 0 {
				fmt.Printf(" (%d failed)", report.Failed)
			}
			fmt.Println()
			for _, e := range report.Errors {
				fmt.Printf("  ❌ row %d: %s\n", e.Row, e.Reason)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().StringVar(&filePath, "file", "", "CSV or Excel file to upload")
	cmd.Flags().BoolVar(&genDesc, "generate-descriptions", false, "Generate descriptions for imported leads")
	cmd.Flags().BoolVar(&genEmails, "generate-emails", false, "Generate emails for imported leads")

	return cmd
}

func enrichCmd() *cobra.Command {
	var campaignID string

	cmd := &cobra.Command{
		Use:   "enrich",
		Short: "Enrich campaign leads with contact details",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			if err := client.EnrichLeads(context.Background(), campaignID); err != nil {
				return fmt.Errorf("enrichment failed: %w", err)
			}

			fmt.Printf("🔎 Enrichment started for campaign %s\n", campaignID)
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")

	return cmd
}

func exportCmd() *cobra.Command {
	var (
		campaignID string
		outPath    string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export campaign leads to a CSV file",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			leads, err := client.CampaignLeads(context.Background(), campaignID)
			if err != nil {
				return fmt.Errorf("failed to fetch leads: %w", err)
			}

			if outPath == "" {
				outPath = lead.ExportFileName(campaignID, time.Now())
			}

			f, err := os.Create(outPath)
			if err != nil {
				return fmt.Errorf("failed to create file: %w", err)
			}
			defer f.Close()

			if err := lead.ExportCSV(f, leads); err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			fmt.Printf("✅ Exported %d leads to %s\n", len(leads), outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().StringVar(&outPath, "out", "", "Output file (default: leads_<campaign>_<date>.csv)")

	return cmd
}

func templatesCmd() *cobra.Command {
	var previewName string

	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List stored email templates",
		Long: `List email templates stored on the backend. With --preview, render
one locally against a sample lead to check the output.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}

			templates, err := client.EmailTemplates(context.Background())
			if err != nil {
				return fmt.Errorf("failed to list templates: %w", err)
			}

			if previewName != "" {
				engine, err := template.NewEngine(templates)
				if err != nil {
					return fmt.Errorf("failed to build templates: %w", err)
				}

				sample := lead.Lead{
					Name:    "Acme Corp",
					Email:   "hello@acme.example",
					Phone:   "+1 555 0100",
					Website: "https://acme.example",
				}
				rendered, err := engine.Render(previewName, sample, cfg.Company)
				if err != nil {
					return err
				}

				fmt.Printf("Subject: %s\n", rendered.Subject)
				fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				fmt.Println(rendered.Body)
				return nil
			}

			fmt.Printf("📋 Email Templates (%d total)\n", len(templates))
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			for _, t := range templates {
				fmt.Printf("\n%s [%s]\n", t.Name, t.ID)
				if t.Subject != "" {
					fmt.Printf("  Subject: %s\n", t.Subject)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&previewName, "preview", "", "Render the named template against a sample lead")

	return cmd
}

func analyticsCmd() *cobra.Command {
	var (
		campaignID string
		logs       bool
	)

	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show email analytics for a campaign",
		RunE: func(cmd *cobra.Command, args []string) error {
			if campaignID == "" {
				return fmt.Errorf("--campaign is required")
			}

			_, client, err := loadClient()
			if err != nil {
				return err
			}

			ctx := context.Background()

			a, err := client.CampaignEmailAnalytics(ctx, campaignID)
			if err != nil {
				return fmt.Errorf("failed to fetch analytics: %w", err)
			}

			fmt.Println("📊 Email Analytics")
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			fmt.Printf("  Sent:      %d\n", a.Sent)
			fmt.Printf("  Delivered: %d\n", a.Delivered)
			fmt.Printf("  Opened:    %d (%.1f%%)\n", a.Opened, a.OpenRate*100)
			fmt.Printf("  Clicked:   %d (%.1f%%)\n", a.Clicked, a.ClickRate*100)
			fmt.Printf("  Bounced:   %d\n", a.Bounced)
			fmt.Printf("  Failed:    %d\n", a.Failed)

			if logs {
				entries, err := client.CampaignEmailLogs(ctx, campaignID)
				if err != nil {
					return fmt.Errorf("failed to fetch email logs: %w", err)
				}
				fmt.Println()
				fmt.Printf("📜 Delivery Log (%d entries)\n", len(entries))
				fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
				for _, e := range entries {
					fmt.Printf("  %s  %s  %s\n", e.SentAt, e.Status, e.Recipient)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&campaignID, "campaign", "", "Campaign ID")
	cmd.Flags().BoolVar(&logs, "logs", false, "Show the per-message delivery log")

	return cmd
}

func statusCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent operations and reply statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Number of recent operations to show")

	return cmd
}

func runStatus(limit int) error {
	store, err := activity.NewStore(activity.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open activity store: %w", err)
	}
	defer store.Close()

	total, succeeded, failed, cancelled, err := store.OperationStats()
	if err != nil {
		return fmt.Errorf("failed to get stats: %w", err)
	}

	fmt.Println("📊 LeadForge Activity")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("  Total operations: %d\n", total)
	fmt.Printf("  Succeeded: %d\n", succeeded)
	fmt.Printf("  Failed:    %d\n", failed)
	fmt.Printf("  Cancelled: %d\n", cancelled)

	records, err := store.RecentOperations(limit)
	if err != nil {
		return fmt.Errorf("failed to get recent operations: %w", err)
	}

	if len(records) > 0 {
		fmt.Println()
		fmt.Printf("📜 Recent Operations (last %d)\n", limit)
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		for _, r := range records {
			icon := "✅"
			if r.Status == activity.StatusFailed {
				icon = "❌"
			}
			target := r.LeadName
			if target == "" {
				target = r.CampaignID
			}
			fmt.Printf("%s %s  %s %s\n", icon, r.CreatedAt.Format("2006-01-02 15:04"), r.Action, target)
			if r.Detail != "" {
				fmt.Printf("   %s\n", r.Detail)
			}
		}
	}

	replyStats, err := store.ReplyStats()
	if err == nil && len(replyStats) > 0 {
		fmt.Println()
		fmt.Println("📬 Reply Classification:")
		for replyType, count := range replyStats {
			fmt.Printf("  %s: %d\n", replyType, count)
		}
	}

	// Show pending jobs from the durable registry
	reg := registry.New(registry.NewFileStore(registry.DefaultPath()))
	if tasks, err := reg.Load(); err == nil && len(tasks) > 0 {
		fmt.Println()
		fmt.Printf("⏳ Pending Jobs (%d)\n", len(tasks))
		fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
		for _, t := range tasks {
			fmt.Printf("  • %s [%s] started %s ago\n", t.EntityLabel, t.Kind, t.Age(time.Now()).Round(time.Second))
		}
	}

	return nil
}

func monitorCmd() *cobra.Command {
	var (
		days  int
		watch bool
	)

	cmd := &cobra.Command{
		Use:   "monitor",
		Short: "Monitor inbox for lead replies",
		Long: `Connect to your email inbox via IMAP and scan for replies from leads.

This command will:
- Fetch recent emails from addresses matching your campaign leads
- Classify replies (interested, not interested, unsubscribe, bounce, ...)
- Extract meeting links from interested replies
- Add unsubscribes and bounces to the do-not-contact list

Requires inbox configuration in config.yaml with IMAP settings.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMonitor(days, watch)
		},
	}

	cmd.Flags().IntVar(&days, "days", 7, "Number of days to look back for emails")
	cmd.Flags().BoolVar(&watch, "watch", false, "Continuously watch for new emails")

	return cmd
}

func runMonitor(days int, watch bool) error {
	cfg, client, err := loadClient()
	if err != nil {
		return err
	}

	if err := cfg.ValidateInbox(); err != nil {
		fmt.Println("📧 Inbox monitoring is not configured.")
		fmt.Println()
		fmt.Println("To enable it, add the following to your config.yaml:")
		fmt.Println()
		fmt.Println("inbox:")
		fmt.Println("  enabled: true")
		fmt.Println("  provider: gmail")
		fmt.Println("  email: your-email@gmail.com")
		fmt.Println("  password: your-app-password  # Use an App Password, not your main password")
		fmt.Println()
		fmt.Println("For Gmail, you'll need to:")
		fmt.Println("  1. Enable 2-Step Verification")
		fmt.Println("  2. Generate an App Password at https://myaccount.google.com/apppasswords")
		fmt.Println("  3. Enable IMAP in Gmail settings")
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	// Gather leads from all campaigns for sender matching
	campaigns, err := client.Campaigns(ctx)
	if err != nil {
		return fmt.Errorf("failed to list campaigns: %w", err)
	}

	var allLeads []lead.Lead
	for _, c := range campaigns {
		leads, err := client.CampaignLeads(ctx, c.ID)
		if err != nil {
			fmt.Printf("⚠️  Could not fetch leads for %s: %v\n", c.Name, err)
			continue
		}
		allLeads = append(allLeads, leads...)
	}

	store, err := activity.NewStore(activity.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to initialize activity store: %w", err)
	}
	defer store.Close()
	recorder := inbox.NewRecorder(store)

	suppressPath := resolveSuppressPath()
	suppressions, err := suppress.LoadFromFile(suppressPath)
	if err != nil {
		return fmt.Errorf("failed to load do-not-contact list: %w", err)
	}

	monitor := inbox.NewMonitor(cfg.Inbox, allLeads)

	if err := monitor.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to inbox: %w", err)
	}
	defer monitor.Disconnect()

	fmt.Printf("📬 Scanning inbox for lead replies (last %d days, %d leads known)...\n", days, len(allLeads))
	fmt.Println()

	emails, err := monitor.FetchLeadReplies(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to fetch emails: %w", err)
	}

	if len(emails) == 0 {
		fmt.Println("No replies from known leads found.")
		if !watch {
			return nil
		}
	}

	replies := inbox.ClassifyBatch(emails)
	suppressedNew := 0
	for _, r := range replies {
		printClassifiedReply(r)

		if _, err := recorder.Record(r); err != nil {
			fmt.Printf("⚠️  Failed to store reply: %v\n", err)
		}

		if added := suppressForReply(suppressions, r); added {
			suppressedNew++
		}
	}

	if suppressedNew > 0 {
		if err := suppressions.SaveWithBackup(suppressPath); err != nil {
			fmt.Printf("⚠️  Failed to save do-not-contact list: %v\n", err)
		} else {
			fmt.Printf("🚫 Added %d address(es) to the do-not-contact list\n", suppressedNew)
		}
	}

	// Archive processed emails if enabled
	if cfg.Inbox.AutoArchive && len(emails) > 0 {
		archiveFolder := cfg.Inbox.ArchiveFolder

		if err := monitor.EnsureFolderExists(archiveFolder); err != nil {
			fmt.Printf("⚠️  Could not create archive folder: %v\n", err)
		} else {
			var uids []uint32
			for _, e := range emails {
				if e.UID > 0 {
					uids = append(uids, e.UID)
				}
			}
			if len(uids) > 0 {
				if err := monitor.ArchiveEmails(uids, archiveFolder); err != nil {
					fmt.Printf("⚠️  Could not archive emails: %v\n", err)
				} else {
					fmt.Printf("📁 Archived %d emails to '%s'\n", len(uids), archiveFolder)
				}
			}
		}
	}

	summary := inbox.SummarizeReplies(replies)
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println("📊 Summary:")
	fmt.Printf("  Total replies:      %d\n", summary.Total)
	fmt.Printf("  🎯 Interested:      %d\n", summary.Interested)
	fmt.Printf("  🙅 Not interested:  %d\n", summary.NotInterested)
	fmt.Printf("  🚫 Unsubscribe:     %d\n", summary.Unsubscribe)
	fmt.Printf("  📭 Bounced:         %d\n", summary.Bounced)
	fmt.Printf("  🏖️  Out of office:   %d\n", summary.OutOfOffice)
	fmt.Printf("  🤖 Auto-reply:      %d\n", summary.AutoReply)
	fmt.Printf("  ❓ Unknown:         %d\n", summary.Unknown)
	fmt.Printf("  👁️  Need review:     %d\n", summary.NeedReview)

	if !watch {
		return nil
	}

	fmt.Println()
	fmt.Println("👀 Watching for new replies... (Ctrl+C to stop)")

	err = monitor.WatchForNewEmails(ctx, func(e inbox.Email) {
		fmt.Println()
		fmt.Printf("📨 New reply from %s (%s)\n", e.LeadName, e.From)

		r := inbox.ClassifyReply(&e)
		printClassifiedReply(r)

		if _, err := recorder.Record(r); err != nil {
			fmt.Printf("⚠️  Failed to store reply: %v\n", err)
		}
		if suppressForReply(suppressions, r) {
			if err := suppressions.SaveWithBackup(suppressPath); err != nil {
				fmt.Printf("⚠️  Failed to save do-not-contact list: %v\n", err)
			}
		}
	})
	if err != nil && err != context.Canceled {
		return fmt.Errorf("watch error: %w", err)
	}

	return nil
}

// suppressForReply adds the sender to the do-not-contact list when the reply
// demands it. Returns true if a new entry was added.
func suppressForReply(list *suppress.List, r inbox.ClassifiedReply) bool {
	var entry suppress.Entry
	switch r.Type {
	case inbox.ReplyUnsubscribe:
		entry = suppress.Entry{Email: r.Email.From, Reason: suppress.ReasonUnsubscribe, LeadID: r.Email.LeadID}
	case inbox.ReplyBounced:
		if r.BouncedRecipient == "" {
			return false
		}
		entry = suppress.Entry{Email: r.BouncedRecipient, Reason: suppress.ReasonBounce}
	default:
		return false
	}
	return list.Add(entry) == nil
}

func printClassifiedReply(r inbox.ClassifiedReply) {
	var icon string
	switch r.Type {
	case inbox.ReplyInterested:
		icon = "🎯"
	case inbox.ReplyNotInterested:
		icon = "🙅"
	case inbox.ReplyUnsubscribe:
		icon = "🚫"
	case inbox.ReplyBounced:
		icon = "📭"
	case inbox.ReplyOutOfOffice:
		icon = "🏖️"
	case inbox.ReplyAutoReply:
		icon = "🤖"
	default:
		icon = "❓"
	}

	name := r.Email.LeadName
	if name == "" {
		name = r.Email.From
	}
	fmt.Printf("%s %s - %s\n", icon, name, r.Type)
	fmt.Printf("   Subject: %s\n", r.Email.Subject)

	if r.MeetingURL != "" {
		fmt.Printf("   📅 Meeting link: %s\n", r.MeetingURL)
	}
	if r.BouncedRecipient != "" {
		fmt.Printf("   📭 Bounced: %s\n", r.BouncedRecipient)
	}
	if r.NeedsReview {
		fmt.Printf("   ⚠️  Confidence: %.0f%% - manual review recommended\n", r.Confidence*100)
	}
}

func cleanupBouncesCmd() *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "cleanup-bounces",
		Short: "Scan for bounced addresses and block them",
		Long: `Scan your inbox for bounced/undeliverable notifications and add the
bounced lead addresses to the do-not-contact list so future sends skip them.

Examples:
  leadforge cleanup-bounces              # Scan the last 30 days
  leadforge cleanup-bounces --days 90    # Look back further`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCleanupBounces(days)
		},
	}

	cmd.Flags().IntVar(&days, "days", 30, "Number of days to scan for bounced emails")

	return cmd
}

func runCleanupBounces(days int) error {
	cfg, _, err := loadClient()
	if err != nil {
		return err
	}

	if err := cfg.ValidateInbox(); err != nil {
		return fmt.Errorf("inbox monitoring not configured, run 'leadforge init' first: %w", err)
	}

	suppressPath := resolveSuppressPath()
	suppressions, err := suppress.LoadFromFile(suppressPath)
	if err != nil {
		return fmt.Errorf("failed to load do-not-contact list: %w", err)
	}

	fmt.Println("🔍 Scanning inbox for bounced emails...")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	monitor := inbox.NewMonitor(cfg.Inbox, nil)

	ctx := context.Background()
	if err := monitor.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to inbox: %w", err)
	}
	defer monitor.Disconnect()

	bounceEmails, err := monitor.FetchBounceEmails(ctx, days)
	if err != nil {
		return fmt.Errorf("failed to fetch bounce emails: %w", err)
	}

	if len(bounceEmails) == 0 {
		fmt.Println("✓ No bounced emails found!")
		return nil
	}

	fmt.Printf("Found %d bounced email(s):\n\n", len(bounceEmails))

	added := 0
	for _, e := range bounceEmails {
		recipient := inbox.ExtractBouncedRecipient(&e)
		if recipient == "" {
			fmt.Printf("⚠️  Could not extract bounced address from: %s\n", e.Subject)
			continue
		}

		fmt.Printf("📭 %s\n", recipient)
		fmt.Printf("   Subject: %s\n", truncateString(e.Subject, 60))
		fmt.Printf("   Date: %s\n", e.ReceivedAt.Format("2006-01-02"))
		fmt.Println()

		entry := suppress.Entry{Email: recipient, Reason: suppress.ReasonBounce}
		if err := suppressions.Add(entry); err == nil {
			added++
		}
	}

	if added == 0 {
		fmt.Println("✓ All bounced addresses were already blocked")
		return nil
	}

	if err := suppressions.SaveWithBackup(suppressPath); err != nil {
		return fmt.Errorf("failed to save do-not-contact list: %w", err)
	}

	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✓ Blocked %d bounced address(es)\n", added)
	fmt.Printf("  Backup saved to: %s.bak\n", suppressPath)

	return nil
}

func suppressCmd() *cobra.Command {
	var (
		add    string
		domain string
		remove string
	)

	cmd := &cobra.Command{
		Use:   "suppress",
		Short: "Manage the do-not-contact list",
		Long: `List, add to, or remove from the do-not-contact list. Blocked
addresses and domains are skipped by every send.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			suppressPath := resolveSuppressPath()
			list, err := suppress.LoadFromFile(suppressPath)
			if err != nil {
				return fmt.Errorf("failed to load do-not-contact list: %w", err)
			}

			switch {
			case add != "" || domain != "":
				entry := suppress.Entry{Email: add, Domain: domain, Reason: suppress.ReasonManual}
				if err := list.Add(entry); err != nil {
					return err
				}
				if err := list.Save(suppressPath); err != nil {
					return fmt.Errorf("failed to save: %w", err)
				}
				fmt.Println("🚫 Added to the do-not-contact list")
				return nil

			case remove != "":
				if list.RemoveByEmail(remove) == nil {
					return fmt.Errorf("%s is not on the list", remove)
				}
				if err := list.Save(suppressPath); err != nil {
					return fmt.Errorf("failed to save: %w", err)
				}
				fmt.Printf("✓ Removed %s\n", remove)
				return nil
			}

			fmt.Printf("🚫 Do-Not-Contact List (%d entries)\n", len(list.Entries))
			fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
			for _, e := range list.Entries {
				target := e.Email
				if target == "" {
					target = "@" + e.Domain
				}
				fmt.Printf("  %s  (%s, added %s)\n", target, e.Reason, e.AddedAt.Format("2006-01-02"))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&add, "add", "", "Email address to block")
	cmd.Flags().StringVar(&domain, "domain", "", "Domain to block entirely")
	cmd.Flags().StringVar(&remove, "remove", "", "Email address to unblock")

	return cmd
}

func testConnectionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-connection",
		Short: "Verify sender credentials",
		Long: `Check the configured sender credentials locally and against the
backend's SMTP test endpoint.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, client, err := loadClient()
			if err != nil {
				return err
			}
			if err := cfg.ValidateSender(); err != nil {
				return fmt.Errorf("sender not configured: %w", err)
			}

			fmt.Println("🔌 Testing email connection...")

			// Local SMTP check first - catches bad credentials without a
			// backend round trip
			verifier := email.NewVerifier(cfg.Sender)
			if err := verifier.Verify(); err != nil {
				fmt.Printf("❌ Local SMTP check failed: %v\n", err)
			} else {
				fmt.Println("✅ Local SMTP check passed")
			}

			result, err := client.TestEmailConnection(context.Background(), api.SenderCredentials{
				Email:    cfg.Sender.Email,
				Password: cfg.Sender.Password,
				Host:     cfg.Sender.Host,
				Port:     cfg.Sender.Port,
			})
			if err != nil {
				return fmt.Errorf("backend test failed: %w", err)
			}

			if result.Success {
				fmt.Println("✅ Backend SMTP check passed")
			} else {
				fmt.Printf("❌ Backend SMTP check failed: %s\n", result.Detail)
			}
			return nil
		},
	}
}

func prompt(reader *bufio.Reader, message string) string {
	fmt.Print(message)
	input, err := reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(input)
}

// truncateString truncates a string to the specified length
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
