package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/jonathan/ats-resume-generator/internal/config"
	"github.com/jonathan/ats-resume-generator/internal/contact"
	"github.com/jonathan/ats-resume-generator/internal/cost"
	"github.com/jonathan/ats-resume-generator/internal/db"
	"github.com/jonathan/ats-resume-generator/internal/events"
	"github.com/jonathan/ats-resume-generator/internal/llm"
	"github.com/jonathan/ats-resume-generator/internal/logger"
	"github.com/jonathan/ats-resume-generator/internal/observability"
	"github.com/jonathan/ats-resume-generator/internal/pipeline"
	"github.com/jonathan/ats-resume-generator/internal/rendering"
	"github.com/jonathan/ats-resume-generator/internal/roles"
	"github.com/jonathan/ats-resume-generator/internal/types"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resume_generator",
		Short: "Generate synthetic PDF resumes for ATS testing",
		Long: `Generates N synthetic resumes with one content-generation API call each, renders them to PDF
and reports token usage and cost.

Configuration can be loaded from a YAML, JSON or TOML file using --config. Command-line flags override config file values.`,
		Example: `  resume_generator                       # Generate 800 resumes (default)
  resume_generator -n 100                # Generate 100 resumes
  resume_generator -n 50 --save-costs    # Generate 50 and save cost log`,
		SilenceUsage: true,
		RunE:         runGenerate,
	}

	flags := cmd.Flags()
	// Config file flag (processed first)
	flags.String("config", "", "Path to config file (values can be overridden by other flags)")

	flags.IntP("count", "n", pipeline.DefaultCount, "Number of resumes to generate")
	flags.Bool("save-costs", false, "Save detailed cost log to <output>/cost_log.json")
	flags.Int("concurrency", pipeline.DefaultConcurrency, "Max concurrent API requests")
	flags.StringP("output", "o", pipeline.DefaultOutputDir, "Output directory for PDFs")
	flags.Bool("continue-on-error", false, "Keep going when a resume fails instead of aborting the batch")

	flags.String("provider", string(llm.ProviderOpenAI), "Content-generation provider (openai or gemini)")
	flags.String("model", "", "Model name (defaults to the provider's default model)")
	flags.Float64("rps", 0, "Fixed request rate limit in requests/sec (0 = unlimited)")
	flags.Duration("timeout", 0, "Per-call API deadline, e.g. 3m (0 = none)")

	flags.String("renderer", string(rendering.BackendPDF), "PDF backend (pdf or chrome; chrome requires Chrome/Chromium)")
	flags.StringSlice("templates", nil, "Restrict layouts (minimal, modern, classic, corporate)")
	flags.String("role-mapping", "", "Role mapping JSON (default data/role_mapping.json if present, else the built-in table)")
	flags.Uint64("seed", 0, "Random seed for reproducible runs (0 = random)")

	// Database URL for run and cost persistence
	flags.String("db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	flags.String("nats-url", "", "NATS server URL for progress events (optional, defaults to NATS_URL env var)")

	flags.BoolP("verbose", "v", false, "Print detailed debug information")
	flags.String("log-level", "", "Log level (trace, debug, info, warn, error)")
	flags.String("log-file", "", "Also write JSON logs to this file")

	return cmd
}

// resolveConfig layers defaults, environment, config file and explicitly set flags.
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	configPath, _ := flags.GetString("config")

	// Step 1: Load config file if provided
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("failed to load config: %w", err)
	}
	if err := loaded.Validate(); err != nil {
		return config.Config{}, err
	}
	// Step 2: Apply defaults for values the file left unset
	cfg := loaded.MergeWithDefaults(config.Defaults())

	// Step 3: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if flags.Changed("count") {
		cfg.Count, _ = flags.GetInt("count")
	}
	if flags.Changed("save-costs") {
		cfg.SaveCosts, _ = flags.GetBool("save-costs")
	}
	if flags.Changed("concurrency") {
		cfg.Concurrency, _ = flags.GetInt("concurrency")
	}
	if flags.Changed("output") {
		cfg.Output, _ = flags.GetString("output")
	}
	if flags.Changed("continue-on-error") {
		cfg.ContinueOnError, _ = flags.GetBool("continue-on-error")
	}
	if flags.Changed("provider") {
		cfg.Provider, _ = flags.GetString("provider")
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("rps") {
		cfg.RPS, _ = flags.GetFloat64("rps")
	}
	if flags.Changed("timeout") {
		cfg.Timeout, _ = flags.GetDuration("timeout")
	}
	if flags.Changed("renderer") {
		cfg.Renderer, _ = flags.GetString("renderer")
	}
	if flags.Changed("templates") {
		cfg.Templates, _ = flags.GetStringSlice("templates")
	}
	if flags.Changed("role-mapping") {
		cfg.RoleMapping, _ = flags.GetString("role-mapping")
	}
	if flags.Changed("seed") {
		cfg.Seed, _ = flags.GetUint64("seed")
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL, _ = flags.GetString("db-url")
	}
	if flags.Changed("nats-url") {
		cfg.NatsURL, _ = flags.GetString("nats-url")
	}
	if flags.Changed("verbose") {
		cfg.Verbose, _ = flags.GetBool("verbose")
	}
	if flags.Changed("log-level") {
		cfg.LogLevel, _ = flags.GetString("log-level")
	}
	if flags.Changed("log-file") {
		cfg.LogFile, _ = flags.GetString("log-file")
	}
	if cfg.Verbose {
		cfg.LogLevel = "debug"
	}

	// Step 4: Validate the merged result
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	if cfg.Concurrency < 1 {
		return config.Config{}, fmt.Errorf("--concurrency must be at least 1")
	}
	return cfg, nil
}

func parseTemplates(names []string) ([]types.Template, error) {
	if len(names) == 0 {
		return types.Templates, nil
	}
	out := make([]types.Template, 0, len(names))
	for _, name := range names {
		t, err := types.ParseTemplate(name)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := resolveConfig(cmd.Flags())
	if err != nil {
		return err
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() { _ = log.Close() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Content-generation client; a missing API key fails here, before any work starts
	provider, err := llm.ParseProvider(cfg.Provider)
	if err != nil {
		return err
	}
	llmCfg := &llm.Config{Provider: provider, Model: cfg.Model, Timeout: cfg.Timeout}
	if llmCfg.Model == "" {
		llmCfg.Model = llm.DefaultModel(provider)
	}
	llmCfg.ResolveAPIKey()

	client, err := llm.NewClient(ctx, llmCfg)
	if err != nil {
		return err
	}
	defer func() { _ = client.Close() }()
	client = llm.WithRateLimit(client, cfg.RPS, max(1, int(cfg.RPS)))

	pricing := cost.PricingFor(llmCfg.Model)
	if cfg.Pricing != nil {
		pricing = *cfg.Pricing
	}

	mapping, err := roles.LoadOrDefault(cfg.RoleMapping)
	if err != nil {
		return err
	}
	templates, err := parseTemplates(cfg.Templates)
	if err != nil {
		return err
	}

	backend, err := rendering.ParseBackend(cfg.Renderer)
	if err != nil {
		return err
	}
	writer, err := rendering.NewWriter(ctx, backend, log.Logger)
	if err != nil {
		return err
	}
	renderer := rendering.NewRenderer(cfg.Output, writer, contact.New(cfg.Seed))
	defer func() { _ = renderer.Close() }()

	printer := observability.NewPrinter(os.Stdout)
	printer.PrintHeader(observability.RunInfo{
		Count:       cfg.Count,
		Concurrency: cfg.Concurrency,
		Provider:    string(provider),
		Model:       llmCfg.Model,
		Renderer:    string(backend),
		OutputDir:   cfg.Output,
	})

	// Optional integrations: failures here are warnings, not fatal
	runID := uuid.New()
	var database *db.DB
	var sinks []pipeline.Sink
	if cfg.DatabaseURL != "" {
		database, runID = openRunStore(ctx, log, cfg, llmCfg.Model)
		if database != nil {
			defer database.Close()
			sinks = append(sinks, db.NewCostSink(database, runID, log.Logger))
		}
	}
	if cfg.NatsURL != "" {
		conn, err := events.Connect(cfg.NatsURL)
		if err != nil {
			log.Warn().Err(err).Msg("continuing without progress events")
		} else {
			defer func() { _ = conn.Drain() }()
			sinks = append(sinks, events.NewPublisher(conn, runID.String(), log.Logger))
		}
	}

	bar, err := observability.StartProgressBar(os.Stdout, cfg.Count)
	if err != nil {
		return fmt.Errorf("failed to start progress bar: %w", err)
	}
	sinks = append([]pipeline.Sink{bar}, sinks...)

	tracker := cost.NewTracker(pricing)
	orchestrator := pipeline.NewOrchestrator(client, tracker, renderer, roles.NewSelector(mapping, cfg.Seed),
		pipeline.WithSink(pipeline.FanOut(sinks...)),
		pipeline.WithTemplates(templates),
		pipeline.WithLogger(log.Logger),
	)

	summary, runErr := orchestrator.Run(ctx, pipeline.RunOptions{
		Count:           cfg.Count,
		Concurrency:     cfg.Concurrency,
		SaveCostLog:     cfg.SaveCosts,
		OutputDir:       cfg.Output,
		ContinueOnError: cfg.ContinueOnError,
	})
	bar.Stop()

	if summary != nil {
		printer.PrintSummary(summary)
		printer.PrintFailures(summary.Failures)
		if runErr == nil {
			outDir, err := filepath.Abs(cfg.Output)
			if err != nil {
				outDir = cfg.Output
			}
			printer.PrintOutputLocation(outDir, summary.CostLog)
		}
		if database != nil {
			completeRun(log, database, runID, summary, runErr)
		}
	}

	if runErr != nil && errors.Is(runErr, context.Canceled) && ctx.Err() != nil {
		return fmt.Errorf("interrupted: %w", runErr)
	}
	return runErr
}

// openRunStore connects to PostgreSQL and opens a run row. It returns a nil DB
// when persistence is unavailable.
func openRunStore(ctx context.Context, log *logger.Logger, cfg config.Config, model string) (*db.DB, uuid.UUID) {
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Warn().Err(err).Msg("continuing without database persistence")
		return nil, uuid.New()
	}
	if err := database.EnsureSchema(ctx); err != nil {
		log.Warn().Err(err).Msg("continuing without database persistence")
		database.Close()
		return nil, uuid.New()
	}
	runID, err := database.CreateRun(ctx, db.RunInput{
		Requested:   cfg.Count,
		Concurrency: cfg.Concurrency,
		Model:       model,
	})
	if err != nil {
		log.Warn().Err(err).Msg("continuing without database persistence")
		database.Close()
		return nil, uuid.New()
	}
	log.Debug().Str("run_id", runID.String()).Msg("created database run")
	return database, runID
}

func completeRun(log *logger.Logger, database *db.DB, runID uuid.UUID, summary *pipeline.RunSummary, runErr error) {
	status := db.StatusCompleted
	if runErr != nil {
		status = db.StatusFailed
	}
	err := database.CompleteRun(context.Background(), runID, db.RunTotals{
		Status:         status,
		Completed:      summary.Count,
		Failed:         len(summary.Failures),
		InputTokens:    int64(summary.Costs.TotalInputTokens),
		OutputTokens:   int64(summary.Costs.TotalOutputTokens),
		TotalCost:      summary.Costs.TotalCost,
		ElapsedSeconds: summary.Elapsed.Seconds(),
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to complete database run")
	}
}
