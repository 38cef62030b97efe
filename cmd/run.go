package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/seekwell/comms-prospector/internal/ai"
	"github.com/seekwell/comms-prospector/internal/ai/gemini"
	"github.com/seekwell/comms-prospector/internal/dedup"
	"github.com/seekwell/comms-prospector/internal/email"
	"github.com/seekwell/comms-prospector/internal/extract"
	"github.com/seekwell/comms-prospector/internal/jobsearch"
	"github.com/seekwell/comms-prospector/internal/logger"
	"github.com/seekwell/comms-prospector/internal/match"
	"github.com/seekwell/comms-prospector/internal/pipeline"
	"github.com/seekwell/comms-prospector/internal/profile"
	"github.com/seekwell/comms-prospector/internal/secrets"
	"github.com/seekwell/comms-prospector/internal/skills"
	"github.com/seekwell/comms-prospector/internal/templates"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	PromptYes               = "Yes"
	PromptNo                = "No"
	PromptReportByEmployers = "Report by employers"
	PromptPostingsToFile    = "Dump postings to file"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Prepare application documents for these matches?",
	Items: []string{PromptYes, PromptNo, PromptReportByEmployers, PromptPostingsToFile},
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the comms-prospector main command",
	Run: func(cmd *cobra.Command, _ []string) {
		run(cmd)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for confirmation if matching postings are found")
	runCmd.Flags().Bool("ignore-seen", false, "evaluate postings even if they were seen in earlier runs")
}

// run is the main command for the cli.
func run(cmd *cobra.Command) {
	ctx := context.Background()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}

	config, err := getConfig()
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the comms-prospector", zap.String("version", version))

	// do not bother error since there is a valid parseable config
	pretty, _ := json.MarshalIndent(config, "", "  ")
	logger.Debug(fmt.Sprintf("starting with config: \n %s", pretty))

	if config == nil {
		logger.Fatal("config is required")
	}

	if config.Search == nil || strings.TrimSpace(config.Search.Query) == "" {
		logger.Fatal("a search query is required under search.query")
	}

	if strings.TrimSpace(config.ProfileFile) == "" {
		logger.Fatal("a candidate profile is required under profile-file")
	}

	apiKey, err := resolveAPIKey(config)
	if err != nil {
		logger.Fatal(
			"loading search api key",
			zap.Error(err),
			zap.String("hint", "set JSEARCH_API_KEY_FILE environment variable or the 'api-key-file' key in the configuration file"),
		)
	}

	client := jobsearch.New(ctx, logger, apiKey)
	if config.UserAgent != "" {
		client.UserAgent = config.UserAgent
	}
	if config.CacheDir != "" {
		client = client.WithCacheDir(config.CacheDir)
	}

	profiles, err := profile.NewCache(config.ProfileFile)
	if err != nil {
		logger.Fatal("loading candidate profile", zap.Error(err))
	}

	logger.Info("starting the search", zap.String("query", config.Search.Query))

	postings, err := client.Search(config.Search)
	if err != nil {
		logger.Fatal("searching postings", zap.Error(err))
	}

	if postings.Len() == 0 {
		logger.Info("exiting", zap.String("reason", "no postings found"))
		return
	}

	p, err := buildPipeline(cmd, config, profiles, logger)
	if err != nil {
		logger.Fatal("building pipeline", zap.Error(err))
	}

	results, stats, err := p.Evaluate(ctx, postings.Items)
	if err != nil {
		logger.Fatal("evaluating postings", zap.Error(err))
	}

	if len(results) == 0 {
		logger.Info("exiting",
			zap.String("reason", "no matching postings left"),
			zap.Int("deduplicated", stats.Deduplicated),
			zap.Int("below_threshold", stats.Skipped),
		)
		return
	}

	artifact, err := match.WriteArtifact(config.Output.MatchesDir, results)
	if err != nil {
		logger.Fatal("writing matches artifact", zap.Error(err))
	}
	logger.Info("wrote matches artifact", zap.String("filename", artifact), zap.Int("count", len(results)))

	action := PromptYes
	for {
		var err error
		if cmd.Flag("auto-approve").Value.String() == "false" {
			_, action, err = prompt.Run()
			if err != nil {
				logger.Fatal("exiting", zap.Error(err))
			}
		}

		logger.Info("current list of matches", zap.Int("count", len(results)))

		if err := handleAction(ctx, action, logger, config, profiles, results); err != nil {
			if errors.Is(err, errExit) {
				return
			}
			logger.Fatal("exiting", zap.Error(err))
		}
	}
}

func handleAction(ctx context.Context, action string, logger *zap.Logger, config *Config, profiles *profile.Cache, results []*match.Result) error {
	switch action {
	case PromptYes:
		if err := prepareDocuments(ctx, logger, config, profiles, results); err != nil {
			return err
		}
		return errExit
	case PromptNo:
		logger.Info("exiting", zap.String("reason", "got no from prompt"))
		return errExit
	case PromptReportByEmployers:
		postings := resultPostings(results)
		pretty, _ := json.MarshalIndent(postings.ReportByEmployer(), "", "  ")
		logger.Info(string(pretty), zap.Int("postings count", postings.Len()))
		return nil
	case PromptPostingsToFile:
		filename, err := resultPostings(results).DumpToTmpFile()
		if err != nil {
			return fmt.Errorf("dump results to file: %w", err)
		}
		logger.Info("dumping result to file", zap.String("filename", filename))
		return nil
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// prepareDocuments renders the resume and cover letter for every match and
// optionally emails them. When the AI writer is enabled its draft replaces
// the static cover letter template; on a writer failure the static template
// is used instead.
func prepareDocuments(ctx context.Context, log *zap.Logger, config *Config, profiles *profile.Cache, results []*match.Result) error {
	renderer := templates.NewRenderer(profiles, config.Output.DocumentsDir, log)

	var writer ai.Writer
	var summary string
	if config.AI != nil && config.AI.Enabled {
		var err error
		writer, summary, err = newAIWriter(ctx, config, log)
		if err != nil {
			return err
		}
	}

	var sender *email.Sender
	if config.Email != nil && config.Email.Enabled {
		var err error
		sender, err = newEmailSender(config.Email, log)
		if err != nil {
			return err
		}
	}

	for _, res := range results {
		variant := templates.Variant(res.Variant)

		var draft *ai.Draft
		if writer != nil {
			var err error
			draft, err = writer.Compose(ctx, res, summary)
			if err != nil {
				log.Warn("cover letter generation failed, using the static template",
					zap.String("employer", res.Posting.Employer),
					zap.Error(err),
				)
			}
		}

		coverBody := ""
		if draft != nil {
			coverBody = draft.Body
		}

		docs, err := renderer.Render(res, variant, coverBody)
		if err != nil {
			return fmt.Errorf("rendering documents for %s: %w", res.Posting.Employer, err)
		}

		if sender != nil {
			if err := sendApplication(sender, res, draft, docs); err != nil {
				return err
			}
		}
	}

	log.Info("prepared application documents", zap.Int("count", len(results)))
	return nil
}

func sendApplication(sender *email.Sender, res *match.Result, draft *ai.Draft, docs templates.Documents) error {
	subject := fmt.Sprintf("Application: %s at %s", res.Posting.Title, res.Posting.Employer)
	if draft != nil && draft.Subject != "" {
		subject = draft.Subject
	}

	resume, err := os.ReadFile(docs.ResumePath)
	if err != nil {
		return fmt.Errorf("reading rendered resume: %w", err)
	}
	cover, err := os.ReadFile(docs.CoverLetterPath)
	if err != nil {
		return fmt.Errorf("reading rendered cover letter: %w", err)
	}

	return sender.Send(email.Message{
		Subject: subject,
		Body:    string(cover),
		Attachments: []email.Attachment{
			{Filename: docs.ResumePath, Data: resume},
			{Filename: docs.CoverLetterPath, Data: cover},
		},
	})
}

func buildPipeline(cmd *cobra.Command, config *Config, profiles *profile.Cache, log *zap.Logger) (*pipeline.Pipeline, error) {
	table := skills.NewDefaultTable()

	extractor, err := extract.New(table)
	if err != nil {
		return nil, err
	}

	registryPath := config.Registry
	if cmd.Flag("ignore-seen").Value.String() == "true" {
		// A throwaway registry keeps the real one untouched for the next run.
		registryPath = filepath.Join(os.TempDir(), fmt.Sprintf("%s-seen-%d.json", app, time.Now().UnixNano()))
		log.Info("ignoring seen postings for this run", zap.String("registry", registryPath))
	}

	var strategy match.Strategy
	switch name := strategyName(config); name {
	case "skill-overlap":
		strategy = match.NewSkillOverlap(table)
	case "requirement-coverage":
		strategy = match.NewRequirementCoverage(table)
	default:
		return nil, fmt.Errorf("unsupported scoring strategy: %s", name)
	}

	return pipeline.New(pipeline.Deps{
		Logger:    log,
		Dedup:     dedup.New(dedup.LoadRegistry(registryPath, log), log),
		Extractor: extractor,
		Strategy:  strategy,
		Profile:   profiles,
	})
}

func strategyName(config *Config) string {
	if config.Scoring == nil || strings.TrimSpace(config.Scoring.Strategy) == "" {
		return "skill-overlap"
	}
	return strings.TrimSpace(strings.ToLower(config.Scoring.Strategy))
}

func resolveAPIKey(config *Config) (string, error) {
	if config == nil {
		return "", errors.New("config is required")
	}

	keyFile := strings.TrimSpace(config.APIKeyFile)
	if keyFile == "" {
		keyFile = strings.TrimSpace(viper.GetString("api-key-file"))
	}

	if keyFile == "" {
		return "", errors.New("search api key file is not configured")
	}

	return secrets.Load(secrets.Source{
		Name: "search api key",
		File: keyFile,
	})
}

func newAIWriter(ctx context.Context, config *Config, log *zap.Logger) (ai.Writer, string, error) {
	cfg := config.AI
	provider := strings.TrimSpace(strings.ToLower(cfg.Provider))
	if provider != "" && provider != "gemini" {
		return nil, "", fmt.Errorf("unsupported ai provider: %s", cfg.Provider)
	}
	if cfg.Gemini == nil {
		return nil, "", errors.New("ai.gemini section is required when ai is enabled")
	}

	if strings.TrimSpace(config.SummaryFile) == "" {
		return nil, "", errors.New("summary-file is required when ai is enabled")
	}
	summary, err := os.ReadFile(config.SummaryFile)
	if err != nil {
		return nil, "", fmt.Errorf("reading candidate summary: %w", err)
	}

	apiKey, err := secrets.Load(secrets.Source{
		Name: "gemini api key",
		File: cfg.Gemini.APIKeyFile,
	})
	if err != nil {
		return nil, "", fmt.Errorf("%w (set ai.gemini.api-key-file or GEMINI_API_KEY_FILE)", err)
	}

	generator, err := gemini.NewGenerator(ctx, apiKey, cfg.Gemini.Model)
	if err != nil {
		return nil, "", err
	}

	writerLogger := logger.WithCommonFields(log, "gemini", generator.Model())
	writer := gemini.NewWriter(generator, writerLogger, cfg.Gemini.MaxRetries, cfg.Gemini.MaxLogLength)

	// Upload the candidate summary once per run; each Compose call then
	// references the cached content instead of resending it.
	cacheName, err := generator.EnsureProfileCache(ctx, "candidate-summary", "candidate summary", string(summary))
	if err != nil {
		writerLogger.Warn("candidate summary caching unavailable, sending it inline", zap.Error(err))
	} else {
		writer.UseProfileCache(cacheName)
	}

	return writer, string(summary), nil
}

func newEmailSender(cfg *EmailConfig, log *zap.Logger) (*email.Sender, error) {
	password := ""
	if strings.TrimSpace(cfg.PasswordFile) != "" {
		var err error
		password, err = secrets.Load(secrets.Source{
			Name: "smtp password",
			File: cfg.PasswordFile,
		})
		if err != nil {
			return nil, err
		}
	}

	conf := cfg.Config
	conf.Password = password
	return email.NewSender(conf, log)
}

func resultPostings(results []*match.Result) *jobsearch.Postings {
	items := make([]*jobsearch.Posting, 0, len(results))
	for _, res := range results {
		items = append(items, res.Posting)
	}
	return &jobsearch.Postings{Items: items}
}
