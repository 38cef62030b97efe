package cmd

import (
	"log"

	"github.com/seekwell/comms-prospector/internal/email"
	"github.com/seekwell/comms-prospector/internal/jobsearch"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	app = "comms-prospector"
)

type Config struct {
	Search      *jobsearch.SearchParams `mapstructure:"search"`
	ProfileFile string                  `mapstructure:"profile-file"`
	SummaryFile string                  `mapstructure:"summary-file"`
	UserAgent   string                  `mapstructure:"user-agent"`
	APIKeyFile  string                  `mapstructure:"api-key-file"`
	Registry    string                  `mapstructure:"registry-file"`
	CacheDir    string                  `mapstructure:"cache-dir"`
	Output      *OutputConfig           `mapstructure:"output"`
	Scoring     *ScoringConfig          `mapstructure:"scoring"`
	AI          *AIConfig               `mapstructure:"ai"`
	Email       *EmailConfig            `mapstructure:"email"`
}

type OutputConfig struct {
	MatchesDir   string `mapstructure:"matches-dir"`
	DocumentsDir string `mapstructure:"documents-dir"`
}

type ScoringConfig struct {
	// Strategy is "skill-overlap" (default) or "requirement-coverage".
	Strategy string `mapstructure:"strategy"`
}

type AIConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Provider string        `mapstructure:"provider"`
	Gemini   *GeminiConfig `mapstructure:"gemini"`
}

type GeminiConfig struct {
	APIKeyFile   string `mapstructure:"api-key-file"`
	Model        string `mapstructure:"model"`
	MaxRetries   int    `mapstructure:"max-retries"`
	MaxLogLength int    `mapstructure:"max-log-length"`
}

type EmailConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	PasswordFile string `mapstructure:"password-file"`
	email.Config `mapstructure:",squash"`
}

var (
	// Used for flags.
	cfgFile string

	rootCmd = &cobra.Command{
		Use:   app,
		Short: "comms-prospector searches communications job postings, scores them against a candidate profile and prepares application documents",
	}
)

// Execute executes the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	if err := viper.BindEnv("api-key-file", "JSEARCH_API_KEY_FILE"); err != nil {
		log.Fatalf("binding JSEARCH_API_KEY_FILE environment variable: %v", err)
	}
	if err := viper.BindEnv("ai.gemini.api-key-file", "GEMINI_API_KEY_FILE"); err != nil {
		log.Fatalf("binding GEMINI_API_KEY_FILE environment variable: %v", err)
	}

	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "a config file (default is comms-prospector.yaml in current directory)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose/debug output")
	rootCmd.PersistentFlags().BoolP("json", "j", false, "json format for logging")

	viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
}

func initConfig() {
	// Config needed only for run command now. If there is no config, we can skip initialization
	if runCmd.CalledAs() == "" {
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigName(app + ".yaml")
	}

	// We can't proceed if the config file parsed with error.
	if err := viper.ReadInConfig(); err != nil {
		log.Fatal(err)
	}
}

func getConfig() (*Config, error) {
	var config *Config
	err := viper.Unmarshal(&config)
	if err != nil {
		return config, err
	}

	if config == nil {
		return config, nil
	}

	if config.Registry == "" {
		config.Registry = "seen_jobs.json"
	}
	if config.Output == nil {
		config.Output = &OutputConfig{}
	}
	if config.Output.MatchesDir == "" {
		config.Output.MatchesDir = "job_matches"
	}
	if config.Output.DocumentsDir == "" {
		config.Output.DocumentsDir = "documents"
	}

	return config, nil
}
