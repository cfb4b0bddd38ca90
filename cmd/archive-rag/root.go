package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	archiverag "github.com/SingularityNET-Archive/Archive-RAG-sub000"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "archive-rag",
	Short: "Ask questions over archived meeting records, with verified citations",
	Long: `archive-rag answers natural-language questions over an archive of
meeting summaries. Every answer is backed by citations to real meeting
records; answers that cannot be verified are refused rather than guessed.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("archive-rag v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.archive-rag/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(queryCmd)
	rootCmd.AddCommand(entitiesCmd)
	rootCmd.AddCommand(relatedCmd)
	rootCmd.AddCommand(ingestCmd)
}

// initConfig reads the config file and ARCHIVERAG_* environment variables.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}
		viper.AddConfigPath(filepath.Join(home, ".archive-rag"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("ARCHIVERAG")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}

// loadConfig builds the engine configuration from defaults, the config
// file, and environment overrides, in that priority order.
func loadConfig() archiverag.Config {
	cfg := archiverag.DefaultConfig()

	set := func(key string, dst *string) {
		if v := viper.GetString(key); v != "" {
			*dst = v
		}
	}
	set("db_path", &cfg.DBPath)
	set("entity_dir", &cfg.EntityDir)
	set("audit_dir", &cfg.AuditDir)
	set("chat.provider", &cfg.Chat.Provider)
	set("chat.model", &cfg.Chat.Model)
	set("chat.base_url", &cfg.Chat.BaseURL)
	set("chat.api_key", &cfg.Chat.APIKey)
	set("embedding.provider", &cfg.Embedding.Provider)
	set("embedding.model", &cfg.Embedding.Model)
	set("embedding.base_url", &cfg.Embedding.BaseURL)
	set("embedding.api_key", &cfg.Embedding.APIKey)
	set("upstream_index_url", &cfg.UpstreamIndexURL)

	if v := viper.GetInt("max_results"); v > 0 {
		cfg.MaxResults = v
	}
	if v := viper.GetInt("embedding_dim"); v > 0 {
		cfg.EmbeddingDim = v
	}
	if v := viper.GetFloat64("resolve_threshold"); v > 0 {
		cfg.ResolveThreshold = v
	}
	if v := viper.GetInt("collaborator_timeout_sec"); v > 0 {
		cfg.CollaboratorTimeoutSec = v
	}
	if v := viper.GetInt64("seed"); v != 0 {
		cfg.Seed = v
	}

	if cfg.Chat.APIKey == "" && cfg.Chat.Provider == "openai" {
		cfg.Chat.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.Embedding.APIKey == "" && cfg.Embedding.Provider == "openai" {
		cfg.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	return cfg
}
