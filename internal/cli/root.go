package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// version is overridden at build time with -ldflags "-X ...cli.version=..."
var version = "0.1.0"

var (
	cfgFile string
	verbose bool
	offline bool
	noCache bool
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "hyperion",
	Short: "Hyperion - long-form Indonesian travel articles from a single topic",
	Long: `Hyperion turns a topic such as "Pantai Kuta Bali" into a complete,
formatted travel article in Bahasa Indonesia.

Seven stages run in order: research, outline, drafting, length guarantee,
rich formatting, safe rewriting with SEO and readability scoring, and
internal linking with taxonomy and image suggestions.

Every stage has a data-driven fallback, so an article is produced even
when no source page can be fetched and no generative provider answers.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("hyperion v%s\n", version)
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: $HOME/.hyperion/config.yaml)")
	flags.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	flags.BoolVar(&offline, "offline", false, "no web research and no generative providers (data-driven fallbacks only)")
	flags.BoolVar(&noCache, "no-cache", false, "disable the fetched-page cache")
	flags.Int("min-words", 0, "minimum article length in words")
	flags.String("index", "", "SQLite content index of published articles")
	flags.Int64("seed", 0, "random seed for rewriting (0 = time-based)")
	flags.Int("workers", 0, "concurrent topics for batch runs")

	_ = viper.BindPFlag("verbose", flags.Lookup("verbose"))
	_ = viper.BindPFlag("writing.min_words", flags.Lookup("min-words"))
	_ = viper.BindPFlag("content.index_path", flags.Lookup("index"))
	_ = viper.BindPFlag("writing.seed", flags.Lookup("seed"))
	_ = viper.BindPFlag("concurrency.workers", flags.Lookup("workers"))

	rootCmd.AddCommand(versionCmd)
}

// initConfig loads .env, then the config file and HYPERION_* variables
func initConfig() {
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(".env"); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: error loading .env file: %v\n", err)
		}
	}

	home, err := os.UserHomeDir()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
		return
	}

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(filepath.Join(home, ".hyperion"))
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	viper.SetEnvPrefix("HYPERION")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := setDefaults(viper.GetViper()); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}
	viper.SetDefault("cache.dir", filepath.Join(home, ".hyperion", "cache"))

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
