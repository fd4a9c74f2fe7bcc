package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/ppiankov/hyperion/internal/model"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage Hyperion configuration",
	Long: `Manage Hyperion configuration files and settings.

Configuration hierarchy (highest to lowest priority):
1. CLI flags
2. Environment variables (HYPERION_*, e.g. HYPERION_WRITING_MIN_WORDS)
3. Config file (~/.hyperion/config.yaml)
4. Defaults

A .env file in the working directory is loaded before anything else.`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		if configFile := viper.ConfigFileUsed(); configFile != "" {
			fmt.Fprintf(os.Stderr, "Configuration file: %s\n\n", configFile)
		} else {
			fmt.Fprintf(os.Stderr, "No configuration file found (using defaults)\n\n")
		}

		for i := range cfg.LLM.Providers {
			if cfg.LLM.Providers[i].APIKey != "" {
				cfg.LLM.Providers[i].APIKey = "********"
			}
		}
		yamlData, err := yaml.Marshal(cfg)
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		fmt.Println(banner("Effective Configuration"))
		fmt.Println()
		fmt.Println(string(yamlData))
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default configuration file",
	Long:  `Create ~/.hyperion/config.yaml holding every option at its default value.`,
	RunE: func(cmd *cobra.Command, args []string) (err error) {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("find home directory: %w", err)
		}

		configDir := filepath.Join(home, ".hyperion")
		configPath := filepath.Join(configDir, "config.yaml")

		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("config file already exists: %s\nUse 'hyperion config show' to view it, or delete it first to recreate", configPath)
		}
		if err := os.MkdirAll(configDir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}

		yamlData, err := yaml.Marshal(model.DefaultConfig())
		if err != nil {
			return fmt.Errorf("marshal config: %w", err)
		}

		content := "# Hyperion configuration\n" +
			"#\n" +
			"# Priority: CLI flags > HYPERION_* environment variables > this file > defaults.\n" +
			"# Provider API keys are better kept in the environment:\n" +
			"#   GEMINI_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY, COMPAT_API_KEY, OLLAMA_BASE_URL\n\n" +
			string(yamlData)
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			return fmt.Errorf("write config: %w", err)
		}

		fmt.Printf("✓ Created default configuration: %s\n", configPath)
		fmt.Printf("\nTo view the effective configuration:\n  hyperion config show\n\n")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
}

// setDefaults registers every default value with v so that HYPERION_*
// variables can override any key, not only the ones present in a file
func setDefaults(v *viper.Viper) error {
	data, err := yaml.Marshal(model.DefaultConfig())
	if err != nil {
		return fmt.Errorf("marshal defaults: %w", err)
	}
	var tree map[string]interface{}
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return fmt.Errorf("unmarshal defaults: %w", err)
	}
	setTree(v, "", tree)
	return nil
}

func setTree(v *viper.Viper, prefix string, tree map[string]interface{}) {
	for k, val := range tree {
		key := prefix + k
		if sub, ok := val.(map[string]interface{}); ok {
			setTree(v, key+".", sub)
			continue
		}
		v.SetDefault(key, val)
	}
}

// loadConfig decodes the layered viper configuration and applies the
// switches that have no config-file equivalent
func loadConfig() (model.PipelineConfig, error) {
	return decodeConfig(viper.GetViper(), offline, noCache)
}

func decodeConfig(v *viper.Viper, offline, noCache bool) (model.PipelineConfig, error) {
	var cfg model.PipelineConfig
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) { dc.TagName = "yaml" }); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}

	if noCache {
		cfg.Cache.Enabled = false
	}
	if offline {
		cfg.LLM.Providers = []model.ProviderConfig{{Name: "static"}}
		cfg.Research.Engines = nil
	}
	if cfg.Concurrency.Workers <= 0 {
		cfg.Concurrency.Workers = 1
	}
	return cfg, nil
}
