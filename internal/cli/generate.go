package cli

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hyperion/internal/logging"
)

var (
	outHTML     string
	outJSON     string
	genTimeout  time.Duration
	showLogFlag bool
)

var generateCmd = &cobra.Command{
	Use:   "generate <topic>",
	Short: "Generate one article for a topic",
	Long: `Generate runs the full pipeline for one topic and writes the article.

Example:
  hyperion generate "Pantai Kuta Bali"
  hyperion generate "Kawah Ijen" --out ijen.html --json ijen.json
  hyperion generate "Gudeg Wijilan" --offline --seed 42`,
	Args: cobra.MinimumNArgs(1),
	RunE: runGenerate,
}

func init() {
	rootCmd.AddCommand(generateCmd)

	generateCmd.Flags().StringVar(&outHTML, "out", "", "output HTML path (default: <topic-slug>.html)")
	generateCmd.Flags().StringVar(&outJSON, "json", "", "output JSON path for the full result (optional)")
	generateCmd.Flags().DurationVar(&genTimeout, "timeout", 30*time.Minute, "overall run timeout")
	generateCmd.Flags().BoolVar(&showLogFlag, "log", false, "print the stage decision log")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	topic := strings.Join(strings.Fields(strings.Join(args, " ")), " ")
	if topic == "" {
		return fmt.Errorf("topic is empty")
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Must(verbose)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), genTimeout)
	defer cancel()

	p, closeIndex, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeIndex()

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, banner("Hyperion"))
	fmt.Fprintf(os.Stderr, "\n  Topic:        %s\n", topic)
	if offline {
		fmt.Fprintf(os.Stderr, "  Mode:         offline\n")
	}
	fmt.Fprintln(os.Stderr)

	res := p.Run(ctx, topic)

	if outHTML == "" {
		outHTML = slugify(topic) + ".html"
	}
	if err := writeHTML(outHTML, res); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "✓ Wrote HTML: %s\n", outHTML)

	if outJSON != "" {
		if err := writeJSON(outJSON, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "✓ Wrote JSON: %s\n", outJSON)
	}

	if showLogFlag {
		fmt.Fprintln(os.Stderr)
		for _, line := range res.StageLog {
			fmt.Fprintf(os.Stderr, "  %s\n", line)
		}
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, renderSummary(res))
	return nil
}
