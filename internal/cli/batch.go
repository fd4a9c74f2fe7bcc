package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/hyperion/internal/logging"
	"github.com/ppiankov/hyperion/internal/worker"
)

var (
	outputDir    string
	batchTimeout time.Duration
)

var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Generate articles for every topic in a file",
	Long: `Batch runs one independent pipeline per topic, several at a time:
- Read topics from the input file (one per line, # for comments)
- Run topics concurrently (--workers, default from config)
- Write <slug>.html and <slug>.json per topic into the output directory

Example:
  hyperion batch topics.txt
  hyperion batch topics.txt --workers 4 --output-dir ./articles
  hyperion batch topics.txt --offline --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./hyperion-articles", "output directory for articles")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 2*time.Hour, "total timeout for the batch")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := logging.Must(verbose)
	defer func() { _ = logger.Sync() }()

	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, banner("Hyperion Batch"))
	fmt.Fprintf(os.Stderr, "\n  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n\n", batchTimeout)

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, closeIndex, err := buildPipeline(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeIndex()

	processor := worker.NewBatchProcessor(p, cfg.Concurrency.Workers)
	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	written, incomplete, failed := 0, 0, 0
	for _, r := range results {
		if r.Result.FinalHTML == "" {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Topic, r.Error)
			continue
		}

		slug := slugify(r.Topic)
		if err := writeHTML(filepath.Join(outputDir, slug+".html"), r.Result); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Topic, err)
			continue
		}
		if err := writeJSON(filepath.Join(outputDir, slug+".json"), r.Result); err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", r.Topic, err)
			continue
		}

		written++
		if r.Error != nil {
			incomplete++
			fmt.Fprintf(os.Stderr, "! %s (%d words, %v)\n", r.Topic, r.Result.WordCount, r.Error)
			continue
		}
		fmt.Fprintf(os.Stderr, "✓ %s (%d words, SEO %s)\n", r.Topic, r.Result.WordCount, scoreText(r.Result.SEOScore))
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, banner("Batch Complete"))
	fmt.Fprintf(os.Stderr, "\n  Total:       %d topics\n", len(results))
	fmt.Fprintf(os.Stderr, "  Written:     %d\n", written)
	fmt.Fprintf(os.Stderr, "  Incomplete:  %d\n", incomplete)
	fmt.Fprintf(os.Stderr, "  Failures:    %d\n", failed)
	fmt.Fprintf(os.Stderr, "  Output:      %s\n\n", outputDir)

	return nil
}
