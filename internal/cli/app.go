package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/ppiankov/hyperion/internal/llm"
	"github.com/ppiankov/hyperion/internal/model"
	"github.com/ppiankov/hyperion/internal/pipeline"
	"github.com/ppiankov/hyperion/internal/search"
)

// openIndex opens the configured content index. Without one, related
// links fall back to placeholders.
func openIndex(cfg model.PipelineConfig) (search.ContentSearch, func(), error) {
	if cfg.Content.IndexPath == "" {
		return nil, func() {}, nil
	}
	idx, err := search.OpenSQLite(cfg.Content.IndexPath)
	if err != nil {
		return nil, nil, fmt.Errorf("open content index: %w", err)
	}
	return idx, func() { _ = idx.Close() }, nil
}

// buildPipeline wires the provider chain and content index into a pipeline
func buildPipeline(ctx context.Context, cfg model.PipelineConfig, logger *zap.Logger) (*pipeline.Pipeline, func(), error) {
	content, closeIndex, err := openIndex(cfg)
	if err != nil {
		return nil, nil, err
	}
	backend := llm.NewChainFromConfig(ctx, cfg, logger)
	return pipeline.NewPipeline(cfg, backend, content, logger), closeIndex, nil
}

// writeHTML writes the article body
func writeHTML(path string, res model.PipelineResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(res.FinalHTML+"\n"), 0o644); err != nil {
		return fmt.Errorf("write HTML: %w", err)
	}
	return nil
}

// writeJSON writes the full pipeline result
func writeJSON(path string, res model.PipelineResult) error {
	if err := ensureDir(path); err != nil {
		return err
	}
	data, err := json.MarshalIndent(res, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write JSON: %w", err)
	}
	return nil
}

func ensureDir(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	return nil
}
