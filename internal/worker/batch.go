package worker

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ppiankov/hyperion/internal/model"
)

// ErrIncomplete marks a run in which at least one stage was skipped
var ErrIncomplete = errors.New("pipeline incomplete")

// Runner produces one article per topic
type Runner interface {
	Run(ctx context.Context, topic string) model.PipelineResult
}

// TopicJob runs the pipeline for one topic
type TopicJob struct {
	Index  int
	Topic  string
	Runner Runner
}

// Execute implements Job
func (j *TopicJob) Execute(ctx context.Context) Result {
	if err := ctx.Err(); err != nil {
		return &TopicResult{Index: j.Index, Topic: j.Topic, Error: err}
	}
	res := j.Runner.Run(ctx, j.Topic)
	out := &TopicResult{Index: j.Index, Topic: j.Topic, Result: res}
	if res.StagesCompleted < len(res.Stages) {
		out.Error = fmt.Errorf("%w: %d of %d stages completed", ErrIncomplete, res.StagesCompleted, len(res.Stages))
	}
	return out
}

// TopicResult is the outcome of one topic. Error is set when the run was
// cancelled before starting or finished with skipped stages; in the latter
// case Result still holds the article.
type TopicResult struct {
	Index  int
	Topic  string
	Result model.PipelineResult
	Error  error
}

// GetError implements Result
func (r *TopicResult) GetError() error {
	return r.Error
}

// BatchProcessor runs independent pipelines concurrently, one per topic
type BatchProcessor struct {
	runner      Runner
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(runner Runner, concurrency int) *BatchProcessor {
	return &BatchProcessor{runner: runner, concurrency: concurrency}
}

// ProcessTopics runs every topic and returns results in input order.
// Topics not started before ctx is cancelled are reported with its error.
func (b *BatchProcessor) ProcessTopics(ctx context.Context, topics []string) []*TopicResult {
	if len(topics) == 0 {
		return []*TopicResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()

	out := make([]*TopicResult, len(topics))
	for i, topic := range topics {
		if !pool.Submit(&TopicJob{Index: i, Topic: topic, Runner: b.runner}) {
			out[i] = &TopicResult{Index: i, Topic: topic, Error: ctx.Err()}
		}
	}

	for _, r := range pool.Wait() {
		tr := r.(*TopicResult)
		out[tr.Index] = tr
	}
	return out
}

// ProcessFile reads topics from a file and processes them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*TopicResult, error) {
	topics, err := ReadTopicsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read topics: %w", err)
	}
	return b.ProcessTopics(ctx, topics), nil
}

// ReadTopicsFromFile reads one topic per line, skipping blank lines,
// #-comments and case-insensitive duplicates
func ReadTopicsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var topics []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.Join(strings.Fields(scanner.Text()), " ")
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key := strings.ToLower(line)
		if !seen[key] {
			seen[key] = true
			topics = append(topics, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return topics, nil
}
