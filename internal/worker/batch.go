package worker

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/ppiankov/avatartag/internal/cache"
	"github.com/ppiankov/avatartag/internal/classify"
	"github.com/ppiankov/avatartag/internal/model"
)

// Classifier resolves text against one vocabulary
type Classifier interface {
	Classify(text string) classify.Result
	LogDecision(text string, res classify.Result)
	Vocabulary() model.Vocabulary
}

// Command is one line of free text to classify
type Command struct {
	Line int    // 1-based line number in the source
	Text string // Raw command text
}

// ClassifyJob classifies a single command
type ClassifyJob struct {
	Command    Command
	Classifier Classifier
	Cache      cache.Cache
	TTL        time.Duration
}

// Execute executes the classify job
func (j *ClassifyJob) Execute(ctx context.Context) Result {
	out := &ClassifyResult{Command: j.Command}

	if err := ctx.Err(); err != nil {
		out.Error = err
		return out
	}

	key := cache.Key(j.Classifier.Vocabulary().Name(), j.Command.Text)
	if j.Cache != nil {
		if data, found := j.Cache.Get(key); found {
			var cached classify.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				j.Classifier.LogDecision(j.Command.Text, cached)
				out.Result = cached
				out.Cached = true
				return out
			}
		}
	}

	out.Result = j.Classifier.Classify(j.Command.Text)

	if j.Cache != nil {
		if data, err := json.Marshal(out.Result); err == nil {
			_ = j.Cache.Set(key, data, j.TTL)
		}
	}

	return out
}

// ClassifyResult represents the result of a classify job
type ClassifyResult struct {
	Command Command
	Result  classify.Result
	Cached  bool
	Error   error
}

// GetError returns the error from the classify result
func (r *ClassifyResult) GetError() error {
	return r.Error
}

// BatchProcessor classifies many commands concurrently
type BatchProcessor struct {
	classifier  Classifier
	cache       cache.Cache
	ttl         time.Duration
	concurrency int
}

// NewBatchProcessor creates a new batch processor. c may be nil to disable memoization.
func NewBatchProcessor(classifier Classifier, c cache.Cache, ttl time.Duration, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		classifier:  classifier,
		cache:       c,
		ttl:         ttl,
		concurrency: concurrency,
	}
}

// ProcessCommands classifies commands concurrently and returns results in line order
func (b *BatchProcessor) ProcessCommands(ctx context.Context, commands []Command) []*ClassifyResult {
	if len(commands) == 0 {
		return []*ClassifyResult{}
	}

	pool := NewPool(ctx, b.concurrency)
	pool.Start()
	defer pool.Shutdown()

	go func() {
		defer pool.Close()
		for _, cmd := range commands {
			job := &ClassifyJob{
				Command:    cmd,
				Classifier: b.classifier,
				Cache:      b.cache,
				TTL:        b.ttl,
			}
			if !pool.Submit(job) {
				return
			}
		}
	}()

	results := make([]*ClassifyResult, 0, len(commands))
	for result := range pool.Results() {
		results = append(results, result.(*ClassifyResult))
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Command.Line < results[j].Command.Line
	})

	return results
}

// ProcessLines classifies plain strings, numbering them from 1
func (b *BatchProcessor) ProcessLines(ctx context.Context, lines []string) []*ClassifyResult {
	commands := make([]Command, len(lines))
	for i, line := range lines {
		commands[i] = Command{Line: i + 1, Text: line}
	}
	return b.ProcessCommands(ctx, commands)
}

// ProcessFile reads commands from a file and classifies them concurrently
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ClassifyResult, error) {
	commands, err := ReadCommandsFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read commands: %w", err)
	}

	return b.ProcessCommands(ctx, commands), nil
}

// ReadCommandsFromFile reads commands from a file (one per line).
// Blank lines and # comments are skipped; repeated commands are kept.
func ReadCommandsFromFile(filePath string) ([]Command, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var commands []Command

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		commands = append(commands, Command{Line: lineNo, Text: line})
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return commands, nil
}
