package selection

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"
)

// FileLoader reads asset ids from a file (one per line)
type FileLoader struct {
	Path string

	// Delay postpones the read, simulating a slow remote catalog
	Delay time.Duration
}

// Load implements Loader
func (l FileLoader) Load(ctx context.Context) ([]string, error) {
	if l.Delay > 0 {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.Delay):
		}
	}

	return ReadAssetsFromFile(l.Path)
}

// ReadAssetsFromFile reads asset ids from a file (one per line).
// Blank lines and # comments are skipped, duplicates dropped, order kept.
func ReadAssetsFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var assets []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			assets = append(assets, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return assets, nil
}
