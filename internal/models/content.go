// content.go
package models

import (
	_ "embed"
	"fmt"
	"math/rand"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed tasks.yaml
var defaultContent []byte

// BenchmarkInfo describes what a test measures and its score bands,
// shown in history listings and the trend legend.
type BenchmarkInfo struct {
	Description string `yaml:"description"`
	ScoreType   string `yaml:"score_type"`
	GoodRange   string `yaml:"good_range"`
}

// Content holds the task material and tunables loaded from tasks.yaml.
type Content struct {
	WordBank     []string                 `yaml:"word_bank"`
	StroopColors []string                 `yaml:"stroop_colors"`
	Benchmarks   map[string]BenchmarkInfo `yaml:"benchmarks"`
}

// LoadContent reads and parses a tasks.yaml file. An empty path, or a path
// that does not exist, falls back to the embedded default content.
func LoadContent(path string) (*Content, error) {
	data := defaultContent
	if path != "" {
		fileData, err := os.ReadFile(path)
		if err == nil {
			data = fileData
		} else if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read task content file: %w", err)
		}
	}

	var content Content
	if err := yaml.Unmarshal(data, &content); err != nil {
		return nil, fmt.Errorf("failed to unmarshal task content YAML: %w", err)
	}
	if len(content.WordBank) == 0 {
		return nil, fmt.Errorf("task content has an empty word bank")
	}
	if len(content.StroopColors) < 3 {
		return nil, fmt.Errorf("stroop needs at least 3 colors, got %d", len(content.StroopColors))
	}
	return &content, nil
}

// SampleWords draws n distinct words from the bank.
func (c *Content) SampleWords(rng *rand.Rand, n int) []string {
	if n > len(c.WordBank) {
		n = len(c.WordBank)
	}
	perm := rng.Perm(len(c.WordBank))
	words := make([]string, n)
	for i := 0; i < n; i++ {
		words[i] = c.WordBank[perm[i]]
	}
	return words
}

// Benchmark returns display info for a test type, with a generic fallback.
func (c *Content) Benchmark(t TestType) BenchmarkInfo {
	if info, ok := c.Benchmarks[string(t)]; ok {
		return info
	}
	return BenchmarkInfo{
		Description: "Cognitive Assessment",
		ScoreType:   "Test score",
		GoodRange:   "Ranges vary by test type",
	}
}
