// pkg/resources/resources.go

// Package resources constructs the shared lexical resources exactly once
// per run and verifies each one is usable before any text processing
// starts. The resources are immutable after construction and are passed by
// reference into the normalizer and classifier.
package resources

import (
	"context"
	"errors"
	"fmt"

	"github.com/aaaton/golem/v4"
	"github.com/aaaton/golem/v4/dicts/en"
	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/normalizer"
	"github.com/glowsight/sentiment-ingress/pkg/sentiment"
)

// Resource identifiers, used in error messages so the operator knows
// exactly what is missing.
const (
	ResourceLemmatizer = "lemmatizer-dictionary/english"
	ResourceStopwords  = "stopword-list/english"
	ResourceTokenizer  = "tokenizer/english"
	ResourceLexicon    = "sentiment-lexicon/vader"
)

// Bundle holds the initialized, read-only lexical resources shared by the
// whole run. Safe for concurrent use.
type Bundle struct {
	Normalizer *normalizer.Normalizer
	Classifier *sentiment.Classifier
}

// Ensure builds the resource bundle and probes every resource. The
// dictionaries ship embedded in their packages, so "fetching" is loading;
// a failure here names the specific resource that is unavailable. The
// context bounds the whole check.
func Ensure(ctx context.Context, logger *zap.Logger) (*Bundle, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	lemmatizer, err := golem.New(en.New())
	if err != nil {
		return nil, fmt.Errorf("lexical resource %s unavailable: %w", ResourceLemmatizer, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resource check interrupted: %w", err)
	}

	if normalizer.StopwordCount() == 0 {
		return nil, fmt.Errorf("lexical resource %s unavailable: empty stop-word set", ResourceStopwords)
	}

	norm, err := normalizer.New(lemmatizer)
	if err != nil {
		return nil, fmt.Errorf("lexical resource %s unavailable: %w", ResourceTokenizer, err)
	}

	// Probe the tokenizer path end to end with a known sentence.
	if got := norm.Normalize("Checking the tokenizer model"); got == "" {
		return nil, fmt.Errorf("lexical resource %s unavailable: probe produced no tokens", ResourceTokenizer)
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("resource check interrupted: %w", err)
	}

	classifier := sentiment.NewClassifier()
	if score := classifier.Score("good"); score <= 0 {
		return nil, fmt.Errorf("lexical resource %s unavailable: probe scored %.4f", ResourceLexicon, score)
	}

	logger.Info("Lexical resources ready",
		zap.Int("stopwords", normalizer.StopwordCount()))

	return &Bundle{
		Normalizer: norm,
		Classifier: classifier,
	}, nil
}
