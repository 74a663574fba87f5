// pkg/sentiment/classifier.go

// Package sentiment assigns one of three polarity classes to a comment
// using VADER's lexicon-and-rule compound score.
package sentiment

import (
	"github.com/jonreiter/govader"

	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// Classification thresholds on the compound score. These are the standard
// VADER cut-offs and are deliberately not configurable.
const (
	positiveThreshold = 0.05
	negativeThreshold = -0.05
)

// Classifier wraps a VADER analyzer. The lexicon is read-only after
// construction, so a single Classifier is safe for concurrent use.
type Classifier struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewClassifier creates a Classifier with the embedded VADER lexicon.
func NewClassifier() *Classifier {
	return &Classifier{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Score computes the compound polarity score in [-1.0, 1.0]. The empty
// string scores 0.
func (c *Classifier) Score(text string) float64 {
	if text == "" {
		return 0
	}
	return c.analyzer.PolarityScores(text).Compound
}

// Classify maps text to a sentiment label. Scores above 0.05 are Positive,
// below -0.05 Negative, anything in between Neutral; the empty string
// therefore classifies as Neutral.
func (c *Classifier) Classify(text string) model.Label {
	return LabelForScore(c.Score(text))
}

// LabelForScore applies the fixed thresholds to a compound score.
func LabelForScore(score float64) model.Label {
	switch {
	case score > positiveThreshold:
		return model.LabelPositive
	case score < negativeThreshold:
		return model.LabelNegative
	default:
		return model.LabelNeutral
	}
}
