// pkg/pipeline/metrics.go
package pipeline

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// RunMetrics aggregates what a single pipeline run did: how many rows moved
// through each stage, how long the stages took, and how the sentiment
// labels were distributed.
type RunMetrics struct {
	RunID     uuid.UUID
	StartTime time.Time
	EndTime   time.Time

	ProductRows  int
	CommentRows  int
	MergedRows   int
	CleaningOps  int
	LabelCounts  map[model.Label]int
	StageElapsed map[State]time.Duration

	mutex  sync.Mutex
	logger *zap.Logger
}

// NewRunMetrics creates metrics for a fresh run.
func NewRunMetrics(logger *zap.Logger) *RunMetrics {
	return &RunMetrics{
		RunID:        uuid.New(),
		StartTime:    time.Now(),
		LabelCounts:  make(map[model.Label]int),
		StageElapsed: make(map[State]time.Duration),
		logger:       logger,
	}
}

// StageCompleted records the duration of a finished stage.
func (m *RunMetrics) StageCompleted(stage State, started time.Time) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	elapsed := time.Since(started)
	m.StageElapsed[stage] = elapsed

	m.logger.Info("Stage completed",
		zap.String("runID", m.RunID.String()),
		zap.String("stage", string(stage)),
		zap.Duration("elapsed", elapsed))
}

// CountLabel tallies one classified row.
func (m *RunMetrics) CountLabel(label model.Label) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.LabelCounts[label]++
}

// Finish stamps the end of the run.
func (m *RunMetrics) Finish() {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.EndTime = time.Now()
}

// Duration returns the total wall time of the run.
func (m *RunMetrics) Duration() time.Duration {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	if m.EndTime.IsZero() {
		return time.Since(m.StartTime)
	}
	return m.EndTime.Sub(m.StartTime)
}

// LogSummary emits the run summary.
func (m *RunMetrics) LogSummary() {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.logger.Info("Run summary",
		zap.String("runID", m.RunID.String()),
		zap.Duration("duration", m.EndTime.Sub(m.StartTime)),
		zap.Int("productRows", m.ProductRows),
		zap.Int("commentRows", m.CommentRows),
		zap.Int("mergedRows", m.MergedRows),
		zap.Int("cleaningOperations", m.CleaningOps),
		zap.Int("positive", m.LabelCounts[model.LabelPositive]),
		zap.Int("negative", m.LabelCounts[model.LabelNegative]),
		zap.Int("neutral", m.LabelCounts[model.LabelNeutral]))
}
