// pkg/pipeline/pipeline.go

// Package pipeline sequences a full run: resource checks, dataset loading,
// product cleaning, schema reconciliation, text normalization, sentiment
// classification, and persistence of the labeled dataset.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/cleaner"
	"github.com/glowsight/sentiment-ingress/pkg/config"
	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
	"github.com/glowsight/sentiment-ingress/pkg/reconcile"
	"github.com/glowsight/sentiment-ingress/pkg/resources"
)

// State identifies how far a run has progressed. Transitions are strictly
// linear; no stage may be skipped, and each stage's postcondition is the
// next stage's precondition.
type State string

const (
	StateIdle             State = "idle"
	StateResourcesChecked State = "resources_checked"
	StateDataLoaded       State = "data_loaded"
	StateMerged           State = "merged"
	StateNormalized       State = "normalized"
	StateClassified       State = "classified"
	StatePersisted        State = "persisted"
)

// nextState encodes the only legal transition out of each state.
var nextState = map[State]State{
	StateIdle:             StateResourcesChecked,
	StateResourcesChecked: StateDataLoaded,
	StateDataLoaded:       StateMerged,
	StateMerged:           StateNormalized,
	StateNormalized:       StateClassified,
	StateClassified:       StatePersisted,
}

// Pipeline orchestrates one batch run over the product and comment tables.
type Pipeline struct {
	cfg        *config.Config
	logger     *zap.Logger
	cleaner    *cleaner.ProductCleaner
	reconciler *reconcile.Reconciler
	audit      *cleaner.AuditStore
	bundle     *resources.Bundle
	metrics    *RunMetrics

	state     State
	stateLock sync.RWMutex
}

// New creates a Pipeline from configuration.
func New(cfg *config.Config, logger *zap.Logger) (*Pipeline, error) {
	if cfg == nil {
		return nil, errors.New("config cannot be nil")
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	var audit *cleaner.AuditStore
	if cfg.AuditDBPath != "" {
		var err error
		audit, err = cleaner.OpenAuditStore(cfg.AuditDBPath, logger)
		if err != nil {
			return nil, fmt.Errorf("open audit store: %w", err)
		}
	}

	productCleaner, err := cleaner.NewProductCleaner(logger, audit)
	if err != nil {
		return nil, fmt.Errorf("create product cleaner: %w", err)
	}

	reconciler, err := reconcile.New(cfg.CommentMappings, cfg.JoinKeyPolicy, logger)
	if err != nil {
		return nil, fmt.Errorf("create reconciler: %w", err)
	}

	return &Pipeline{
		cfg:        cfg,
		logger:     logger,
		cleaner:    productCleaner,
		reconciler: reconciler,
		audit:      audit,
		metrics:    NewRunMetrics(logger),
		state:      StateIdle,
	}, nil
}

// State returns the current run state.
func (p *Pipeline) State() State {
	p.stateLock.RLock()
	defer p.stateLock.RUnlock()
	return p.state
}

// Metrics returns the metrics of the current run.
func (p *Pipeline) Metrics() *RunMetrics {
	return p.metrics
}

// transition advances the state machine by exactly one step.
func (p *Pipeline) transition(to State) error {
	p.stateLock.Lock()
	defer p.stateLock.Unlock()

	if nextState[p.state] != to {
		return fmt.Errorf("illegal state transition %s -> %s", p.state, to)
	}

	p.logger.Info("Pipeline state changed",
		zap.String("from", string(p.state)),
		zap.String("to", string(to)))
	p.state = to
	return nil
}

// Close releases resources held by the pipeline.
func (p *Pipeline) Close() error {
	if p.audit != nil {
		return p.audit.Close()
	}
	return nil
}

// Run executes the full pipeline. It either persists a complete labeled
// dataset or fails before writing any output.
func (p *Pipeline) Run(ctx context.Context) error {
	// Stage 1: lexical resources must be usable before any processing.
	started := time.Now()
	resourceCtx := ctx
	if p.cfg.ResourceTimeout > 0 {
		var cancel context.CancelFunc
		resourceCtx, cancel = context.WithTimeout(ctx, p.cfg.ResourceTimeout)
		defer cancel()
	}
	bundle, err := resources.Ensure(resourceCtx, p.logger)
	if err != nil {
		return newRunError(ErrorCategoryMissingResource, p.State(), err)
	}
	p.bundle = bundle
	if err := p.transition(StateResourcesChecked); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StateResourcesChecked, started)

	// Stage 2: load both inputs up front; a missing file halts the run
	// before anything is processed and before any output exists.
	started = time.Now()
	product, err := p.loadInput(p.cfg.ProductCSV, "product")
	if err != nil {
		return err
	}
	comments, err := p.loadInput(p.cfg.CommentCSV, "comment")
	if err != nil {
		return err
	}
	p.metrics.ProductRows = product.Len()
	p.metrics.CommentRows = comments.Len()
	if err := p.transition(StateDataLoaded); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StateDataLoaded, started)

	// Stage 3: clean the product table, then reconcile and merge.
	started = time.Now()
	cleanedProduct, operations, err := p.cleaner.CleanProducts(ctx, product)
	if err != nil {
		return newRunError(ErrorCategoryPersistence, p.State(), err)
	}
	p.metrics.CleaningOps = len(operations)

	if p.cfg.ProductCleanCSV != "" {
		if err := dataset.Store(p.cfg.ProductCleanCSV, cleanedProduct, false); err != nil {
			return newRunError(ErrorCategoryPersistence, p.State(), err)
		}
		p.logger.Info("Persisted cleaned product table",
			zap.String("path", p.cfg.ProductCleanCSV))
	}

	renamed := p.reconciler.Rename(comments)
	merged, err := p.reconciler.LeftJoin(cleanedProduct, renamed, model.JoinKeys)
	if err != nil {
		return newRunError(ErrorCategorySchemaMismatch, p.State(), err)
	}
	p.metrics.MergedRows = merged.Len()
	if err := p.transition(StateMerged); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StateMerged, started)

	// Stage 4: normalize every comment, then coerce the column so every
	// row carries a string. Unmatched join rows have a null text field and
	// normalize to the empty string.
	started = time.Now()
	normalized, err := p.normalizeComments(ctx, merged)
	if err != nil {
		return err
	}
	coerceColumn(normalized, model.ColCommentClean)
	if err := p.transition(StateNormalized); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StateNormalized, started)

	// Stage 5: classify every normalized comment.
	started = time.Now()
	labeled, err := p.classifyComments(ctx, normalized)
	if err != nil {
		return err
	}
	if err := p.transition(StateClassified); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StateClassified, started)

	// Stage 6: persist the terminal artifact.
	started = time.Now()
	if err := dataset.Store(p.cfg.OutputCSV, labeled, true); err != nil {
		return newRunError(ErrorCategoryPersistence, p.State(), err)
	}
	if err := p.transition(StatePersisted); err != nil {
		return newRunError(ErrorCategoryInternal, p.State(), err)
	}
	p.metrics.StageCompleted(StatePersisted, started)

	p.metrics.Finish()
	p.metrics.LogSummary()
	return nil
}

// loadInput loads one CSV input, classifying a missing file as a
// missing-input error naming the path.
func (p *Pipeline) loadInput(path, name string) (*dataset.Table, error) {
	t, err := dataset.Load(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, newRunError(ErrorCategoryMissingInput, p.State(),
				fmt.Errorf("%s dataset not available at %s", name, path))
		}
		return nil, newRunError(ErrorCategoryMissingInput, p.State(), err)
	}
	p.logger.Info("Loaded dataset",
		zap.String("name", name),
		zap.String("path", path),
		zap.Int("rows", t.Len()))
	return t, nil
}

// normalizeComments derives the comment_clean column on a new table.
func (p *Pipeline) normalizeComments(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
	values := columnValues(t, model.ColCommentText)

	normalized, err := runAnnotation(ctx, p.cfg.WorkerPoolSize, values,
		p.bundle.Normalizer.NormalizeValue, p.logger)
	if err != nil {
		return nil, newRunError(ErrorCategoryInternal, p.State(), err)
	}

	out := t.Clone()
	out.AddColumn(model.ColCommentClean)
	for i, row := range out.Rows {
		row[model.ColCommentClean] = normalized[i]
	}
	return out, nil
}

// classifyComments derives the sentiment column on a new table.
func (p *Pipeline) classifyComments(ctx context.Context, t *dataset.Table) (*dataset.Table, error) {
	values := columnValues(t, model.ColCommentClean)

	labels, err := runAnnotation(ctx, p.cfg.WorkerPoolSize, values,
		func(v interface{}) string {
			text, _ := v.(string)
			return string(p.bundle.Classifier.Classify(text))
		}, p.logger)
	if err != nil {
		return nil, newRunError(ErrorCategoryInternal, p.State(), err)
	}

	out := t.Clone()
	out.AddColumn(model.ColSentiment)
	for i, row := range out.Rows {
		row[model.ColSentiment] = labels[i]
		p.metrics.CountLabel(model.Label(labels[i]))
	}
	return out, nil
}

// columnValues extracts a column as values, nil where the cell is null.
func columnValues(t *dataset.Table, col string) []interface{} {
	values := make([]interface{}, t.Len())
	for i, row := range t.Rows {
		if v, ok := row[col]; ok {
			values[i] = v
		}
	}
	return values
}

// coerceColumn guarantees the column is a present, non-null string on
// every row.
func coerceColumn(t *dataset.Table, col string) {
	t.AddColumn(col)
	for _, row := range t.Rows {
		if _, ok := row[col]; !ok {
			row[col] = ""
		}
	}
}
