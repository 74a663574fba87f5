// pkg/reconcile/reconcile.go

// Package reconcile aligns the comment table's schema with the product
// table's and merges the two with a left outer join.
package reconcile

import (
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/config"
	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// ErrMissingJoinKey reports that a required join-key column is absent from
// one of the input tables. This is a configuration error, not a data error:
// the merge cannot proceed and must not produce a partial result.
var ErrMissingJoinKey = errors.New("join key column missing")

// keySeparator joins composite key parts; a unit separator cannot appear
// in CSV field values that matter here.
const keySeparator = "\x1f"

// Reconciler renames source columns to canonical names and performs the
// product-comment merge.
type Reconciler struct {
	mappings []model.ColumnMapping
	policy   string
	logger   *zap.Logger
}

// New creates a Reconciler. The mapping table declares every
// {source column → canonical column} rename applied to the comment table.
func New(mappings []model.ColumnMapping, policy string, logger *zap.Logger) (*Reconciler, error) {
	if len(mappings) == 0 {
		return nil, errors.New("column mappings cannot be empty")
	}
	if policy != config.JoinPolicyExact && policy != config.JoinPolicyFold {
		return nil, fmt.Errorf("unknown join key policy %q", policy)
	}
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &Reconciler{
		mappings: mappings,
		policy:   policy,
		logger:   logger,
	}, nil
}

// Rename returns a copy of the table with the declared source columns
// renamed to their canonical names. The input table is not modified.
// Mappings whose source column is absent are skipped.
func (r *Reconciler) Rename(t *dataset.Table) *dataset.Table {
	out := t.Clone()

	for _, m := range r.mappings {
		if !out.HasColumn(m.Source) || out.HasColumn(m.Canonical) {
			continue
		}

		for i, h := range out.Headers {
			if h == m.Source {
				out.Headers[i] = m.Canonical
			}
		}
		for _, row := range out.Rows {
			if v, ok := row[m.Source]; ok {
				row[m.Canonical] = v
				delete(row, m.Source)
			}
		}

		r.logger.Info("Renamed column",
			zap.String("from", m.Source),
			zap.String("to", m.Canonical))
	}

	return out
}

// LeftJoin merges the comment table onto the product table by the composite
// join key. Every product row is preserved: a product with no matching
// comments yields one output row with null comment fields, and a product
// with N matching comments fans out into N rows. Product fields are copied
// verbatim onto every derived row.
func (r *Reconciler) LeftJoin(product, comments *dataset.Table, keys []string) (*dataset.Table, error) {
	for _, key := range keys {
		if !product.HasColumn(key) {
			return nil, fmt.Errorf("%w: %q not in product table", ErrMissingJoinKey, key)
		}
		if !comments.HasColumn(key) {
			return nil, fmt.Errorf("%w: %q not in comment table", ErrMissingJoinKey, key)
		}
	}

	// Output carries every product column followed by the comment columns
	// that are not already present on the product side.
	headers := make([]string, 0, len(product.Headers)+len(comments.Headers))
	headers = append(headers, product.Headers...)
	rightOnly := make([]string, 0, len(comments.Headers))
	for _, h := range comments.Headers {
		if !product.HasColumn(h) {
			rightOnly = append(rightOnly, h)
		}
	}
	headers = append(headers, rightOnly...)

	// Index comment rows by join key, preserving their original order.
	index := make(map[string][]map[string]string, comments.Len())
	for _, row := range comments.Rows {
		k := r.joinKey(row, keys)
		index[k] = append(index[k], row)
	}

	out := dataset.New(headers...)
	matched := 0
	for _, left := range product.Rows {
		matches := index[r.joinKey(left, keys)]
		if len(matches) == 0 {
			out.AppendRow(copyRow(left, nil, rightOnly))
			continue
		}
		for _, right := range matches {
			out.AppendRow(copyRow(left, right, rightOnly))
			matched++
		}
	}

	r.logger.Info("Merged product and comment tables",
		zap.Int("productRows", product.Len()),
		zap.Int("commentRows", comments.Len()),
		zap.Int("mergedRows", out.Len()),
		zap.Int("matchedComments", matched),
		zap.String("policy", r.policy))

	return out, nil
}

// joinKey builds the composite key for a row under the configured matching
// policy. The exact policy compares raw values; the fold policy trims
// whitespace and lowercases, recovering matches that differ only in casing.
func (r *Reconciler) joinKey(row map[string]string, keys []string) string {
	parts := make([]string, len(keys))
	for i, key := range keys {
		v := row[key]
		if r.policy == config.JoinPolicyFold {
			v = strings.ToLower(strings.TrimSpace(v))
		}
		parts[i] = v
	}
	return strings.Join(parts, keySeparator)
}

// copyRow materializes one merged row. A nil right row leaves the comment
// columns null.
func copyRow(left, right map[string]string, rightOnly []string) map[string]string {
	row := make(map[string]string, len(left)+len(rightOnly))
	for k, v := range left {
		row[k] = v
	}
	if right != nil {
		for _, col := range rightOnly {
			if v, ok := right[col]; ok {
				row[col] = v
			}
		}
	}
	return row
}
