// pkg/cleaner/cleaner.go
package cleaner

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// productTable is the logical table name recorded on cleaning operations.
const productTable = "product"

// ProductCleaner repairs the raw product catalog so every record satisfies
// the downstream invariants: lowercase brand, non-null numeric metrics, a
// normalized size in milliliters, and sentinel values for missing variation
// fields. Repairs are row-level and never fatal; each one is recorded as a
// CleaningOperation.
type ProductCleaner struct {
	logger *zap.Logger
	audit  *AuditStore
}

// NewProductCleaner creates a new ProductCleaner instance. The audit store
// is optional; pass nil to skip persisting cleaning operations.
func NewProductCleaner(logger *zap.Logger, audit *AuditStore) (*ProductCleaner, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}

	return &ProductCleaner{
		logger: logger,
		audit:  audit,
	}, nil
}

// CleanProducts cleans the product table and returns a new table together
// with the operations performed. The input table is not modified.
func (c *ProductCleaner) CleanProducts(ctx context.Context, t *dataset.Table) (*dataset.Table, []model.CleaningOperation, error) {
	if t == nil {
		return nil, nil, errors.New("product table cannot be nil")
	}

	out := t.Clone()
	out.AddColumn(model.ColSizeML)

	var operations []model.CleaningOperation

	// Brand names are case-normalized wholesale rather than recorded per
	// row; it is a formatting rule, not a data repair.
	if out.HasColumn(model.ColBrandName) {
		for _, row := range out.Rows {
			if v, ok := row[model.ColBrandName]; ok {
				row[model.ColBrandName] = strings.ToLower(v)
			}
		}
	}

	// Medians are computed once over the whole column before imputing.
	ratingMedian, ratingKnown := columnMedian(out, model.ColRating)
	sizeMedian, sizeKnown := sizeColumnMedian(out)
	if !ratingKnown {
		c.logger.Warn("No parsable ratings found; missing ratings cannot be imputed")
	}
	if !sizeKnown {
		c.logger.Warn("No parsable sizes found; missing sizes cannot be imputed")
	}

	for i, row := range out.Rows {
		rowID := rowIdentifier(row, i)

		for _, col := range []string{model.ColLovesCount, model.ColReviews} {
			if op := cleanCount(row, col, rowID); op != nil {
				operations = append(operations, *op)
			}
		}

		if ratingKnown {
			if op := imputeFloat(row, model.ColRating, ratingMedian, rowID); op != nil {
				operations = append(operations, *op)
			}
		}

		ops := normalizeSize(row, sizeMedian, sizeKnown, rowID)
		operations = append(operations, ops...)

		for _, col := range []string{model.ColVariationType, model.ColVariationValue} {
			if op := fillSentinel(row, col, rowID); op != nil {
				operations = append(operations, *op)
			}
		}
	}

	c.logger.Info("Product table cleaned",
		zap.Int("rows", out.Len()),
		zap.Int("operations", len(operations)))

	// If operations were performed, record them
	if c.audit != nil && len(operations) > 0 {
		if err := c.audit.Record(ctx, operations); err != nil {
			return out, operations, fmt.Errorf("failed to record cleaning operations: %w", err)
		}
	}

	return out, operations, nil
}

// rowIdentifier finds a value identifying the row for audit purposes.
func rowIdentifier(row map[string]string, index int) string {
	if name, ok := row[model.ColProductName]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("row-%d", index)
}
