// pkg/cleaner/operations.go
package cleaner

import (
	"sort"
	"strconv"
	"strings"

	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
)

// variationSentinel replaces missing variation type/value fields.
const variationSentinel = "none"

// cleanCount coerces a count column to a non-negative integer, defaulting
// missing or unparsable values to zero.
func cleanCount(row map[string]string, col, rowID string) *model.CleaningOperation {
	value, ok := row[col]
	trimmed := strings.TrimSpace(value)

	if !ok || trimmed == "" {
		row[col] = "0"
		return &model.CleaningOperation{
			TableName:     productTable,
			ColumnName:    col,
			OriginalValue: value,
			NewValue:      "0",
			RowIdentifier: rowID,
			Operation:     model.OpDefaultZero,
			Reason:        model.ReasonMissingValue,
		}
	}

	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || f < 0 {
		row[col] = "0"
		return &model.CleaningOperation{
			TableName:     productTable,
			ColumnName:    col,
			OriginalValue: value,
			NewValue:      "0",
			RowIdentifier: rowID,
			Operation:     model.OpDefaultZero,
			Reason:        model.ReasonUnparsableValue,
		}
	}

	// Counts exported from upstream sometimes carry a float representation
	// like "1234.0"; standardize to an integer string.
	normalized := strconv.FormatInt(int64(f), 10)
	if normalized != value {
		row[col] = normalized
	}
	return nil
}

// imputeFloat fills a missing or unparsable float column with the median.
func imputeFloat(row map[string]string, col string, median float64, rowID string) *model.CleaningOperation {
	value, ok := row[col]
	trimmed := strings.TrimSpace(value)

	if ok && trimmed != "" {
		if _, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return nil
		}
	}

	newValue := formatFloat(median)
	row[col] = newValue

	reason := model.ReasonMissingValue
	if trimmed != "" {
		reason = model.ReasonUnparsableValue
	}
	return &model.CleaningOperation{
		TableName:     productTable,
		ColumnName:    col,
		OriginalValue: value,
		NewValue:      newValue,
		RowIdentifier: rowID,
		Operation:     model.OpMedianImputation,
		Reason:        reason,
	}
}

// normalizeSize derives the size_ml column from the free-text size column.
// Unparsable sizes are imputed with the median of the parsed population
// when one exists.
func normalizeSize(row map[string]string, median float64, medianKnown bool, rowID string) []model.CleaningOperation {
	var operations []model.CleaningOperation

	sizeText := row[model.ColSize]
	if ml, ok := ParseSizeML(sizeText); ok {
		row[model.ColSizeML] = formatFloat(ml)
		return nil
	}

	if !medianKnown {
		// Nothing parsed anywhere in the column; leave the value null.
		return nil
	}

	newValue := formatFloat(median)
	row[model.ColSizeML] = newValue

	reason := model.ReasonMissingValue
	if strings.TrimSpace(sizeText) != "" {
		reason = model.ReasonUnparsableValue
	}
	operations = append(operations, model.CleaningOperation{
		TableName:     productTable,
		ColumnName:    model.ColSizeML,
		OriginalValue: sizeText,
		NewValue:      newValue,
		RowIdentifier: rowID,
		Operation:     model.OpMedianImputation,
		Reason:        reason,
	})
	return operations
}

// fillSentinel replaces a missing variation field with the sentinel value.
func fillSentinel(row map[string]string, col, rowID string) *model.CleaningOperation {
	value, ok := row[col]
	if ok && strings.TrimSpace(value) != "" {
		return nil
	}

	row[col] = variationSentinel
	return &model.CleaningOperation{
		TableName:     productTable,
		ColumnName:    col,
		OriginalValue: value,
		NewValue:      variationSentinel,
		RowIdentifier: rowID,
		Operation:     model.OpDefaultSentinel,
		Reason:        model.ReasonMissingValue,
	}
}

// columnMedian computes the median of the parsable float values in a
// column. The second return value is false when no value parses.
func columnMedian(t *dataset.Table, col string) (float64, bool) {
	var values []float64
	for _, row := range t.Rows {
		v, ok := row[col]
		if !ok {
			continue
		}
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			values = append(values, f)
		}
	}
	return median(values)
}

// sizeColumnMedian computes the median of the successfully parsed size
// values, in milliliters.
func sizeColumnMedian(t *dataset.Table) (float64, bool) {
	var values []float64
	for _, row := range t.Rows {
		if ml, ok := ParseSizeML(row[model.ColSize]); ok {
			values = append(values, ml)
		}
	}
	return median(values)
}

// median returns the statistical median: the middle value for an odd count,
// the mean of the two middle values for an even count.
func median(values []float64) (float64, bool) {
	if len(values) == 0 {
		return 0, false
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
