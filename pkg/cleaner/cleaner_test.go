// pkg/cleaner/cleaner_test.go
package cleaner

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
)

func productFixture() *dataset.Table {
	t := dataset.New(
		model.ColProductName, model.ColBrandName, model.ColLovesCount,
		model.ColReviews, model.ColRating, model.ColSize,
		model.ColVariationType, model.ColVariationValue,
	)
	t.AppendRow(map[string]string{
		model.ColProductName:    "Lip Tint",
		model.ColBrandName:      "Glow",
		model.ColLovesCount:     "1200",
		model.ColReviews:        "30",
		model.ColRating:         "4.5",
		model.ColSize:           "30 mL",
		model.ColVariationType:  "Color",
		model.ColVariationValue: "Rose",
	})
	t.AppendRow(map[string]string{
		model.ColProductName:    "Face Serum",
		model.ColBrandName:      "DewLab",
		model.ColLovesCount:     "",
		model.ColReviews:        "900.0",
		model.ColRating:         "",
		model.ColSize:           "1 oz",
		model.ColVariationType:  "",
		model.ColVariationValue: "",
	})
	t.AppendRow(map[string]string{
		model.ColProductName:    "Mystery Balm",
		model.ColBrandName:      "GLOW",
		model.ColLovesCount:     "50",
		model.ColReviews:        "2",
		model.ColRating:         "3.5",
		model.ColSize:           "travel size",
		model.ColVariationType:  "Scent",
		model.ColVariationValue: "Mint",
	})
	return t
}

func TestCleanProducts(t *testing.T) {
	c, err := NewProductCleaner(zap.NewNop(), nil)
	require.NoError(t, err)

	input := productFixture()
	cleaned, ops, err := c.CleanProducts(context.Background(), input)
	require.NoError(t, err)

	t.Run("input table is not mutated", func(t *testing.T) {
		assert.Equal(t, "Glow", input.Rows[0][model.ColBrandName])
		assert.False(t, input.HasColumn(model.ColSizeML))
	})

	t.Run("brand names are lowercased", func(t *testing.T) {
		assert.Equal(t, "glow", cleaned.Rows[0][model.ColBrandName])
		assert.Equal(t, "dewlab", cleaned.Rows[1][model.ColBrandName])
		assert.Equal(t, "glow", cleaned.Rows[2][model.ColBrandName])
	})

	t.Run("missing counts default to zero", func(t *testing.T) {
		assert.Equal(t, "0", cleaned.Rows[1][model.ColLovesCount])
	})

	t.Run("float counts standardize to integers", func(t *testing.T) {
		assert.Equal(t, "900", cleaned.Rows[1][model.ColReviews])
	})

	t.Run("missing rating imputed with median", func(t *testing.T) {
		// Parsed ratings are 4.5 and 3.5; their median is 4.
		assert.Equal(t, "4", cleaned.Rows[1][model.ColRating])
	})

	t.Run("sizes parse to milliliters", func(t *testing.T) {
		assert.Equal(t, "30", cleaned.Rows[0][model.ColSizeML])
		assert.Equal(t, "29.5735", cleaned.Rows[1][model.ColSizeML])
	})

	t.Run("unparsable size imputed with median of parsed values", func(t *testing.T) {
		// Parsed sizes are 30 and 29.5735; their median is 29.78675.
		imputed, err := strconv.ParseFloat(cleaned.Rows[2][model.ColSizeML], 64)
		require.NoError(t, err)
		assert.InDelta(t, 29.78675, imputed, 1e-9)
	})

	t.Run("missing variation fields get the sentinel", func(t *testing.T) {
		assert.Equal(t, "none", cleaned.Rows[1][model.ColVariationType])
		assert.Equal(t, "none", cleaned.Rows[1][model.ColVariationValue])
	})

	t.Run("no nulls remain on cleaned metrics", func(t *testing.T) {
		for i := range cleaned.Rows {
			for _, col := range []string{
				model.ColLovesCount, model.ColReviews, model.ColRating, model.ColSizeML,
			} {
				v, ok := cleaned.Value(i, col)
				assert.True(t, ok, "row %d column %s is null", i, col)
				assert.NotEmpty(t, v, "row %d column %s is empty", i, col)
			}
		}
	})

	t.Run("operations are recorded per repair", func(t *testing.T) {
		byOp := make(map[string]int)
		for _, op := range ops {
			byOp[op.Operation]++
			assert.Equal(t, "product", op.TableName)
			assert.NotEmpty(t, op.RowIdentifier)
		}
		assert.Equal(t, 1, byOp[model.OpDefaultZero])
		assert.Equal(t, 2, byOp[model.OpDefaultSentinel])
		// One rating and one size imputation.
		assert.Equal(t, 2, byOp[model.OpMedianImputation])
	})
}

func TestCleanProductsDegenerate(t *testing.T) {
	c, err := NewProductCleaner(zap.NewNop(), nil)
	require.NoError(t, err)

	t.Run("nil table is rejected", func(t *testing.T) {
		_, _, err := c.CleanProducts(context.Background(), nil)
		assert.Error(t, err)
	})

	t.Run("nothing parsable leaves size null", func(t *testing.T) {
		in := dataset.New(model.ColProductName, model.ColSize)
		in.AppendRow(map[string]string{
			model.ColProductName: "Oddity",
			model.ColSize:        "unknowable",
		})

		cleaned, _, err := c.CleanProducts(context.Background(), in)
		require.NoError(t, err)
		_, ok := cleaned.Value(0, model.ColSizeML)
		assert.False(t, ok)
	})
}

func TestNewProductCleanerValidation(t *testing.T) {
	_, err := NewProductCleaner(nil, nil)
	assert.Error(t, err)
}
