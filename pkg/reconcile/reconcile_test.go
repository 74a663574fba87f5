// pkg/reconcile/reconcile_test.go
package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/glowsight/sentiment-ingress/pkg/config"
	"github.com/glowsight/sentiment-ingress/pkg/dataset"
	"github.com/glowsight/sentiment-ingress/pkg/model"
)

func newReconciler(t *testing.T, policy string) *Reconciler {
	t.Helper()
	r, err := New(model.DefaultCommentMappings, policy, zap.NewNop())
	require.NoError(t, err)
	return r
}

func productFixture() *dataset.Table {
	t := dataset.New(model.ColProductName, model.ColBrandName, model.ColRating)
	t.AppendRow(map[string]string{
		model.ColProductName: "Lip Tint",
		model.ColBrandName:   "glow",
		model.ColRating:      "4.5",
	})
	t.AppendRow(map[string]string{
		model.ColProductName: "Face Serum",
		model.ColBrandName:   "dewlab",
		model.ColRating:      "4.0",
	})
	return t
}

func commentFixture() *dataset.Table {
	t := dataset.New("author", model.ColCommentText, model.ColProductName, "product_brand")
	t.AppendRow(map[string]string{
		"author":             "ami",
		model.ColCommentText: "love it",
		model.ColProductName: "Lip Tint",
		"product_brand":      "glow",
	})
	t.AppendRow(map[string]string{
		"author":             "bex",
		model.ColCommentText: "too sticky",
		model.ColProductName: "Lip Tint",
		"product_brand":      "glow",
	})
	return t
}

func TestRename(t *testing.T) {
	r := newReconciler(t, config.JoinPolicyExact)
	comments := commentFixture()

	renamed := r.Rename(comments)

	assert.True(t, renamed.HasColumn(model.ColBrandName))
	assert.False(t, renamed.HasColumn("product_brand"))
	assert.Equal(t, "glow", renamed.Rows[0][model.ColBrandName])

	// The source table passed in is untouched.
	assert.True(t, comments.HasColumn("product_brand"))
	assert.False(t, comments.HasColumn(model.ColBrandName))
	assert.Equal(t, "glow", comments.Rows[0]["product_brand"])
}

func TestRenameMissingSourceColumn(t *testing.T) {
	r := newReconciler(t, config.JoinPolicyExact)
	bare := dataset.New("author", model.ColCommentText)
	bare.AppendRow(map[string]string{"author": "ami", model.ColCommentText: "hi"})

	renamed := r.Rename(bare)
	assert.Equal(t, bare.Headers, renamed.Headers)
}

func TestLeftJoinFanOut(t *testing.T) {
	r := newReconciler(t, config.JoinPolicyExact)

	product := productFixture()
	comments := r.Rename(commentFixture())

	merged, err := r.LeftJoin(product, comments, model.JoinKeys)
	require.NoError(t, err)

	// Two comments fan out from Lip Tint; Face Serum has none but survives.
	require.Equal(t, 3, merged.Len())

	t.Run("product fields preserved verbatim on every derived row", func(t *testing.T) {
		for i := 0; i < 2; i++ {
			assert.Equal(t, "Lip Tint", merged.Rows[i][model.ColProductName])
			assert.Equal(t, "glow", merged.Rows[i][model.ColBrandName])
			assert.Equal(t, "4.5", merged.Rows[i][model.ColRating])
		}
	})

	t.Run("matched rows carry comment fields", func(t *testing.T) {
		assert.Equal(t, "love it", merged.Rows[0][model.ColCommentText])
		assert.Equal(t, "too sticky", merged.Rows[1][model.ColCommentText])
	})

	t.Run("unmatched row has null comment fields", func(t *testing.T) {
		assert.Equal(t, "Face Serum", merged.Rows[2][model.ColProductName])
		_, ok := merged.Rows[2][model.ColCommentText]
		assert.False(t, ok)
		_, ok = merged.Rows[2]["author"]
		assert.False(t, ok)
	})

	t.Run("all columns from both tables present", func(t *testing.T) {
		for _, col := range []string{
			model.ColProductName, model.ColBrandName, model.ColRating,
			"author", model.ColCommentText,
		} {
			assert.True(t, merged.HasColumn(col), col)
		}
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		assert.Equal(t, 2, product.Len())
		assert.Equal(t, 2, comments.Len())
		assert.False(t, product.HasColumn("author"))
	})
}

func TestLeftJoinPolicies(t *testing.T) {
	product := productFixture()

	// Brand casing differs from the product table.
	comments := dataset.New(model.ColProductName, model.ColBrandName, model.ColCommentText)
	comments.AppendRow(map[string]string{
		model.ColProductName: "Lip Tint",
		model.ColBrandName:   "Glow ",
		model.ColCommentText: "pretty shade",
	})

	t.Run("exact policy drops the near-miss", func(t *testing.T) {
		r := newReconciler(t, config.JoinPolicyExact)
		merged, err := r.LeftJoin(product, comments, model.JoinKeys)
		require.NoError(t, err)
		assert.Equal(t, 2, merged.Len())
		_, ok := merged.Rows[0][model.ColCommentText]
		assert.False(t, ok)
	})

	t.Run("fold policy recovers it", func(t *testing.T) {
		r := newReconciler(t, config.JoinPolicyFold)
		merged, err := r.LeftJoin(product, comments, model.JoinKeys)
		require.NoError(t, err)
		assert.Equal(t, 2, merged.Len())
		assert.Equal(t, "pretty shade", merged.Rows[0][model.ColCommentText])
	})
}

func TestLeftJoinMissingKeyColumn(t *testing.T) {
	r := newReconciler(t, config.JoinPolicyExact)

	product := productFixture()
	noBrand := dataset.New(model.ColProductName, model.ColCommentText)
	noBrand.AppendRow(map[string]string{
		model.ColProductName: "Lip Tint",
		model.ColCommentText: "hello",
	})

	_, err := r.LeftJoin(product, noBrand, model.JoinKeys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingJoinKey)

	noName := dataset.New(model.ColBrandName)
	_, err = r.LeftJoin(noName, noBrand, model.JoinKeys)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingJoinKey)
}

func TestNewValidation(t *testing.T) {
	logger := zap.NewNop()

	_, err := New(nil, config.JoinPolicyExact, logger)
	assert.Error(t, err)

	_, err = New(model.DefaultCommentMappings, "fuzzy", logger)
	assert.Error(t, err)

	_, err = New(model.DefaultCommentMappings, config.JoinPolicyExact, nil)
	assert.Error(t, err)
}
