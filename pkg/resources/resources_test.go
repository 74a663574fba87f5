// pkg/resources/resources_test.go
package resources

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestEnsure(t *testing.T) {
	bundle, err := Ensure(context.Background(), zap.NewNop())
	require.NoError(t, err)
	require.NotNil(t, bundle)
	assert.NotNil(t, bundle.Normalizer)
	assert.NotNil(t, bundle.Classifier)

	// The probed resources are immediately usable.
	assert.Equal(t, "love", bundle.Normalizer.Normalize("Loved"))
	assert.Greater(t, bundle.Classifier.Score("good"), 0.0)
}

func TestEnsureNilLogger(t *testing.T) {
	_, err := Ensure(context.Background(), nil)
	assert.Error(t, err)
}
