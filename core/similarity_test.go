package core

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosineSimilarity(t *testing.T) {
	t.Run("identical vectors", func(t *testing.T) {
		v := []float32{0.3, -1.2, 4.5}
		sim, err := CosineSimilarity(v, v)
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("scaled vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 2, 3}, []float32{2, 4, 6})
		require.NoError(t, err)
		assert.InDelta(t, 1.0, sim, 1e-9)
	})

	t.Run("orthogonal vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 0}, []float32{0, 1})
		require.NoError(t, err)
		assert.InDelta(t, 0.0, sim, 1e-12)
	})

	t.Run("opposite vectors", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{1, 1}, []float32{-1, -1})
		require.NoError(t, err)
		assert.InDelta(t, -1.0, sim, 1e-9)
	})

	t.Run("dimension mismatch", func(t *testing.T) {
		_, err := CosineSimilarity([]float32{1, 2}, []float32{1, 2, 3})
		assert.ErrorIs(t, err, ErrDimensionMismatch)
	})

	t.Run("zero vector", func(t *testing.T) {
		sim, err := CosineSimilarity([]float32{0, 0, 0}, []float32{1, 2, 3})
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)

		sim, err = CosineSimilarity([]float32{1, 2, 3}, []float32{0, 0, 0})
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})

	t.Run("empty vectors", func(t *testing.T) {
		sim, err := CosineSimilarity(nil, nil)
		require.NoError(t, err)
		assert.Equal(t, 0.0, sim)
	})
}

func TestNormalizeVector(t *testing.T) {
	t.Run("unit length", func(t *testing.T) {
		v := NormalizeVector([]float32{3, 4})
		assert.InDelta(t, 0.6, v[0], 1e-6)
		assert.InDelta(t, 0.8, v[1], 1e-6)

		var sum float64
		for _, x := range v {
			sum += float64(x) * float64(x)
		}
		assert.InDelta(t, 1.0, math.Sqrt(sum), 1e-6)
	})

	t.Run("zero vector", func(t *testing.T) {
		assert.Equal(t, []float32{0, 0}, NormalizeVector([]float32{0, 0}))
	})

	t.Run("does not modify input", func(t *testing.T) {
		in := []float32{3, 4}
		NormalizeVector(in)
		assert.Equal(t, []float32{3, 4}, in)
	})
}
