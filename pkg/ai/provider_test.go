package ai

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []float32
		expected float64
	}{
		{
			name:     "identical vectors",
			a:        []float32{1, 2, 3},
			b:        []float32{1, 2, 3},
			expected: 1.0,
		},
		{
			name:     "opposite vectors",
			a:        []float32{1, 0},
			b:        []float32{-1, 0},
			expected: -1.0,
		},
		{
			name:     "orthogonal vectors",
			a:        []float32{1, 0},
			b:        []float32{0, 1},
			expected: 0.0,
		},
		{
			name:     "length mismatch",
			a:        []float32{1, 2},
			b:        []float32{1, 2, 3},
			expected: 0.0,
		},
		{
			name:     "zero vector",
			a:        []float32{0, 0},
			b:        []float32{1, 2},
			expected: 0.0,
		},
		{
			name:     "empty vectors",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestMockProviderDeterministic(t *testing.T) {
	p := NewMockProvider(64)

	first, err := p.Embed(context.Background(), "report.pdf")
	require.NoError(t, err)
	second, err := p.Embed(context.Background(), "report.pdf")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64)
	assert.Equal(t, 2, p.EmbedCalls)
}

func TestMockProviderDistinctTexts(t *testing.T) {
	p := NewMockProvider(64)

	a, err := p.Embed(context.Background(), "invoice-2024.pdf")
	require.NoError(t, err)
	b, err := p.Embed(context.Background(), "vacation-photo.jpg")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
}
