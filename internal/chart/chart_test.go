package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		line   string
		area   string
	}{
		{
			name:   "Rising series",
			prices: []float64{10, 20, 30},
			line:   "M0,100 L50,50 L100,0",
			area:   "M0,100 L50,50 L100,0 L100,100 L0,100 Z",
		},
		{
			name:   "Flat series draws through the middle",
			prices: []float64{5, 5},
			line:   "M0,50 L100,50",
			area:   "M0,50 L100,50 L100,100 L0,100 Z",
		},
		{
			name:   "Single point",
			prices: []float64{42},
			line:   "M0,50",
			area:   "M0,50 L0,100 L0,100 Z",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paths := Build(tt.prices, 100, 100)
			assert.Equal(t, tt.line, paths.Line)
			assert.Equal(t, tt.area, paths.Area)
		})
	}
}

func TestBuildBounds(t *testing.T) {
	paths := Build([]float64{3, 1, 2}, 100, 100)
	assert.Equal(t, 1.0, paths.Min)
	assert.Equal(t, 3.0, paths.Max)
}

func TestBuildEmpty(t *testing.T) {
	assert.True(t, Build(nil, 100, 100).Empty())
	assert.True(t, Build([]float64{1}, 0, 100).Empty())
}
