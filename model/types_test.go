package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRasterGrid(t *testing.T) {
	g := &RasterGrid{
		Rows:   2,
		Cols:   3,
		Values: []float64{1, 2, 3, 4, 5, 6},
	}

	assert.Equal(t, Shape{Rows: 2, Cols: 3}, g.Shape())
	assert.Equal(t, 1.0, g.At(0, 0))
	assert.Equal(t, 6.0, g.At(1, 2))
}

func TestFeatureTable(t *testing.T) {
	tab := &FeatureTable{
		Columns: []string{"OBJECTID", "NAME"},
		Records: [][]string{{"1", "a"}, {"2", "b"}},
	}

	assert.Equal(t, Shape{Rows: 2, Cols: 2}, tab.Shape())
}
