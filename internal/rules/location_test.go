package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileLocationIsFileLevel(t *testing.T) {
	loc := NewFileLocation("Foo.cs")
	assert.True(t, loc.IsFileLevel())
	assert.True(t, loc.IsPointLocation())
}

func TestPointLocation(t *testing.T) {
	loc := NewPointLocation("Foo.cs", 3, 5)
	assert.False(t, loc.IsFileLevel())
	assert.True(t, loc.IsPointLocation())
	assert.Equal(t, Position{Line: 3, Column: 5}, loc.Start)
}

func TestRangeLocation(t *testing.T) {
	loc := NewRangeLocation("Foo.cs", 1, 1, 1, 10)
	assert.False(t, loc.IsFileLevel())
	assert.False(t, loc.IsPointLocation())
}
