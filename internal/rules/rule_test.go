package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckInput_SourceMap(t *testing.T) {
	source := []byte("class A {}\nclass B {}\nclass C {}")
	input := CheckInput{Source: source}

	sm := input.SourceMap()
	require.NotNil(t, sm)
	assert.Equal(t, 3, sm.LineCount())
	assert.Equal(t, "class A {}", sm.Line(0))
}

func TestCheckInput_SnippetForLocation(t *testing.T) {
	source := []byte("line1\nline2\nline3\nline4\nline5")
	input := CheckInput{Source: source}

	tests := []struct {
		name string
		loc  Location
		want string
	}{
		{"file level", NewFileLocation("test"), ""},
		{"point location", NewPointLocation("test", 2, 1), "line2"},
		{"range same line", NewRangeLocation("test", 1, 1, 1, 6), "line1"},
		{"range multiple lines", NewRangeLocation("test", 1, 1, 3, 6), "line1\nline2\nline3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, input.SnippetForLocation(tt.loc))
		})
	}
}

func TestCheckInput_SnippetForLocation_EmptySource(t *testing.T) {
	input := CheckInput{Source: []byte{}}
	assert.Empty(t, input.SnippetForLocation(NewPointLocation("test", 1, 1)))
}
