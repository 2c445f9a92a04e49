package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewViolation(t *testing.T) {
	loc := NewPointLocation("Foo.cs", 4, 1)
	v := NewViolation(loc, "USH0001", "target method does not exist", SeverityError)
	assert.Equal(t, "USH0001", v.RuleCode)
	assert.Equal(t, "Foo.cs", v.File())
	assert.Equal(t, 4, v.Line())
}

func TestViolationBuilders(t *testing.T) {
	v := NewViolation(NewFileLocation("Foo.cs"), "USH0044", "not in a namespace", SeverityWarning).
		WithDocURL("https://example.invalid/USH0044").
		WithSourceCode("class Foo {}")
	assert.Equal(t, "https://example.invalid/USH0044", v.DocURL)
	assert.Equal(t, "class Foo {}", v.SourceCode)
}
