package framework

import (
	"bytes"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegexFilters(t *testing.T) {
	var filters RegexFilters
	assert.True(t, filters.AsFilter(TestID{Path: []string{"anything"}}))
	assert.False(t, filters.IsDefined())

	require.NoError(t, filters.MustMatch.Set("^category management"))
	require.NoError(t, filters.MustNotMatch.Set("without session$"))

	assert.True(t, filters.AsFilter(TestID{Path: []string{"category management", "add category"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"category management", "list categories without session"}}))
	assert.False(t, filters.AsFilter(TestID{Path: []string{"user"}}))
	assert.Equal(t, `"^category management"`, filters.MustMatch.String())
}

func TestRegexListRejectsInvalidPattern(t *testing.T) {
	var list RegexList
	assert.Error(t, list.Set("("))
	assert.False(t, list.IsDefined())
}

func TestGroupPattern(t *testing.T) {
	id := TestID{Path: []string{"goals/limits management", "delete goal/limit"}}
	pattern := GroupPattern(id)
	rx := regexp.MustCompile(pattern)

	assert.True(t, rx.MatchString("goals/limits management"))
	assert.True(t, rx.MatchString("goals/limits management/create goal/limit"))
	assert.False(t, rx.MatchString("goals/limits management extra"))
	assert.Equal(t, "", GroupPattern(TestID{}))
}

func TestPrintFilterDescription(t *testing.T) {
	var buf bytes.Buffer
	PrintFilterDescription(&buf, RegexFilters{})
	assert.Empty(t, buf.String())

	var filters RegexFilters
	require.NoError(t, filters.MustNotMatch.Set("transactions"))
	PrintFilterDescription(&buf, filters)
	assert.Contains(t, buf.String(), `skip any matching "transactions"`)
}
