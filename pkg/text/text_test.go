package text

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := map[string]string{
		"Roma Latex Mattress":     "roma-latex-mattress",
		"  Crème Brûlée / Queen ": "creme-brulee-queen",
		"100% Cotton!!":           "100-cotton",
		"already-a-handle":        "already-a-handle",
		"":                        "",
	}
	for in, want := range tests {
		assert.Equal(t, want, Slugify(in), "input %q", in)
	}
}

func TestStripTags(t *testing.T) {
	assert.Equal(t, "Natural latex & wool.", StripTags("<p>Natural <b>latex</b> &amp; wool.</p>\n"))
	assert.Equal(t, "", StripTags("<br/>"))
}

func TestReduceToLength(t *testing.T) {
	assert.Equal(t, "the quick", ReduceToLength("the quick brown fox", 12))
	assert.Equal(t, "the quick brown", ReduceToLength("the quick brown fox", 15))
	assert.Equal(t, "", ReduceToLength("enormous", 3))
}
