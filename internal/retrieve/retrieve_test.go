package retrieve

import (
	"strings"
	"testing"

	"github.com/codesight/codesight/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestRrfMergeFusesAndTiebreaks(t *testing.T) {
	a := []string{"x", "y", "z"}
	b := []string{"y", "x", "w"}
	merged := rrfMerge(a, b)

	assert.Equal(t, "x", merged[0].id) // x and y both score 1/61 + 1/62; x wins the lexicographic tiebreak
	ids := make([]string, len(merged))
	for i, m := range merged {
		ids[i] = m.id
	}
	assert.ElementsMatch(t, []string{"x", "y", "z", "w"}, ids)
}

func TestRrfMergeEmptyLists(t *testing.T) {
	assert.Empty(t, rrfMerge(nil, nil))
}

func TestToRankedIDsOrdersByScoreDescending(t *testing.T) {
	scored := []store.ScoredID{{ChunkID: "a", Score: 0.1}, {ChunkID: "b", Score: 0.9}}
	ids := toRankedIDs(scored)
	assert.Equal(t, []string{"b", "a"}, ids)
}

func TestTruncateSnippetLeavesShortContentAlone(t *testing.T) {
	assert.Equal(t, "hello", truncateSnippet("hello"))
}

func TestTruncateSnippetTruncatesLongContent(t *testing.T) {
	long := strings.Repeat("a", snippetMaxChars+10)
	out := truncateSnippet(long)
	assert.True(t, strings.HasSuffix(out, "... (truncated)"))
	assert.Less(t, len(out), len(long))
}

func TestBm25QueryQuotesSpecialChars(t *testing.T) {
	assert.Equal(t, `"foo(bar)"`, bm25Query("foo(bar)"))
	assert.Equal(t, "plain words", bm25Query("plain words"))
}

func TestRound6(t *testing.T) {
	assert.Equal(t, 0.333333, round6(1.0/3.0))
}
