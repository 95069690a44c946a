// Package retrieve implements the hybrid retriever: vector search and
// BM25 keyword search run in parallel, fused by Reciprocal Rank Fusion,
// then hydrated into Results. Grounded on original_source/search.py.
package retrieve

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"unicode"

	"github.com/codesight/codesight/internal/codesight"
	"github.com/codesight/codesight/internal/embed"
	"github.com/codesight/codesight/internal/store"
	"github.com/gobwas/glob"
)

const rrfK = 60

// Result is one hydrated, scored search hit.
type Result struct {
	ChunkID   string
	FilePath  string
	StartLine int
	EndLine   int
	Scope     string
	Language  string
	Snippet   string
	Score     float64
}

// Options configures Search.
type Options struct {
	TopK                int
	CandidateMultiplier int // C = TopK * CandidateMultiplier fetched from each side before fusion
	FilePathGlob        string // optional post-filter, e.g. "src/**/*.go"
}

// Search runs the hybrid retrieval algorithm: embed the query, run vector
// search and BM25 search concurrently for TopK*CandidateMultiplier
// candidates each, fuse their rankings with RRF, take the top TopK, hydrate
// metadata, and truncate long snippets. Returns an empty slice (not an
// error) when both sub-searches come back empty.
func Search(ctx context.Context, s *store.Store, provider embed.Provider, query string, opts Options) ([]Result, error) {
	candidateCount := opts.TopK * opts.CandidateMultiplier
	if candidateCount <= 0 {
		candidateCount = opts.TopK * 3
	}

	vectors, err := provider.Embed(ctx, []string{query}, embed.ModeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", codesight.ErrRetriever, err)
	}
	if len(vectors) == 0 {
		return nil, fmt.Errorf("%w: embedder returned no vector for query", codesight.ErrRetriever)
	}

	var (
		vecResults  []store.ScoredID
		bm25Results []store.ScoredID
		vecErr      error
		bm25Err     error
		wg          sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		vecResults, vecErr = s.VectorSearch(vectors[0], candidateCount)
	}()
	go func() {
		defer wg.Done()
		bm25Results, bm25Err = s.BM25Search(bm25Query(query), candidateCount)
	}()
	wg.Wait()

	if vecErr != nil {
		return nil, fmt.Errorf("%w: vector search: %v", codesight.ErrRetriever, vecErr)
	}
	if bm25Err != nil {
		return nil, fmt.Errorf("%w: bm25 search: %v", codesight.ErrRetriever, bm25Err)
	}

	if len(vecResults) == 0 && len(bm25Results) == 0 {
		return []Result{}, nil
	}

	var g glob.Glob
	if opts.FilePathGlob != "" {
		g, err = glob.Compile(opts.FilePathGlob, '/')
		if err != nil {
			return nil, fmt.Errorf("%w: invalid file_path glob %q: %v", codesight.ErrRetriever, opts.FilePathGlob, err)
		}
	}

	merged := rrfMerge(toRankedIDs(vecResults), toRankedIDs(bm25Results))
	if opts.TopK > 0 && len(merged) > opts.TopK && g == nil {
		merged = merged[:opts.TopK]
	}

	ids := make([]string, len(merged))
	scoreMap := make(map[string]float64, len(merged))
	for i, m := range merged {
		ids[i] = m.id
		scoreMap[m.id] = m.score
	}

	metas, err := s.Hydrate(ids)
	if err != nil {
		return nil, fmt.Errorf("%w: hydrating results: %v", codesight.ErrRetriever, err)
	}

	results := make([]Result, 0, len(merged))
	for _, m := range merged {
		meta, ok := metas[m.id]
		if !ok {
			continue
		}
		if g != nil && !g.Match(meta.FilePath) {
			continue
		}
		results = append(results, Result{
			ChunkID:   meta.ChunkID,
			FilePath:  meta.FilePath,
			StartLine: meta.StartLine,
			EndLine:   meta.EndLine,
			Scope:     meta.Scope,
			Language:  meta.Language,
			Snippet:   truncateSnippet(meta.Content),
			Score:     round6(scoreMap[m.id]),
		})
		if g != nil && opts.TopK > 0 && len(results) >= opts.TopK {
			break
		}
	}

	return results, nil
}

// bm25Query escapes FTS5 special characters minimally by quoting the whole
// phrase when it contains anything other than simple words, so a query
// like "foo(bar)" doesn't break the MATCH syntax.
func bm25Query(q string) string {
	special := strings.IndexFunc(q, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_' && !unicode.IsSpace(r)
	})
	if special >= 0 {
		return `"` + strings.ReplaceAll(q, `"`, `""`) + `"`
	}
	return q
}

type rankedID struct {
	id    string
	score float64
}

// rrfMerge fuses ranked ID lists with Reciprocal Rank Fusion:
// score(id) = sum over lists containing id of 1 / (k + rank + 1), where
// rank is the 0-indexed position in that list. Ties broken by chunk_id
// lexicographic order for determinism.
func rrfMerge(lists ...[]string) []rankedID {
	scores := map[string]float64{}
	order := []string{}
	seen := map[string]bool{}

	for _, list := range lists {
		for rank, id := range list {
			if !seen[id] {
				seen[id] = true
				order = append(order, id)
			}
			scores[id] += 1.0 / float64(rrfK+rank+1)
		}
	}

	merged := make([]rankedID, len(order))
	for i, id := range order {
		merged[i] = rankedID{id: id, score: scores[id]}
	}

	sort.Slice(merged, func(i, j int) bool {
		if merged[i].score != merged[j].score {
			return merged[i].score > merged[j].score
		}
		return merged[i].id < merged[j].id
	})

	return merged
}

func toRankedIDs(scored []store.ScoredID) []string {
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	ids := make([]string, len(scored))
	for i, s := range scored {
		ids[i] = s.ChunkID
	}
	return ids
}

const snippetMaxChars = 1500

func truncateSnippet(content string) string {
	if len(content) <= snippetMaxChars {
		return content
	}
	return content[:snippetMaxChars] + "\n... (truncated)"
}

func round6(f float64) float64 {
	return math.Round(f*1e6) / 1e6
}
