// Package index provides a tokenized inverted index over the endpoint
// catalog, powering keyword search across paths, descriptions and parameter
// names.
package index

import (
	"sort"
	"strings"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/usestring/apimatch-mcp/pkg/types"
)

// Scoring weights per token hit.
const (
	pathTokenWeight  = 0.5
	descTokenWeight  = 0.3
	paramTokenWeight = 0.2
)

// Index is an immutable inverted index over one catalog snapshot. Build a
// new one when the catalog is replaced.
type Index struct {
	catalog *types.Catalog
	version uint64

	pathTokens  map[string]*roaring.Bitmap
	descTokens  map[string]*roaring.Bitmap
	paramTokens map[string]*roaring.Bitmap
	methods     map[string]*roaring.Bitmap
	all         *roaring.Bitmap
}

// Result is one scored endpoint from a search.
type Result struct {
	Endpoint *types.EndpointDescriptor
	Score    float64
}

// Build indexes every endpoint of the catalog. Document IDs are catalog
// ordinals, so results preserve catalog order on equal score.
func Build(cat *types.Catalog, version uint64) *Index {
	idx := &Index{
		catalog:     cat,
		version:     version,
		pathTokens:  make(map[string]*roaring.Bitmap),
		descTokens:  make(map[string]*roaring.Bitmap),
		paramTokens: make(map[string]*roaring.Bitmap),
		methods:     make(map[string]*roaring.Bitmap),
		all:         roaring.New(),
	}

	for i := range cat.Endpoints {
		ep := &cat.Endpoints[i]
		docID := uint32(i)
		idx.all.Add(docID)

		addTokens(idx.pathTokens, Tokenize(ep.Path), docID)
		addTokens(idx.descTokens, Tokenize(ep.Description), docID)

		var paramNames []string
		for _, p := range ep.Parameters {
			paramNames = append(paramNames, p.Name)
		}
		if ep.RequestBody != nil {
			for name := range ep.RequestBody.Properties {
				paramNames = append(paramNames, name)
			}
		}
		addTokens(idx.paramTokens, Tokenize(strings.Join(paramNames, " ")), docID)

		method := strings.ToUpper(ep.Method)
		if idx.methods[method] == nil {
			idx.methods[method] = roaring.New()
		}
		idx.methods[method].Add(docID)
	}

	return idx
}

func addTokens(m map[string]*roaring.Bitmap, tokens []string, docID uint32) {
	for _, t := range tokens {
		if m[t] == nil {
			m[t] = roaring.New()
		}
		m[t].Add(docID)
	}
}

// Version returns the catalog version the index was built from.
func (idx *Index) Version() uint64 { return idx.version }

// Search scores endpoints against the query tokens. An optional method
// filter restricts candidates. Every query token must match at least one
// field of a candidate (tokens are ANDed across the union of fields).
func (idx *Index) Search(query, method string, limit int) []Result {
	if limit <= 0 {
		limit = 10
	}

	candidates := idx.all.Clone()
	if method != "" {
		bm := idx.methods[strings.ToUpper(method)]
		if bm == nil {
			return nil
		}
		candidates.And(bm)
	}

	tokens := Tokenize(query)
	for _, token := range tokens {
		union := roaring.New()
		if bm := idx.pathTokens[token]; bm != nil {
			union.Or(bm)
		}
		if bm := idx.descTokens[token]; bm != nil {
			union.Or(bm)
		}
		if bm := idx.paramTokens[token]; bm != nil {
			union.Or(bm)
		}
		candidates.And(union)
	}

	results := make([]Result, 0, candidates.GetCardinality())
	iter := candidates.Iterator()
	for iter.HasNext() {
		docID := iter.Next()
		results = append(results, Result{
			Endpoint: &idx.catalog.Endpoints[docID],
			Score:    idx.score(docID, tokens, method),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// score weights per-field token hits; a method filter hit adds a small boost.
func (idx *Index) score(docID uint32, tokens []string, method string) float64 {
	if len(tokens) == 0 {
		return 0
	}

	var pathHits, descHits, paramHits int
	for _, token := range tokens {
		if bm := idx.pathTokens[token]; bm != nil && bm.Contains(docID) {
			pathHits++
		}
		if bm := idx.descTokens[token]; bm != nil && bm.Contains(docID) {
			descHits++
		}
		if bm := idx.paramTokens[token]; bm != nil && bm.Contains(docID) {
			paramHits++
		}
	}

	total := float64(len(tokens))
	score := float64(pathHits)/total*pathTokenWeight +
		float64(descHits)/total*descTokenWeight +
		float64(paramHits)/total*paramTokenWeight

	if method != "" {
		score += 0.1
	}
	return score
}
