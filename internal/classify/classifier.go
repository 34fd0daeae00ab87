// Package classify assigns a food group and descriptive tags to free-form
// dish names by keyword matching, with an optional lookup-store fallback.
package classify

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/genau-project/speisecheck/internal/keywords"
	"github.com/genau-project/speisecheck/internal/model"
	"github.com/genau-project/speisecheck/internal/textnorm"
)

// maxLookupTokens caps how many query tokens the fallback store search uses
// so the OR-of-LIKE query stays bounded.
const maxLookupTokens = 6

// maxLookupCandidates caps how many candidate rows the fallback ranks.
const maxLookupCandidates = 10

// FoodLookup is the versioned contract to the secondary name-lookup store.
// Implementations return rows whose name contains any of the given tokens.
type FoodLookup interface {
	SearchByTokens(ctx context.Context, tokens []string, limit int) ([]model.FoodCandidate, error)
}

// Classifier scores dish names against the keyword catalogs. Safe for
// concurrent use; the catalogs are immutable after construction.
type Classifier struct {
	groups keywords.Catalog
	tags   keywords.Catalog
	lookup FoodLookup
}

// New builds a classifier. lookup may be nil, in which case the fallback
// path is disabled and classification is keyword-only.
func New(groups, tags keywords.Catalog, lookup FoodLookup) *Classifier {
	return &Classifier{groups: groups, tags: tags, lookup: lookup}
}

// GroupMatch is the winning food group for a piece of text. Key is empty when
// no category scored any hit.
type GroupMatch struct {
	Key   string
	Score float64
	Hits  int
}

// Result is the full classification of one dish name.
type Result struct {
	FoodGroup  string
	Confidence float64
	Tags       []string
	UsedLookup bool
	BLSID      string
	BLSName    string
}

// scoreKeywords counts how many of a category's keywords match any token.
// A keyword counts at most once even if it matches several tokens.
func scoreKeywords(tokens []string, kws []string) int {
	hits := 0
	for _, kw := range kws {
		for _, tok := range tokens {
			if textnorm.TokenMatchesKeyword(tok, kw) {
				hits++
				break
			}
		}
	}
	return hits
}

// BestGroup picks the food-group category with the strictly highest hit
// count. Categories are visited in lexicographic order, so ties resolve to
// the lexicographically first category. Confidence is hits over the winning
// category's keyword count, capped at 1.0.
func (c *Classifier) BestGroup(rawText string) GroupMatch {
	tokens := textnorm.Tokenize(rawText)

	var best GroupMatch
	bestKwLen := 0
	for _, group := range c.groups.Categories() {
		kws := c.groups[group]
		if len(kws) == 0 {
			continue
		}
		hits := scoreKeywords(tokens, kws)
		if hits > best.Hits {
			best.Hits = hits
			best.Key = group
			bestKwLen = len(kws)
		}
	}

	if best.Key != "" && bestKwLen > 0 {
		best.Score = float64(best.Hits) / float64(bestKwLen)
		if best.Score > 1.0 {
			best.Score = 1.0
		}
	}
	return best
}

// CollectTags returns every tag category with at least one keyword hit,
// sorted. Tags are not mutually exclusive.
func (c *Classifier) CollectTags(rawText string) []string {
	tokens := textnorm.Tokenize(rawText)

	var tags []string
	for _, tag := range c.tags.Categories() {
		kws := c.tags[tag]
		if len(kws) == 0 {
			continue
		}
		if scoreKeywords(tokens, kws) > 0 {
			tags = append(tags, tag)
		}
	}
	return tags
}

// Classify runs the full classification for one dish name: keyword match
// first, then the lookup-store fallback when no food group was found. A
// missing or failing lookup store degrades to keyword-only, never to an
// error.
func (c *Classifier) Classify(ctx context.Context, rawText string) Result {
	group := c.BestGroup(rawText)
	tags := c.CollectTags(rawText)

	res := Result{
		FoodGroup:  group.Key,
		Confidence: group.Score,
		Tags:       tags,
	}

	if group.Key == "" && c.lookup != nil {
		if cand, ok := c.bestCandidate(ctx, rawText); ok {
			fallbackGroup := c.BestGroup(cand.Name)
			res.FoodGroup = fallbackGroup.Key
			res.Confidence = fallbackGroup.Score
			res.Tags = mergeTags(tags, c.CollectTags(cand.Name))
			res.UsedLookup = true
			res.BLSID = cand.ID
			res.BLSName = cand.Name
		}
	}

	if res.Tags == nil {
		res.Tags = []string{}
	}
	return res
}

// bestCandidate queries the lookup store with the first few tokens and ranks
// the candidates by how many query tokens match tokens of the candidate name
// in either direction. A blunt nearest-name heuristic, not fuzzy matching.
func (c *Classifier) bestCandidate(ctx context.Context, rawText string) (model.FoodCandidate, bool) {
	tokens := textnorm.Tokenize(rawText)
	if len(tokens) == 0 {
		return model.FoodCandidate{}, false
	}
	query := tokens
	if len(query) > maxLookupTokens {
		query = query[:maxLookupTokens]
	}

	candidates, err := c.lookup.SearchByTokens(ctx, query, maxLookupCandidates)
	if err != nil {
		zap.L().Warn("classify: lookup fallback unavailable, continuing keyword-only",
			zap.String("raw_text", rawText),
			zap.Error(err),
		)
		return model.FoodCandidate{}, false
	}

	var best model.FoodCandidate
	bestHits := -1
	for _, cand := range candidates {
		nameTokens := textnorm.Tokenize(cand.Name)

		hits := 0
		for _, tok := range tokens {
			for _, nt := range nameTokens {
				if textnorm.TokenMatchesKeyword(nt, tok) || textnorm.TokenMatchesKeyword(tok, nt) {
					hits++
					break
				}
			}
		}
		if hits > bestHits {
			bestHits = hits
			best = cand
		}
	}

	return best, best.Name != ""
}

func mergeTags(a, b []string) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	var out []string
	for _, t := range append(append([]string{}, a...), b...) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	sort.Strings(out)
	return out
}
