// Package resolve normalizes free-text entity mentions to canonical
// identities despite spelling and naming variation.
package resolve

import (
	"errors"
	"log/slog"
	"sort"
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/SingularityNET-Archive/Archive-RAG-sub000/entity"
)

// ErrEmptyName is returned synchronously for empty input; no storage or
// network access is attempted.
var ErrEmptyName = errors.New("resolve: empty name")

// affinityPerSharedRecord is the fixed increment an entity gains for each
// record of the hinted grouping that mentions it.
const affinityPerSharedRecord = 0.1

// Resolution is the outcome of resolving a name. A zero ID means the name
// stayed unresolved; Name then carries the pattern-normalized input and the
// caller decides whether to create a new entity.
type Resolution struct {
	ID    entity.ID
	Name  string
	Score float64
}

// Resolved reports whether the name matched a canonical entity.
func (r Resolution) Resolved() bool { return r.ID != "" }

// RecordMentions lists the entity names mentioned in one record of a
// grouping. Used as the co-occurrence signal for context disambiguation.
type RecordMentions struct {
	RecordID string
	Entities []string
}

// Hint carries optional disambiguation context: the grouping the mention
// should belong to, plus that grouping's record mentions.
type Hint struct {
	Workgroup string
	Records   []RecordMentions
}

// Resolver resolves names against candidate pools, caching results for its
// own lifetime. Safe for concurrent use; the caches are read-mostly.
type Resolver struct {
	threshold float64
	cache     *gocache.Cache
	logger    *slog.Logger
}

// New creates a resolver. threshold is the minimum similarity for a match;
// zero means the 0.8 default. logger may be nil.
func New(threshold float64, logger *slog.Logger) *Resolver {
	if threshold == 0 {
		threshold = 0.8
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		threshold: threshold,
		cache:     gocache.New(gocache.NoExpiration, 0),
		logger:    logger,
	}
}

// Clear invalidates all cached resolutions. Call after the entity store
// changes; nothing else expires the cache.
func (r *Resolver) Clear() {
	r.cache.Flush()
}

// Resolve maps name to a canonical entity from pool. Candidates scoring at
// or above the threshold survive, sorted by score descending with ties
// broken by pool order. A Hint re-ranks survivors by grouping affinity; the
// re-rank is soft — with no affinity anywhere, similarity order holds.
func (r *Resolver) Resolve(name string, pool []entity.CanonicalEntity, hint *Hint) (Resolution, error) {
	if strings.TrimSpace(name) == "" {
		return Resolution{}, ErrEmptyName
	}

	cacheKey := strings.ToLower(name)
	if hint == nil { // hinted lookups depend on context, so only bare lookups are cached
		if v, ok := r.cache.Get(cacheKey); ok {
			return v.(Resolution), nil
		}
	}

	normalized := Normalize(name)

	type scored struct {
		ent   entity.CanonicalEntity
		score float64
		pos   int
	}
	var survivors []scored
	for i, cand := range pool {
		score := Similarity(normalized, cand.Name)
		for _, alias := range cand.Aliases {
			if s := Similarity(normalized, alias); s > score {
				score = s
			}
		}
		if score >= r.threshold {
			survivors = append(survivors, scored{ent: cand, score: score, pos: i})
		}
	}

	sort.SliceStable(survivors, func(i, j int) bool {
		if survivors[i].score != survivors[j].score {
			return survivors[i].score > survivors[j].score
		}
		return survivors[i].pos < survivors[j].pos
	})

	if hint != nil && len(survivors) > 1 {
		affinities := make([]float64, len(survivors))
		anyAffinity := false
		for i, s := range survivors {
			a := affinity(s.ent, hint)
			affinities[i] = a
			if a > 0 {
				anyAffinity = true
			}
		}
		if anyAffinity {
			order := make([]int, len(survivors))
			for i := range order {
				order[i] = i
			}
			sort.SliceStable(order, func(i, j int) bool {
				return affinities[order[i]] > affinities[order[j]]
			})
			reranked := make([]scored, len(survivors))
			for i, idx := range order {
				reranked[i] = survivors[idx]
			}
			survivors = reranked
		}
	}

	var res Resolution
	if len(survivors) > 0 {
		best := survivors[0]
		res = Resolution{ID: best.ent.ID, Name: best.ent.Name, Score: best.score}
	} else {
		res = Resolution{Name: normalized}
		r.logger.Debug("name did not resolve", "input", name, "normalized", normalized)
	}

	if hint == nil {
		r.cache.Set(cacheKey, res, gocache.NoExpiration)
	}
	return res, nil
}

// affinity counts how many of the grouping's records mention the entity by
// canonical name or alias, scaled by the fixed per-record increment.
func affinity(e entity.CanonicalEntity, hint *Hint) float64 {
	names := make([]string, 0, 1+len(e.Aliases))
	names = append(names, strings.ToLower(e.Name))
	for _, a := range e.Aliases {
		names = append(names, strings.ToLower(a))
	}

	shared := 0
	for _, rec := range hint.Records {
		for _, mention := range rec.Entities {
			m := strings.ToLower(mention)
			matched := false
			for _, n := range names {
				if m == n {
					matched = true
					break
				}
			}
			if matched {
				shared++
				break
			}
		}
	}
	return float64(shared) * affinityPerSharedRecord
}
