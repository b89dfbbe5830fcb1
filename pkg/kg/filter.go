package kg

import (
	"healthmate-be/internal/entity"
)

// Filter step kinds reported back to the caller.
const (
	FilterStepKeywords = "keywords"
	FilterStepInclude  = "include"
	FilterStepExclude  = "exclude"
)

// FilterStep records the pool size after one include/exclude constraint was
// applied. Interactive narrowing needs visibility into which constraint
// emptied the pool, not just a final empty result.
type FilterStep struct {
	Kind       string `json:"kind"`
	Ingredient string `json:"ingredient,omitempty"`
	Remaining  int    `json:"remaining"`
}

// FilterResult is the outcome of a sequential include/exclude narrowing.
// Exhausted marks the valid terminal state where a step emptied the pool;
// ExhaustedAt names that step.
type FilterResult struct {
	Subjects    []string     `json:"subjects"`
	Steps       []FilterStep `json:"steps"`
	Exhausted   bool         `json:"exhausted"`
	ExhaustedAt *FilterStep  `json:"exhausted_at,omitempty"`
}

// FilterEngine narrows keyword-matched candidate pools by ingredient
// constraints against the triple store.
type FilterEngine struct {
	store              *Store
	effectRelation     string
	ingredientRelation string
}

// NewFilterEngine builds a filter engine over store using the corpus's
// effect and ingredient relation names.
func NewFilterEngine(store *Store, effectRelation, ingredientRelation string) *FilterEngine {
	return &FilterEngine{
		store:              store,
		effectRelation:     effectRelation,
		ingredientRelation: ingredientRelation,
	}
}

// ApplyIncludeExclude re-queries the effect relation for every keyword to
// form the base candidate set, then folds the include constraints
// (intersection) and exclude constraints (subtraction) left to right,
// short-circuiting as soon as the pool empties. Survivors are ranked by
// match frequency within the base triple set and truncated to topN.
//
// The ingredient triples are fetched once and reused across all checks to
// avoid one corpus scan per ingredient.
func (e *FilterEngine) ApplyIncludeExclude(keywords, include, exclude []string, topN int) (*FilterResult, error) {
	base, err := e.searchByKeywords(keywords)
	if err != nil {
		return nil, err
	}

	res := &FilterResult{}
	if len(base) == 0 {
		res.Exhausted = true
		res.ExhaustedAt = &FilterStep{Kind: FilterStepKeywords, Remaining: 0}
		return res, nil
	}

	candidates := make(map[string]bool)
	for _, t := range base {
		candidates[t.Subject] = true
	}

	var ingredientTriples []entity.Triple
	if len(include) > 0 || len(exclude) > 0 {
		ingredientTriples, err = e.store.Search(e.ingredientRelation, "", true)
		if err != nil {
			return nil, err
		}
	}

	for _, ing := range include {
		has := subjectsWithIngredient(ingredientTriples, ing)
		for subj := range candidates {
			if !has[subj] {
				delete(candidates, subj)
			}
		}
		step := FilterStep{Kind: FilterStepInclude, Ingredient: ing, Remaining: len(candidates)}
		res.Steps = append(res.Steps, step)
		if len(candidates) == 0 {
			res.Exhausted = true
			res.ExhaustedAt = &step
			return res, nil
		}
	}

	for _, ing := range exclude {
		has := subjectsWithIngredient(ingredientTriples, ing)
		for subj := range candidates {
			if has[subj] {
				delete(candidates, subj)
			}
		}
		step := FilterStep{Kind: FilterStepExclude, Ingredient: ing, Remaining: len(candidates)}
		res.Steps = append(res.Steps, step)
		if len(candidates) == 0 {
			res.Exhausted = true
			res.ExhaustedAt = &step
			return res, nil
		}
	}

	surviving := make([]entity.Triple, 0, len(base))
	for _, t := range base {
		if candidates[t.Subject] {
			surviving = append(surviving, t)
		}
	}
	res.Subjects = RankSubjects(surviving, topN)
	return res, nil
}

// SearchByKeywords unions the effect-relation matches for every keyword with
// exact duplicates removed. Shared with the new-round flow.
func (e *FilterEngine) SearchByKeywords(keywords []string) ([]entity.Triple, error) {
	return e.searchByKeywords(keywords)
}

func (e *FilterEngine) searchByKeywords(keywords []string) ([]entity.Triple, error) {
	var merged []entity.Triple
	seen := make(map[string]bool)
	for _, kw := range keywords {
		matched, err := e.store.Search(e.effectRelation, kw, true)
		if err != nil {
			return nil, err
		}
		for _, t := range matched {
			if k := t.Key(); !seen[k] {
				seen[k] = true
				merged = append(merged, t)
			}
		}
	}
	return merged, nil
}

func subjectsWithIngredient(triples []entity.Triple, ingredient string) map[string]bool {
	subjects := make(map[string]bool)
	for _, t := range triples {
		if t.Object == ingredient {
			subjects[t.Subject] = true
		}
	}
	return subjects
}
