package costing

import (
	"cmp"
	"slices"
)

// SortByCount: сортировка групп по количеству записей, а не по сумме поля.
const SortByCount = "count"

// Field: числовое поле записи, которое суммируется по группе.
type Field[R any] struct {
	Name  string
	Value func(R) float64
}

type AggregateOptions struct {
	// SortBy: имя поля (сортировка по сумме) или SortByCount. Пусто — порядок появления ключей.
	SortBy string
	// TopN: сколько групп оставить; 0 — все.
	TopN int
}

type Group[K comparable] struct {
	Key   K                  `json:"key"`
	Count int                `json:"count"`
	Sum   map[string]float64 `json:"sum"`
	Avg   map[string]float64 `json:"avg"`
}

// Aggregate группирует записи по ключу и считает count/sum/avg по полям.
// Сортировка по убыванию стабильная: при равенстве раньше идёт ключ,
// встреченный первым.
func Aggregate[R any, K comparable](records []R, key func(R) K, fields []Field[R], opts AggregateOptions) []Group[K] {
	groups := make([]Group[K], 0)
	if len(records) == 0 {
		return groups
	}

	index := make(map[K]int)

	for _, r := range records {
		k := key(r)

		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[K]{
				Key: k,
				Sum: make(map[string]float64, len(fields)),
				Avg: make(map[string]float64, len(fields)),
			})
		}

		g := &groups[i]
		g.Count++
		for _, f := range fields {
			g.Sum[f.Name] += f.Value(r)
		}
	}

	// группа появляется только вместе с первой записью, Count >= 1
	for i := range groups {
		for _, f := range fields {
			groups[i].Avg[f.Name] = groups[i].Sum[f.Name] / float64(groups[i].Count)
		}
	}

	if opts.SortBy != "" {
		slices.SortStableFunc(groups, func(a, b Group[K]) int {
			if opts.SortBy == SortByCount {
				return cmp.Compare(b.Count, a.Count)
			}
			return cmp.Compare(b.Sum[opts.SortBy], a.Sum[opts.SortBy])
		})
	}

	if opts.TopN > 0 && len(groups) > opts.TopN {
		groups = groups[:opts.TopN]
	}

	return groups
}
