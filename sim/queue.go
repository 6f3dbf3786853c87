package sim

import "sort"

// LevelQueue keeps items ordered by (level, insertion sequence). It replaces
// callback chains with an explicit, inspectable list: whoever runs a level
// pulls the items registered for it in registration order.
type LevelQueue[T any] struct {
	entries []levelEntry[T]
	nextSeq int64
}

type levelEntry[T any] struct {
	level int
	seq   int64
	item  T
}

// Push registers item at level.
func (q *LevelQueue[T]) Push(level int, item T) {
	e := levelEntry[T]{level: level, seq: q.nextSeq, item: item}
	q.nextSeq++
	// Insertion point keeps (level, seq) ordering; seq is monotonic so the
	// new entry goes after every entry of the same level.
	i := sort.Search(len(q.entries), func(i int) bool {
		return q.entries[i].level > level
	})
	q.entries = append(q.entries, levelEntry[T]{})
	copy(q.entries[i+1:], q.entries[i:])
	q.entries[i] = e
}

// At returns the items registered at level, in registration order.
func (q *LevelQueue[T]) At(level int) []T {
	var out []T
	for _, e := range q.entries {
		if e.level == level {
			out = append(out, e.item)
		}
	}
	return out
}

// Levels returns the distinct levels in ascending order.
func (q *LevelQueue[T]) Levels() []int {
	var levels []int
	for _, e := range q.entries {
		if len(levels) == 0 || levels[len(levels)-1] != e.level {
			levels = append(levels, e.level)
		}
	}
	return levels
}

// Len returns the number of registered items.
func (q *LevelQueue[T]) Len() int { return len(q.entries) }

// MergeLevels returns the sorted union of several level lists.
func MergeLevels(lists ...[]int) []int {
	seen := make(map[int]bool)
	var out []int
	for _, l := range lists {
		for _, v := range l {
			if !seen[v] {
				seen[v] = true
				out = append(out, v)
			}
		}
	}
	sort.Ints(out)
	return out
}
