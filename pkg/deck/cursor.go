// Package deck is the quote deck interaction engine: cursor navigation,
// favorites, the daily like goal and day rollover.
package deck

import (
	"errors"
	"sort"

	"github.com/smith3v/dove-bot/pkg/quotes"
)

type FilterMode int

const (
	FilterAll FilterMode = iota
	FilterFavorites
)

func (m FilterMode) String() string {
	if m == FilterFavorites {
		return "favorites"
	}
	return "all"
}

var ErrEmptyFilteredSet = errors.New("no favorites to navigate")

// Advance returns the position after current. Under FilterFavorites it
// cycles the ascending favorites; a current position that is not itself a
// favorite moves to the smallest favorite above it, wrapping to the first.
func Advance(current, count int, favorites []int, mode FilterMode) (int, error) {
	if count <= 0 {
		return 0, quotes.ErrEmptyCatalog
	}
	if mode != FilterFavorites {
		return (current + 1) % count, nil
	}

	ordered := sortedPositions(favorites)
	if len(ordered) == 0 {
		return 0, ErrEmptyFilteredSet
	}
	idx := sort.SearchInts(ordered, current)
	if idx < len(ordered) && ordered[idx] == current {
		return ordered[(idx+1)%len(ordered)], nil
	}
	if idx == len(ordered) {
		return ordered[0], nil
	}
	return ordered[idx], nil
}

// anchor returns current when it is a favorite, otherwise the position
// Advance would move to.
func anchor(current int, favorites []int) (int, error) {
	ordered := sortedPositions(favorites)
	if len(ordered) == 0 {
		return 0, ErrEmptyFilteredSet
	}
	idx := sort.SearchInts(ordered, current)
	if idx == len(ordered) {
		return ordered[0], nil
	}
	return ordered[idx], nil
}

func sortedPositions(positions []int) []int {
	ordered := make([]int, 0, len(positions))
	seen := make(map[int]struct{}, len(positions))
	for _, p := range positions {
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		ordered = append(ordered, p)
	}
	sort.Ints(ordered)
	return ordered
}
