package deck

import (
	"errors"
	"testing"
)

func TestAdvanceAllCyclesEveryPosition(t *testing.T) {
	for count := 1; count <= 7; count++ {
		for start := 0; start < count; start++ {
			seen := make(map[int]bool)
			position := start
			for i := 0; i < count; i++ {
				next, err := Advance(position, count, nil, FilterAll)
				if err != nil {
					t.Fatalf("Advance returned error: %v", err)
				}
				if seen[next] {
					t.Fatalf("count %d start %d: position %d visited twice", count, start, next)
				}
				seen[next] = true
				position = next
			}
			if position != start {
				t.Fatalf("count %d: expected to return to %d after %d steps, got %d", count, start, count, position)
			}
		}
	}
}

func TestAdvanceFavoritesCyclesAscending(t *testing.T) {
	tests := []struct {
		name      string
		favorites []int
		count     int
	}{
		{name: "single", favorites: []int{3}, count: 5},
		{name: "pair", favorites: []int{2, 0}, count: 3},
		{name: "sparse", favorites: []int{9, 1, 4, 6}, count: 10},
		{name: "duplicates", favorites: []int{4, 1, 4}, count: 6},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ordered := sortedPositions(tt.favorites)
			for start := 0; start < tt.count; start++ {
				position, err := Advance(start, tt.count, tt.favorites, FilterFavorites)
				if err != nil {
					t.Fatalf("Advance returned error: %v", err)
				}
				idx := indexOf(ordered, position)
				if idx < 0 {
					t.Fatalf("start %d: landed on non-favorite %d", start, position)
				}
				for i := 1; i <= len(ordered)*2; i++ {
					next, _ := Advance(position, tt.count, tt.favorites, FilterFavorites)
					want := ordered[(idx+i)%len(ordered)]
					if next != want {
						t.Fatalf("start %d step %d: got %d, want %d", start, i, next, want)
					}
					position = next
				}
			}
		})
	}
}

func TestAdvanceFavoritesScenario(t *testing.T) {
	favorites := []int{0, 2}
	position, err := Advance(0, 3, favorites, FilterFavorites)
	if err != nil || position != 2 {
		t.Fatalf("first advance = %d, %v; want 2", position, err)
	}
	position, err = Advance(position, 3, favorites, FilterFavorites)
	if err != nil || position != 0 {
		t.Fatalf("second advance = %d, %v; want 0", position, err)
	}
}

func TestAdvanceFromRemovedFavorite(t *testing.T) {
	favorites := []int{1, 4, 7}
	tests := []struct {
		current int
		want    int
	}{
		{current: 0, want: 1},
		{current: 2, want: 4},
		{current: 5, want: 7},
		{current: 8, want: 1},
	}
	for _, tt := range tests {
		got, err := Advance(tt.current, 10, favorites, FilterFavorites)
		if err != nil {
			t.Fatalf("Advance returned error: %v", err)
		}
		if got != tt.want {
			t.Fatalf("Advance(%d) = %d, want %d", tt.current, got, tt.want)
		}
	}
}

func TestAdvanceEmptyFavorites(t *testing.T) {
	if _, err := Advance(0, 3, nil, FilterFavorites); !errors.Is(err, ErrEmptyFilteredSet) {
		t.Fatalf("expected ErrEmptyFilteredSet, got %v", err)
	}
}

func TestAnchor(t *testing.T) {
	favorites := []int{2, 5}
	for _, tt := range []struct{ current, want int }{{2, 2}, {3, 5}, {6, 2}, {0, 2}} {
		got, err := anchor(tt.current, favorites)
		if err != nil || got != tt.want {
			t.Fatalf("anchor(%d) = %d, %v; want %d", tt.current, got, err, tt.want)
		}
	}
}

func indexOf(values []int, target int) int {
	for i, v := range values {
		if v == target {
			return i
		}
	}
	return -1
}
