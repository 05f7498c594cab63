package book

import "sort"

// ladder is one side of the book: a flat sorted slice of price
// levels. Bids are kept ascending and asks descending, so the best
// level is always the final element and dropping an emptied best
// level is a cheap truncation.
type ladder struct {
	levels []*PriceLevel
	desc   bool // asks: keys sorted high to low
}

func newLadder(desc bool) *ladder {
	return &ladder{desc: desc}
}

func (l *ladder) empty() bool {
	return len(l.levels) == 0
}

func (l *ladder) size() int {
	return len(l.levels)
}

func (l *ladder) best() *PriceLevel {
	if len(l.levels) == 0 {
		return nil
	}
	return l.levels[len(l.levels)-1]
}

// search returns the slot where price belongs in sort order.
func (l *ladder) search(price int64) int {
	return sort.Search(len(l.levels), func(i int) bool {
		if l.desc {
			return l.levels[i].Price <= price
		}
		return l.levels[i].Price >= price
	})
}

func (l *ladder) find(price int64) *PriceLevel {
	i := l.search(price)
	if i < len(l.levels) && l.levels[i].Price == price {
		return l.levels[i]
	}
	return nil
}

func (l *ladder) getOrCreate(price int64) *PriceLevel {
	i := l.search(price)
	if i < len(l.levels) && l.levels[i].Price == price {
		return l.levels[i]
	}
	lvl := &PriceLevel{Price: price}
	l.levels = append(l.levels, nil)
	copy(l.levels[i+1:], l.levels[i:])
	l.levels[i] = lvl
	return lvl
}

func (l *ladder) remove(price int64) {
	i := l.search(price)
	if i >= len(l.levels) || l.levels[i].Price != price {
		return
	}
	copy(l.levels[i:], l.levels[i+1:])
	l.levels[len(l.levels)-1] = nil
	l.levels = l.levels[:len(l.levels)-1]
}

// popBest drops the best (last) level.
func (l *ladder) popBest() {
	n := len(l.levels)
	if n == 0 {
		return
	}
	l.levels[n-1] = nil
	l.levels = l.levels[:n-1]
}

// walkBestFirst visits levels best first; fn returns false to stop.
func (l *ladder) walkBestFirst(fn func(*PriceLevel) bool) {
	for i := len(l.levels) - 1; i >= 0; i-- {
		if !fn(l.levels[i]) {
			return
		}
	}
}
