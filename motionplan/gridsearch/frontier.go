package gridsearch

// node is a frontier entry. Entries go stale when a cheaper route to the same cell is found and
// are skipped when popped.
type node struct {
	idx int
	g   float64
	h   float64
	f   float64
	seq uint64
}

// frontier is a min-heap on f, then h, then insertion order.
type frontier []node

func (fr frontier) Len() int { return len(fr) }

func (fr frontier) Less(i, j int) bool {
	a, b := &fr[i], &fr[j]
	if a.f != b.f {
		return a.f < b.f
	}
	if a.h != b.h {
		return a.h < b.h
	}
	return a.seq < b.seq
}

func (fr frontier) Swap(i, j int) { fr[i], fr[j] = fr[j], fr[i] }

func (fr *frontier) Push(x interface{}) {
	*fr = append(*fr, x.(node))
}

func (fr *frontier) Pop() interface{} {
	old := *fr
	n := len(old)
	item := old[n-1]
	*fr = old[:n-1]
	return item
}
