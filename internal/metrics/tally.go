package metrics

import "sort"

// Tally counts settled values across many throws.
type Tally struct {
	counts map[int]int
	total  int
}

func NewTally() *Tally {
	return &Tally{counts: make(map[int]int)}
}

func (t *Tally) Add(values ...int) {
	for _, v := range values {
		t.counts[v]++
		t.total++
	}
}

func (t *Tally) Count(value int) int { return t.counts[value] }

func (t *Tally) Total() int { return t.total }

// Histogram returns the counts for values 1..faces.
func (t *Tally) Histogram(faces int) []float64 {
	out := make([]float64, faces)
	for v := 1; v <= faces; v++ {
		out[v-1] = float64(t.counts[v])
	}
	return out
}

// Values returns the distinct values seen, ascending.
func (t *Tally) Values() []int {
	out := make([]int, 0, len(t.counts))
	for v := range t.counts {
		out = append(out, v)
	}
	sort.Ints(out)
	return out
}

// Mean is the average of all counted values.
func (t *Tally) Mean() float64 {
	if t.total == 0 {
		return 0
	}
	sum := 0
	for v, n := range t.counts {
		sum += v * n
	}
	return float64(sum) / float64(t.total)
}
