package aggregate

import "sort"

// Entry is one (category, aggregate) pair of a summary table.
type Entry struct {
	Category string  `json:"category" yaml:"category"`
	Value    float64 `json:"value" yaml:"value"`
}

// Table is an ordered summary table.
type Table []Entry

// Total sums every value in the table.
func (t Table) Total() float64 {
	var sum float64
	for _, e := range t {
		sum += e.Value
	}
	return sum
}

// Lookup returns the value for category.
func (t Table) Lookup(category string) (float64, bool) {
	for _, e := range t {
		if e.Category == category {
			return e.Value, true
		}
	}
	return 0, false
}

// Categories returns the category labels in table order.
func (t Table) Categories() []string {
	out := make([]string, len(t))
	for i, e := range t {
		out[i] = e.Category
	}
	return out
}

// Values returns the aggregates in table order.
func (t Table) Values() []float64 {
	out := make([]float64, len(t))
	for i, e := range t {
		out[i] = e.Value
	}
	return out
}

// counter counts occurrences per category, remembering first-seen order.
type counter struct {
	order  []string
	counts map[string]float64
}

func newCounter() *counter {
	return &counter{counts: make(map[string]float64)}
}

func (c *counter) add(category string) {
	if _, ok := c.counts[category]; !ok {
		c.order = append(c.order, category)
	}
	c.counts[category]++
}

// firstSeen returns the groups in the order they first appeared.
func (c *counter) firstSeen() Table {
	t := make(Table, len(c.order))
	for i, k := range c.order {
		t[i] = Entry{Category: k, Value: c.counts[k]}
	}
	return t
}

// grouped returns the groups ordered by category name, the order a group-by
// produces before any re-sorting.
func (c *counter) grouped() Table {
	t := c.firstSeen()
	sort.SliceStable(t, func(i, j int) bool { return t[i].Category < t[j].Category })
	return t
}

// sortDescending orders by value, largest first. Equal values keep their
// relative order.
func sortDescending(t Table) Table {
	sort.SliceStable(t, func(i, j int) bool { return t[i].Value > t[j].Value })
	return t
}

func head(t Table, n int) Table {
	if len(t) > n {
		return t[:n]
	}
	return t
}
