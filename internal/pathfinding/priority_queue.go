package pathfinding

import "container/heap"

// searchNode is a single open/closed-set entry for any of the three A*
// variants. Parent is an index into the search's own dense node slice, not
// a pointer, so the whole search arena can be released at once.
type searchNode struct {
	cellIndex int
	g         int32
	f         int32
	parent    int
	heapIndex int
}

// openQueue is a binary min-heap over searchNode keyed on f, tie-broken
// arbitrarily (container/heap gives no insertion-order guarantee), matching
// spec §4.4's data structure note.
type openQueue []*searchNode

func (q openQueue) Len() int            { return len(q) }
func (q openQueue) Less(i, j int) bool  { return q[i].f < q[j].f }
func (q openQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].heapIndex = i
	q[j].heapIndex = j
}

func (q *openQueue) Push(x any) {
	n := len(*q)
	node := x.(*searchNode)
	node.heapIndex = n
	*q = append(*q, node)
}

func (q *openQueue) Pop() any {
	old := *q
	n := len(old)
	node := old[n-1]
	old[n-1] = nil
	node.heapIndex = -1
	*q = old[:n-1]
	return node
}

func newOpenQueue() *openQueue {
	q := &openQueue{}
	heap.Init(q)
	return q
}

func (q *openQueue) push(n *searchNode) {
	heap.Push(q, n)
}

func (q *openQueue) pop() *searchNode {
	return heap.Pop(q).(*searchNode)
}
