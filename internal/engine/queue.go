package engine

type (
	// frontier is the FIFO of entries waiting to be visited. It is owned by a
	// single walker and is not safe for concurrent use.
	frontier struct {
		buf  []item
		head int
	}

	item struct {
		depth int
		path  string // display path: start path joined with child names
		rel   string // slash-separated path relative to the start path
	}
)

func newFrontier(n int) *frontier {
	return &frontier{buf: make([]item, 0, n)}
}

func (q *frontier) Len() int {
	return len(q.buf) - q.head
}

func (q *frontier) Push(it item) {
	q.buf = append(q.buf, it)
}

// Pop removes the oldest item. ok is false when the frontier is empty.
func (q *frontier) Pop() (it item, ok bool) {
	if q.head >= len(q.buf) {
		return item{}, false
	}
	it = q.buf[q.head]
	q.buf[q.head] = item{}
	q.head++
	// reclaim the consumed prefix once it dominates the buffer
	if q.head > 64 && q.head*2 >= len(q.buf) {
		n := copy(q.buf, q.buf[q.head:])
		clear(q.buf[n:])
		q.buf = q.buf[:n]
		q.head = 0
	}
	return it, true
}
