package crawl

import (
	"container/heap"
	"sync"

	"github.com/fwojciec/instantmarqo"
	"github.com/fwojciec/instantmarqo/bloom"
)

var _ instantmarqo.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory breadth-first URL queue with Bloom filter
// deduplication. Links are popped shallowest first and, within a depth, in
// the order they were pushed. It is safe for concurrent use.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.URLSet
	queue *linkHeap
	seq   uint64
}

// NewFrontier creates a Frontier sized for n expected URLs with the given
// false positive rate for deduplication.
func NewFrontier(n uint, fpRate float64) *Frontier {
	h := &linkHeap{}
	heap.Init(h)
	return &Frontier{
		seen:  bloom.NewURLSet(n, fpRate),
		queue: h,
	}
}

// Push queues a link. It returns false if the URL was already seen.
// URLs differing only by fragment are duplicates; the fragment is dropped.
func (f *Frontier) Push(link instantmarqo.Link) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Add(link.URL) {
		return false
	}
	link.URL = bloom.Normalize(link.URL)
	heap.Push(f.queue, queuedLink{Link: link, seq: f.seq})
	f.seq++
	return true
}

// Pop returns the next link. The bool result is false if the frontier is
// empty.
func (f *Frontier) Pop() (instantmarqo.Link, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.queue.Len() == 0 {
		return instantmarqo.Link{}, false
	}
	q, _ := heap.Pop(f.queue).(queuedLink)
	return q.Link, true
}

// Len returns the number of queued URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.queue.Len()
}

// Seen returns true if the URL has been queued before.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(rawURL)
}

type queuedLink struct {
	instantmarqo.Link
	seq uint64
}

// linkHeap is a min-heap on (depth, push order).
type linkHeap []queuedLink

func (h linkHeap) Len() int { return len(h) }

func (h linkHeap) Less(i, j int) bool {
	if h[i].Depth != h[j].Depth {
		return h[i].Depth < h[j].Depth
	}
	return h[i].seq < h[j].seq
}

func (h linkHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *linkHeap) Push(x any) {
	link, _ := x.(queuedLink)
	*h = append(*h, link)
}

func (h *linkHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
