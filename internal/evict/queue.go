package evict

import "github.com/rajatkb/viscache/internal/codec"

// queueNode and Queue are adapted from the teacher's generic
// utils/cache/{cache.go,lru.go} Cache[K,V]/LRUCache: the same
// map-plus-doubly-linked-list technique, specialized to the cache's
// own domain (qualified-key strings, int64 bit sizes) and corrected so
// the head is unambiguously the oldest entry — spec.md §3 requires
// "Front is the next candidate for eviction", whereas the teacher's
// ring-based Compact evicted starting from whatever Put last made the
// head, i.e. the newest. The cache's equeue needs strict oldest-first
// draining, so this rewrite uses an explicit head/tail pair instead of
// a ring.
type queueNode struct {
	key        string
	bits       int64
	prev, next *queueNode
}

// Queue is the in-memory working form of equeue: front (head) is the
// next eviction candidate, back (tail) is the most recently pushed.
type Queue struct {
	nodes      map[string]*queueNode
	head, tail *queueNode
	length     int
}

// NewQueue returns an empty Queue.
func NewQueue() *Queue {
	return &Queue{nodes: make(map[string]*queueNode)}
}

// FromPersisted rebuilds a Queue from a persisted equeue, preserving
// order (front of the slice becomes front of the Queue).
func FromPersisted(entries []codec.EqueueEntry) *Queue {
	q := NewQueue()
	for _, e := range entries {
		q.PushBack(e.Key, e.Bits)
	}
	return q
}

// PushBack appends key at the tail (most recent), replacing any
// existing node for key so a key never appears twice.
func (q *Queue) PushBack(key string, bits int64) {
	if n, ok := q.nodes[key]; ok {
		q.unlink(n)
	}
	n := &queueNode{key: key, bits: bits}
	q.nodes[key] = n
	if q.tail == nil {
		q.head, q.tail = n, n
	} else {
		n.prev = q.tail
		q.tail.next = n
		q.tail = n
	}
	q.length++
}

// PopFront removes and returns the oldest node, or ok=false if empty.
func (q *Queue) PopFront() (key string, bits int64, ok bool) {
	if q.head == nil {
		return "", 0, false
	}
	n := q.head
	q.unlink(n)
	return n.key, n.bits, true
}

func (q *Queue) unlink(n *queueNode) {
	if n.prev != nil {
		n.prev.next = n.next
	} else {
		q.head = n.next
	}
	if n.next != nil {
		n.next.prev = n.prev
	} else {
		q.tail = n.prev
	}
	n.prev, n.next = nil, nil
	delete(q.nodes, n.key)
	q.length--
}

// Has reports whether key is currently tracked.
func (q *Queue) Has(key string) bool {
	_, ok := q.nodes[key]
	return ok
}

// Len returns the number of tracked keys.
func (q *Queue) Len() int { return q.length }

// ToPersisted flattens the Queue front-to-back into at most limit
// entries (spec.md §3's 20-entry persisted cap).
func (q *Queue) ToPersisted(limit int) []codec.EqueueEntry {
	out := make([]codec.EqueueEntry, 0, q.length)
	for n := q.head; n != nil; n = n.next {
		out = append(out, codec.EqueueEntry{Key: n.key, Bits: n.bits})
	}
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
