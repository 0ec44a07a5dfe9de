package index

import (
	"container/heap"

	"github.com/sourcegraph/lsif-flow/internal/log"
	"github.com/sourcegraph/lsif-flow/internal/metrics"
	"github.com/sourcegraph/lsif-flow/internal/protocol"
)

// reorderBuffer turns items arriving in any order into a stream of strictly
// ascending ids. An edge is always minted after the vertices it refers to, so
// ascending id order never shows an edge before its vertices.
//
// It is not safe for concurrent use.
type reorderBuffer struct {
	emit    func(protocol.Item) error
	metrics *metrics.Recorder

	started bool
	lastID  uint64
	queue   itemQueue
	gaps    uint
}

func newReorderBuffer(emit func(protocol.Item) error, recorder *metrics.Recorder) *reorderBuffer {
	return &reorderBuffer{emit: emit, metrics: recorder}
}

// push accepts the next item from upstream. The only error is the one
// returned by the downstream emit function.
func (b *reorderBuffer) push(item protocol.Item) error {
	if b.started && item.GetID() != b.lastID+1 {
		heap.Push(&b.queue, item)
		b.metrics.ReorderQueueDepth(b.queue.Len())
		return nil
	}

	if err := b.write(item); err != nil {
		return err
	}

	for b.queue.Len() > 0 && b.queue[0].GetID() == b.lastID+1 {
		if err := b.write(heap.Pop(&b.queue).(protocol.Item)); err != nil {
			return err
		}
	}

	return nil
}

// close drains every held item in ascending order once upstream completed.
// Missing ids are logged and counted but do not stop the drain.
func (b *reorderBuffer) close() error {
	for b.queue.Len() > 0 {
		item := heap.Pop(&b.queue).(protocol.Item)
		if id := item.GetID(); id != b.lastID+1 {
			b.gaps++
			b.metrics.ReorderGap()
			log.Error("item is out of order at completion", "id", id, "expected", b.lastID+1)
		}

		if err := b.write(item); err != nil {
			return err
		}
	}

	return nil
}

func (b *reorderBuffer) write(item protocol.Item) error {
	b.started = true
	b.lastID = item.GetID()
	return b.emit(item)
}

// itemQueue is a min-heap of items keyed by id.
type itemQueue []protocol.Item

func (q itemQueue) Len() int           { return len(q) }
func (q itemQueue) Less(i, j int) bool { return q[i].GetID() < q[j].GetID() }
func (q itemQueue) Swap(i, j int)      { q[i], q[j] = q[j], q[i] }

func (q *itemQueue) Push(x interface{}) {
	*q = append(*q, x.(protocol.Item))
}

func (q *itemQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	*q = old[:n-1]
	return item
}
