package metricsplot

import (
	"runtime"
	"sync/atomic"
)

const (
	blockSize = 128
	// added to a block's reservation count on drain; any later reservation lands
	// past blockSize and moves on to a fresh block.
	sealOffset = 1 << 40
)

type sampleBlock struct {
	prev     *sampleBlock
	reserved atomic.Int64
	written  atomic.Int64
	values   [blockSize]float64
}

// sampleBucket is an append-only list of fixed-size blocks. Writers reserve a slot
// with an atomic add and publish it by bumping written; drain detaches the whole
// list with a swap, seals every block, and waits for in-flight writers to publish.
type sampleBucket struct {
	head atomic.Pointer[sampleBlock]
}

func (b *sampleBucket) push(v float64) {
	for {
		blk := b.head.Load()
		if blk != nil {
			if i := blk.reserved.Add(1) - 1; i < blockSize {
				blk.values[i] = v
				blk.written.Add(1)
				return
			}
		}

		next := &sampleBlock{prev: blk}
		next.values[0] = v
		next.reserved.Store(1)
		next.written.Store(1)
		if b.head.CompareAndSwap(blk, next) {
			return
		}
	}
}

func (b *sampleBucket) drain() []float64 {
	blk := b.head.Swap(nil)
	if blk == nil {
		return nil
	}

	var blocks []*sampleBlock
	total := 0
	for cur := blk; cur != nil; cur = cur.prev {
		n := cur.reserved.Add(sealOffset) - sealOffset
		if n > blockSize {
			n = blockSize
		}
		for cur.written.Load() < n {
			runtime.Gosched()
		}
		blocks = append(blocks, cur)
		total += int(n)
	}

	out := make([]float64, 0, total)
	for i := len(blocks) - 1; i >= 0; i-- {
		n := blocks[i].written.Load()
		if n > blockSize {
			n = blockSize
		}
		out = append(out, blocks[i].values[:n]...)
	}
	return out
}
