package connection

import (
	"math/bits"
	"sync"
)

// ByteSlicePool recycles byte slices by power-of-two capacity class.
type ByteSlicePool struct {
	classes [maxClass + 1]sync.Pool
}

const (
	minClass = 9  // 512 B, smaller slices are not worth pooling
	maxClass = 30 // 1 GiB
)

var (
	defaultPool = &ByteSlicePool{}
	GetBuf      = defaultPool.GetBuf
	PutBuf      = defaultPool.PutBuf
)

func class(size int) int {
	if size <= 1 {
		return 0
	}
	return bits.Len(uint(size - 1))
}

// GetBuf returns a slice of length size, reusing a pooled slice when possible.
func (p *ByteSlicePool) GetBuf(size int) []byte {
	c := class(size)
	if c < minClass || c > maxClass {
		return make([]byte, size)
	}
	if v := p.classes[c].Get(); v != nil {
		return (*v.(*[]byte))[:size]
	}
	return make([]byte, size, 1<<c)
}

// PutBuf returns buf to the pool if its capacity is exactly a pooled class.
func (p *ByteSlicePool) PutBuf(buf []byte) {
	n := cap(buf)
	c := class(n)
	if c < minClass || c > maxClass || 1<<c != n {
		return
	}
	buf = buf[:0]
	p.classes[c].Put(&buf)
}
