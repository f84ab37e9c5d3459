package nbt

import "sync"

const (
	defaultNameBuffer = 256
	defaultDataBuffer = 16 << 10
	defaultStackDepth = 64

	// Buffers that grew beyond this are dropped instead of pooled so one
	// oversized document does not pin memory for every later parser.
	maxPooledBuffer = 1 << 20
	maxPooledStack  = 4096
)

type bufferPool struct {
	pool sync.Pool
}

func newBufferPool(size int) *bufferPool {
	p := &bufferPool{}
	p.pool.New = func() any {
		b := make([]byte, 0, size)
		return &b
	}
	return p
}

func (p *bufferPool) get() *[]byte {
	return p.pool.Get().(*[]byte)
}

func (p *bufferPool) put(b *[]byte) {
	if b == nil || cap(*b) > maxPooledBuffer {
		return
	}
	*b = (*b)[:0]
	p.pool.Put(b)
}

var (
	namePool = newBufferPool(defaultNameBuffer)
	dataPool = newBufferPool(defaultDataBuffer)

	stackPool = sync.Pool{
		New: func() any {
			s := make([]state, 0, defaultStackDepth)
			return &s
		},
	}
)

func getStack() *[]state {
	return stackPool.Get().(*[]state)
}

func putStack(s *[]state) {
	if s == nil || cap(*s) > maxPooledStack {
		return
	}
	clear(*s)
	*s = (*s)[:0]
	stackPool.Put(s)
}
