package draw

import "sync"

// Pool recycles Lists between frames so recorders that keep a history do
// not allocate one per frame.
type Pool struct {
	pool sync.Pool
}

func NewPool() *Pool {
	return &Pool{
		pool: sync.Pool{
			New: func() interface{} {
				return NewList(Size{})
			},
		},
	}
}

func (p *Pool) Get(s Size) *List {
	l := p.pool.Get().(*List)
	l.Reset(s)
	return l
}

func (p *Pool) Put(l *List) {
	if l == nil {
		return
	}
	l.Reset(Size{})
	p.pool.Put(l)
}

// GetAndCopy returns a pooled list holding the same commands as src.
func (p *Pool) GetAndCopy(src *List) *List {
	dst := p.Get(src.size)
	dst.cmds = append(dst.cmds, src.cmds...)
	return dst
}
