// Package pool предоставляет типизированную обёртку над sync.Pool,
// сбрасывающую объекты при возврате.
package pool

import "sync"

// Resetter — объект, умеющий сбрасывать своё состояние к начальному.
type Resetter interface {
	Reset()
}

// Pool — типизированный пул объектов T.
type Pool[T Resetter] struct {
	p sync.Pool
}

// New создаёт пул, использующий newFn для создания новых объектов.
func New[T Resetter](newFn func() T) *Pool[T] {
	return &Pool[T]{
		p: sync.Pool{New: func() any { return newFn() }},
	}
}

// Get возвращает объект из пула или создаёт новый.
func (p *Pool[T]) Get() T {
	return p.p.Get().(T)
}

// Put сбрасывает объект и возвращает его в пул.
func (p *Pool[T]) Put(v T) {
	v.Reset()
	p.p.Put(v)
}
