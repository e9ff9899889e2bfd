// Package strpool pools string builders used to render messages.
package strpool

import (
	"strings"
	"sync"
)

var pool = sync.Pool{
	New: func() interface{} {
		return &strings.Builder{}
	},
}

func Get() *strings.Builder {
	return pool.Get().(*strings.Builder)
}

// Put resets the builder and returns it to the pool. The builder must not be
// used afterwards.
func Put(b *strings.Builder) {
	b.Reset()
	pool.Put(b)
}
