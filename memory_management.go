package sajson

import (
	"strings"
	"sync"
)

// Pooling here mirrors the teacher's memory_management.go almost
// exactly: size-tiered sync.Pools with a WarmupPools pre-population
// step, a Reset-before-reuse convention, and a pooled string builder
// for error formatting instead of fmt.Sprintf on the hot path. The
// domain objects differ (word buffers and parse errors instead of
// byte Buffers and JSON maps) but the shape is the same.

var (
	builderPool = sync.Pool{
		New: func() interface{} { return &strings.Builder{} },
	}

	parseErrorPool = sync.Pool{
		New: func() interface{} { return &ParseError{} },
	}

	documentPool = sync.Pool{
		New: func() interface{} { return &Document{} },
	}

	tinyWordBuffers = sync.Pool{
		New: func() interface{} { return &wordBuffer{words: make([]uint32, 0, 64)} },
	}
	smallWordBuffers = sync.Pool{
		New: func() interface{} { return &wordBuffer{words: make([]uint32, 0, 1024)} },
	}
	largeWordBuffers = sync.Pool{
		New: func() interface{} { return &wordBuffer{words: make([]uint32, 0, 16384)} },
	}
)

func init() {
	WarmupPools()
}

// WarmupPools pre-populates the word-buffer tiers so the first few
// parses of a process's life don't pay allocation cost, the same
// rationale as the teacher's buffer WarmupPools.
func WarmupPools() {
	for i := 0; i < 16; i++ {
		tinyWordBuffers.Put(&wordBuffer{words: make([]uint32, 0, 64)})
		smallWordBuffers.Put(&wordBuffer{words: make([]uint32, 0, 1024)})
	}
	for i := 0; i < 4; i++ {
		largeWordBuffers.Put(&wordBuffer{words: make([]uint32, 0, 16384)})
	}
}

func getBuilder() *strings.Builder {
	b := builderPool.Get().(*strings.Builder)
	b.Reset()
	return b
}

func putBuilder(b *strings.Builder) {
	builderPool.Put(b)
}

func getParseError() *ParseError {
	e := parseErrorPool.Get().(*ParseError)
	e.reset()
	return e
}

func putParseError(e *ParseError) {
	if e == nil {
		return
	}
	parseErrorPool.Put(e)
}

func getDocument() *Document {
	d := documentPool.Get().(*Document)
	*d = Document{}
	return d
}

// getWordBuffer returns a word buffer with at least sizeHint capacity
// from the appropriately sized tier.
func getWordBuffer(sizeHint int) *wordBuffer {
	var b *wordBuffer
	switch {
	case sizeHint <= 64:
		b = tinyWordBuffers.Get().(*wordBuffer)
	case sizeHint <= 1024:
		b = smallWordBuffers.Get().(*wordBuffer)
	default:
		b = largeWordBuffers.Get().(*wordBuffer)
	}
	if cap(b.words) < sizeHint {
		b.words = make([]uint32, sizeHint)
	}
	b.words = b.words[:cap(b.words)]
	b.len = 0
	return b
}

func putWordBuffer(b *wordBuffer) {
	if b == nil || cap(b.words) > 1<<20 {
		return
	}
	b.reset()
	switch {
	case cap(b.words) <= 64:
		tinyWordBuffers.Put(b)
	case cap(b.words) <= 1024:
		smallWordBuffers.Put(b)
	default:
		largeWordBuffers.Put(b)
	}
}
