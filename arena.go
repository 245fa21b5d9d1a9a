package sajson

// arena is the two-region allocator the structural parser drives: a
// low end that bump-allocates AST payload words (never freed until
// the whole arena is discarded) and a high end that holds the temp
// stack of not-yet-reified container contents (§3.3, §4.1).
//
// Both the single-arena and dynamic strategies implement this same
// interface; the structural parser in parser.go is written once
// against it and produces byte-identical encodings either way.
type arena interface {
	// allocAST reserves n words for a new payload and returns its
	// base index. Fatal (panics via oomPanic) if the allocation
	// cannot be satisfied.
	allocAST(n int32) int32
	astWord(i int32) uint32
	setASTWord(i int32, w uint32)
	astLen() int32

	// pushWord appends one word to the logical temp stack.
	pushWord(w uint32)
	stackLen() int32
	stackWord(i int32) uint32
	setStackWord(i int32, w uint32)
	truncateStack(to int32)

	// release returns any pooled backing storage. Safe to call once a
	// Document built on this arena is no longer in use.
	release()
}

// oomPanic is raised by allocAST when a strategy cannot satisfy a
// request. ParseSingle's pigeonhole guarantee (§4.1) means this
// should never fire for valid allocation sizes; ParseDynamic instead
// reports OUT_OF_MEMORY as a normal parse error, never by panicking.
type oomPanic struct{}

// --- single-arena strategy -------------------------------------------------

// singleArena allocates one word per input byte up front and carves
// the AST region (growing up from index 0) and the temp stack
// (growing down from the end) out of that one slice. The pigeonhole
// argument (§4.1, §8.1.6) is that every AST word traces back to at
// least one input byte that cannot simultaneously be sitting on the
// stack, so the two bump pointers never cross for valid input.
type singleArena struct {
	words  []uint32
	low    int32 // next free AST index, growing up
	high   int32 // next free stack index + 1, growing down
	pooled *wordBuffer
}

func newSingleArena(n int) *singleArena {
	wb := getWordBuffer(n)
	return &singleArena{
		words:  wb.words[:n],
		low:    0,
		high:   int32(n),
		pooled: wb,
	}
}

func (a *singleArena) allocAST(n int32) int32 {
	if a.low+n > a.high {
		panic(oomPanic{})
	}
	base := a.low
	a.low += n
	return base
}

func (a *singleArena) astWord(i int32) uint32      { return a.words[i] }
func (a *singleArena) setASTWord(i int32, w uint32) { a.words[i] = w }
func (a *singleArena) astLen() int32                { return a.low }

func (a *singleArena) pushWord(w uint32) {
	if a.high-1 < a.low {
		panic(oomPanic{})
	}
	a.high--
	a.words[a.high] = w
}

func (a *singleArena) stackLen() int32 { return int32(len(a.words)) - a.high }

func (a *singleArena) stackWord(i int32) uint32 {
	return a.words[int32(len(a.words))-1-i]
}

func (a *singleArena) setStackWord(i int32, w uint32) {
	a.words[int32(len(a.words))-1-i] = w
}

func (a *singleArena) truncateStack(to int32) {
	a.high = int32(len(a.words)) - to
}

func (a *singleArena) release() {
	if a.pooled != nil {
		putWordBuffer(a.pooled)
		a.pooled = nil
	}
}

// --- dynamic strategy -------------------------------------------------------

// wordBuffer is a geometrically-growing []uint32, the word-sized
// analogue of the teacher's byte-oriented Buffer.grow: start small,
// double until a threshold, then grow by 50% beyond it. Used for both
// regions of the dynamic arena so pathological inputs (deeply nested
// empty containers, huge flat arrays) don't force a single-arena's
// worst-case one-word-per-byte allocation.
type wordBuffer struct {
	words []uint32
	len   int32
}

func (b *wordBuffer) grow(extra int32) {
	needed := b.len + extra
	if needed <= int32(len(b.words)) {
		return
	}
	cur := int32(len(b.words))
	var newCap int32
	switch {
	case cur == 0:
		newCap = 64
		for newCap < needed {
			newCap <<= 1
		}
	case cur < 8192:
		newCap = cur * 2
		if newCap < needed {
			newCap = needed
		}
	default:
		newCap = cur + cur/2
		if newCap < needed {
			newCap = needed
		}
	}
	newWords := make([]uint32, newCap)
	copy(newWords, b.words[:b.len])
	b.words = newWords
}

func (b *wordBuffer) reset() {
	b.len = 0
}

// dynamicArena keeps the AST and stack regions as two independently
// growable wordBuffers (§4.1's "dynamic" strategy). ~10% slower than
// the single-arena but never over-allocates for pathological shapes.
type dynamicArena struct {
	ast   *wordBuffer
	stack *wordBuffer
}

func newDynamicArena(sizeHint int) *dynamicArena {
	return &dynamicArena{
		ast:   getWordBuffer(sizeHint),
		stack: getWordBuffer(sizeHint / 4),
	}
}

// maxDynamicWords bounds how large the dynamic strategy's regions may
// grow. Go slices don't expose a fallible allocator the way a C++
// sajson::allocator does, so OUT_OF_MEMORY for the dynamic strategy is
// modeled as this fixed ceiling rather than a real allocation
// failure (see DESIGN.md).
const maxDynamicWords = 1 << 28

func (a *dynamicArena) allocAST(n int32) int32 {
	if a.ast.len+n > maxDynamicWords {
		panic(oomPanic{})
	}
	a.ast.grow(n)
	base := a.ast.len
	a.ast.len += n
	return base
}

func (a *dynamicArena) astWord(i int32) uint32      { return a.ast.words[i] }
func (a *dynamicArena) setASTWord(i int32, w uint32) { a.ast.words[i] = w }
func (a *dynamicArena) astLen() int32                { return a.ast.len }

func (a *dynamicArena) pushWord(w uint32) {
	if a.stack.len+1 > maxDynamicWords {
		panic(oomPanic{})
	}
	a.stack.grow(1)
	a.stack.words[a.stack.len] = w
	a.stack.len++
}

func (a *dynamicArena) stackLen() int32               { return a.stack.len }
func (a *dynamicArena) stackWord(i int32) uint32       { return a.stack.words[i] }
func (a *dynamicArena) setStackWord(i int32, w uint32) { a.stack.words[i] = w }
func (a *dynamicArena) truncateStack(to int32)         { a.stack.len = to }

func (a *dynamicArena) release() {
	if a.ast != nil {
		putWordBuffer(a.ast)
		a.ast = nil
	}
	if a.stack != nil {
		putWordBuffer(a.stack)
		a.stack = nil
	}
}
