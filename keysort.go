package sajson

import (
	"bytes"
	"sort"
)

// compareKeys orders two object keys length-first, then
// lexicographically by UTF-8 bytes (§3.4). Comparing length before
// content means find_key (§4.7) can reject a wrong-length candidate
// with a single integer compare before ever touching its bytes.
func compareKeys(a, b []byte) int {
	if len(a) != len(b) {
		if len(a) < len(b) {
			return -1
		}
		return 1
	}
	return bytes.Compare(a, b)
}

// objStackSorter sorts a run of (key_start, key_end, value_cell)
// triples sitting on the arena's temp stack in place, so reifying an
// object never needs a side allocation just to sort its keys.
type objStackSorter struct {
	a     arena
	base  int32
	count int32
	buf   []byte
}

func (s *objStackSorter) Len() int { return int(s.count) }

func (s *objStackSorter) Less(i, j int) bool {
	ai := s.base + 3*int32(i)
	aj := s.base + 3*int32(j)
	aks, ake := int32(s.a.stackWord(ai)), int32(s.a.stackWord(ai+1))
	bks, bke := int32(s.a.stackWord(aj)), int32(s.a.stackWord(aj+1))
	return compareKeys(s.buf[aks:ake], s.buf[bks:bke]) < 0
}

func (s *objStackSorter) Swap(i, j int) {
	ai := s.base + 3*int32(i)
	aj := s.base + 3*int32(j)
	for k := int32(0); k < 3; k++ {
		wi := s.a.stackWord(ai + k)
		wj := s.a.stackWord(aj + k)
		s.a.setStackWord(ai+k, wj)
		s.a.setStackWord(aj+k, wi)
	}
}

func sortObjectEntries(a arena, base, count int32, buf []byte) {
	if count < 2 {
		return
	}
	sort.Sort(&objStackSorter{a: a, base: base, count: count, buf: buf})
}

// findKey performs the binary search from §4.7 over a sorted object
// payload, returning the matching index or count to signal "not
// found" — callers must check the bound before indexing (§4.6).
func findKey(o Object, key []byte) int32 {
	lo, hi := int32(0), o.count
	for lo < hi {
		mid := (lo + hi) / 2
		mk := o.keyBytesAt(mid)
		if compareKeys(mk, key) < 0 {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < o.count && compareKeys(o.keyBytesAt(lo), key) == 0 {
		return lo
	}
	return o.count
}
