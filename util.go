package sajson

import "unsafe"

// GetString reinterprets b as a string without copying, exactly the
// teacher's zero-allocation idiom. Safe here because every caller
// either owns a buffer it no longer mutates (number-literal slices
// during lexing, consumed immediately by strconv) or is explicitly
// documented as borrowing the arena's input span.
func GetString(b []byte) string {
	return *(*string)(unsafe.Pointer(&b))
}
