package value

import "golang.org/x/text/cases"

// FoldKey normalizes a name or hash key for case-insensitive lookup using
// Unicode case folding, so keys that differ only by case (including
// non-ASCII letters) collide the way the case-insensitive comparison
// rule requires. A fresh Caser per call: Casers are not safe for
// concurrent reuse.
func FoldKey(s string) string {
	return cases.Fold().String(s)
}
