// Package costvector implements the fixed-length non-negative-integer
// vectors used to score OT candidates: lexicographic comparison,
// component-wise addition, and concatenation with an empty-vector
// additive identity for combining vectors of differing widths.
package costvector

import (
	"fmt"
	"strings"

	"github.com/GalitDotan/Oatmeal/internal/errs"
)

// Vector is a finite ordered sequence of non-negative integers.
type Vector []int

// Empty is the additive identity used when concatenating vectors whose
// widths differ (e.g. an arc's own width-1 cost against a fold-in-progress
// composite of some other width).
func Empty() Vector { return Vector{} }

// Of builds a vector from the given components.
func Of(components ...int) Vector {
	v := make(Vector, len(components))
	copy(v, components)
	return v
}

// Zeros returns a width-n vector of zeros.
func Zeros(n int) Vector {
	return make(Vector, n)
}

// Len reports the vector's width.
func (v Vector) Len() int { return len(v) }

// Add returns the component-wise sum of two vectors of equal length. A
// zero-length operand acts as the additive identity regardless of the
// other operand's length (this is how concatenation folds a fresh arc's
// cost against an accumulated path cost of different width). Otherwise,
// mismatched non-zero lengths are an error.
func Add(a, b Vector) (Vector, error) {
	if len(a) == 0 {
		return append(Vector(nil), b...), nil
	}
	if len(b) == 0 {
		return append(Vector(nil), a...), nil
	}
	if len(a) != len(b) {
		return nil, errs.NewCostVectorLengthMismatch(len(a), len(b))
	}
	out := make(Vector, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}

// Concat appends b's components after a's, used when folding a new
// constraint's width-1 cost onto an accumulated composite cost vector.
func Concat(a, b Vector) Vector {
	out := make(Vector, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}

// Compare returns -1, 0, or 1 comparing a and b lexicographically: the
// first differing component decides, and a shorter vector that is a
// prefix of a longer one compares as smaller.
func Compare(a, b Vector) int {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	default:
		return 0
	}
}

// Less reports whether a is lexicographically strictly smaller than b.
func Less(a, b Vector) bool { return Compare(a, b) < 0 }

// Equal reports component-wise equality.
func Equal(a, b Vector) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (v Vector) String() string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = fmt.Sprintf("%d", c)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
