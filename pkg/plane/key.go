// Package plane models canonical plane identity and the 2D face regions
// push/pull editing operates on. A region is a polygon with holes
// expressed in a plane-aligned frame: a rotation carrying the plane
// normal onto +Y plus the aligned height of the plane. Regions for a
// solid are grouped under a canonical plane key so that samples taken
// anywhere on the same infinite plane, from either side, land in the
// same bucket.
package plane

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// keyDigits is the rounding precision applied to normal components and
// plane offsets before they are joined into a key.
const keyDigits = 4

// Key is a canonical, orientation-independent identifier for an
// infinite plane. It is a value type; two keys compare equal exactly
// when the underlying planes coincide within rounding precision.
type Key string

// CanonicalKey derives the canonical normal and key for the plane
// through point with the given normal. The normal is unitized, then the
// axis with the largest magnitude is forced positive, negating the
// plane offset along with it, so opposite-facing samples of one plane
// agree. Components and offset are rounded before stringifying.
func CanonicalKey(normal, point mgl64.Vec3) (mgl64.Vec3, Key) {
	n := normal.Normalize()

	dominant := 0
	for a := 1; a < 3; a++ {
		if math.Abs(n[a]) > math.Abs(n[dominant]) {
			dominant = a
		}
	}
	if n[dominant] < 0 {
		n = n.Mul(-1)
	}
	offset := n.Dot(point)

	key := Key(fmt.Sprintf("%v,%v,%v|%v",
		roundTo(n.X(), keyDigits),
		roundTo(n.Y(), keyDigits),
		roundTo(n.Z(), keyDigits),
		roundTo(offset, keyDigits)))
	return n, key
}

func roundTo(v float64, digits int) float64 {
	scale := math.Pow(10, float64(digits))
	r := math.Round(v*scale) / scale
	if r == 0 {
		// Avoid "-0" leaking into keys.
		return 0
	}
	return r
}
