package rules

import (
	"math"
	"strings"

	"github.com/nstehr/vimy/vimy-viewer/model"
)

// StyleEnv exposes one entity to rule conditions. Fields and methods are
// callable from expr, e.g. `IsKind("Harvester") && Within(0, 0, 500)`.
type StyleEnv struct {
	Name  string
	Owner string
	Kind  string
	X     float64
	Y     float64
}

func envFor(obj model.ObjectSummary) StyleEnv {
	return StyleEnv{
		Name:  obj.Name,
		Owner: obj.Owner,
		Kind:  obj.Kind.String(),
		X:     obj.X,
		Y:     obj.Y,
	}
}

func (e StyleEnv) IsKind(k string) bool { return strings.EqualFold(e.Kind, k) }

func (e StyleEnv) OwnedBy(owner string) bool { return e.Owner == owner }

// Within reports whether the entity is within r world units of (x, y).
func (e StyleEnv) Within(x, y, r float64) bool {
	return math.Hypot(e.X-x, e.Y-y) <= r
}

// InRect reports whether the entity lies in the box spanned by two corners.
func (e StyleEnv) InRect(x0, y0, x1, y1 float64) bool {
	return e.X >= math.Min(x0, x1) && e.X <= math.Max(x0, x1) &&
		e.Y >= math.Min(y0, y1) && e.Y <= math.Max(y0, y1)
}
