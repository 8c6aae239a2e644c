package rules

import (
	"image/color"

	"github.com/expr-lang/expr/vm"
)

// Rule styles every entity whose condition holds. Higher priority rules are
// evaluated first and the first match wins.
type Rule struct {
	Name         string      // human-readable identifier
	Priority     int         // higher = evaluated first
	ConditionSrc string      // expr source over StyleEnv
	Color        color.RGBA  // draw colour when matched
	Hide         bool        // matched entities are not drawn
	program      *vm.Program // compiled bytecode
}

// Style is the outcome of evaluating the rule set against one entity.
type Style struct {
	Color  color.RGBA
	Hidden bool
	Rule   string // name of the matching rule, empty for the fallback
}
