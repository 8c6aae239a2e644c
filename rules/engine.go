package rules

import (
	"fmt"
	"image/color"
	"log/slog"
	"sort"
	"sync"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/nstehr/vimy/vimy-viewer/model"
)

// FallbackColor is drawn for entities no rule matches, including object
// kinds added to the protocol after this build.
var FallbackColor = color.RGBA{R: 255, G: 0, B: 255, A: 255}

// Engine evaluates compiled style rules. Reads happen every frame on the
// render path; Swap may be called from any goroutine.
type Engine struct {
	mu       sync.RWMutex
	rules    []*Rule
	fallback color.RGBA
}

// NewEngine compiles all rule conditions into expr bytecode and sorts by priority.
func NewEngine(rules []*Rule) (*Engine, error) {
	compiled, err := compileRules(rules)
	if err != nil {
		return nil, err
	}
	return &Engine{rules: compiled, fallback: FallbackColor}, nil
}

// Style returns how obj should be drawn.
func (e *Engine) Style(obj model.ObjectSummary) Style {
	e.mu.RLock()
	rules := e.rules
	fallback := e.fallback
	e.mu.RUnlock()

	env := envFor(obj)
	for _, r := range rules {
		result, err := vm.Run(r.program, env)
		if err != nil {
			slog.Debug("style rule error", "rule", r.Name, "object", obj.Name, "error", err)
			continue
		}
		if match, ok := result.(bool); !ok || !match {
			continue
		}
		return Style{Color: r.Color, Hidden: r.Hide, Rule: r.Name}
	}
	return Style{Color: fallback}
}

// Swap atomically replaces the rule set. Compiles first; if compilation
// fails the old rules remain active.
func (e *Engine) Swap(newRules []*Rule) error {
	compiled, err := compileRules(newRules)
	if err != nil {
		return err
	}
	names := make([]string, len(compiled))
	for i, r := range compiled {
		names[i] = r.Name
	}
	e.mu.Lock()
	e.rules = compiled
	e.mu.Unlock()
	slog.Info("style rules swapped", "count", len(compiled), "rules", names)
	return nil
}

// Rules returns the active rules in evaluation order.
func (e *Engine) Rules() []*Rule {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return append([]*Rule(nil), e.rules...)
}

func compileRules(rules []*Rule) ([]*Rule, error) {
	out := make([]*Rule, 0, len(rules))
	for _, r := range rules {
		prog, err := expr.Compile(r.ConditionSrc, expr.Env(StyleEnv{}), expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("compile rule %q: %w", r.Name, err)
		}
		c := *r
		c.program = prog
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Priority > out[j].Priority
	})
	return out, nil
}
