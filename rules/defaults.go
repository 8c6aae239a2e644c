package rules

import (
	"encoding/json"
	"fmt"
	"image/color"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/nstehr/vimy/vimy-viewer/model"
)

// KindColors is the built-in colour for each object kind.
var KindColors = map[model.ObjectKind]color.RGBA{
	model.KindAsteroid:      {R: 128, G: 128, B: 128, A: 255},
	model.KindBuilder:       {R: 0, G: 0, B: 255, A: 255},
	model.KindHarvester:     {R: 0, G: 255, B: 0, A: 255},
	model.KindBattlecruiser: {R: 255, G: 0, B: 0, A: 255},
}

// KindColor is the built-in colour for k, or FallbackColor for kinds
// missing from KindColors.
func KindColor(k model.ObjectKind) color.RGBA {
	if c, ok := KindColors[k]; ok {
		return c
	}
	return FallbackColor
}

// Priorities of the built-in rules. User rules normally sit between them.
const (
	PriorityKind   = 0
	PriorityFilter = math.MaxInt32
)

// DefaultRules colours every entity by kind. Kinds without an entry in
// KindColors get no rule and fall through to FallbackColor.
func DefaultRules() []*Rule {
	var rules []*Rule
	for _, k := range model.ObjectKinds() {
		c, ok := KindColors[k]
		if !ok {
			continue
		}
		rules = append(rules, &Rule{
			Name:         "kind-" + strings.ToLower(k.String()),
			Priority:     PriorityKind,
			ConditionSrc: fmt.Sprintf("Kind == %q", k.String()),
			Color:        c,
		})
	}
	return rules
}

// FilterRule hides every entity for which src does not hold.
func FilterRule(src string) *Rule {
	return &Rule{
		Name:         "filter",
		Priority:     PriorityFilter,
		ConditionSrc: fmt.Sprintf("!(%s)", src),
		Hide:         true,
	}
}

// ruleFile is the on-disk form of a user rule.
type ruleFile struct {
	Name     string `json:"name"`
	Priority int    `json:"priority"`
	When     string `json:"when"`
	Color    string `json:"color"`
	Hide     bool   `json:"hide"`
}

// LoadRules reads user style rules from a JSON array such as
//
//	[{"name": "mine", "priority": 10, "when": "OwnedBy(\"P1\")", "color": "#ffaa00"}]
func LoadRules(path string) ([]*Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read rules: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) ([]*Rule, error) {
	var entries []ruleFile
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("unmarshal rules: %w", err)
	}
	rules := make([]*Rule, 0, len(entries))
	for i, e := range entries {
		if e.Name == "" {
			e.Name = fmt.Sprintf("rule-%d", i)
		}
		if e.When == "" {
			return nil, fmt.Errorf("rule %q: empty condition", e.Name)
		}
		var c color.RGBA
		if !e.Hide {
			var err error
			c, err = ParseColor(e.Color)
			if err != nil {
				return nil, fmt.Errorf("rule %q: %w", e.Name, err)
			}
		}
		rules = append(rules, &Rule{
			Name:         e.Name,
			Priority:     e.Priority,
			ConditionSrc: e.When,
			Color:        c,
			Hide:         e.Hide,
		})
	}
	return rules, nil
}

// ParseColor accepts #rgb, #rrggbb and #rrggbbaa.
func ParseColor(s string) (color.RGBA, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) == 3 {
		hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
	}
	if len(hex) == 6 {
		hex += "ff"
	}
	if len(hex) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}
