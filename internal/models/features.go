package models

import (
	"fmt"
	"sort"
	"strings"

	"github.com/toyz/rtgen/internal/utils"
)

// FeatureConditions lists the foreign assemblies a generated item depends on, sorted.
// Each becomes a Cargo feature gating the item.
type FeatureConditions []string

// NewFeatureConditions collects the assemblies of deps other than the declaring and base assemblies
func NewFeatureConditions(declaring, base string, deps []*TypeDef) FeatureConditions {
	seen := make(map[string]bool)
	var out FeatureConditions
	for _, d := range deps {
		asm := d.Assembly()
		if asm == declaring || asm == base || seen[asm] {
			continue
		}
		seen[asm] = true
		out = append(out, asm)
	}
	sort.Strings(out)
	return out
}

// IsEmpty reports whether no feature gate is needed
func (f FeatureConditions) IsEmpty() bool {
	return len(f) == 0
}

// Attribute renders the cfg attribute enabling the item, or "" when unconditional
func (f FeatureConditions) Attribute() string {
	if f.IsEmpty() {
		return ""
	}
	return "#[cfg(" + f.predicate() + ")] "
}

// NegatedAttribute renders the cfg attribute for the placeholder used when the item is disabled
func (f FeatureConditions) NegatedAttribute() string {
	if f.IsEmpty() {
		return ""
	}
	return "#[cfg(not(" + f.predicate() + "))] "
}

func (f FeatureConditions) predicate() string {
	features := make([]string, len(f))
	for i, asm := range f {
		features[i] = fmt.Sprintf("feature=%q", utils.ToFeatureName(asm))
	}
	if len(features) == 1 {
		return features[0]
	}
	return "all(" + strings.Join(features, ",") + ")"
}
