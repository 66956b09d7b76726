package rules

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Simplici0/cabinet-cpq/internal/catalog"
)

var (
	ErrNotApplicable  = errors.New("processing does not apply to this product category")
	ErrAlreadyApplied = errors.New("processing already applied")
)

// ExclusionError reports a processing blocked by a mutual_exclusion rule.
type ExclusionError struct {
	ProcessingID string
	RuleID       string
	TriggeredBy  string
}

func (e *ExclusionError) Error() string {
	return fmt.Sprintf("processing %s excluded by rule %s (triggered by %s)", e.ProcessingID, e.RuleID, e.TriggeredBy)
}

// RequirementError reports required processings that cannot be added automatically.
type RequirementError struct {
	ProcessingID string
	RuleID       string
	Missing      []string
}

func (e *RequirementError) Error() string {
	return fmt.Sprintf("processing %s requires %s (rule %s)", e.ProcessingID, strings.Join(e.Missing, ", "), e.RuleID)
}

// Engine evaluates processing rules against the current applied set. It keeps
// no state between calls.
type Engine struct {
	catalog *catalog.Catalog
}

func New(c *catalog.Catalog) *Engine {
	return &Engine{catalog: c}
}

// Available lists the processings that can still be added to product.
func (e *Engine) Available(product catalog.Product, applied []string) []catalog.Processing {
	excluded := e.excludedBy(applied)

	var out []catalog.Processing
	for _, p := range e.catalog.Processings() {
		if !p.AppliesTo(product.Category) {
			continue
		}
		if slices.Contains(applied, p.ID) {
			continue
		}
		if _, blocked := excluded[p.ID]; blocked {
			continue
		}
		out = append(out, p)
	}
	return out
}

type exclusion struct {
	ruleID      string
	triggeredBy string
}

// excludedBy maps each excluded processing id to the first rule excluding it.
// Only the trigger side of a rule excludes.
func (e *Engine) excludedBy(applied []string) map[string]exclusion {
	out := make(map[string]exclusion)
	for _, r := range e.catalog.Rules() {
		if r.Type != catalog.RuleMutualExclusion {
			continue
		}
		trigger, ok := firstIntersecting(r.Conditions.ProcessingIDs, applied)
		if !ok {
			continue
		}
		for _, id := range r.Actions.ExcludeProcessings {
			if _, seen := out[id]; !seen {
				out[id] = exclusion{ruleID: r.ID, triggeredBy: trigger}
			}
		}
	}
	return out
}

func firstIntersecting(ids, applied []string) (string, bool) {
	for _, id := range ids {
		if slices.Contains(applied, id) {
			return id, true
		}
	}
	return "", false
}

// CanApply checks whether candidate may be added to product given applied.
func (e *Engine) CanApply(product catalog.Product, applied []string, candidate catalog.Processing) error {
	if !candidate.AppliesTo(product.Category) {
		return fmt.Errorf("%s on %s: %w", candidate.ID, product.ID, ErrNotApplicable)
	}
	if slices.Contains(applied, candidate.ID) {
		return fmt.Errorf("%s on %s: %w", candidate.ID, product.ID, ErrAlreadyApplied)
	}
	if ex, blocked := e.excludedBy(applied)[candidate.ID]; blocked {
		return &ExclusionError{ProcessingID: candidate.ID, RuleID: ex.ruleID, TriggeredBy: ex.triggeredBy}
	}
	return nil
}

// Requirements resolves the requirement rules triggered by adding candidate.
// Missing requirements that are known, applicable, not excluded and need no
// option input are returned for automatic addition, in rule order. Anything
// else blocks the action with a *RequirementError.
func (e *Engine) Requirements(product catalog.Product, applied []string, candidate catalog.Processing) ([]catalog.Processing, error) {
	next := append(slices.Clone(applied), candidate.ID)

	var auto []catalog.Processing
	for _, r := range e.catalog.Rules() {
		if r.Type != catalog.RuleRequirement || !slices.Contains(r.Conditions.ProcessingIDs, candidate.ID) {
			continue
		}
		var missing []string
		for _, id := range r.Actions.RequireProcessings {
			if slices.Contains(next, id) {
				continue
			}
			req, ok := e.catalog.Processing(id)
			if !ok || e.CanApply(product, next, req) != nil || NeedsOptions(req, nil) {
				missing = append(missing, id)
				continue
			}
			auto = append(auto, req)
			next = append(next, id)
		}
		if len(missing) > 0 {
			return nil, &RequirementError{ProcessingID: candidate.ID, RuleID: r.ID, Missing: missing}
		}
	}
	return auto, nil
}

// RoomRequirements resolves the requirement rules triggered by activating
// candidate on a room. Missing requirements that are known, do not conflict
// with the room and price with their defaults are returned for activation
// alongside it. Anything else blocks the activation with a *RequirementError.
func (e *Engine) RoomRequirements(activated []string, candidate catalog.Processing) ([]catalog.Processing, error) {
	next := append(slices.Clone(activated), candidate.ID)

	var auto []catalog.Processing
	for _, r := range e.catalog.Rules() {
		if r.Type != catalog.RuleRequirement || !slices.Contains(r.Conditions.ProcessingIDs, candidate.ID) {
			continue
		}
		var missing []string
		for _, id := range r.Actions.RequireProcessings {
			if slices.Contains(next, id) {
				continue
			}
			req, ok := e.catalog.Processing(id)
			if !ok || e.RoomConflict(next, id) != nil {
				missing = append(missing, id)
				continue
			}
			if _, complete := Defaults(req); !complete {
				missing = append(missing, id)
				continue
			}
			auto = append(auto, req)
			next = append(next, id)
		}
		if len(missing) > 0 {
			return nil, &RequirementError{ProcessingID: candidate.ID, RuleID: r.ID, Missing: missing}
		}
	}
	return auto, nil
}

// CanRemove checks that taking id away leaves every requirement of the
// remaining processings met. remaining is the applied set after removal.
func (e *Engine) CanRemove(remaining []string, id string) error {
	if slices.Contains(remaining, id) {
		return nil
	}
	for _, r := range e.catalog.Rules() {
		if r.Type != catalog.RuleRequirement || !slices.Contains(r.Actions.RequireProcessings, id) {
			continue
		}
		for _, trigger := range r.Conditions.ProcessingIDs {
			if slices.Contains(remaining, trigger) {
				return &RequirementError{ProcessingID: trigger, RuleID: r.ID, Missing: []string{id}}
			}
		}
	}
	return nil
}

// NeedsOptions reports whether p cannot be priced with values yet.
// Every required option needs an accepted value; a processing flagged
// RequiresOptions additionally needs at least one accepted value.
func NeedsOptions(p catalog.Processing, values catalog.OptionValues) bool {
	supplied := 0
	for _, opt := range p.Options {
		if opt.Accepts(values[opt.ID]) {
			supplied++
			continue
		}
		if opt.Required {
			return true
		}
	}
	return p.RequiresOptions && supplied == 0
}

// Defaults returns the option values a processing starts with when nobody
// picked any, and whether they satisfy every required option.
func Defaults(p catalog.Processing) (catalog.OptionValues, bool) {
	values := make(catalog.OptionValues)
	for _, opt := range p.Options {
		if opt.DefaultValue != nil {
			values[opt.ID] = opt.DefaultValue
		}
	}
	return values, !NeedsOptions(p, values)
}

// InheritsFromRoom reports whether room processings propagate to product.
// The last matching inheritance rule wins; products inherit by default.
func (e *Engine) InheritsFromRoom(product catalog.Product) bool {
	inherit := true
	for _, r := range e.catalog.Rules() {
		if r.Type != catalog.RuleInheritance || r.Actions.InheritFromRoom == nil {
			continue
		}
		if len(r.Conditions.ProductCategories) > 0 && !slices.Contains(r.Conditions.ProductCategories, product.Category) {
			continue
		}
		inherit = *r.Actions.InheritFromRoom
	}
	return inherit
}

// RoomConflict checks a candidate room activation against the processings the
// room already activates.
func (e *Engine) RoomConflict(activated []string, candidate string) error {
	if ex, blocked := e.excludedBy(activated)[candidate]; blocked {
		return &ExclusionError{ProcessingID: candidate, RuleID: ex.ruleID, TriggeredBy: ex.triggeredBy}
	}
	return nil
}
