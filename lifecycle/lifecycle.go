// Package lifecycle enforces the order status state machine. The transition
// table is data, not a switch: deployments can insert intermediate states
// (e.g. "confirmed" between pending and accepted) through configuration
// without touching the enforcement logic.
package lifecycle

import (
	"fmt"
	"strings"

	"bismi-shop/models"
)

// Transitions maps each state to its legal successor states. States absent
// from the map are unknown; states mapped to an empty list are terminal.
type Transitions map[models.Status][]models.Status

// Default is the four-state table the shop runs with out of the box.
func Default() Transitions {
	return Transitions{
		models.StatusPending:   {models.StatusAccepted, models.StatusCancelled},
		models.StatusAccepted:  {models.StatusDelivered, models.StatusCancelled},
		models.StatusDelivered: {},
		models.StatusCancelled: {},
	}
}

// Parse builds a table from a config string of the form
// "pending>accepted|cancelled;accepted>delivered|cancelled".
// Targets not appearing as sources are added as terminal states.
func Parse(s string) (Transitions, error) {
	t := Transitions{}
	for _, rule := range strings.Split(s, ";") {
		rule = strings.TrimSpace(rule)
		if rule == "" {
			continue
		}
		parts := strings.SplitN(rule, ">", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("bad transition rule %q", rule)
		}
		from := models.Status(strings.TrimSpace(parts[0]))
		if from == "" {
			return nil, fmt.Errorf("bad transition rule %q", rule)
		}
		var targets []models.Status
		for _, to := range strings.Split(parts[1], "|") {
			to = strings.TrimSpace(to)
			if to != "" {
				targets = append(targets, models.Status(to))
			}
		}
		t[from] = targets
	}
	for _, targets := range t {
		for _, to := range targets {
			if _, ok := t[to]; !ok {
				t[to] = []models.Status{}
			}
		}
	}
	if len(t) == 0 {
		return nil, fmt.Errorf("empty transition table")
	}
	return t, nil
}

// Load returns Parse(s) when s is non-empty, else the default table.
func Load(s string) (Transitions, error) {
	if strings.TrimSpace(s) == "" {
		return Default(), nil
	}
	return Parse(s)
}

// TransitionError is the typed rejection for an illegal status change.
// Nothing is written when it is returned.
type TransitionError struct {
	From, To models.Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("illegal status transition %s -> %s", e.From, e.To)
}

// Initial is the state newly created orders enter.
func (t Transitions) Initial() models.Status {
	return models.StatusPending
}

// Known reports whether a state appears in the table.
func (t Transitions) Known(s models.Status) bool {
	_, ok := t[s]
	return ok
}

// Next lists the legal successors of a state.
func (t Transitions) Next(from models.Status) []models.Status {
	return t[from]
}

// IsTerminal reports whether a state has no outgoing transitions.
func (t Transitions) IsTerminal(s models.Status) bool {
	return len(t[s]) == 0
}

// CanTransition reports whether from → to is legal.
func (t Transitions) CanTransition(from, to models.Status) bool {
	for _, s := range t[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Check returns a TransitionError for an illegal from → to, nil otherwise.
func (t Transitions) Check(from, to models.Status) error {
	if !t.CanTransition(from, to) {
		return &TransitionError{From: from, To: to}
	}
	return nil
}
