package form

import "fmt"

// Step is the current page of the booking form.
type Step string

const (
	StepPackageSelection      Step = "package_selection"
	StepVenueAndDate          Step = "venue_and_date"
	StepPickupTime            Step = "pickup_time"
	StepMenuSelection         Step = "menu_selection"
	StepSpecialOrderSelection Step = "special_order_selection"
	StepContactAndSubmit      Step = "contact_and_submit"
)

type branch int

const (
	branchAny branch = iota
	branchDining
	branchSpecialOrder
)

type stepInfo struct {
	ordinal int
	branch  branch
}

var steps = map[Step]stepInfo{
	StepPackageSelection:      {1, branchAny},
	StepVenueAndDate:          {2, branchDining},
	StepPickupTime:            {2, branchSpecialOrder},
	StepMenuSelection:         {3, branchDining},
	StepSpecialOrderSelection: {3, branchSpecialOrder},
	StepContactAndSubmit:      {4, branchAny},
}

// validTransitions lists the forward edges of the form. Retreat follows
// them in reverse.
var validTransitions = map[Step][]Step{
	StepPackageSelection:      {StepVenueAndDate, StepPickupTime},
	StepVenueAndDate:          {StepMenuSelection},
	StepPickupTime:            {StepSpecialOrderSelection},
	StepMenuSelection:         {StepContactAndSubmit},
	StepSpecialOrderSelection: {StepContactAndSubmit},
	StepContactAndSubmit:      {},
}

// IsValid returns true if the step is a recognized form step.
func (s Step) IsValid() bool {
	_, ok := steps[s]
	return ok
}

// Ordinal is the 1-based page number shown to the user.
func (s Step) Ordinal() int {
	return steps[s].ordinal
}

// IsTerminal returns true for the contact step, from which only submit is possible.
func (s Step) IsTerminal() bool {
	return s.IsValid() && len(validTransitions[s]) == 0
}

func (s Step) String() string {
	return string(s)
}

func (b branch) admits(special bool) bool {
	switch b {
	case branchDining:
		return !special
	case branchSpecialOrder:
		return special
	}
	return true
}

// next returns the step after s on the dining or special-order branch.
func (s Step) next(special bool) (Step, error) {
	for _, candidate := range validTransitions[s] {
		if steps[candidate].branch.admits(special) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("no step after %s", s)
}

// previous returns the step before s on the given branch.
func (s Step) previous(special bool) (Step, bool) {
	for from, targets := range validTransitions {
		if !steps[from].branch.admits(special) {
			continue
		}
		for _, t := range targets {
			if t == s {
				return from, true
			}
		}
	}
	return "", false
}
