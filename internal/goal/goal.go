// Package goal defines the tags describing the body area or outcome
// targeted by poses and sessions.
package goal

import "slices"

type Goal string

const (
	Shoulders   Goal = "SHOULDERS"
	Arms        Goal = "ARMS"
	Chest       Goal = "CHEST"
	Back        Goal = "BACK"
	Core        Goal = "CORE"
	Hips        Goal = "HIPS"
	Legs        Goal = "LEGS"
	Flexibility Goal = "FLEXIBILITY"
	Balance     Goal = "BALANCE"
	Strength    Goal = "STRENGTH"
	Relaxation  Goal = "RELAXATION"
	Posture     Goal = "POSTURE"
)

var all = []Goal{
	Shoulders, Arms, Chest, Back, Core, Hips,
	Legs, Flexibility, Balance, Strength, Relaxation, Posture,
}

// All returns every known goal.
func All() []Goal {
	return slices.Clone(all)
}

func (g Goal) Valid() bool {
	return slices.Contains(all, g)
}
