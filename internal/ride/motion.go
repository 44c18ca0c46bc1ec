package ride

import "campusride/internal/domain"

const (
	// StepLength is how far the rider moves per animation tick.
	StepLength = 2.0
	// ArrivalThreshold is the remaining distance under which the rider snaps to the target.
	ArrivalThreshold = 2.0
)

// Step moves pos toward target by StepLength. When the remaining distance is
// below ArrivalThreshold it returns target exactly and arrived=true.
func Step(pos, target domain.Point) (next domain.Point, arrived bool) {
	dist := pos.DistanceTo(target)
	if dist < ArrivalThreshold {
		return target, true
	}
	dx := (target.X - pos.X) / dist
	dy := (target.Y - pos.Y) / dist
	return domain.Point{X: pos.X + dx*StepLength, Y: pos.Y + dy*StepLength}, false
}

// StepsToReach returns how many ticks Step needs to arrive from pos at target.
func StepsToReach(pos, target domain.Point) int {
	n := 1
	for {
		var arrived bool
		pos, arrived = Step(pos, target)
		if arrived {
			return n
		}
		n++
	}
}
