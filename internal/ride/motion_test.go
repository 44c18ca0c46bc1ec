package ride

import (
	"math"
	"testing"

	"campusride/internal/domain"
)

func TestStep_MovesFixedLengthTowardTarget(t *testing.T) {
	t.Parallel()

	next, arrived := Step(domain.Point{X: 0, Y: 0}, domain.Point{X: 10, Y: 0})
	if arrived {
		t.Fatal("should not arrive from 10 units away")
	}
	if next.X != 2 || next.Y != 0 {
		t.Errorf("expected (2,0), got %v", next)
	}
}

func TestStep_SnapsUnderThreshold(t *testing.T) {
	t.Parallel()

	target := domain.Point{X: 20, Y: 30}
	next, arrived := Step(domain.Point{X: 19, Y: 29}, target)
	if !arrived {
		t.Fatal("expected arrival under threshold")
	}
	if next != target {
		t.Errorf("expected exact snap to %v, got %v", target, next)
	}
}

func TestStep_NeverOvershoots(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name   string
		start  domain.Point
		target domain.Point
	}{
		{name: "gate to library", start: domain.Point{X: 10, Y: 10}, target: domain.Point{X: 20, Y: 30}},
		{name: "library to hostel", start: domain.Point{X: 20, Y: 30}, target: domain.Point{X: 80, Y: 15}},
		{name: "diagonal", start: domain.Point{X: 0, Y: 0}, target: domain.Point{X: 100, Y: 100}},
		{name: "exactly threshold", start: domain.Point{X: 0, Y: 0}, target: domain.Point{X: 2, Y: 0}},
		{name: "already there", start: domain.Point{X: 5, Y: 5}, target: domain.Point{X: 5, Y: 5}},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			pos := tc.start
			initial := tc.start.DistanceTo(tc.target)
			bound := int(math.Ceil(initial/StepLength)) + 1
			steps := 0
			for {
				prev := pos.DistanceTo(tc.target)
				var arrived bool
				pos, arrived = Step(pos, tc.target)
				steps++
				if arrived {
					break
				}
				if d := pos.DistanceTo(tc.target); d > prev {
					t.Fatalf("distance grew from %v to %v", prev, d)
				}
				if steps > bound {
					t.Fatalf("exceeded bound of %d steps", bound)
				}
			}
			if pos != tc.target {
				t.Errorf("expected exact target %v, got %v", tc.target, pos)
			}
			if got := StepsToReach(tc.start, tc.target); got != steps {
				t.Errorf("StepsToReach = %d, walked %d", got, steps)
			}
		})
	}
}
