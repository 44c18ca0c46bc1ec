package onboarding

import (
	"errors"
	"testing"
)

// walkToDocument drives a fresh wizard to step 3.
func walkToDocument(t *testing.T) *Wizard {
	t.Helper()
	w := New()
	if err := w.SetVehicle("Activa 6G", "DL 3S AB 1234"); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatal(err)
	}
	if w.Step != StepDocument {
		t.Fatalf("expected step 3, got %d", w.Step)
	}
	return w
}

func TestWizard_VehicleRequiredOnStepOne(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name  string
		bike  string
		plate string
	}{
		{name: "both empty"},
		{name: "missing plate", bike: "Splendor+"},
		{name: "missing bike", plate: "DL 1A 0001"},
		{name: "whitespace only", bike: "  ", plate: "\t"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			w := New()
			_ = w.SetVehicle(tc.bike, tc.plate)
			if err := w.Next(); !errors.Is(err, ErrVehicleRequired) {
				t.Errorf("expected ErrVehicleRequired, got %v", err)
			}
			if w.Step != StepVehicle {
				t.Errorf("wizard advanced to step %d", w.Step)
			}
		})
	}
}

func TestWizard_CannotReachFinalWithoutVehicle(t *testing.T) {
	t.Parallel()

	w := New()
	for i := 0; i < TotalSteps; i++ {
		_ = w.Next()
		_, _ = w.BeginScan()
		_ = w.FinishScan()
	}
	if w.Step == StepFinal {
		t.Fatal("reached the final step without vehicle details")
	}
	if _, err := w.Finish(); err == nil {
		t.Error("finish must fail before the final step")
	}
}

func TestWizard_DocumentGate(t *testing.T) {
	t.Parallel()

	w := walkToDocument(t)
	if err := w.Next(); !errors.Is(err, ErrDocumentNotVerified) {
		t.Fatalf("expected ErrDocumentNotVerified, got %v", err)
	}

	already, err := w.BeginScan()
	if err != nil || already {
		t.Fatalf("begin scan: already=%v err=%v", already, err)
	}
	if _, err := w.BeginScan(); !errors.Is(err, ErrScanInProgress) {
		t.Errorf("expected ErrScanInProgress, got %v", err)
	}
	if err := w.Next(); !errors.Is(err, ErrScanInProgress) {
		t.Errorf("expected next to be blocked while scanning, got %v", err)
	}

	if err := w.FinishScan(); err != nil {
		t.Fatal(err)
	}
	if err := w.Next(); err != nil {
		t.Fatalf("next after verification: %v", err)
	}
	if w.Step != StepRules {
		t.Errorf("expected step 4, got %d", w.Step)
	}

	// Going back to a verified document advances straight away.
	_ = w.Back()
	already, err = w.BeginScan()
	if err != nil || !already || w.Step != StepRules {
		t.Errorf("verified document should advance immediately: already=%v step=%d err=%v", already, w.Step, err)
	}
}

func TestWizard_BackAndBounds(t *testing.T) {
	t.Parallel()

	w := New()
	if err := w.Back(); !errors.Is(err, ErrAtFirstStep) {
		t.Errorf("expected ErrAtFirstStep, got %v", err)
	}

	w = walkToDocument(t)
	if err := w.Back(); err != nil || w.Step != StepPhoto {
		t.Fatalf("back: step=%d err=%v", w.Step, err)
	}
	if err := w.SetVehicle("x", "y"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("vehicle can only be edited on step 1, got %v", err)
	}
}

func TestWizard_PhotoStep(t *testing.T) {
	t.Parallel()

	w := New()
	if err := w.PickAvatar("av1"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("expected ErrWrongStep, got %v", err)
	}
	_ = w.SetVehicle("Pulsar", "UP 16 ZZ 9999")
	_ = w.Next()

	if err := w.PickAvatar("nope"); !errors.Is(err, ErrUnknownAvatar) {
		t.Errorf("expected ErrUnknownAvatar, got %v", err)
	}
	if err := w.PickAvatar("av3"); err != nil {
		t.Fatal(err)
	}
	if w.AvatarURL != "https://api.dicebear.com/7.x/avataaars/svg?seed=Tigger" {
		t.Errorf("unexpected avatar url %q", w.AvatarURL)
	}

	if err := w.FinishUpload("data:image/png;base64,AAA"); !errors.Is(err, ErrWrongStep) {
		t.Errorf("finish upload without begin: %v", err)
	}
	_ = w.BeginUpload()
	if err := w.FinishUpload("data:image/png;base64,AAA"); err != nil || w.AvatarURL != "data:image/png;base64,AAA" {
		t.Errorf("upload: url=%q err=%v", w.AvatarURL, err)
	}
}

func TestWizard_FullRun(t *testing.T) {
	t.Parallel()

	w := walkToDocument(t)
	_, _ = w.BeginScan()
	_ = w.FinishScan()
	for w.Step < StepFinal {
		if err := w.Next(); err != nil {
			t.Fatalf("next from %d: %v", w.Step, err)
		}
	}
	if err := w.Next(); !errors.Is(err, ErrAtLastStep) {
		t.Errorf("expected ErrAtLastStep, got %v", err)
	}

	d, err := w.Finish()
	if err != nil {
		t.Fatal(err)
	}
	if d.BikeModel != "Activa 6G" || d.PlateNumber != "DL 3S AB 1234" {
		t.Errorf("unexpected details %+v", d)
	}
	want := []int{1, 2, 3, 4}
	if len(w.CompletedSteps) != len(want) {
		t.Fatalf("completed steps %v", w.CompletedSteps)
	}
	for i := range want {
		if w.CompletedSteps[i] != want[i] {
			t.Errorf("completed steps %v, want %v", w.CompletedSteps, want)
		}
	}
}
