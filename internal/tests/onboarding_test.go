package tests

import (
	"errors"
	"testing"
	"time"

	"campusride/internal/campus"
	"campusride/internal/domain"
	"campusride/internal/onboarding"
	"campusride/internal/service"
)

// ──────────────────────────────────────────────
// 7. RIDER ONBOARDING
// ──────────────────────────────────────────────

func TestOnboarding_FullFlow_SwitchesToRider(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if _, err := h.onboarding.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}

	if _, err := h.onboarding.Next(); !errors.Is(err, onboarding.ErrVehicleRequired) {
		t.Fatalf("expected ErrVehicleRequired on an empty step 1, got %v", err)
	}
	if _, err := h.onboarding.SetVehicle("Splendor Plus", " "); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	if _, err := h.onboarding.Next(); !errors.Is(err, onboarding.ErrVehicleRequired) {
		t.Fatalf("expected ErrVehicleRequired without a plate, got %v", err)
	}
	if _, err := h.onboarding.SetVehicle("Splendor Plus", "DL 8S 4321"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	mustStep(t, h.onboarding.Next, onboarding.StepPhoto)

	if _, err := h.onboarding.PickAvatar("av2"); err != nil {
		t.Fatalf("pick avatar: %v", err)
	}
	mustStep(t, h.onboarding.Next, onboarding.StepDocument)

	if _, err := h.onboarding.Next(); !errors.Is(err, onboarding.ErrDocumentNotVerified) {
		t.Fatalf("expected ErrDocumentNotVerified, got %v", err)
	}

	w, err := h.onboarding.VerifyDocument()
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if w.Document != onboarding.DocumentScanning {
		t.Errorf("expected SCANNING, got %s", w.Document)
	}

	h.clock.Advance(2500 * time.Millisecond)
	w, _ = h.onboarding.Get()
	if w.Document != onboarding.DocumentVerified || w.Step != onboarding.StepDocument {
		t.Errorf("expected verified and still on step 3, got %+v", w)
	}

	h.clock.Advance(1200 * time.Millisecond)
	w, _ = h.onboarding.Get()
	if w.Step != onboarding.StepRules {
		t.Fatalf("expected the wizard to advance to step 4, got %d", w.Step)
	}
	mustStep(t, h.onboarding.Next, onboarding.StepFinal)

	profile, err := h.onboarding.Complete(h.ctx)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if !profile.HasCompletedOnboarding || profile.Role != domain.RoleRider {
		t.Errorf("expected onboarded rider, got %+v", profile)
	}
	if profile.BikeModel != "Splendor Plus" || profile.PlateNumber != "DL 8S 4321" {
		t.Errorf("expected vehicle details committed, got %+v", profile)
	}
	av, _ := campus.FindAvatar("av2")
	if profile.AvatarURL != av.URL {
		t.Errorf("expected avatar %s, got %s", av.URL, profile.AvatarURL)
	}
	if h.rides.Current().Role != domain.RoleRider {
		t.Errorf("expected the engine to switch to rider, got %s", h.rides.Current().Role)
	}
	if got := h.publisher.Count(service.NotificationRiderOnboard); got != 1 {
		t.Errorf("expected 1 onboarding notification, got %d", got)
	}
	if _, err := h.onboarding.Get(); !errors.Is(err, service.ErrOnboardingNotStarted) {
		t.Errorf("expected the wizard to be closed, got %v", err)
	}
	if _, err := h.onboarding.Start(); !errors.Is(err, service.ErrAlreadyOnboarded) {
		t.Errorf("expected ErrAlreadyOnboarded, got %v", err)
	}
}

func TestOnboarding_UploadPhotoAfterDelay(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if _, err := h.onboarding.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.onboarding.SetVehicle("Pulsar", "UP 16 1111"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	mustStep(t, h.onboarding.Next, onboarding.StepPhoto)

	w, err := h.onboarding.UploadPhoto("photo://capture-1")
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !w.Uploading {
		t.Errorf("expected uploading flag")
	}

	h.clock.Advance(800 * time.Millisecond)
	w, _ = h.onboarding.Get()
	if w.Uploading || w.AvatarURL != "photo://capture-1" {
		t.Errorf("expected uploaded photo, got %+v", w)
	}
}

func TestOnboarding_CancelDropsPendingScan(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if _, err := h.onboarding.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.onboarding.SetVehicle("Pulsar", "UP 16 1111"); err != nil {
		t.Fatalf("set vehicle: %v", err)
	}
	mustStep(t, h.onboarding.Next, onboarding.StepPhoto)
	mustStep(t, h.onboarding.Next, onboarding.StepDocument)
	if _, err := h.onboarding.VerifyDocument(); err != nil {
		t.Fatalf("verify: %v", err)
	}

	h.onboarding.Cancel()
	if _, err := h.onboarding.Start(); err != nil {
		t.Fatalf("restart: %v", err)
	}
	h.clock.Advance(5 * time.Second)

	w, _ := h.onboarding.Get()
	if w.Step != onboarding.StepVehicle || w.Document != onboarding.DocumentPending {
		t.Errorf("expected a fresh wizard untouched by the old scan, got %+v", w)
	}
	if h.profile.State().Onboarded {
		t.Errorf("expected cancel not to onboard")
	}
}

func TestOnboarding_CompleteBeforeFinalStep_Rejected(t *testing.T) {
	t.Parallel()

	h := newHarness(t)
	if _, err := h.onboarding.Complete(h.ctx); !errors.Is(err, service.ErrOnboardingNotStarted) {
		t.Errorf("expected ErrOnboardingNotStarted, got %v", err)
	}
	if _, err := h.onboarding.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := h.onboarding.Complete(h.ctx); !errors.Is(err, onboarding.ErrWrongStep) {
		t.Errorf("expected ErrWrongStep, got %v", err)
	}
	if _, err := h.onboarding.Back(); !errors.Is(err, onboarding.ErrAtFirstStep) {
		t.Errorf("expected ErrAtFirstStep, got %v", err)
	}
}

func mustStep(t *testing.T, move func() (*onboarding.Wizard, error), want int) {
	t.Helper()
	w, err := move()
	if err != nil {
		t.Fatalf("move to step %d: %v", want, err)
	}
	if w.Step != want {
		t.Fatalf("expected step %d, got %d", want, w.Step)
	}
}
