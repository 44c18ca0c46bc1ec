// Package onboarding implements the five-step rider onboarding wizard.
// Delays (photo upload, document scan) are driven by the caller; the wizard
// only records their outcome.
package onboarding

import (
	"errors"
	"sort"
	"strings"

	"campusride/internal/campus"
)

// Steps of the wizard.
const (
	StepVehicle  = 1
	StepPhoto    = 2
	StepDocument = 3
	StepRules    = 4
	StepFinal    = 5
)

// TotalSteps is the number of wizard steps.
const TotalSteps = StepFinal

var (
	ErrVehicleRequired     = errors.New("bike model and plate number are required")
	ErrDocumentNotVerified = errors.New("driving licence has not been verified")
	ErrScanInProgress      = errors.New("document scan in progress")
	ErrWrongStep           = errors.New("action not available on this step")
	ErrAtFirstStep         = errors.New("already at the first step")
	ErrAtLastStep          = errors.New("already at the last step")
	ErrUnknownAvatar       = errors.New("unknown avatar")
	ErrEmptyPhoto          = errors.New("photo reference is empty")
)

// DocumentState tracks the licence verification on step 3.
type DocumentState string

const (
	DocumentPending  DocumentState = "PENDING"
	DocumentScanning DocumentState = "SCANNING"
	DocumentVerified DocumentState = "VERIFIED"
)

// Details is what the wizard commits on completion.
type Details struct {
	BikeModel   string `json:"bike_model"`
	PlateNumber string `json:"plate_number"`
	AvatarURL   string `json:"avatar_url,omitempty"`
}

// Wizard is the state of one onboarding run.
type Wizard struct {
	Step           int           `json:"step"`
	CompletedSteps []int         `json:"completed_steps"`
	BikeModel      string        `json:"bike_model"`
	PlateNumber    string        `json:"plate_number"`
	AvatarURL      string        `json:"avatar_url,omitempty"`
	Uploading      bool          `json:"uploading"`
	Document       DocumentState `json:"document"`
}

// New starts a wizard on step 1.
func New() *Wizard {
	return &Wizard{Step: StepVehicle, CompletedSteps: []int{}, Document: DocumentPending}
}

// Clone returns a copy safe to hand out.
func (w *Wizard) Clone() *Wizard {
	c := *w
	c.CompletedSteps = append([]int(nil), w.CompletedSteps...)
	return &c
}

// SetVehicle records the step 1 fields. Values are trimmed; empty values are
// accepted here and rejected by Next.
func (w *Wizard) SetVehicle(bikeModel, plateNumber string) error {
	if w.Step != StepVehicle {
		return ErrWrongStep
	}
	w.BikeModel = strings.TrimSpace(bikeModel)
	w.PlateNumber = strings.TrimSpace(plateNumber)
	return nil
}

// VehicleComplete reports whether both step 1 fields are set.
func (w *Wizard) VehicleComplete() bool {
	return w.BikeModel != "" && w.PlateNumber != ""
}

// PickAvatar selects a stock avatar by ID.
func (w *Wizard) PickAvatar(id string) error {
	if w.Step != StepPhoto {
		return ErrWrongStep
	}
	av, ok := campus.FindAvatar(id)
	if !ok {
		return ErrUnknownAvatar
	}
	w.AvatarURL = av.URL
	return nil
}

// BeginUpload marks a captured photo as uploading.
func (w *Wizard) BeginUpload() error {
	if w.Step != StepPhoto {
		return ErrWrongStep
	}
	w.Uploading = true
	return nil
}

// FinishUpload stores the uploaded photo reference.
func (w *Wizard) FinishUpload(ref string) error {
	if !w.Uploading {
		return ErrWrongStep
	}
	w.Uploading = false
	if strings.TrimSpace(ref) == "" {
		return ErrEmptyPhoto
	}
	w.AvatarURL = ref
	return nil
}

// BeginScan starts licence verification. It returns verified=true when the
// document was already verified, in which case the wizard advanced instead.
func (w *Wizard) BeginScan() (alreadyVerified bool, err error) {
	if w.Step != StepDocument {
		return false, ErrWrongStep
	}
	switch w.Document {
	case DocumentVerified:
		return true, w.Next()
	case DocumentScanning:
		return false, ErrScanInProgress
	}
	w.Document = DocumentScanning
	return false, nil
}

// FinishScan marks the licence as verified.
func (w *Wizard) FinishScan() error {
	if w.Document != DocumentScanning {
		return ErrWrongStep
	}
	w.Document = DocumentVerified
	return nil
}

// Next advances one step. Step 1 needs both vehicle fields and step 3 needs
// a verified document.
func (w *Wizard) Next() error {
	switch w.Step {
	case StepVehicle:
		if !w.VehicleComplete() {
			return ErrVehicleRequired
		}
	case StepDocument:
		if w.Document == DocumentScanning {
			return ErrScanInProgress
		}
		if w.Document != DocumentVerified {
			return ErrDocumentNotVerified
		}
	case StepFinal:
		return ErrAtLastStep
	}
	w.markCompleted(w.Step)
	w.Step++
	return nil
}

// Back returns to the previous step.
func (w *Wizard) Back() error {
	if w.Step <= StepVehicle {
		return ErrAtFirstStep
	}
	w.Step--
	return nil
}

// Finish returns the details to commit. Only valid on the final step.
func (w *Wizard) Finish() (Details, error) {
	if w.Step != StepFinal {
		return Details{}, ErrWrongStep
	}
	if !w.VehicleComplete() {
		return Details{}, ErrVehicleRequired
	}
	return Details{BikeModel: w.BikeModel, PlateNumber: w.PlateNumber, AvatarURL: w.AvatarURL}, nil
}

func (w *Wizard) markCompleted(step int) {
	for _, s := range w.CompletedSteps {
		if s == step {
			return
		}
	}
	w.CompletedSteps = append(w.CompletedSteps, step)
	sort.Ints(w.CompletedSteps)
}
