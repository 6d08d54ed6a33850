package workflow

import (
	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/preview"
)

// State is the workflow state. Exactly one of Idle, Ready, Submitting,
// Succeeded or Failed holds at a time.
type State interface {
	Name() string
	state()
}

// Idle has no previewed file. A selection may be waiting on its preview.
type Idle struct{}

// Ready holds a previewed file that can be submitted.
type Ready struct {
	File    intake.File
	Preview preview.Representation
}

// Submitting holds the file whose prediction is in flight.
type Submitting struct {
	File    intake.File
	Preview preview.Representation
}

// Succeeded holds the classification of File.
type Succeeded struct {
	File    intake.File
	Preview preview.Representation
	Result  predict.Result
}

// Failed holds the user-facing message of the last submission error.
type Failed struct {
	File    intake.File
	Preview preview.Representation
	Message string
}

func (Idle) Name() string       { return "idle" }
func (Ready) Name() string      { return "ready" }
func (Submitting) Name() string { return "submitting" }
func (Succeeded) Name() string  { return "succeeded" }
func (Failed) Name() string     { return "failed" }

func (Idle) state()       {}
func (Ready) state()      {}
func (Submitting) state() {}
func (Succeeded) state()  {}
func (Failed) state()     {}

// Loaded returns the file and preview carried by any state past Idle.
func Loaded(s State) (intake.File, preview.Representation, bool) {
	switch s := s.(type) {
	case Ready:
		return s.File, s.Preview, true
	case Submitting:
		return s.File, s.Preview, true
	case Succeeded:
		return s.File, s.Preview, true
	case Failed:
		return s.File, s.Preview, true
	default:
		return intake.File{}, preview.Representation{}, false
	}
}
