// Package workflow owns the selection and analysis state machine.
//
// All methods run on the UI loop. Preview and prediction work is returned as
// tea.Cmd values whose messages are tagged with the ID of the file they were
// issued for; Update discards any message whose file is no longer selected.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog/log"

	"github.com/tatendakasirori/eye-disease-classification/internal/intake"
	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/preview"
)

const (
	SelectFirstMessage    = "Please select an image first"
	PreviewPendingMessage = "Preview is still loading, please wait"
)

// Previewer renders a selected file.
type Previewer interface {
	Generate(ctx context.Context, f intake.File) (preview.Representation, error)
}

// Submitter classifies a selected file.
type Submitter interface {
	Predict(ctx context.Context, f intake.File) (*predict.Result, error)
}

// Controller drives the workflow. It is not safe for concurrent use; the
// commands it returns are.
type Controller struct {
	ctx       context.Context
	previewer Previewer
	submitter Submitter

	state     State
	selection intake.File
	notice    string
}

// NewController creates a controller in the Idle state. ctx bounds every
// command it issues.
func NewController(ctx context.Context, previewer Previewer, submitter Submitter) *Controller {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Controller{
		ctx:       ctx,
		previewer: previewer,
		submitter: submitter,
		state:     Idle{},
	}
}

// State returns the current workflow state.
func (c *Controller) State() State {
	return c.state
}

// Selection returns the current file, which may still be waiting on its
// preview.
func (c *Controller) Selection() intake.File {
	return c.selection
}

// ErrorMessage returns the message to display, if any. A notice is always
// newer than the failure it is shown over, so it takes precedence.
func (c *Controller) ErrorMessage() string {
	if c.notice != "" {
		return c.notice
	}
	if failed, ok := c.state.(Failed); ok {
		return failed.Message
	}
	return ""
}

// Notice returns the transient message set by the last rejected action.
func (c *Controller) Notice() string {
	return c.notice
}

// Busy reports whether a preview or a prediction is outstanding.
func (c *Controller) Busy() bool {
	if _, ok := c.state.(Submitting); ok {
		return true
	}
	return c.previewPending()
}

func (c *Controller) previewPending() bool {
	_, idle := c.state.(Idle)
	return idle && !c.selection.IsZero()
}

// SelectFile validates f and, when accepted, makes it the current selection
// and starts its preview. A rejected file leaves state and selection
// untouched.
func (c *Controller) SelectFile(f intake.File) tea.Cmd {
	accepted, err := intake.Validate(f)
	if err != nil {
		log.Info().
			Str("file", f.Name).
			Str("media_type", f.MediaType).
			Msg("selection rejected")
		c.notice = err.Error()
		return nil
	}

	c.selection = accepted
	c.state = Idle{}
	c.notice = ""

	log.Info().
		Str("file", accepted.Name).
		Str("file_id", accepted.ID.String()).
		Int64("size", accepted.Size).
		Msg("file selected")

	return c.previewCmd(accepted)
}

// SelectPath builds a file from path and selects it.
func (c *Controller) SelectPath(path string) tea.Cmd {
	f, err := intake.FromPath(path)
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("failed to open selection")
		c.notice = fmt.Sprintf("Could not open %s", filepath.Base(path))
		return nil
	}
	return c.SelectFile(f)
}

// Submit starts a prediction for the previewed file. It is a no-op while a
// prediction is in flight.
func (c *Controller) Submit() tea.Cmd {
	if _, ok := c.state.(Submitting); ok {
		return nil
	}

	f, rep, ok := Loaded(c.state)
	if !ok {
		if c.previewPending() {
			c.notice = PreviewPendingMessage
		} else {
			c.notice = SelectFirstMessage
		}
		return nil
	}

	c.state = Submitting{File: f, Preview: rep}
	c.notice = ""

	log.Info().
		Str("file", f.Name).
		Str("file_id", f.ID.String()).
		Msg("submitting image")

	return c.predictCmd(f)
}

// OpenFilePicker asks the shell to show its picker.
func (c *Controller) OpenFilePicker() tea.Cmd {
	return func() tea.Msg {
		return PickerRequestedMsg{}
	}
}

// Update applies a completion message. It returns false when msg is not a
// workflow message or is stale.
func (c *Controller) Update(msg tea.Msg) bool {
	switch msg := msg.(type) {
	case PreviewLoadedMsg:
		return c.applyPreview(msg)
	case PredictionMsg:
		return c.applyPrediction(msg)
	}
	return false
}

func (c *Controller) applyPreview(msg PreviewLoadedMsg) bool {
	if msg.FileID != c.selection.ID || !c.previewPending() {
		log.Debug().Str("file_id", msg.FileID.String()).Msg("dropping stale preview")
		return false
	}

	if msg.Err != nil {
		log.Warn().Err(msg.Err).Str("file", c.selection.Name).Msg("preview failed")
		c.notice = previewMessage(msg.Err)
		c.selection = intake.File{}
		return true
	}

	c.state = Ready{File: c.selection, Preview: msg.Preview}
	return true
}

func (c *Controller) applyPrediction(msg PredictionMsg) bool {
	submitting, ok := c.state.(Submitting)
	if !ok || msg.FileID != submitting.File.ID {
		log.Debug().Str("file_id", msg.FileID.String()).Msg("dropping stale prediction")
		return false
	}

	if msg.Err != nil {
		message := predict.UserMessage(msg.Err)
		log.Warn().Err(msg.Err).Str("file", submitting.File.Name).Msg("prediction failed")
		c.state = Failed{File: submitting.File, Preview: submitting.Preview, Message: message}
		return true
	}
	if msg.Result == nil {
		c.state = Failed{File: submitting.File, Preview: submitting.Preview, Message: predict.GenericMessage}
		return true
	}

	log.Info().
		Str("file", submitting.File.Name).
		Str("predicted_class", msg.Result.PredictedClass).
		Float64("confidence", msg.Result.Confidence).
		Msg("prediction received")

	c.state = Succeeded{File: submitting.File, Preview: submitting.Preview, Result: *msg.Result}
	return true
}

func (c *Controller) previewCmd(f intake.File) tea.Cmd {
	ctx, previewer := c.ctx, c.previewer
	return func() tea.Msg {
		rep, err := previewer.Generate(ctx, f)
		return PreviewLoadedMsg{FileID: f.ID, Preview: rep, Err: err}
	}
}

func (c *Controller) predictCmd(f intake.File) tea.Cmd {
	ctx, submitter := c.ctx, c.submitter
	return func() tea.Msg {
		result, err := submitter.Predict(ctx, f)
		return PredictionMsg{FileID: f.ID, Result: result, Err: err}
	}
}

func previewMessage(err error) string {
	var readErr *preview.ReadError
	if errors.As(err, &readErr) {
		return readErr.Error()
	}
	return fmt.Sprintf("Could not preview file: %v", err)
}
