package workflow

import (
	"github.com/google/uuid"

	"github.com/tatendakasirori/eye-disease-classification/internal/predict"
	"github.com/tatendakasirori/eye-disease-classification/internal/preview"
)

// PreviewLoadedMsg carries a finished preview for the file FileID.
type PreviewLoadedMsg struct {
	FileID  uuid.UUID
	Preview preview.Representation
	Err     error
}

// PredictionMsg carries the outcome of submitting the file FileID.
type PredictionMsg struct {
	FileID uuid.UUID
	Result *predict.Result
	Err    error
}

// PickerRequestedMsg asks the shell to show its file picker.
type PickerRequestedMsg struct{}
