package intake

import "strings"

// RejectMessage is shown whenever a selected file is not an image.
const RejectMessage = "Please select a valid image file (JPG, PNG, SVG)"

// ValidationError reports a rejected selection.
type ValidationError struct {
	Name      string
	MediaType string
}

func (e *ValidationError) Error() string {
	return RejectMessage
}

// Validate accepts f if and only if its declared media type is in the image/
// category.
func Validate(f File) (File, error) {
	if !IsImageType(f.MediaType) {
		return File{}, &ValidationError{Name: f.Name, MediaType: f.MediaType}
	}
	return f, nil
}

// IsImageType reports whether a declared media type belongs to image/*.
// Parameters after ';' are ignored.
func IsImageType(mediaType string) bool {
	base, _, _ := strings.Cut(mediaType, ";")
	base = strings.ToLower(strings.TrimSpace(base))
	return strings.HasPrefix(base, "image/")
}
