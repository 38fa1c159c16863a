package extraction

import "context"

// Extractor sends a memo image to a multimodal model and returns the raw
// text response. The response is deliberately not parsed here; the caller
// owns the defensive JSON extraction.
type Extractor interface {
	// Extract uploads the image and asks the model for the structured
	// cash-memo JSON. The returned string is the model output verbatim.
	Extract(ctx context.Context, imageData []byte, contentType string) (string, error)
	// Close releases any client resources.
	Close() error
}

// UploadError means the service could not produce a usable reference for
// the uploaded image. No generation is attempted after it.
type UploadError struct {
	Err error
}

func (e *UploadError) Error() string {
	if e.Err == nil {
		return "file upload failed"
	}
	return "file upload failed: " + e.Err.Error()
}

func (e *UploadError) Unwrap() error { return e.Err }

// GenerationError means the model call itself failed (network or
// service-side) after a successful upload.
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return "generating content failed"
	}
	return "generating content: " + e.Err.Error()
}

func (e *GenerationError) Unwrap() error { return e.Err }
