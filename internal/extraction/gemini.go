package extraction

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Gemini implements Extractor using Google Gemini. Each call uploads the
// image through the Files API, then generates over the uploaded reference
// plus the shared prompt, mirroring the two-phase flow the Files API
// expects. One attempt per request, no retries.
type Gemini struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGemini creates a Gemini-backed Extractor.
func NewGemini(apiKey string, modelName string) (*Gemini, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}
	if modelName == "" {
		modelName = "gemini-2.5-flash"
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("creating gemini client: %w", err)
	}

	return &Gemini{
		client: client,
		model:  client.GenerativeModel(modelName),
	}, nil
}

// Extract uploads the image and returns the model's raw text response.
func (g *Gemini) Extract(ctx context.Context, imageData []byte, contentType string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	// Everything is normalized to PNG before upload; some memo photos
	// arrive as HEIC or PDF.
	finalData, mimeType, _, err := prepareImageData(imageData, contentType)
	if err != nil {
		return "", &UploadError{Err: err}
	}

	file, err := g.client.UploadFile(ctx, "", bytes.NewReader(finalData), &genai.UploadFileOptions{
		MIMEType: mimeType,
	})
	if err != nil {
		return "", &UploadError{Err: err}
	}
	if file.URI == "" {
		return "", &UploadError{Err: fmt.Errorf("no file URI returned")}
	}

	resp, err := g.model.GenerateContent(ctx,
		genai.FileData{MIMEType: file.MIMEType, URI: file.URI},
		genai.Text(cashMemoPrompt),
	)
	if err != nil {
		return "", &GenerationError{Err: err}
	}

	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", &GenerationError{Err: fmt.Errorf("no response from gemini")}
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if text, ok := part.(genai.Text); ok {
			out.WriteString(string(text))
		}
	}

	return out.String(), nil
}

// Close closes the underlying client.
func (g *Gemini) Close() error {
	return g.client.Close()
}
