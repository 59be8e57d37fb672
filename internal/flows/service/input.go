package service

import (
	"strings"

	"github.com/flowforge-labs/flowforge-backend/internal/flows/llm"
)

type InputMode string

const (
	ModeText  InputMode = "text"
	ModeImage InputMode = "image"
)

// UploadedImage carries one screenshot as a data URL
// (data:image/png;base64,<payload>).
type UploadedImage struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Data string `json:"data"`
}

type GenerateInput struct {
	Text   string
	Images []UploadedImage
	Mode   InputMode
}

// buildContent turns the raw input into the user message blocks. Returns
// ErrEmptyInput when the active mode has nothing usable.
func buildContent(in GenerateInput) ([]llm.ContentBlock, error) {
	switch in.Mode {
	case ModeText:
		text := strings.TrimSpace(in.Text)
		if text == "" {
			return nil, ErrEmptyInput
		}
		return []llm.ContentBlock{
			llm.TextBlock(textPreamble + text + textInstructions),
		}, nil

	case ModeImage:
		if len(in.Images) == 0 {
			return nil, ErrEmptyInput
		}
		content := []llm.ContentBlock{llm.TextBlock(imagePreamble)}
		for _, img := range in.Images {
			mediaType, data, ok := splitDataURL(img.Data)
			if !ok {
				// Original behavior: skip malformed images rather than abort.
				continue
			}
			content = append(content, llm.ImageBlock(mediaType, data))
		}
		if len(content) == 1 {
			return nil, ErrEmptyInput
		}
		return content, nil
	}

	return nil, ErrEmptyInput
}

// splitDataURL decomposes "data:image/png;base64,<payload>" into the media
// type and the raw base64 payload.
func splitDataURL(dataURL string) (mediaType, data string, ok bool) {
	parts := strings.SplitN(dataURL, ",", 2)
	if len(parts) < 2 || parts[1] == "" {
		return "", "", false
	}

	meta := strings.SplitN(parts[0], ";", 2)[0]
	typeParts := strings.SplitN(meta, ":", 2)
	if len(typeParts) < 2 || typeParts[1] == "" {
		return "", "", false
	}

	return typeParts[1], parts[1], true
}
