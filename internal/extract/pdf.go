package extract

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// maxPromptChars bounds how much datasheet text is sent to the model.
// Spec tables for a single product fit comfortably; marketing appendices
// past this point add nothing.
const maxPromptChars = 60_000

// PDFText extracts the plain text of an in-memory PDF, page by page.
func PDFText(document []byte) (string, error) {
	doc, err := fitz.NewFromMemory(document)
	if err != nil {
		return "", fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("PDF has no pages")
	}

	var sb strings.Builder
	for n := 0; n < doc.NumPage(); n++ {
		text, err := doc.Text(n)
		if err != nil {
			return "", fmt.Errorf("failed to extract text from page %d: %w", n+1, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
		if sb.Len() > maxPromptChars {
			break
		}
	}

	text := sb.String()
	if len(text) > maxPromptChars {
		text = text[:maxPromptChars]
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("PDF contains no extractable text")
	}
	return text, nil
}
