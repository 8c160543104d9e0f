package storage

import (
	"bytes"
	"fmt"
	"strings"

	rpdf "rsc.io/pdf"
)

// PDFPreview extracts the leading text of a PDF for the admin dashboard.
// The parser panics on malformed input, so the recover is load-bearing.
func PDFPreview(content []byte, maxLen int) (text string, err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("pdf parser panic: %v", recovered)
			text = ""
		}
	}()

	reader, err := rpdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", err
	}

	var builder strings.Builder
	for pageIndex := 1; pageIndex <= reader.NumPage(); pageIndex++ {
		page := reader.Page(pageIndex)
		if page.V.IsNull() {
			continue
		}
		for _, fragment := range page.Content().Text {
			builder.WriteString(fragment.S)
			builder.WriteString(" ")
		}
		if builder.Len() >= maxLen {
			break
		}
	}

	preview := strings.Join(strings.Fields(builder.String()), " ")
	if len(preview) > maxLen {
		preview = preview[:maxLen]
	}
	return preview, nil
}
