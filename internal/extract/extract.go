// Package extract pulls plain text out of uploaded documents. Payloads are
// processed entirely in memory; nothing is written to disk or object
// storage because document bytes only live for the duration of one request.
package extract

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nguyenthenguyen/docx"
)

// ErrUnsupported reports a document type the extractor cannot handle.
var ErrUnsupported = errors.New("unsupported document type")

// Text extracts plain text from an in-memory document. Supported types are
// PDF, DOCX and plain text, detected by magic bytes with the file extension
// as fallback.
func Text(data []byte, fileName string) (string, error) {
	if len(data) == 0 {
		return "", errors.New("empty document")
	}
	switch sniffType(data, fileName) {
	case typePDF:
		return extractPDF(data)
	case typeDOCX:
		return extractDOCX(data)
	case typePlain:
		return strings.TrimSpace(string(data)), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupported, filepath.Ext(fileName))
	}
}

const (
	typeUnknown = iota
	typePDF
	typeDOCX
	typePlain
)

func sniffType(data []byte, fileName string) int {
	if bytes.HasPrefix(data, []byte("%PDF-")) {
		return typePDF
	}
	// DOCX is a zip container.
	if bytes.HasPrefix(data, []byte("PK\x03\x04")) {
		return typeDOCX
	}
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".pdf":
		return typePDF
	case ".docx", ".doc":
		return typeDOCX
	case ".txt", ".md", "":
		return typePlain
	default:
		return typeUnknown
	}
}

func extractPDF(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	pdfReader, err := pdf.NewReader(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	plain, err := pdfReader.GetPlainText()
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, plain); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}

func extractDOCX(data []byte) (string, error) {
	reader := bytes.NewReader(data)
	doc, err := docx.ReadDocxFromMemory(reader, int64(len(data)))
	if err != nil {
		return "", err
	}
	defer doc.Close()
	return stripTags(doc.Editable().GetContent()), nil
}

// stripTags flattens document.xml markup into plain text, one line per
// paragraph.
func stripTags(raw string) string {
	raw = strings.ReplaceAll(raw, "</w:p>", "\n")
	var buf strings.Builder
	inTag := false
	for _, r := range raw {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			buf.WriteRune(r)
		}
	}
	return strings.TrimSpace(buf.String())
}
