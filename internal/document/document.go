// Package document loads the candidate CV handed to the first phase.
package document

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/muhammadolammi/recruitflow/internal/llm"
	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"github.com/nguyenthenguyen/docx"
)

const (
	MIMEPDF  = "application/pdf"
	MIMEDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	MIMEText = "text/plain"

	// RemotePrefix marks a CV source stored in the object bucket.
	RemotePrefix = "r2://"
)

// Fetcher downloads an object key from remote storage.
type Fetcher interface {
	Fetch(ctx context.Context, key string) ([]byte, error)
}

type Document struct {
	Source   string
	MIMEType string
	Data     []byte
	// Text holds extracted text for formats the model cannot take inline.
	Text string
	// Pages is the PDF page count, zero when it could not be read.
	Pages int
	// InspectErr records why the PDF could not be parsed locally. The document is
	// still attached; the model may read what the local parser cannot.
	InspectErr error
}

// Open reads src from disk, or from remote storage when it carries the r2:// prefix.
// A missing local file is a *workflow.MissingInputError.
func Open(ctx context.Context, src string, remote Fetcher) (*Document, error) {
	var (
		data []byte
		err  error
		name = src
	)
	if key, ok := strings.CutPrefix(src, RemotePrefix); ok {
		if remote == nil {
			return nil, fmt.Errorf("no object storage configured for %s", src)
		}
		data, err = remote.Fetch(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("failed to download %s: %w", src, err)
		}
		name = path.Base(key)
	} else {
		data, err = os.ReadFile(src)
		if errors.Is(err, os.ErrNotExist) {
			return nil, &workflow.MissingInputError{Path: src, Hint: "place the CV file there or set CV_FILE"}
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}
	}
	return Parse(src, DetectMIME(name, data), data)
}

// Parse prepares data of the given media type for the model.
func Parse(source, mimeType string, data []byte) (*Document, error) {
	doc := &Document{Source: source, MIMEType: mimeType, Data: data}
	switch mimeType {
	case MIMEPDF:
		doc.Pages, doc.InspectErr = countPDFPages(data)
	case MIMEDOCX:
		text, err := extractDocxText(data)
		if err != nil {
			return nil, err
		}
		doc.Text = text
	case MIMEText:
		doc.Text = string(data)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", mimeType)
	}
	return doc, nil
}

// Part returns the PDF as an inline attachment and every other format as text.
func (d *Document) Part() llm.Part {
	if d.MIMEType == MIMEPDF {
		return llm.BlobPart(d.Data, d.MIMEType)
	}
	return llm.TextPart("CV document (" + filepath.Base(d.Source) + "):\n" + d.Text)
}

// DetectMIME prefers the file extension and falls back to content sniffing.
func DetectMIME(name string, data []byte) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".pdf":
		return MIMEPDF
	case ".docx":
		return MIMEDOCX
	case ".txt", ".md":
		return MIMEText
	}
	if t := mime.TypeByExtension(filepath.Ext(name)); t != "" {
		if mt, _, err := mime.ParseMediaType(t); err == nil {
			return mt
		}
	}
	mt, _, _ := mime.ParseMediaType(http.DetectContentType(data))
	return mt
}

func countPDFPages(data []byte) (pages int, err error) {
	// the pdf parser panics on some malformed xref tables
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("failed to read pdf: %v", r)
		}
	}()
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("failed to read pdf: %w", err)
	}
	return reader.NumPage(), nil
}

func extractDocxText(data []byte) (string, error) {
	doc, err := docx.ReadDocxFromMemory(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("failed to parse docx: %w", err)
	}
	defer doc.Close()

	return doc.Editable().GetContent(), nil
}
