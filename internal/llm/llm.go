// Package llm is the boundary to the hosted model. A Generator takes one request made
// of ordered text and inline-binary parts and returns the model's reply text.
package llm

import (
	"context"
	"errors"
	"fmt"
	"os"
)

var ErrEmptyResponse = errors.New("empty model response")

// Part is either inline text or an inline binary attachment with its media type.
type Part struct {
	Text     string
	Data     []byte
	MIMEType string
}

func TextPart(text string) Part { return Part{Text: text} }

func BlobPart(data []byte, mimeType string) Part {
	return Part{Data: data, MIMEType: mimeType}
}

func (p Part) IsBlob() bool { return p.Data != nil }

// Request is built fresh for every phase invocation.
type Request struct {
	Phase string
	Parts []Part
}

type Generator interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// VertexConfig selects the Vertex AI project, region and model.
type VertexConfig struct {
	KeyPath  string
	Project  string
	Location string
	Model    string
}

func (c VertexConfig) Validate() error {
	if c.Project == "" {
		return errors.New("empty VERTEX_PROJECT in environment")
	}
	if c.Location == "" {
		return errors.New("empty VERTEX_LOCATION in environment")
	}
	if c.Model == "" {
		return errors.New("empty VERTEX_MODEL in environment")
	}
	return nil
}

// ExportCredentials points Google application default credentials at the
// service-account key. It must run before a client is constructed.
func ExportCredentials(keyPath string) error {
	if keyPath == "" {
		return nil
	}
	if _, err := os.Stat(keyPath); err != nil {
		return fmt.Errorf("service account key %s: %w", keyPath, err)
	}
	return os.Setenv("GOOGLE_APPLICATION_CREDENTIALS", keyPath)
}
