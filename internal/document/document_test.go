package document

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/muhammadolammi/recruitflow/internal/workflow"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	objects map[string][]byte
	keys    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, key string) ([]byte, error) {
	f.keys = append(f.keys, key)
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func TestOpen_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "your_cv_file.pdf")
	_, err := Open(context.Background(), path, nil)

	var missing *workflow.MissingInputError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, path, missing.Path)
}

func TestOpen_PlainText(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.txt")
	require.NoError(t, os.WriteFile(path, []byte("Jane Doe\nGo developer"), 0o644))

	doc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, MIMEText, doc.MIMEType)

	part := doc.Part()
	assert.False(t, part.IsBlob())
	assert.Contains(t, part.Text, "cv.txt")
	assert.Contains(t, part.Text, "Go developer")
}

func TestOpen_UnreadablePDFIsStillAttached(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cv.pdf")
	data := []byte("%PDF-1.4 truncated")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	doc, err := Open(context.Background(), path, nil)
	require.NoError(t, err)
	assert.Equal(t, MIMEPDF, doc.MIMEType)
	assert.Zero(t, doc.Pages)
	assert.Error(t, doc.InspectErr)

	part := doc.Part()
	assert.True(t, part.IsBlob())
	assert.Equal(t, MIMEPDF, part.MIMEType)
	assert.Equal(t, data, part.Data)
}

func TestOpen_Remote(t *testing.T) {
	f := &fakeFetcher{objects: map[string][]byte{"cvs/jane.txt": []byte("remote cv")}}

	doc, err := Open(context.Background(), "r2://cvs/jane.txt", f)
	require.NoError(t, err)
	assert.Equal(t, []string{"cvs/jane.txt"}, f.keys)
	assert.Equal(t, "remote cv", doc.Text)

	_, err = Open(context.Background(), "r2://cvs/other.pdf", f)
	assert.ErrorContains(t, err, "failed to download")

	_, err = Open(context.Background(), "r2://cvs/jane.txt", nil)
	assert.ErrorContains(t, err, "no object storage")
}

func TestParse_Unsupported(t *testing.T) {
	_, err := Parse("cv.png", "image/png", []byte{0x89, 'P', 'N', 'G'})
	assert.ErrorContains(t, err, "unsupported file type")
}

func TestDetectMIME(t *testing.T) {
	assert.Equal(t, MIMEPDF, DetectMIME("CV-IT-JP.PDF", nil))
	assert.Equal(t, MIMEDOCX, DetectMIME("cv.docx", nil))
	assert.Equal(t, MIMEText, DetectMIME("cv", []byte("just some text")))
	assert.Equal(t, MIMEPDF, DetectMIME("cv", []byte("%PDF-1.7\n")))
}
