package llm

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

func TestToGenaiParts(t *testing.T) {
	pdf := []byte("%PDF-1.4")
	parts := toGenaiParts([]Part{TextPart("instructions"), BlobPart(pdf, "application/pdf")})

	require.Len(t, parts, 2)
	assert.Equal(t, "instructions", parts[0].Text)
	assert.Nil(t, parts[0].InlineData)
	require.NotNil(t, parts[1].InlineData)
	assert.Equal(t, pdf, parts[1].InlineData.Data)
	assert.Equal(t, "application/pdf", parts[1].InlineData.MIMEType)
}

func TestFirstText(t *testing.T) {
	_, err := firstText(nil)
	assert.ErrorIs(t, err, ErrEmptyResponse)

	_, err = firstText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{{}}})
	assert.ErrorIs(t, err, ErrEmptyResponse)

	got, err := firstText(&genai.GenerateContentResponse{Candidates: []*genai.Candidate{
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "first"}, {Text: "second"}}}},
		{Content: &genai.Content{Parts: []*genai.Part{{Text: "other candidate"}}}},
	}})
	require.NoError(t, err)
	assert.Equal(t, "first", got)
}

func TestVertexConfig_Validate(t *testing.T) {
	cfg := VertexConfig{Project: "p", Location: "us-central1", Model: "gemini-2.5-pro"}
	assert.NoError(t, cfg.Validate())

	cfg.Project = ""
	assert.ErrorContains(t, cfg.Validate(), "VERTEX_PROJECT")
}

func TestExportCredentials(t *testing.T) {
	t.Setenv("GOOGLE_APPLICATION_CREDENTIALS", "")

	require.NoError(t, ExportCredentials(""))
	assert.Equal(t, "", os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))

	assert.Error(t, ExportCredentials(filepath.Join(t.TempDir(), "missing.json")))

	key := filepath.Join(t.TempDir(), "key.json")
	require.NoError(t, os.WriteFile(key, []byte(`{}`), 0o600))
	require.NoError(t, ExportCredentials(key))
	assert.Equal(t, key, os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"))
}

func TestEndSession(t *testing.T) {
	sessions := session.InMemoryService()
	ctx := context.Background()

	var err error
	endSession(ctx, sessions, &session.DeleteRequest{}, &err)
	assert.ErrorContains(t, err, "failed to delete session")

	prior := errors.New("stream failed")
	err = prior
	endSession(ctx, sessions, &session.DeleteRequest{}, &err)
	assert.Same(t, prior, err)

	created, createErr := sessions.Create(ctx, &session.CreateRequest{AppName: "app", UserID: "u", SessionID: "s1"})
	require.NoError(t, createErr)
	err = nil
	endSession(ctx, sessions, &session.DeleteRequest{
		AppName:   created.Session.AppName(),
		UserID:    created.Session.UserID(),
		SessionID: created.Session.ID(),
	}, &err)
	assert.NoError(t, err)
}
