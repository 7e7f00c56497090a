package llm

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/adk/agent"
	"google.golang.org/adk/agent/llmagent"
	"google.golang.org/adk/model/gemini"
	"google.golang.org/adk/runner"
	"google.golang.org/adk/session"
	"google.golang.org/genai"
)

const agentInstruction = `You are a recruitment pipeline assistant.
The first part of every message contains the full instructions for the current task.
Follow them exactly and answer only with the output they ask for.`

// AgentClient routes requests through an adk llm agent. Every request runs in its
// own in-memory session that is deleted afterwards, so phases never share history.
type AgentClient struct {
	name     string
	model    string
	runner   *runner.Runner
	sessions session.Service
}

func NewAgentClient(ctx context.Context, cfg VertexConfig, agentName string) (*AgentClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ExportCredentials(cfg.KeyPath); err != nil {
		return nil, err
	}
	model, err := gemini.NewModel(ctx, cfg.Model, &genai.ClientConfig{
		Project:  cfg.Project,
		Location: cfg.Location,
		Backend:  genai.BackendVertexAI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create model: %v", err)
	}

	pipelineAgent, err := llmagent.New(llmagent.Config{
		Name:        agentName,
		Model:       model,
		Description: "Runs one recruitment pipeline phase",
		Instruction: agentInstruction,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create agent: %v", err)
	}

	sessions := session.InMemoryService()
	r, err := runner.New(runner.Config{
		AppName:        pipelineAgent.Name(),
		Agent:          pipelineAgent,
		SessionService: sessions,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create runner: %w", err)
	}

	return &AgentClient{name: pipelineAgent.Name(), model: cfg.Model, runner: r, sessions: sessions}, nil
}

func (a *AgentClient) Name() string { return "Agent:" + a.model }

func (a *AgentClient) Generate(ctx context.Context, req Request) (output string, err error) {
	created, err := a.sessions.Create(ctx, &session.CreateRequest{
		AppName:   a.name,
		UserID:    "recruitflow",
		SessionID: uuid.NewString(),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	defer endSession(context.WithoutCancel(ctx), a.sessions, &session.DeleteRequest{
		AppName:   created.Session.AppName(),
		UserID:    created.Session.UserID(),
		SessionID: created.Session.ID(),
	}, &err)

	stream := a.runner.Run(ctx, created.Session.UserID(), created.Session.ID(),
		genai.NewContentFromParts(toGenaiParts(req.Parts), genai.RoleUser),
		agent.RunConfig{},
	)

	for event, err := range stream {
		if err != nil {
			return "", err
		}
		if event != nil && event.IsFinalResponse() && event.Content != nil && len(event.Content.Parts) > 0 {
			output = event.Content.Parts[0].Text
		}
	}
	if output == "" {
		return "", ErrEmptyResponse
	}
	return output, nil
}

// endSession deletes a request's session. A failed delete becomes the request's
// error unless it already failed.
func endSession(ctx context.Context, sessions session.Service, req *session.DeleteRequest, errp *error) {
	if err := sessions.Delete(ctx, req); err != nil && *errp == nil {
		*errp = fmt.Errorf("failed to delete session: %w", err)
	}
}
