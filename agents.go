package main

import (
	"context"
	"sync"

	"github.com/muhammadolammi/recruitflow/internal/config"
	"github.com/muhammadolammi/recruitflow/internal/llm"
)

const agentName = "recruitment_pipeline"

// newGenerator builds the model client selected by MODEL_TRANSPORT.
func newGenerator(ctx context.Context, cfg *config.Config) (llm.Generator, error) {
	if cfg.Vertex.Transport == config.TransportAgent {
		a, err := llm.NewAgentClient(ctx, cfg.LLM(), agentName)
		if err != nil {
			return nil, err
		}
		return a, nil
	}
	g, err := llm.NewGeminiClient(ctx, cfg.LLM())
	if err != nil {
		return nil, err
	}
	return g, nil
}

// lazyGenerator defers client construction to the first request, so a phase that
// stops on a missing input never touches the model endpoint.
type lazyGenerator struct {
	name  string
	build func(ctx context.Context) (llm.Generator, error)

	once sync.Once
	gen  llm.Generator
	err  error
}

func newLazyGenerator(cfg *config.Config) (*lazyGenerator, error) {
	if err := cfg.LLM().Validate(); err != nil {
		return nil, err
	}
	return &lazyGenerator{
		name: cfg.Vertex.Transport + ":" + cfg.Vertex.Model,
		build: func(ctx context.Context) (llm.Generator, error) {
			return newGenerator(ctx, cfg)
		},
	}, nil
}

func (l *lazyGenerator) Name() string { return l.name }

func (l *lazyGenerator) Generate(ctx context.Context, req llm.Request) (string, error) {
	l.once.Do(func() { l.gen, l.err = l.build(ctx) })
	if l.err != nil {
		return "", l.err
	}
	return l.gen.Generate(ctx, req)
}
