package gemini

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/genai"
)

type fakeModels struct {
	text     string
	err      error
	model    string
	prompt   string
	deadline bool
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, _ *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	_, f.deadline = ctx.Deadline()
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []*genai.Part{{Text: f.text}}},
		}},
	}, nil
}

func TestGenerator_Generate(t *testing.T) {
	fake := &fakeModels{text: "```html\n<!DOCTYPE html><h1>ok</h1>\n```\n"}
	g := newGenerator(fake, "gemini-test", time.Minute, zap.NewNop())

	out, err := g.Generate(context.Background(), "https://example.com", "<h1>src</h1>")
	require.NoError(t, err)

	assert.Equal(t, "<!DOCTYPE html><h1>ok</h1>", out)
	assert.Equal(t, "gemini-test", fake.model)
	assert.True(t, fake.deadline)
	assert.Contains(t, fake.prompt, "https://example.com")
	assert.Contains(t, fake.prompt, "<h1>src</h1>")
}

func TestGenerator_EmptyResponse(t *testing.T) {
	g := newGenerator(&fakeModels{text: "```html\n```"}, "m", 0, zap.NewNop())

	_, err := g.Generate(context.Background(), "https://example.com", "<p/>")
	assert.ErrorIs(t, err, ErrEmptyResponse)
}

func TestGenerator_ModelError(t *testing.T) {
	boom := errors.New("quota exceeded")
	g := newGenerator(&fakeModels{err: boom}, "m", 0, zap.NewNop())

	_, err := g.Generate(context.Background(), "https://example.com", "<p/>")
	assert.ErrorIs(t, err, boom)
}

func TestStripCodeFences(t *testing.T) {
	cases := map[string]string{
		"<p>x</p>":                 "<p>x</p>",
		"```html\n<p>x</p>\n```":   "<p>x</p>",
		"```\n<p>x</p>\n```":       "<p>x</p>",
		"  \n```html<p>x</p>```  ": "<p>x</p>",
		"<p>x</p>\n```":            "<p>x</p>",
	}
	for in, want := range cases {
		assert.Equal(t, want, StripCodeFences(in), in)
	}
}

func TestNewGenerator_RequiresKey(t *testing.T) {
	_, err := NewGenerator(context.Background(), "", "m", time.Second, zap.NewNop())
	assert.Error(t, err)
}
