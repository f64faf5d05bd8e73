package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"google.golang.org/genai"
)

var ErrEmptyResponse = errors.New("model returned an empty response")

// contentGenerator is satisfied by *genai.Models.
type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Generator asks a Gemini model to rebuild a page as one static HTML file.
type Generator struct {
	models  contentGenerator
	model   string
	timeout time.Duration
	logger  *zap.Logger
}

// NewGenerator creates a Gemini API client for the given model.
func NewGenerator(ctx context.Context, apiKey, model string, timeout time.Duration, logger *zap.Logger) (*Generator, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	return newGenerator(client.Models, model, timeout, logger), nil
}

func newGenerator(models contentGenerator, model string, timeout time.Duration, logger *zap.Logger) *Generator {
	return &Generator{models: models, model: model, timeout: timeout, logger: logger}
}

// Generate returns the model's HTML with any markdown code fence removed.
func (g *Generator) Generate(ctx context.Context, pageURL, html string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := g.models.GenerateContent(ctx, g.model, genai.Text(BuildPrompt(pageURL, html)), nil)
	if err != nil {
		g.logger.Error("gemini call failed", zap.String("model", g.model), zap.String("url", pageURL), zap.Error(err))
		return "", err
	}

	out := StripCodeFences(resp.Text())
	if out == "" {
		return "", ErrEmptyResponse
	}

	g.logger.Info("generated clone",
		zap.String("model", g.model),
		zap.String("url", pageURL),
		zap.Int("prompt_bytes", len(html)),
		zap.Int("html_bytes", len(out)),
		zap.Duration("duration", time.Since(start)),
	)
	return out, nil
}

// StripCodeFences trims whitespace and removes a leading ```html (or bare ```)
// fence and a trailing ``` fence.
func StripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```html") {
		s = s[len("```html"):]
	} else if strings.HasPrefix(s, "```") {
		s = s[len("```"):]
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// BuildPrompt renders the generation instructions for one page.
func BuildPrompt(pageURL, html string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "You are an expert web developer. Rebuild the web page originally served at %s as a single, self-contained HTML file.\n\n", pageURL)
	b.WriteString("Goal: the new file must visually replicate the original page from the source HTML below.\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("1. Put all CSS in one <style> block inside <head>.\n")
	fmt.Fprintf(&b, "2. Every <img> src must be an absolute URL. Resolve relative paths against %s (for example \"/images/pic.jpg\" becomes the same path on the original host).\n", pageURL)
	b.WriteString("3. Output static HTML and CSS only: no <script> tags, no inline event handlers such as onclick, no elements that exist only for scripted effects.\n")
	b.WriteString("4. All content must be visible. Override any opacity: 0 or visibility: hidden rules (for example with opacity: 1 !important).\n")
	b.WriteString("5. Do not inline images as base64, link to their absolute URLs.\n\n")
	b.WriteString("Source HTML:\n---\n")
	b.WriteString(html)
	b.WriteString("\n---\n\nRespond with the complete HTML document only.")
	return b.String()
}
