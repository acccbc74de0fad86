package provider

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var _ domain.ContentGenerator = (*GeminiGenerator)(nil)

var (
	ErrNoCandidates  = errors.New("no content generated")
	ErrNotText       = errors.New("generated content is not text")
	ErrUnknownSchema = errors.New("unknown output schema")
)

const (
	DefaultTextModel       = "gemini-1.5-flash"
	DefaultDevotionalModel = "gemini-1.5-pro"
)

type GeminiConfig struct {
	APIKey          string
	TextModel       string
	DevotionalModel string
}

// GeminiGenerator keeps one configured model per output schema. Models are
// built once and never mutated afterwards, so Generate is safe for
// concurrent use.
type GeminiGenerator struct {
	client *genai.Client
	models map[domain.OutputSchema]*genai.GenerativeModel
}

func NewGeminiGenerator(ctx context.Context, cfg GeminiConfig) (*GeminiGenerator, error) {
	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	textModel := cfg.TextModel
	if textModel == "" {
		textModel = DefaultTextModel
	}
	devotionalModel := cfg.DevotionalModel
	if devotionalModel == "" {
		devotionalModel = DefaultDevotionalModel
	}

	g := &GeminiGenerator{
		client: client,
		models: make(map[domain.OutputSchema]*genai.GenerativeModel),
	}
	g.models[domain.SchemaDailyPause] = jsonModel(client, textModel, domain.SchemaDailyPause)
	g.models[domain.SchemaChapterText] = jsonModel(client, textModel, domain.SchemaChapterText)
	g.models[domain.SchemaDevotional] = jsonModel(client, devotionalModel, domain.SchemaDevotional)

	return g, nil
}

func jsonModel(client *genai.Client, name string, schema domain.OutputSchema) *genai.GenerativeModel {
	model := client.GenerativeModel(name)
	model.ResponseMIMEType = "application/json"
	model.ResponseSchema = schemaFor(schema)
	return model
}

func (g *GeminiGenerator) Generate(ctx context.Context, prompt string, schema domain.OutputSchema) ([]byte, error) {
	model, ok := g.models[schema]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSchema, schema)
	}

	resp, err := model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, fmt.Errorf("failed to generate content: %w", err)
	}

	text, err := responseText(resp)
	if err != nil {
		return nil, err
	}
	return []byte(text), nil
}

func (g *GeminiGenerator) Close() error {
	return g.client.Close()
}

// responseText concatenates the text parts of the first candidate.
func responseText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrNoCandidates
	}

	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		text, ok := part.(genai.Text)
		if !ok {
			return "", ErrNotText
		}
		b.WriteString(string(text))
	}
	return b.String(), nil
}

func stringProp() *genai.Schema {
	return &genai.Schema{Type: genai.TypeString}
}

func schemaFor(schema domain.OutputSchema) *genai.Schema {
	switch schema {
	case domain.SchemaDailyPause:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"verse":      stringProp(),
				"reference":  stringProp(),
				"reflection": stringProp(),
				"question":   stringProp(),
			},
			Required: []string{"verse", "reference", "reflection", "question"},
		}

	case domain.SchemaDevotional:
		return &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"title":   stringProp(),
				"verse":   stringProp(),
				"content": stringProp(),
			},
			Required: []string{"title", "verse", "content"},
		}

	case domain.SchemaChapterText:
		return &genai.Schema{
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"verse": {Type: genai.TypeInteger},
					"text":  stringProp(),
				},
				Required: []string{"verse", "text"},
			},
		}
	}
	return nil
}
