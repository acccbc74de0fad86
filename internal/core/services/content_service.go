package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

// ContentService turns provider output into typed content. Every error it
// returns wraps either domain.ErrProviderFailure or domain.ErrMalformedContent.
type ContentService struct {
	gen domain.ContentGenerator
}

func NewContentService(gen domain.ContentGenerator) *ContentService {
	return &ContentService{gen: gen}
}

func (s *ContentService) DailyPause(ctx context.Context) (*domain.DailyPause, error) {
	prompt := `Gere uma "Pausa Diária" cristã em Português Brasil. Inclua 1 versículo curto, uma reflexão de 1 minuto e uma pergunta prática. Retorne estritamente em JSON.`

	var pause domain.DailyPause
	if err := s.generate(ctx, prompt, domain.SchemaDailyPause, &pause); err != nil {
		return nil, err
	}
	if pause.Verse == "" || pause.Reflection == "" {
		return nil, fmt.Errorf("%w: daily pause without verse or reflection", domain.ErrMalformedContent)
	}
	return &pause, nil
}

func (s *ContentService) Devotional(ctx context.Context, theme string) (*domain.Devotional, error) {
	theme = strings.TrimSpace(theme)
	if theme == "" {
		theme = domain.DevotionalThemes[0]
	}

	prompt := fmt.Sprintf("Gere um devocional cristão edificante sobre o tema: %s. Inclua título, versículo base e conteúdo. Resposta em JSON.", theme)

	var devotional domain.Devotional
	if err := s.generate(ctx, prompt, domain.SchemaDevotional, &devotional); err != nil {
		return nil, err
	}
	if devotional.Title == "" || devotional.Content == "" {
		return nil, fmt.Errorf("%w: devotional without title or content", domain.ErrMalformedContent)
	}
	devotional.Theme = theme
	return &devotional, nil
}

// ChapterText satisfies domain.ChapterFetcher.
func (s *ContentService) ChapterText(ctx context.Context, book string, chapter int, version domain.BibleVersion) ([]domain.Verse, error) {
	prompt := fmt.Sprintf(`Retorne o texto de %s capítulo %d na versão %s. Responda apenas com um array JSON de objetos contendo "verse" (int) e "text" (string).`, book, chapter, version)

	var verses []domain.Verse
	if err := s.generate(ctx, prompt, domain.SchemaChapterText, &verses); err != nil {
		return nil, err
	}

	if !domain.ValidVerses(verses) {
		return nil, fmt.Errorf("%w: verse numbers must start at 1", domain.ErrMalformedContent)
	}
	return verses, nil
}

func (s *ContentService) generate(ctx context.Context, prompt string, schema domain.OutputSchema, out any) error {
	raw, err := s.gen.Generate(ctx, prompt, schema)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrProviderFailure, err)
	}

	if len(strings.TrimSpace(string(raw))) == 0 {
		return fmt.Errorf("%w: empty %s response", domain.ErrMalformedContent, schema)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", domain.ErrMalformedContent, schema, err)
	}
	return nil
}
