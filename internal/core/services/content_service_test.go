package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/services"
)

type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, prompt string, schema domain.OutputSchema) ([]byte, error) {
	args := m.Called(ctx, prompt, schema)
	if b := args.Get(0); b != nil {
		return b.([]byte), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestContentService_DailyPause(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDailyPause).
			Return([]byte(`{"verse":"Aquietai-vos","reference":"Salmos 46:10","reflection":"Pare.","question":"Onde?"}`), nil).Once()

		pause, err := services.NewContentService(gen).DailyPause(ctx)
		require.NoError(t, err)
		assert.Equal(t, "Salmos 46:10", pause.Reference)
		gen.AssertExpectations(t)
	})

	t.Run("Fail: truncated JSON is malformed", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDailyPause).Return([]byte(`{"verse":"Aqui`), nil)

		_, err := services.NewContentService(gen).DailyPause(ctx)
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})

	t.Run("Fail: missing required fields is malformed", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDailyPause).Return([]byte(`{"question":"?"}`), nil)

		_, err := services.NewContentService(gen).DailyPause(ctx)
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})

	t.Run("Fail: provider error is wrapped", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDailyPause).Return(nil, errors.New("quota exceeded"))

		_, err := services.NewContentService(gen).DailyPause(ctx)
		assert.ErrorIs(t, err, domain.ErrProviderFailure)
		assert.NotErrorIs(t, err, domain.ErrMalformedContent)
	})
}

func TestContentService_Devotional(t *testing.T) {
	ctx := context.Background()
	payload := []byte(`{"title":"Descanso","verse":"Mateus 11:28","content":"Vinde a mim."}`)

	t.Run("Success: theme reaches the prompt and the result", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.MatchedBy(func(p string) bool {
			return strings.Contains(p, "Ansiedade")
		}), domain.SchemaDevotional).Return(payload, nil).Once()

		dev, err := services.NewContentService(gen).Devotional(ctx, "Ansiedade")
		require.NoError(t, err)
		assert.Equal(t, "Ansiedade", dev.Theme)
		assert.Equal(t, "Descanso", dev.Title)
		gen.AssertExpectations(t)
	})

	t.Run("Success: blank theme uses the first one", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDevotional).Return(payload, nil)

		dev, err := services.NewContentService(gen).Devotional(ctx, "  ")
		require.NoError(t, err)
		assert.Equal(t, domain.DevotionalThemes[0], dev.Theme)
	})

	t.Run("Fail: empty response is malformed", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaDevotional).Return([]byte("  "), nil)

		_, err := services.NewContentService(gen).Devotional(ctx, "Fé")
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})
}

func TestContentService_ChapterText(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaChapterText).
			Return([]byte(`[{"verse":1,"text":"No princípio"},{"verse":2,"text":"E a terra"}]`), nil)

		verses, err := services.NewContentService(gen).ChapterText(ctx, "Gênesis", 1, domain.VersionNVI)
		require.NoError(t, err)
		assert.Len(t, verses, 2)
	})

	t.Run("Fail: object instead of array is malformed", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaChapterText).Return([]byte(`{"verse":1}`), nil)

		_, err := services.NewContentService(gen).ChapterText(ctx, "Gênesis", 1, domain.VersionNVI)
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})

	t.Run("Fail: verse numbers start at one", func(t *testing.T) {
		gen := new(MockGenerator)
		gen.On("Generate", ctx, mock.Anything, domain.SchemaChapterText).Return([]byte(`[{"verse":0,"text":"?"}]`), nil)

		_, err := services.NewContentService(gen).ChapterText(ctx, "Gênesis", 1, domain.VersionNVI)
		assert.ErrorIs(t, err, domain.ErrMalformedContent)
	})
}
