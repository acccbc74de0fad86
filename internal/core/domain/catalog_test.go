package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

func TestCatalog(t *testing.T) {
	t.Run("Canon has 66 books and 1189 chapters", func(t *testing.T) {
		assert.Len(t, domain.Catalog, 66)
		assert.Equal(t, 1189, domain.TotalChapters())
	})

	t.Run("Books are unique and have at least one chapter", func(t *testing.T) {
		seen := map[string]bool{}
		for _, b := range domain.Catalog {
			assert.False(t, seen[b.Name], "duplicate book %s", b.Name)
			assert.GreaterOrEqual(t, b.ChapterCount, 1)
			seen[b.Name] = true
		}
	})

	t.Run("Lookup of unknown book fails", func(t *testing.T) {
		_, err := domain.LookupBook("Enoque")
		assert.ErrorIs(t, err, domain.ErrUnknownBook)
		assert.Equal(t, -1, domain.BookIndex("Enoque"))
	})
}

func TestValidateChapter(t *testing.T) {
	assert.NoError(t, domain.ValidateChapter("Salmos", 150))
	assert.ErrorIs(t, domain.ValidateChapter("Salmos", 151), domain.ErrChapterOutOfRange)
	assert.ErrorIs(t, domain.ValidateChapter("Salmos", 0), domain.ErrChapterOutOfRange)
	assert.ErrorIs(t, domain.ValidateChapter("Nope", 1), domain.ErrUnknownBook)
}

func TestChapterNavigation(t *testing.T) {
	t.Run("Next inside a book", func(t *testing.T) {
		ref, ok := domain.NextChapter("João", 3)
		require.True(t, ok)
		assert.Equal(t, domain.ChapterRef{Book: "João", Chapter: 4}, ref)
	})

	t.Run("Next crosses into the following book", func(t *testing.T) {
		ref, ok := domain.NextChapter("Malaquias", 4)
		require.True(t, ok)
		assert.Equal(t, domain.ChapterRef{Book: "Mateus", Chapter: 1}, ref)
	})

	t.Run("Next stops at the end of the canon", func(t *testing.T) {
		_, ok := domain.NextChapter("Apocalipse", 22)
		assert.False(t, ok)
	})

	t.Run("Prev lands on last chapter of previous book", func(t *testing.T) {
		ref, ok := domain.PrevChapter("Êxodo", 1)
		require.True(t, ok)
		assert.Equal(t, domain.ChapterRef{Book: "Gênesis", Chapter: 50}, ref)
	})

	t.Run("Prev stops at Genesis 1", func(t *testing.T) {
		_, ok := domain.PrevChapter("Gênesis", 1)
		assert.False(t, ok)
	})
}

func TestParseVersion(t *testing.T) {
	v, err := domain.ParseVersion("")
	require.NoError(t, err)
	assert.Equal(t, domain.VersionKJA, v)

	v, err = domain.ParseVersion("NVI")
	require.NoError(t, err)
	assert.Equal(t, domain.VersionNVI, v)

	_, err = domain.ParseVersion("ESV")
	assert.ErrorIs(t, err, domain.ErrUnknownVersion)
}

func TestValidVerses(t *testing.T) {
	assert.True(t, domain.ValidVerses([]domain.Verse{{Verse: 1, Text: "a"}, {Verse: 2, Text: "b"}}))
	assert.True(t, domain.ValidVerses(nil))
	assert.False(t, domain.ValidVerses([]domain.Verse{{Verse: 0}}))
	assert.False(t, domain.ValidVerses([]domain.Verse{{Verse: 1}, {Verse: -1}}))
}
