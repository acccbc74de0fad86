package services

import (
	"context"
	"log"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

type Prefetcher interface {
	Enqueue(book string, chapter int, version domain.BibleVersion) bool
}

type ReadRecorder interface {
	RecordChapterRead(ctx context.Context) (domain.UserStats, error)
}

type ChapterView struct {
	Book    string              `json:"book"`
	Chapter int                 `json:"chapter"`
	Version domain.BibleVersion `json:"version"`
	Verses  []domain.Verse      `json:"verses"`
	Prev    *domain.ChapterRef  `json:"prev,omitempty"`
	Next    *domain.ChapterRef  `json:"next,omitempty"`
}

type BibleService struct {
	cache      *ContentCache
	fetch      domain.ChapterFetcher
	recorder   ReadRecorder
	prefetcher Prefetcher
}

func NewBibleService(cache *ContentCache, fetch domain.ChapterFetcher, recorder ReadRecorder, prefetcher Prefetcher) *BibleService {
	return &BibleService{
		cache:      cache,
		fetch:      fetch,
		recorder:   recorder,
		prefetcher: prefetcher,
	}
}

// ReadChapter loads a chapter through the cache. A non-empty result counts
// as a chapter read and schedules a prefetch of the next chapter of the
// same book.
func (s *BibleService) ReadChapter(ctx context.Context, book string, chapter int, version string) (*ChapterView, error) {
	if err := domain.ValidateChapter(book, chapter); err != nil {
		return nil, err
	}

	v, err := domain.ParseVersion(version)
	if err != nil {
		return nil, err
	}

	verses, err := s.cache.Get(ctx, book, chapter, v, s.fetch)
	if err != nil {
		return nil, err
	}

	view := &ChapterView{
		Book:    book,
		Chapter: chapter,
		Version: v,
		Verses:  verses,
	}
	if prev, ok := domain.PrevChapter(book, chapter); ok {
		view.Prev = &prev
	}
	if next, ok := domain.NextChapter(book, chapter); ok {
		view.Next = &next
	}

	if len(verses) == 0 {
		return view, nil
	}

	if s.recorder != nil {
		if _, err := s.recorder.RecordChapterRead(ctx); err != nil {
			log.Printf("[ERROR] Failed to record chapter read: %v", err)
		}
	}

	if s.prefetcher != nil && view.Next != nil && view.Next.Book == book {
		s.prefetcher.Enqueue(book, view.Next.Chapter, v)
	}

	return view, nil
}
