package workers

import (
	"context"
	"log"
	"time"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

const prefetchTimeout = 60 * time.Second

type ChapterCache interface {
	Get(ctx context.Context, book string, chapter int, version domain.BibleVersion, fetch domain.ChapterFetcher) ([]domain.Verse, error)
	Cached(ctx context.Context, book string, chapter int, version domain.BibleVersion) bool
}

type PrefetchJob struct {
	Book      string
	Chapter   int
	Version   domain.BibleVersion
	NotBefore time.Time
}

// PrefetchWorker warms the chapter cache in the background. Its only side
// effect is a cache write, so a prefetch that lands after the reader moved
// elsewhere cannot overwrite anything the reader sees.
type PrefetchWorker struct {
	cache ChapterCache
	fetch domain.ChapterFetcher
	delay time.Duration
	jobs  chan PrefetchJob
	now   func() time.Time
}

func NewPrefetchWorker(cache ChapterCache, fetch domain.ChapterFetcher, delay time.Duration) *PrefetchWorker {
	return &PrefetchWorker{
		cache: cache,
		fetch: fetch,
		delay: delay,
		jobs:  make(chan PrefetchJob, 100),
		now:   time.Now,
	}
}

func (w *PrefetchWorker) Start(ctx context.Context) {
	go func() {
		log.Println("Prefetch Worker started in background...")
		for {
			select {
			case job := <-w.jobs:
				w.processJob(ctx, job)
			case <-ctx.Done():
				log.Println("Prefetch Worker shutting down...")
				return
			}
		}
	}()
}

func (w *PrefetchWorker) Enqueue(book string, chapter int, version domain.BibleVersion) bool {
	job := PrefetchJob{
		Book:      book,
		Chapter:   chapter,
		Version:   version,
		NotBefore: w.now().Add(w.delay),
	}

	select {
	case w.jobs <- job:
		return true
	default:
		log.Printf("[PREFETCH] Queue full! Dropping job for %s %d", book, chapter)
		return false
	}
}

func (w *PrefetchWorker) processJob(ctx context.Context, job PrefetchJob) {
	if wait := job.NotBefore.Sub(w.now()); wait > 0 {
		timer := time.NewTimer(wait)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return
		}
	}

	if w.cache.Cached(ctx, job.Book, job.Chapter, job.Version) {
		return
	}

	jobCtx, cancel := context.WithTimeout(ctx, prefetchTimeout)
	defer cancel()

	if _, err := w.cache.Get(jobCtx, job.Book, job.Chapter, job.Version, w.fetch); err != nil {
		log.Printf("[PREFETCH] Failed to warm %s %d (%s): %v", job.Book, job.Chapter, job.Version, err)
		return
	}
	log.Printf("[PREFETCH] Warmed %s %d (%s)", job.Book, job.Chapter, job.Version)
}
