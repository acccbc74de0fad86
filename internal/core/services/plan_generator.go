package services

import (
	"fmt"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

// GeneratePlanTasks partitions every chapter from startBook through endBook
// into durationDays consecutive slices. Day d receives the half-open range
// [floor((d-1)*T/D), floor(d*T/D)) of the flattened chapters, so day sizes
// differ by at most one and days may be empty when D > T.
func GeneratePlanTasks(planID, startBook, endBook string, durationDays int) ([]domain.PlanTask, error) {
	if durationDays < 1 {
		return nil, domain.ErrInvalidDuration
	}

	startIdx := domain.BookIndex(startBook)
	if startIdx < 0 {
		return nil, fmt.Errorf("start book %q: %w", startBook, domain.ErrUnknownBook)
	}
	endIdx := domain.BookIndex(endBook)
	if endIdx < 0 {
		return nil, fmt.Errorf("end book %q: %w", endBook, domain.ErrUnknownBook)
	}
	if startIdx > endIdx {
		return nil, domain.ErrReversedRange
	}

	var chapters []domain.ChapterRef
	for _, book := range domain.Catalog[startIdx : endIdx+1] {
		for ch := 1; ch <= book.ChapterCount; ch++ {
			chapters = append(chapters, domain.ChapterRef{Book: book.Name, Chapter: ch})
		}
	}

	total := len(chapters)
	tasks := make([]domain.PlanTask, 0, total)

	for day := 1; day <= durationDays; day++ {
		start := (day - 1) * total / durationDays
		end := day * total / durationDays

		for pos, ch := range chapters[start:end] {
			tasks = append(tasks, domain.PlanTask{
				ID:      TaskID(planID, day, pos, ch.Book, ch.Chapter),
				Day:     day,
				Book:    ch.Book,
				Chapter: ch.Chapter,
			})
		}
	}

	return tasks, nil
}

func TaskID(planID string, day, pos int, book string, chapter int) string {
	return fmt.Sprintf("plan-%s-day%d-ch%d-%s-%d", planID, day, pos, book, chapter)
}

// BuildPlan generates the tasks of a definition. The task id seed is the
// definition key, falling back to its id.
func BuildPlan(def domain.PlanDefinition) (domain.ReadingPlan, error) {
	seed := def.Key
	if seed == "" {
		seed = def.ID
	}

	tasks, err := GeneratePlanTasks(seed, def.StartBook, def.EndBook, def.DurationDays)
	if err != nil {
		return domain.ReadingPlan{}, fmt.Errorf("plan %s: %w", def.ID, err)
	}

	plan := domain.ReadingPlan{
		ID:           def.ID,
		Name:         def.Name,
		Description:  def.Description,
		DurationDays: def.DurationDays,
		Tasks:        tasks,
	}
	plan.RecomputeProgress()
	return plan, nil
}
