package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

func BuildExport(state TrackerState, now time.Time) domain.ExportDocument {
	doc := domain.ExportDocument{
		App:           domain.AppName,
		ExportDate:    now.UTC().Format(time.RFC3339),
		Stats:         state.Stats.Clone(),
		PlansProgress: make([]domain.PlanProgress, 0, len(state.Plans)),
	}

	for _, p := range state.Plans {
		doc.PlansProgress = append(doc.PlansProgress, domain.PlanProgress{
			ID:             p.ID,
			Name:           p.Name,
			Progress:       domain.ProgressPercent(p.CompletedTasks(), len(p.Tasks)),
			CompletedTasks: p.CompletedTasks(),
		})
	}
	return doc
}

// MarshalExport serializes an export document, refusing to return an
// empty or degenerate result.
func MarshalExport(doc domain.ExportDocument) ([]byte, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	if err := ValidateExport(data); err != nil {
		return nil, err
	}
	return data, nil
}

func ValidateExport(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "" || trimmed == "{}" || trimmed == "null" {
		return domain.ErrEmptyExport
	}
	return nil
}

func ExportFileName(now time.Time) string {
	return fmt.Sprintf("lectio-backup-%s.json", now.Format(domain.DateLayout))
}
