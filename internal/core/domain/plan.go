package domain

import "errors"

var (
	ErrPlanNotFound    = errors.New("plan not found")
	ErrInvalidDuration = errors.New("duration must be at least one day")
	ErrReversedRange   = errors.New("start book comes after end book")
	ErrPlanNameEmpty   = errors.New("plan name cannot be empty")
)

type PlanTask struct {
	ID          string `json:"id"`
	Day         int    `json:"day"`
	Book        string `json:"book"`
	Chapter     int    `json:"chapter"`
	IsCompleted bool   `json:"isCompleted"`
}

type ReadingPlan struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Description  string     `json:"description"`
	DurationDays int        `json:"durationDays"`
	Progress     int        `json:"progress"`
	Tasks        []PlanTask `json:"tasks"`
}

// PlanDefinition describes a plan before its tasks are generated.
type PlanDefinition struct {
	ID           string `json:"id" toml:"id"`
	Key          string `json:"key" toml:"key"`
	Name         string `json:"name" toml:"name"`
	Description  string `json:"description" toml:"description"`
	StartBook    string `json:"startBook" toml:"start_book"`
	EndBook      string `json:"endBook" toml:"end_book"`
	DurationDays int    `json:"durationDays" toml:"duration_days"`
}

func (p *ReadingPlan) CompletedTasks() int {
	n := 0
	for _, t := range p.Tasks {
		if t.IsCompleted {
			n++
		}
	}
	return n
}

// RecomputeProgress derives Progress from the task set, rounding half up.
func (p *ReadingPlan) RecomputeProgress() {
	p.Progress = ProgressPercent(p.CompletedTasks(), len(p.Tasks))
}

func (p *ReadingPlan) TasksForDay(day int) []PlanTask {
	tasks := []PlanTask{}
	for _, t := range p.Tasks {
		if t.Day == day {
			tasks = append(tasks, t)
		}
	}
	return tasks
}

func (p *ReadingPlan) FindTask(taskID string) int {
	for i, t := range p.Tasks {
		if t.ID == taskID {
			return i
		}
	}
	return -1
}

// Clone copies the task slice so the result can be mutated independently.
func (p ReadingPlan) Clone() ReadingPlan {
	tasks := make([]PlanTask, len(p.Tasks))
	copy(tasks, p.Tasks)
	p.Tasks = tasks
	return p
}

func ProgressPercent(completed, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*completed + total) / (2 * total)
}

func ClonePlans(plans []ReadingPlan) []ReadingPlan {
	out := make([]ReadingPlan, len(plans))
	for i, p := range plans {
		out[i] = p.Clone()
	}
	return out
}

// MergePlans overlays the completion flags of stored plans onto freshly
// generated ones, matching tasks by id. Stored plans missing from fresh are
// appended unchanged. Progress is recomputed for every plan.
func MergePlans(stored, fresh []ReadingPlan) []ReadingPlan {
	byID := make(map[string]ReadingPlan, len(stored))
	for _, p := range stored {
		byID[p.ID] = p
	}

	seen := make(map[string]bool, len(fresh))
	merged := make([]ReadingPlan, 0, len(fresh)+len(stored))

	for _, f := range fresh {
		plan := f.Clone()
		seen[plan.ID] = true

		if old, ok := byID[plan.ID]; ok {
			done := make(map[string]bool, len(old.Tasks))
			for _, t := range old.Tasks {
				if t.IsCompleted {
					done[t.ID] = true
				}
			}
			for i := range plan.Tasks {
				plan.Tasks[i].IsCompleted = done[plan.Tasks[i].ID]
			}
		}

		plan.RecomputeProgress()
		merged = append(merged, plan)
	}

	for _, s := range stored {
		if seen[s.ID] {
			continue
		}
		seen[s.ID] = true
		plan := s.Clone()
		plan.RecomputeProgress()
		merged = append(merged, plan)
	}

	return merged
}
