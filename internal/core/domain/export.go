package domain

import "errors"

const AppName = "Lectio"

var ErrEmptyExport = errors.New("export produced an empty document")

type PlanProgress struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Progress       int    `json:"progress"`
	CompletedTasks int    `json:"completedTasks"`
}

type ExportDocument struct {
	App           string         `json:"app"`
	ExportDate    string         `json:"exportDate"`
	Stats         UserStats      `json:"stats"`
	PlansProgress []PlanProgress `json:"plansProgress"`
}
