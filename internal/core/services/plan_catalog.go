package services

import (
	"strings"

	"github.com/google/uuid"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var DefaultPlanDefinitions = []domain.PlanDefinition{
	{
		ID: "bible-1y", Key: "1y",
		Name:         "Bíblia Completa em 1 Ano",
		Description:  "A jornada definitiva: do Gênesis ao Apocalipse em 365 dias, cobrindo todos os 1.189 capítulos.",
		StartBook:    "Gênesis",
		EndBook:      "Apocalipse",
		DurationDays: 365,
	},
	{
		ID: "ot-270d", Key: "ot",
		Name:         "Antigo Testamento em 9 meses",
		Description:  "Explore as origens e as promessas: de Gênesis a Malaquias em uma jornada de 270 dias.",
		StartBook:    "Gênesis",
		EndBook:      "Malaquias",
		DurationDays: 270,
	},
	{
		ID: "pent-60d", Key: "pent",
		Name:         "O Pentateuco em 60 dias",
		Description:  "Os cinco livros da Lei: a base da fé de Gênesis a Deuteronômio em 2 meses intensivos.",
		StartBook:    "Gênesis",
		EndBook:      "Deuteronômio",
		DurationDays: 60,
	},
	{
		ID: "psalms-60d", Key: "psalms",
		Name:         "Salmos em 60 dias",
		Description:  "Uma jornada de louvor e oração através dos 150 salmos em 2 meses.",
		StartBook:    "Salmos",
		EndBook:      "Salmos",
		DurationDays: 60,
	},
	{
		ID: "proverbs-31d", Key: "prov",
		Name:         "Provérbios em 31 dias",
		Description:  "Sabedoria diária: um capítulo por dia para um mês repleto de conselhos divinos.",
		StartBook:    "Provérbios",
		EndBook:      "Provérbios",
		DurationDays: 31,
	},
	{
		ID: "psalms-prov-90d", Key: "psp",
		Name:         "Salmos & Provérbios em 90 dias",
		Description:  "O equilíbrio perfeito entre adoração e sabedoria em uma jornada de 3 meses.",
		StartBook:    "Salmos",
		EndBook:      "Provérbios",
		DurationDays: 90,
	},
	{
		ID: "nt-90d", Key: "nt",
		Name:         "Novo Testamento em 90 dias",
		Description:  "Foco total na nova aliança: de Mateus ao Apocalipse em uma jornada de 3 meses.",
		StartBook:    "Mateus",
		EndBook:      "Apocalipse",
		DurationDays: 90,
	},
	{
		ID: "gospels-30d", Key: "gsp",
		Name:         "Evangelhos em 30 dias",
		Description:  "A vida, morte e ressurreição de Cristo contada pelos quatro evangelistas em um mês.",
		StartBook:    "Mateus",
		EndBook:      "João",
		DurationDays: 30,
	},
}

// PlanCatalog produces the bootstrap plans from a fixed set of definitions.
type PlanCatalog struct {
	defs []domain.PlanDefinition
}

func NewPlanCatalog(defs []domain.PlanDefinition) *PlanCatalog {
	if len(defs) == 0 {
		defs = DefaultPlanDefinitions
	}
	return &PlanCatalog{defs: defs}
}

func (c *PlanCatalog) Definitions() []domain.PlanDefinition {
	out := make([]domain.PlanDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// Plans regenerates every catalog plan. Task ids are stable across calls.
func (c *PlanCatalog) Plans() ([]domain.ReadingPlan, error) {
	plans := make([]domain.ReadingPlan, 0, len(c.defs))
	for _, def := range c.defs {
		plan, err := BuildPlan(def)
		if err != nil {
			return nil, err
		}
		plans = append(plans, plan)
	}
	return plans, nil
}

type CreatePlanInput struct {
	Name         string
	Description  string
	StartBook    string
	EndBook      string
	DurationDays int
}

// NewCustomPlan builds a user-defined plan with a fresh id.
func NewCustomPlan(input CreatePlanInput) (domain.ReadingPlan, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return domain.ReadingPlan{}, domain.ErrPlanNameEmpty
	}

	id := "custom-" + uuid.NewString()
	return BuildPlan(domain.PlanDefinition{
		ID:           id,
		Name:         name,
		Description:  strings.TrimSpace(input.Description),
		StartBook:    input.StartBook,
		EndBook:      input.EndBook,
		DurationDays: input.DurationDays,
	})
}
