package services

import (
	"context"
	"encoding/json"
	"errors"
	"log"

	"github.com/comitanigiacomo/lectio-sync-engine/internal/core/domain"
)

var _ StateObserver = (*PersistenceSync)(nil)

// PersistenceSync mirrors tracker state into the key-value store. Writes
// are best-effort: the in-memory tracker state stays authoritative.
type PersistenceSync struct {
	store   domain.KeyValueStore
	catalog *PlanCatalog
}

func NewPersistenceSync(store domain.KeyValueStore, catalog *PlanCatalog) *PersistenceSync {
	return &PersistenceSync{
		store:   store,
		catalog: catalog,
	}
}

func (s *PersistenceSync) Observe(ctx context.Context, state TrackerState, change Change) {
	if change.Plans {
		s.write(ctx, domain.PlansKey, state.Plans)
	}
	if change.Stats {
		s.write(ctx, domain.StatsKey, state.Stats)
	}
}

func (s *PersistenceSync) write(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("[SYNC] Failed to encode %s: %v", key, err)
		return
	}
	if err := s.store.Set(ctx, key, string(data)); err != nil {
		log.Printf("[SYNC] Failed to persist %s: %v", key, err)
	}
}

// Load rebuilds tracker state from the store. Missing or corrupt records
// fall back to defaults; it only fails when the plan catalog itself cannot
// be generated.
func (s *PersistenceSync) Load(ctx context.Context) (TrackerState, error) {
	fresh, err := s.catalog.Plans()
	if err != nil {
		return TrackerState{}, err
	}

	return TrackerState{
		Plans: s.loadPlans(ctx, fresh),
		Stats: s.loadStats(ctx),
	}, nil
}

// Defaults is the state a full reset returns to.
func (s *PersistenceSync) Defaults() (TrackerState, error) {
	plans, err := s.catalog.Plans()
	if err != nil {
		return TrackerState{}, err
	}
	return TrackerState{Plans: plans, Stats: domain.DefaultStats()}, nil
}

func (s *PersistenceSync) loadPlans(ctx context.Context, fresh []domain.ReadingPlan) []domain.ReadingPlan {
	raw, ok := s.read(ctx, domain.PlansKey)
	if !ok {
		return fresh
	}

	var stored []domain.ReadingPlan
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		log.Printf("[STORE] Corrupted plans record, falling back to defaults: %v", err)
		return fresh
	}

	return domain.MergePlans(stored, fresh)
}

func (s *PersistenceSync) loadStats(ctx context.Context) domain.UserStats {
	defaults := domain.DefaultStats()

	raw, ok := s.read(ctx, domain.StatsKey)
	if !ok {
		return defaults
	}

	stats, err := domain.MergeStatsDefaults([]byte(raw), defaults)
	if err != nil {
		log.Printf("[STORE] Corrupted stats record, falling back to defaults: %v", err)
		return domain.DefaultStats()
	}
	return stats
}

func (s *PersistenceSync) read(ctx context.Context, key string) (string, bool) {
	raw, err := s.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, domain.ErrKeyNotFound) {
			log.Printf("[STORE] Read error for %s: %v", key, err)
		}
		return "", false
	}
	return raw, true
}
