package encounters

import (
	"context"
	"sync"

	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

type inMemoryRepository struct {
	mu          sync.RWMutex
	encounters  map[string]*combat.Encounter
	byAdventure map[string][]string // adventureID -> encounter IDs
}

// NewInMemoryRepository creates a new in-memory encounter repository
func NewInMemoryRepository() Repository {
	return &inMemoryRepository{
		encounters:  make(map[string]*combat.Encounter),
		byAdventure: make(map[string][]string),
	}
}

// Create stores a new encounter
func (r *inMemoryRepository) Create(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidRequest("encounter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; exists {
		return engerr.Conflictf("encounter with ID %s already exists", encounter.ID)
	}

	r.encounters[encounter.ID] = encounter
	r.byAdventure[encounter.AdventureID] = append(r.byAdventure[encounter.AdventureID], encounter.ID)

	return nil
}

// Get retrieves an encounter by ID
func (r *inMemoryRepository) Get(ctx context.Context, id string) (*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounter, exists := r.encounters[id]
	if !exists {
		return nil, engerr.NotFoundf("encounter not found: %s", id)
	}

	return encounter, nil
}

// Update modifies an existing encounter
func (r *inMemoryRepository) Update(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidRequest("encounter cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.encounters[encounter.ID]; !exists {
		return engerr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	r.encounters[encounter.ID] = encounter
	return nil
}

// Delete removes an encounter
func (r *inMemoryRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	encounter, exists := r.encounters[id]
	if !exists {
		return engerr.NotFoundf("encounter not found: %s", id)
	}

	delete(r.encounters, id)

	adventureEncounters := r.byAdventure[encounter.AdventureID]
	for i, eid := range adventureEncounters {
		if eid == id {
			r.byAdventure[encounter.AdventureID] = append(adventureEncounters[:i], adventureEncounters[i+1:]...)
			break
		}
	}

	return nil
}

// GetByAdventure retrieves all encounters for an adventure
func (r *inMemoryRepository) GetByAdventure(ctx context.Context, adventureID string) ([]*combat.Encounter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	encounterIDs := r.byAdventure[adventureID]
	encounters := make([]*combat.Encounter, 0, len(encounterIDs))

	for _, id := range encounterIDs {
		if encounter, exists := r.encounters[id]; exists {
			encounters = append(encounters, encounter)
		}
	}

	return encounters, nil
}
