package encounters

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

const (
	// Key patterns
	encounterKeyPrefix     = "encounter:"
	adventureEncountersKey = "adventure:%s:encounters"

	// TTL for encounters (24 hours); fights that sit idle longer are stale
	encounterTTL = 24 * time.Hour
)

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client       redis.UniversalClient
	EncounterTTL time.Duration
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client       redis.UniversalClient
	encounterTTL time.Duration
}

// NewRedisRepository creates a new Redis-backed encounter repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg.Client == nil {
		panic("redis client is required")
	}

	ttl := cfg.EncounterTTL
	if ttl == 0 {
		ttl = encounterTTL
	}

	return &redisRepository{
		client:       cfg.Client,
		encounterTTL: ttl,
	}
}

// Create stores a new encounter
func (r *redisRepository) Create(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidRequest("encounter cannot be nil")
	}
	if encounter.ID == "" {
		return engerr.InvalidRequest("encounter ID cannot be empty")
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return engerr.Wrap(err, "failed to serialize encounter")
	}

	key := encounterKeyPrefix + encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return engerr.Wrap(err, "failed to check encounter existence")
	}
	if exists > 0 {
		return engerr.Conflictf("encounter with ID %s already exists", encounter.ID)
	}

	// Use pipeline for atomic operations
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, key, string(data), r.encounterTTL)
	pipe.SAdd(ctx, fmt.Sprintf(adventureEncountersKey, encounter.AdventureID), encounter.ID)

	if _, err := pipe.Exec(ctx); err != nil {
		return engerr.Wrap(err, "failed to create encounter")
	}

	return nil
}

// Get retrieves an encounter by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*combat.Encounter, error) {
	key := encounterKeyPrefix + id

	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, engerr.NotFoundf("encounter not found: %s", id)
		}
		return nil, engerr.Wrap(err, "failed to get encounter")
	}

	var encounter combat.Encounter
	if err := json.Unmarshal(data, &encounter); err != nil {
		return nil, engerr.Wrap(err, "failed to deserialize encounter")
	}

	// Refresh TTL
	r.client.Expire(ctx, key, r.encounterTTL)

	return &encounter, nil
}

// Update modifies an existing encounter
func (r *redisRepository) Update(ctx context.Context, encounter *combat.Encounter) error {
	if encounter == nil {
		return engerr.InvalidRequest("encounter cannot be nil")
	}
	if encounter.ID == "" {
		return engerr.InvalidRequest("encounter ID cannot be empty")
	}

	key := encounterKeyPrefix + encounter.ID

	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return engerr.Wrap(err, "failed to check encounter existence")
	}
	if exists == 0 {
		return engerr.NotFoundf("encounter not found: %s", encounter.ID)
	}

	data, err := json.Marshal(encounter)
	if err != nil {
		return engerr.Wrap(err, "failed to serialize encounter")
	}

	if err := r.client.Set(ctx, key, string(data), r.encounterTTL).Err(); err != nil {
		return engerr.Wrap(err, "failed to update encounter")
	}

	return nil
}

// Delete removes an encounter
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	encounter, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.TxPipeline()
	pipe.Del(ctx, encounterKeyPrefix+id)
	pipe.SRem(ctx, fmt.Sprintf(adventureEncountersKey, encounter.AdventureID), id)

	if _, err := pipe.Exec(ctx); err != nil {
		return engerr.Wrap(err, "failed to delete encounter")
	}

	return nil
}

// GetByAdventure retrieves all encounters for an adventure
func (r *redisRepository) GetByAdventure(ctx context.Context, adventureID string) ([]*combat.Encounter, error) {
	encounterIDs, err := r.client.SMembers(ctx, fmt.Sprintf(adventureEncountersKey, adventureID)).Result()
	if err != nil {
		return nil, engerr.Wrap(err, "failed to get encounters for adventure")
	}

	if len(encounterIDs) == 0 {
		return []*combat.Encounter{}, nil
	}

	keys := make([]string, len(encounterIDs))
	for i, id := range encounterIDs {
		keys[i] = encounterKeyPrefix + id
	}

	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, engerr.Wrap(err, "failed to get multiple encounters")
	}

	encounters := make([]*combat.Encounter, 0, len(encounterIDs))
	for _, val := range values {
		if val == nil {
			// Encounter expired; the index entry is cleaned up lazily
			continue
		}

		data, ok := val.(string)
		if !ok {
			continue
		}

		var encounter combat.Encounter
		if err := json.Unmarshal([]byte(data), &encounter); err != nil {
			continue
		}

		encounters = append(encounters, &encounter)
	}

	return encounters, nil
}
