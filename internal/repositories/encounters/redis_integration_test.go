package encounters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
	"github.com/KirkDiggler/adventure-engine/internal/testutils"
)

// Exercises the repository against a real Redis; skipped when none is
// reachable on the test address.
func TestRedisRepository_Integration(t *testing.T) {
	client := testutils.CreateTestRedisClientOrSkip(t)
	ctx := context.Background()

	repo := NewRedisRepository(&RedisRepoConfig{
		Client:       client,
		EncounterTTL: time.Hour,
	})

	enc := testutils.CreateTestEncounter("enc-1", "adv-1")
	require.NoError(t, repo.Create(ctx, enc))

	// Duplicate create conflicts
	err := repo.Create(ctx, enc)
	assert.True(t, engerr.IsConflict(err))

	got, err := repo.Get(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, enc.AdventureID, got.AdventureID)
	assert.Len(t, got.Combatants, 2)

	// Round-trips the full state machine payload
	got.Start([]string{"player-1", "enemy-1"})
	got.Combatants["enemy-1"].ApplyDamage(7)
	require.NoError(t, repo.Update(ctx, got))

	updated, err := repo.Get(ctx, "enc-1")
	require.NoError(t, err)
	assert.Equal(t, combat.EncounterStatusActive, updated.Status)
	assert.Equal(t, combat.CombatantStatusDefeated, updated.Combatants["enemy-1"].Status)

	list, err := repo.GetByAdventure(ctx, "adv-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, repo.Delete(ctx, "enc-1"))

	_, err = repo.Get(ctx, "enc-1")
	assert.True(t, engerr.IsNotFound(err))

	list, err = repo.GetByAdventure(ctx, "adv-1")
	require.NoError(t, err)
	assert.Empty(t, list)
}
