package encounter

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/KirkDiggler/adventure-engine/internal/dice"
	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
	"github.com/KirkDiggler/adventure-engine/internal/repositories/encounters"
	mockencrepo "github.com/KirkDiggler/adventure-engine/internal/repositories/encounters/mock"
)

// seqGenerator hands out predictable IDs so tests can assert on ordering.
type seqGenerator struct {
	n int
}

func (g *seqGenerator) New() string {
	g.n++
	return fmt.Sprintf("id-%02d", g.n)
}

type testService struct {
	svc    Service
	repo   encounters.Repository
	roller *dice.MockRoller
}

func newTestService(t *testing.T) *testService {
	t.Helper()

	repo := encounters.NewInMemoryRepository()
	roller := dice.NewMockRoller()

	svc := NewService(&ServiceConfig{
		Repository:    repo,
		Roller:        roller,
		UUIDGenerator: &seqGenerator{},
	})

	return &testService{svc: svc, repo: repo, roller: roller}
}

func testRoster() []*CombatantInput {
	return []*CombatantInput{
		{
			Name: "Hero", Side: combat.SidePlayers,
			MaxHP: 20, AC: 15,
			AttackModifier: 5, DamageModifier: 2, DexModifier: 2,
			WeaponName: "longsword", WeaponDamage: "1d8",
		},
		{
			Name: "Goblin", Side: combat.SideEnemies,
			MaxHP: 7, AC: 13,
			AttackModifier: 3, DexModifier: 1,
			WeaponName: "scimitar", WeaponDamage: "1d6",
			FleeThreshold: 2,
		},
		{
			Name: "Orc", Side: combat.SideEnemies,
			MaxHP: 15, AC: 13,
			AttackModifier: 4, DamageModifier: 1, DexModifier: 0,
			WeaponName: "greataxe", WeaponDamage: "1d12",
		},
	}
}

func TestCreateEncounter(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	enc, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.NoError(t, err)

	assert.Equal(t, "id-01", enc.ID)
	assert.Equal(t, "adv-1", enc.AdventureID)
	assert.Equal(t, combat.EncounterStatusNotStarted, enc.Status)
	assert.Len(t, enc.Combatants, 3)
	assert.Empty(t, enc.TurnOrder)

	hero := enc.Combatants["id-02"]
	require.NotNil(t, hero)
	assert.Equal(t, "Hero", hero.Name)
	assert.Equal(t, 20, hero.CurrentHP)
	assert.Equal(t, combat.CombatantStatusAlive, hero.Status)
	assert.NotEmpty(t, hero.TiebreakKey)

	// Persisted
	stored, err := ts.repo.Get(ctx, enc.ID)
	require.NoError(t, err)
	assert.Equal(t, enc.ID, stored.ID)
}

func TestCreateEncounter_Validation(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	tests := []struct {
		name  string
		input *CreateEncounterInput
	}{
		{"nil input", nil},
		{"missing adventure", &CreateEncounterInput{Combatants: testRoster()}},
		{"empty roster", &CreateEncounterInput{AdventureID: "adv-1"}},
		{
			"one-sided roster",
			&CreateEncounterInput{AdventureID: "adv-1", Combatants: []*CombatantInput{
				{Name: "Hero", Side: combat.SidePlayers, MaxHP: 20, AC: 15, WeaponDamage: "1d8"},
			}},
		},
		{
			"zero max HP",
			&CreateEncounterInput{AdventureID: "adv-1", Combatants: []*CombatantInput{
				{Name: "Hero", Side: combat.SidePlayers, MaxHP: 0, AC: 15, WeaponDamage: "1d8"},
			}},
		},
		{
			"unknown side",
			&CreateEncounterInput{AdventureID: "adv-1", Combatants: []*CombatantInput{
				{Name: "Hero", Side: "bystanders", MaxHP: 20, AC: 15, WeaponDamage: "1d8"},
			}},
		},
		{
			"malformed weapon damage",
			&CreateEncounterInput{AdventureID: "adv-1", Combatants: []*CombatantInput{
				{Name: "Hero", Side: combat.SidePlayers, MaxHP: 20, AC: 15, WeaponDamage: "d8+"},
			}},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ts.svc.CreateEncounter(ctx, tc.input)
			require.Error(t, err)
			assert.True(t, engerr.IsInvalidRequest(err), "want invalid_request, got %v", err)
		})
	}
}

func TestStartCombat(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	enc, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.NoError(t, err)

	// Initiative rolls in sorted-combatant-ID order:
	// Hero (id-02) d20:15 +2 = 17, Goblin (id-04) d20:12 +1 = 13,
	// Orc (id-06) d20:18 +0 = 18.
	ts.roller.SetRolls([]int{15, 12, 18})

	started, err := ts.svc.StartCombat(ctx, enc.ID)
	require.NoError(t, err)

	assert.Equal(t, combat.EncounterStatusActive, started.Status)
	assert.Equal(t, 1, started.Round)
	assert.Equal(t, []string{"id-06", "id-02", "id-04"}, started.TurnOrder)
	assert.Equal(t, "Orc", started.CurrentCombatant().Name)
	assert.Equal(t, 18, started.Combatants["id-06"].InitiativeScore)
	assert.NotEmpty(t, started.CombatLog)

	// Starting twice is rejected
	_, err = ts.svc.StartCombat(ctx, enc.ID)
	require.Error(t, err)
	assert.True(t, engerr.IsInvalidOperation(err))
}

func TestStartCombat_TieBreaking(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	enc, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants: []*CombatantInput{
			{Name: "Hero", Side: combat.SidePlayers, MaxHP: 20, AC: 15, DexModifier: 2, WeaponDamage: "1d8"},
			{Name: "Rogue", Side: combat.SidePlayers, MaxHP: 16, AC: 14, DexModifier: 3, WeaponDamage: "1d6"},
			{Name: "Goblin", Side: combat.SideEnemies, MaxHP: 7, AC: 13, DexModifier: 3, WeaponDamage: "1d6"},
		},
	})
	require.NoError(t, err)

	// Hero 10+2=12, Rogue 9+3=12, Goblin 9+3=12: all tie at 12. Dex breaks
	// Hero last (dex 2 < 3); Rogue vs Goblin fall back to tiebreak keys
	// (id-05 < id-07), so Rogue goes first.
	ts.roller.SetRolls([]int{10, 9, 9})

	started, err := ts.svc.StartCombat(ctx, enc.ID)
	require.NoError(t, err)

	assert.Equal(t, []string{"id-04", "id-06", "id-02"}, started.TurnOrder)
}

func TestStartCombat_NotFound(t *testing.T) {
	ts := newTestService(t)

	_, err := ts.svc.StartCombat(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, engerr.IsNotFound(err))
}

func TestEndEncounter(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	enc, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.NoError(t, err)

	// Not started yet
	_, err = ts.svc.EndEncounter(ctx, enc.ID)
	require.Error(t, err)
	assert.True(t, engerr.IsInvalidOperation(err))

	ts.roller.SetRolls([]int{15, 12, 18})
	_, err = ts.svc.StartCombat(ctx, enc.ID)
	require.NoError(t, err)

	ended, err := ts.svc.EndEncounter(ctx, enc.ID)
	require.NoError(t, err)
	assert.Equal(t, combat.EncounterStatusCompleted, ended.Status)
	assert.Empty(t, ended.Winner)
	require.NotNil(t, ended.EndedAt)

	// Already completed
	_, err = ts.svc.EndEncounter(ctx, enc.ID)
	require.Error(t, err)
	assert.True(t, engerr.IsConflict(err))
}

func TestGetEncounter(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	enc, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.NoError(t, err)

	got, err := ts.svc.GetEncounter(ctx, enc.ID)
	require.NoError(t, err)
	assert.Equal(t, enc.ID, got.ID)

	_, err = ts.svc.GetEncounter(ctx, "missing")
	assert.True(t, engerr.IsNotFound(err))

	_, err = ts.svc.GetEncounter(ctx, "")
	assert.True(t, engerr.IsInvalidRequest(err))
}

func TestListEncounters(t *testing.T) {
	ts := newTestService(t)
	ctx := context.Background()

	_, err := ts.svc.CreateEncounter(ctx, &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.NoError(t, err)

	list, err := ts.svc.ListEncounters(ctx, "adv-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = ts.svc.ListEncounters(ctx, "adv-other")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateEncounter_RepositoryError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockencrepo.NewMockRepository(ctrl)
	repo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(errors.New("storage down"))

	svc := NewService(&ServiceConfig{
		Repository:    repo,
		Roller:        dice.NewMockRoller(),
		UUIDGenerator: &seqGenerator{},
	})

	_, err := svc.CreateEncounter(context.Background(), &CreateEncounterInput{
		AdventureID: "adv-1",
		Combatants:  testRoster(),
	})
	require.Error(t, err)
}

func TestStartCombat_UpdateError(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mockencrepo.NewMockRepository(ctrl)

	enc := combat.NewEncounter("enc-1", "adv-1")
	enc.AddCombatant(&combat.Combatant{
		ID: "hero", Name: "Hero", Side: combat.SidePlayers,
		CurrentHP: 20, MaxHP: 20, AC: 15,
		Status: combat.CombatantStatusAlive, TiebreakKey: "a",
	})

	repo.EXPECT().Get(gomock.Any(), "enc-1").Return(enc, nil)
	repo.EXPECT().Update(gomock.Any(), gomock.Any()).Return(errors.New("storage down"))

	roller := dice.NewMockRoller()
	roller.SetRolls([]int{10})

	svc := NewService(&ServiceConfig{
		Repository:    repo,
		Roller:        roller,
		UUIDGenerator: &seqGenerator{},
	})

	_, err := svc.StartCombat(context.Background(), "enc-1")
	require.Error(t, err)
}
