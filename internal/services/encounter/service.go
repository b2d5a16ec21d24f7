package encounter

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/KirkDiggler/adventure-engine/internal/dice"
	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
	"github.com/KirkDiggler/adventure-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/adventure-engine/internal/uuid"
)

// Service defines the encounter service interface
type Service interface {
	// CreateEncounter builds a new encounter from a pre-resolved roster
	CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*combat.Encounter, error)

	// GetEncounter retrieves an encounter by ID
	GetEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// ListEncounters retrieves all encounters for an adventure
	ListEncounters(ctx context.Context, adventureID string) ([]*combat.Encounter, error)

	// StartCombat rolls initiative and begins combat
	StartCombat(ctx context.Context, encounterID string) (*combat.Encounter, error)

	// ResolveAttack resolves one attack on the current combatant's turn
	ResolveAttack(ctx context.Context, input *ResolveAttackInput) (*ResolveAttackResult, error)

	// EndEncounter terminates an active encounter early, with no winner
	EndEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error)
}

// CombatantInput describes one roster entry. All stats arrive pre-resolved;
// the service validates them but never derives them.
type CombatantInput struct {
	Name           string
	Side           combat.Side
	MaxHP          int
	AC             int
	AttackModifier int
	DamageModifier int
	DexModifier    int
	WeaponName     string
	WeaponDamage   string
	FleeThreshold  int // absolute HP; 0 means never flees
}

// CreateEncounterInput contains data for creating an encounter
type CreateEncounterInput struct {
	AdventureID string
	Combatants  []*CombatantInput
}

// ResolveAttackInput identifies one attack to resolve
type ResolveAttackInput struct {
	EncounterID string
	AttackerID  string
	TargetID    string
}

// ResolveAttackResult carries the resolved action and the encounter state
// after all bookkeeping (turn advancement, termination check).
type ResolveAttackResult struct {
	Action    *combat.AttackAction
	Encounter *combat.Encounter
}

type service struct {
	repository    encounters.Repository
	roller        dice.Roller
	uuidGenerator uuid.Generator
	locker        *encounterLocker
	log           *zap.Logger
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository    encounters.Repository
	Roller        dice.Roller
	UUIDGenerator uuid.Generator
	Logger        *zap.Logger
}

// NewService creates a new encounter service
func NewService(cfg *ServiceConfig) Service {
	if cfg.Repository == nil {
		panic("repository is required")
	}

	svc := &service{
		repository:    cfg.Repository,
		roller:        cfg.Roller,
		uuidGenerator: cfg.UUIDGenerator,
		locker:        newEncounterLocker(),
		log:           cfg.Logger,
	}

	if svc.roller == nil {
		svc.roller = dice.NewRandomRoller()
	}
	if svc.uuidGenerator == nil {
		svc.uuidGenerator = uuid.NewGoogleUUIDGenerator()
	}
	if svc.log == nil {
		svc.log = zap.NewNop()
	}

	return svc
}

// CreateEncounter validates the roster and persists a NotStarted encounter.
func (s *service) CreateEncounter(ctx context.Context, input *CreateEncounterInput) (*combat.Encounter, error) {
	if input == nil {
		return nil, engerr.InvalidRequest("input cannot be nil")
	}
	if input.AdventureID == "" {
		return nil, engerr.InvalidRequest("adventure ID is required")
	}
	if len(input.Combatants) == 0 {
		return nil, engerr.InvalidRequest("encounter requires at least one combatant")
	}

	encounter := combat.NewEncounter(s.uuidGenerator.New(), input.AdventureID)

	sides := make(map[combat.Side]int)
	for i, c := range input.Combatants {
		combatant, err := s.buildCombatant(c)
		if err != nil {
			return nil, engerr.Wrapf(err, "combatant %d is invalid", i)
		}
		encounter.AddCombatant(combatant)
		sides[combatant.Side]++
	}

	if sides[combat.SidePlayers] == 0 || sides[combat.SideEnemies] == 0 {
		return nil, engerr.InvalidRequest("encounter requires combatants on both sides")
	}

	if err := s.repository.Create(ctx, encounter); err != nil {
		return nil, err
	}

	s.log.Info("encounter created",
		zap.String("encounter_id", encounter.ID),
		zap.String("adventure_id", encounter.AdventureID),
		zap.Int("combatants", len(encounter.Combatants)),
	)

	return encounter, nil
}

func (s *service) buildCombatant(input *CombatantInput) (*combat.Combatant, error) {
	if input == nil {
		return nil, engerr.InvalidRequest("combatant cannot be nil")
	}
	if input.Name == "" {
		return nil, engerr.InvalidRequest("combatant name is required")
	}
	if input.Side != combat.SidePlayers && input.Side != combat.SideEnemies {
		return nil, engerr.InvalidRequestf("unknown side %q", input.Side)
	}
	if input.MaxHP < 1 {
		return nil, engerr.InvalidRequestf("max HP must be positive, got %d", input.MaxHP)
	}
	if input.AC < 1 {
		return nil, engerr.InvalidRequestf("AC must be positive, got %d", input.AC)
	}
	if input.FleeThreshold < 0 {
		return nil, engerr.InvalidRequestf("flee threshold cannot be negative, got %d", input.FleeThreshold)
	}

	// Reject malformed weapons at the door; an encounter must never reach
	// mid-combat with an unrollable damage expression.
	if _, err := dice.ParseDamageExpression(input.WeaponDamage); err != nil {
		return nil, engerr.Wrapf(err, "weapon %q has invalid damage", input.WeaponName)
	}

	return &combat.Combatant{
		ID:             s.uuidGenerator.New(),
		Name:           input.Name,
		Side:           input.Side,
		CurrentHP:      input.MaxHP,
		MaxHP:          input.MaxHP,
		AC:             input.AC,
		AttackModifier: input.AttackModifier,
		DamageModifier: input.DamageModifier,
		DexModifier:    input.DexModifier,
		WeaponName:     input.WeaponName,
		WeaponDamage:   input.WeaponDamage,
		FleeThreshold:  input.FleeThreshold,
		TiebreakKey:    s.uuidGenerator.New(),
		Status:         combat.CombatantStatusAlive,
	}, nil
}

// GetEncounter retrieves an encounter by ID
func (s *service) GetEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	if encounterID == "" {
		return nil, engerr.InvalidRequest("encounter ID is required")
	}
	return s.repository.Get(ctx, encounterID)
}

// ListEncounters retrieves all encounters for an adventure
func (s *service) ListEncounters(ctx context.Context, adventureID string) ([]*combat.Encounter, error) {
	if adventureID == "" {
		return nil, engerr.InvalidRequest("adventure ID is required")
	}
	return s.repository.GetByAdventure(ctx, adventureID)
}

// StartCombat rolls initiative for every combatant, fixes the turn order,
// and transitions the encounter to Active.
func (s *service) StartCombat(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	if encounterID == "" {
		return nil, engerr.InvalidRequest("encounter ID is required")
	}

	release, err := s.locker.acquire(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	defer release()

	encounter, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	if encounter.Status != combat.EncounterStatusNotStarted {
		return nil, engerr.InvalidOperationf("encounter %s has already started", encounterID)
	}

	// Roll in a stable order so injected rollers produce deterministic
	// initiative in tests.
	ids := make([]string, 0, len(encounter.Combatants))
	for id := range encounter.Combatants {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	for _, id := range ids {
		c := encounter.Combatants[id]
		rolls, rollErr := s.roller.Roll(1, 20)
		if rollErr != nil {
			return nil, engerr.Wrap(rollErr, "failed to roll initiative")
		}
		c.InitiativeRoll = rolls[0]
		c.InitiativeScore = rolls[0] + c.DexModifier
	}

	// Descending by score; ties by higher dex, then by the pre-assigned
	// tiebreak key so the order is total.
	order := append([]string{}, ids...)
	sort.Slice(order, func(i, j int) bool {
		a := encounter.Combatants[order[i]]
		b := encounter.Combatants[order[j]]
		if a.InitiativeScore != b.InitiativeScore {
			return a.InitiativeScore > b.InitiativeScore
		}
		if a.DexModifier != b.DexModifier {
			return a.DexModifier > b.DexModifier
		}
		return a.TiebreakKey < b.TiebreakKey
	})

	encounter.Start(order)
	encounter.AddCombatLogEntry("Combat begins!")
	for _, id := range order {
		c := encounter.Combatants[id]
		encounter.AddCombatLogEntry(fmt.Sprintf("%s rolled initiative %d (d20:%d%+d)",
			c.Name, c.InitiativeScore, c.InitiativeRoll, c.DexModifier))
	}

	if err := s.repository.Update(ctx, encounter); err != nil {
		return nil, err
	}

	s.log.Info("combat started",
		zap.String("encounter_id", encounter.ID),
		zap.Strings("turn_order", order),
	)

	return encounter, nil
}

// EndEncounter terminates an active encounter without a winner.
func (s *service) EndEncounter(ctx context.Context, encounterID string) (*combat.Encounter, error) {
	if encounterID == "" {
		return nil, engerr.InvalidRequest("encounter ID is required")
	}

	release, err := s.locker.acquire(ctx, encounterID)
	if err != nil {
		return nil, err
	}
	defer release()

	encounter, err := s.repository.Get(ctx, encounterID)
	if err != nil {
		return nil, err
	}

	switch encounter.Status {
	case combat.EncounterStatusCompleted:
		return nil, engerr.Conflictf("encounter %s is already completed", encounterID)
	case combat.EncounterStatusNotStarted:
		return nil, engerr.InvalidOperationf("encounter %s has not started", encounterID)
	}

	encounter.End("")
	encounter.AddCombatLogEntry("The encounter was called off.")

	if err := s.repository.Update(ctx, encounter); err != nil {
		return nil, err
	}

	s.log.Info("encounter ended early", zap.String("encounter_id", encounter.ID))

	return encounter, nil
}
