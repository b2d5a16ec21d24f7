package encounter

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/KirkDiggler/adventure-engine/internal/dice"
	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// ResolveAttack resolves a single attack by the combatant whose turn it is,
// applies damage and flee bookkeeping, advances the turn, and completes the
// encounter when one side has nobody left standing.
func (s *service) ResolveAttack(ctx context.Context, input *ResolveAttackInput) (*ResolveAttackResult, error) {
	if input == nil {
		return nil, engerr.InvalidRequest("input cannot be nil")
	}
	if input.EncounterID == "" {
		return nil, engerr.InvalidRequest("encounter ID is required")
	}
	if input.AttackerID == "" || input.TargetID == "" {
		return nil, engerr.InvalidRequest("attacker and target IDs are required")
	}

	release, err := s.locker.acquire(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}
	defer release()

	encounter, err := s.repository.Get(ctx, input.EncounterID)
	if err != nil {
		return nil, err
	}

	if encounter.Status != combat.EncounterStatusActive {
		return nil, engerr.Conflictf("encounter %s is not active", encounter.ID)
	}

	attacker, ok := encounter.Combatants[input.AttackerID]
	if !ok {
		return nil, engerr.NotFoundf("attacker not found: %s", input.AttackerID)
	}
	target, ok := encounter.Combatants[input.TargetID]
	if !ok {
		return nil, engerr.NotFoundf("target not found: %s", input.TargetID)
	}

	// Turn ownership converts lost races into explicit conflicts.
	current := encounter.CurrentCombatant()
	if current == nil || current.ID != attacker.ID {
		return nil, engerr.Conflictf("it is not %s's turn", attacker.Name)
	}

	if attacker.Side == target.Side {
		return nil, engerr.InvalidOperationf("%s cannot attack ally %s", attacker.Name, target.Name)
	}
	if !target.IsAlive() {
		return nil, engerr.InvalidOperationf("%s is already out of the fight", target.Name)
	}

	attackResult, err := dice.EvaluateString(attackExpression(attacker.AttackModifier), s.roller)
	if err != nil {
		return nil, engerr.Wrap(err, "failed to roll attack")
	}
	attackRoll := attackResult.Rolls["1d20"][0]
	attackTotal := attackResult.Total

	// A natural 20 always hits and is a critical, regardless of AC.
	critical := attackRoll == 20
	hit := critical || attackTotal >= target.AC

	action := &combat.AttackAction{
		ID:               s.uuidGenerator.New(),
		Round:            encounter.Round,
		AttackerID:       attacker.ID,
		AttackerName:     attacker.Name,
		TargetID:         target.ID,
		TargetName:       target.Name,
		AttackRoll:       attackRoll,
		AttackModifier:   attacker.AttackModifier,
		AttackTotal:      attackTotal,
		TargetAC:         target.AC,
		Hit:              hit,
		Critical:         critical,
		WeaponName:       attacker.WeaponName,
		DamageExpression: attacker.WeaponDamage,
		CreatedAt:        time.Now().UTC(),
	}

	if hit {
		damage, dmgErr := dice.RollDamage(s.roller, attacker.WeaponDamage, attacker.DamageModifier, critical)
		if dmgErr != nil {
			return nil, engerr.Wrapf(dmgErr, "failed to roll damage for %s", attacker.Name)
		}

		action.DamageRoll = damage.DiceTotal
		action.DamageModifier = damage.Modifier
		action.Damage = damage.Total

		target.ApplyDamage(damage.Total)

		if target.ShouldFlee() {
			target.Status = combat.CombatantStatusFled
			action.TargetFled = true
		}
	}

	action.TargetHPAfter = target.CurrentHP
	action.TargetDefeated = target.Status == combat.CombatantStatusDefeated

	encounter.RecordAttack(action)

	if ended, winner := encounter.CheckCombatEnd(); ended {
		encounter.End(winner)
		encounter.AddCombatLogEntry(fmt.Sprintf("Combat is over! The %s side wins.", winner))
	} else {
		encounter.AdvanceTurn()
	}

	if err := s.repository.Update(ctx, encounter); err != nil {
		return nil, err
	}

	s.log.Info("attack resolved",
		zap.String("encounter_id", encounter.ID),
		zap.String("attacker", attacker.Name),
		zap.String("target", target.Name),
		zap.Bool("hit", action.Hit),
		zap.Bool("critical", action.Critical),
		zap.Int("damage", action.Damage),
		zap.String("encounter_status", string(encounter.Status)),
	)

	return &ResolveAttackResult{
		Action:    action,
		Encounter: encounter,
	}, nil
}

// attackExpression composes the d20 attack roll for the evaluator; a zero
// modifier stays a bare d20.
func attackExpression(modifier int) string {
	if modifier == 0 {
		return "1d20"
	}
	return fmt.Sprintf("1d20%+d", modifier)
}
