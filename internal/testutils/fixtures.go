package testutils

import (
	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
)

// CreateTestPlayer creates a player-side combatant with sane stats
func CreateTestPlayer(id, name string) *combat.Combatant {
	return &combat.Combatant{
		ID:             id,
		Name:           name,
		Side:           combat.SidePlayers,
		CurrentHP:      20,
		MaxHP:          20,
		AC:             15,
		AttackModifier: 5,
		DamageModifier: 2,
		DexModifier:    2,
		WeaponName:     "longsword",
		WeaponDamage:   "1d8",
		TiebreakKey:    id,
		Status:         combat.CombatantStatusAlive,
	}
}

// CreateTestEnemy creates an enemy-side combatant with sane stats
func CreateTestEnemy(id, name string) *combat.Combatant {
	return &combat.Combatant{
		ID:             id,
		Name:           name,
		Side:           combat.SideEnemies,
		CurrentHP:      7,
		MaxHP:          7,
		AC:             13,
		AttackModifier: 3,
		DexModifier:    1,
		WeaponName:     "scimitar",
		WeaponDamage:   "1d6",
		FleeThreshold:  2,
		TiebreakKey:    id,
		Status:         combat.CombatantStatusAlive,
	}
}

// CreateTestEncounter creates a two-combatant encounter in NotStarted state
func CreateTestEncounter(id, adventureID string) *combat.Encounter {
	enc := combat.NewEncounter(id, adventureID)
	enc.AddCombatant(CreateTestPlayer("player-1", "Hero"))
	enc.AddCombatant(CreateTestEnemy("enemy-1", "Goblin"))
	return enc
}
