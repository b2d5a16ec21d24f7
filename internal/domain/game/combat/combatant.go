package combat

// Side classifies a combatant as part of the player party or the enemy
// group. Closed set; termination checks match on it exhaustively.
type Side string

const (
	SidePlayers Side = "players"
	SideEnemies Side = "enemies"
)

// CombatantStatus represents a combatant's current condition
type CombatantStatus string

const (
	CombatantStatusAlive    CombatantStatus = "alive"
	CombatantStatusDefeated CombatantStatus = "defeated"
	CombatantStatusFled     CombatantStatus = "fled"
)

// Combatant represents a participant in combat. Derived attributes (attack
// modifier, AC, weapon damage expression) arrive pre-resolved from the
// character/enemy service; the combat core never computes them.
type Combatant struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Side Side   `json:"side"`

	CurrentHP int `json:"current_hp"`
	MaxHP     int `json:"max_hp"`
	AC        int `json:"ac"`

	// AttackModifier is added to the d20 attack roll
	AttackModifier int `json:"attack_modifier"`
	// DamageModifier is layered on top of the weapon's innate modifier
	DamageModifier int `json:"damage_modifier"`
	// DexModifier feeds the initiative score and breaks initiative ties
	DexModifier int `json:"dex_modifier"`

	WeaponName   string `json:"weapon_name"`
	WeaponDamage string `json:"weapon_damage"` // damage expression, e.g. "1d8+2"

	// FleeThreshold is an absolute HP value; an enemy whose HP drops into
	// (0, FleeThreshold] flees the fight. Zero disables fleeing. Players
	// never flee automatically.
	FleeThreshold int `json:"flee_threshold,omitempty"`

	// InitiativeRoll is the raw d20; InitiativeScore is roll + dex modifier
	InitiativeRoll  int `json:"initiative_roll"`
	InitiativeScore int `json:"initiative_score"`

	// TiebreakKey is a stable, pre-assigned opaque value that makes the
	// initiative order total when score and dex modifier both tie
	TiebreakKey string `json:"tiebreak_key"`

	Status CombatantStatus `json:"status"`
}

// IsAlive returns true if the combatant can still act
func (c *Combatant) IsAlive() bool {
	return c.Status == CombatantStatusAlive
}

// ApplyDamage reduces the combatant's health, flooring at 0. A combatant
// reduced to 0 HP is defeated.
func (c *Combatant) ApplyDamage(damage int) {
	c.CurrentHP -= damage
	if c.CurrentHP <= 0 {
		c.CurrentHP = 0
		c.Status = CombatantStatusDefeated
	}
}

// ShouldFlee reports whether the combatant flees after taking damage:
// only enemies flee, only while still alive, and only when their health
// has dropped to their flee threshold or below.
func (c *Combatant) ShouldFlee() bool {
	if c.Side != SideEnemies || c.Status != CombatantStatusAlive {
		return false
	}
	return c.FleeThreshold > 0 && c.CurrentHP <= c.FleeThreshold
}
