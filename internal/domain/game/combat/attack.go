package combat

import (
	"fmt"
	"time"
)

// AttackAction is an immutable audit record of one resolved attack.
// Created once per resolved turn and appended to the encounter history;
// never mutated afterwards.
type AttackAction struct {
	ID    string `json:"id"`
	Round int    `json:"round"`

	AttackerID   string `json:"attacker_id"`
	AttackerName string `json:"attacker_name"`
	TargetID     string `json:"target_id"`
	TargetName   string `json:"target_name"`

	AttackRoll     int `json:"attack_roll"`     // raw d20
	AttackModifier int `json:"attack_modifier"` // attacker's pre-resolved bonus
	AttackTotal    int `json:"attack_total"`    // roll + modifier
	TargetAC       int `json:"target_ac"`

	Hit      bool `json:"hit"`
	Critical bool `json:"critical"` // natural 20

	WeaponName       string `json:"weapon_name"`
	DamageExpression string `json:"damage_expression"`

	// DamageRoll is the summed raw dice; DamageModifier is everything flat
	// on top; Damage is the clamped total actually applied
	DamageRoll     int `json:"damage_roll"`
	DamageModifier int `json:"damage_modifier"`
	Damage         int `json:"damage"`

	TargetHPAfter  int  `json:"target_hp_after"`
	TargetDefeated bool `json:"target_defeated"`
	TargetFled     bool `json:"target_fled"`

	CreatedAt time.Time `json:"created_at"`
}

// LogEntry renders a human-readable line for the combat log.
func (a *AttackAction) LogEntry() string {
	if !a.Hit {
		return fmt.Sprintf("%s → %s: MISS (d20:%d%+d=%d vs AC:%d)",
			a.AttackerName, a.TargetName, a.AttackRoll, a.AttackModifier, a.AttackTotal, a.TargetAC)
	}

	verdict := "HIT"
	if a.Critical {
		verdict = "CRIT"
	}

	entry := fmt.Sprintf("%s → %s: %s for %d (d20:%d%+d=%d vs AC:%d, dmg:%s)",
		a.AttackerName, a.TargetName, verdict, a.Damage,
		a.AttackRoll, a.AttackModifier, a.AttackTotal, a.TargetAC, a.DamageExpression)

	if a.TargetDefeated {
		entry += fmt.Sprintf(" %s was defeated!", a.TargetName)
	} else if a.TargetFled {
		entry += fmt.Sprintf(" %s fled!", a.TargetName)
	}
	return entry
}
