package dice

import (
	"regexp"
	"strconv"

	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
)

// DamageExpression is a parsed weapon damage string: exactly one dice group
// plus an optional signed flat modifier (e.g. "1d8+2", "2d6", "1d4-1").
type DamageExpression struct {
	Raw       string
	DiceCount int
	DiceSides int
	Modifier  int
}

// damageRegex matches the single-group weapon damage grammar.
var damageRegex = regexp.MustCompile(`^(\d+)d(\d+)([+-]\d+)?$`)

// ParseDamageExpression parses a weapon damage string. Weapon damage is
// always a single dice group, so the grammar here is deliberately narrower
// than the full expression parser. Malformed input fails with an
// invalid-request error, never a silent zero.
func ParseDamageExpression(text string) (*DamageExpression, error) {
	normalized := normalize(text)
	if normalized == "" {
		return nil, engerr.InvalidRequest("empty weapon damage expression")
	}

	match := damageRegex.FindStringSubmatch(normalized)
	if match == nil {
		return nil, engerr.InvalidRequestf("unrecognized weapon damage expression %q", text)
	}

	count, err := strconv.Atoi(match[1])
	if err != nil {
		return nil, engerr.InvalidRequestf("invalid dice count in %q", text)
	}
	sides, err := strconv.Atoi(match[2])
	if err != nil {
		return nil, engerr.InvalidRequestf("invalid dice sides in %q", text)
	}
	if count < 1 || count > MaxDiceCount {
		return nil, engerr.InvalidRequestf("dice count %d out of range [1, %d] in %q", count, MaxDiceCount, text)
	}
	if sides < 1 || sides > MaxDiceSides {
		return nil, engerr.InvalidRequestf("dice sides %d out of range [1, %d] in %q", sides, MaxDiceSides, text)
	}

	modifier := 0
	if match[3] != "" {
		modifier, err = strconv.Atoi(match[3])
		if err != nil {
			return nil, engerr.InvalidRequestf("invalid modifier in %q", text)
		}
		if modifier < -MaxModifier || modifier > MaxModifier {
			return nil, engerr.InvalidRequestf("modifier %d out of range [-%d, %d] in %q", modifier, MaxModifier, MaxModifier, text)
		}
	}

	return &DamageExpression{
		Raw:       text,
		DiceCount: count,
		DiceSides: sides,
		Modifier:  modifier,
	}, nil
}

// DamageResult carries the detail of a resolved damage roll for auditing.
type DamageResult struct {
	Rolls     []int // raw dice, doubled in count on a critical
	DiceTotal int   // sum of Rolls
	Modifier  int   // embedded weapon modifier plus the flat modifier
	Total     int   // clamped to a minimum of 1
	Critical  bool
}

// RollDamage rolls weapon damage. On a critical hit the dice count is
// doubled before rolling; flat modifiers are never doubled. flatModifier is
// additive on top of the modifier embedded in the weapon string. The total
// is clamped to a minimum of 1.
func RollDamage(roller Roller, weaponExpr string, flatModifier int, isCritical bool) (*DamageResult, error) {
	if roller == nil {
		return nil, engerr.InvalidRequest("roller cannot be nil")
	}

	parsed, err := ParseDamageExpression(weaponExpr)
	if err != nil {
		return nil, err
	}

	count := parsed.DiceCount
	if isCritical {
		count *= 2
	}

	rolls, err := roller.Roll(count, parsed.DiceSides)
	if err != nil {
		return nil, engerr.Wrapf(err, "failed to roll damage for %q", weaponExpr)
	}

	diceTotal := 0
	for _, r := range rolls {
		diceTotal += r
	}

	modifier := parsed.Modifier + flatModifier
	total := diceTotal + modifier
	if total < 1 {
		total = 1
	}

	return &DamageResult{
		Rolls:     rolls,
		DiceTotal: diceTotal,
		Modifier:  modifier,
		Total:     total,
		Critical:  isCritical,
	}, nil
}

// CalculateDamage rolls weapon damage and returns just the clamped total.
func CalculateDamage(roller Roller, weaponExpr string, flatModifier int, isCritical bool) (int, error) {
	result, err := RollDamage(roller, weaponExpr, flatModifier, isCritical)
	if err != nil {
		return 0, err
	}
	return result.Total, nil
}
