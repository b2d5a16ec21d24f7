package combat

import (
	"fmt"
	"time"
)

// EncounterStatus represents the lifecycle state of an encounter.
// Transitions are strictly NotStarted → Active → Completed; Completed is
// terminal and further mutation attempts fail at the service layer.
type EncounterStatus string

const (
	EncounterStatusNotStarted EncounterStatus = "not_started"
	EncounterStatusActive     EncounterStatus = "active"
	EncounterStatusCompleted  EncounterStatus = "completed"
)

// maxCombatLogEntries caps the human-readable log; the AttackAction history
// is the unbounded audit record.
const maxCombatLogEntries = 50

// Encounter represents a combat encounter in an adventure
type Encounter struct {
	ID          string `json:"id"`
	AdventureID string `json:"adventure_id"`

	Status EncounterStatus `json:"status"`

	Round int `json:"round"` // current round number, 1-based once active
	Turn  int `json:"turn"`  // index into TurnOrder

	Combatants map[string]*Combatant `json:"combatants"` // ID -> Combatant
	TurnOrder  []string              `json:"turn_order"` // combatant IDs by initiative

	// Winner is set once the encounter completes with a surviving side;
	// empty when ended early without a victor
	Winner Side `json:"winner,omitempty"`

	// History is the immutable audit trail of resolved attacks
	History []*AttackAction `json:"history"`

	// CombatLog holds human-readable entries for display, capped at the
	// most recent entries
	CombatLog []string `json:"combat_log"`

	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	EndedAt   *time.Time `json:"ended_at,omitempty"`
}

// NewEncounter creates a new encounter in the NotStarted state with an
// empty roster and no turn order.
func NewEncounter(id, adventureID string) *Encounter {
	return &Encounter{
		ID:          id,
		AdventureID: adventureID,
		Status:      EncounterStatusNotStarted,
		Combatants:  make(map[string]*Combatant),
		TurnOrder:   []string{},
		History:     []*AttackAction{},
		CombatLog:   []string{},
		CreatedAt:   time.Now().UTC(),
	}
}

// AddCombatant adds a combatant to the roster
func (e *Encounter) AddCombatant(c *Combatant) {
	e.Combatants[c.ID] = c
}

// Start transitions the encounter into combat. The turn order must already
// be sorted by initiative.
func (e *Encounter) Start(turnOrder []string) {
	now := time.Now().UTC()
	e.TurnOrder = turnOrder
	e.Status = EncounterStatusActive
	e.StartedAt = &now
	e.Round = 1
	e.Turn = 0
}

// CurrentCombatant returns the combatant whose turn it is, or nil when the
// encounter has no turn order yet.
func (e *Encounter) CurrentCombatant() *Combatant {
	if e.Turn < len(e.TurnOrder) {
		return e.Combatants[e.TurnOrder[e.Turn]]
	}
	return nil
}

// AdvanceTurn moves to the next living combatant in turn order. Defeated
// and fled combatants stay in the roster for audit purposes but are skipped.
// When the order is exhausted the turn index wraps to 0 and the round
// number increments.
func (e *Encounter) AdvanceTurn() {
	if e.Status != EncounterStatusActive || len(e.TurnOrder) == 0 {
		return
	}

	// Bounded by one full wrap; if nobody is left alive the index simply
	// lands back where it started.
	for i := 0; i < len(e.TurnOrder); i++ {
		e.Turn++
		if e.Turn >= len(e.TurnOrder) {
			e.Turn = 0
			e.Round++
		}
		if c, ok := e.Combatants[e.TurnOrder[e.Turn]]; ok && c.IsAlive() {
			return
		}
	}
}

// CheckCombatEnd reports whether one side has no living combatants left and,
// if so, which side survived.
func (e *Encounter) CheckCombatEnd() (ended bool, winner Side) {
	alivePlayers := 0
	aliveEnemies := 0

	for _, c := range e.Combatants {
		if !c.IsAlive() {
			continue
		}
		switch c.Side {
		case SidePlayers:
			alivePlayers++
		case SideEnemies:
			aliveEnemies++
		}
	}

	if aliveEnemies == 0 && alivePlayers > 0 {
		return true, SidePlayers
	}
	if alivePlayers == 0 && aliveEnemies > 0 {
		return true, SideEnemies
	}
	return false, ""
}

// End concludes the encounter. The winner may be empty when the encounter
// is ended early without a victor.
func (e *Encounter) End(winner Side) {
	now := time.Now().UTC()
	e.Status = EncounterStatusCompleted
	e.Winner = winner
	e.EndedAt = &now
}

// RecordAttack appends an attack to the audit history and the display log.
func (e *Encounter) RecordAttack(action *AttackAction) {
	e.History = append(e.History, action)
	e.AddCombatLogEntry(action.LogEntry())
}

// AddCombatLogEntry adds a round-prefixed entry to the combat log
func (e *Encounter) AddCombatLogEntry(entry string) {
	if e.CombatLog == nil {
		e.CombatLog = []string{}
	}
	e.CombatLog = append(e.CombatLog, fmt.Sprintf("Round %d: %s", e.Round, entry))

	if len(e.CombatLog) > maxCombatLogEntries {
		e.CombatLog = e.CombatLog[len(e.CombatLog)-maxCombatLogEntries:]
	}
}
