// Command simulate runs a scripted encounter to completion and prints the
// combat log. Useful for eyeballing combat pacing and for exercising the
// full service/repository wiring outside of tests.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/adventure-engine/internal/config"
	"github.com/KirkDiggler/adventure-engine/internal/domain/game/combat"
	engerr "github.com/KirkDiggler/adventure-engine/internal/errors"
	"github.com/KirkDiggler/adventure-engine/internal/repositories/encounters"
	"github.com/KirkDiggler/adventure-engine/internal/services/encounter"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := buildLogger(cfg.Log.Level)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	repo, err := buildRepository(cfg)
	if err != nil {
		logger.Fatal("failed to build repository", zap.Error(err))
	}

	svc := encounter.NewService(&encounter.ServiceConfig{
		Repository: repo,
		Logger:     logger,
	})

	if err := run(context.Background(), svc); err != nil {
		logger.Fatal("simulation failed", zap.Error(err))
	}
}

func buildLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	zapCfg := zap.NewDevelopmentConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(lvl)
	return zapCfg.Build()
}

func buildRepository(cfg *config.Config) (encounters.Repository, error) {
	switch cfg.Store.Backend {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			return nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
		}
		return encounters.NewRedisRepository(&encounters.RedisRepoConfig{Client: client}), nil
	default:
		return encounters.NewInMemoryRepository(), nil
	}
}

// run plays a fixed party-versus-goblins skirmish until one side wins,
// each living combatant attacking the first living opponent on its turn.
func run(ctx context.Context, svc encounter.Service) error {
	enc, err := svc.CreateEncounter(ctx, &encounter.CreateEncounterInput{
		AdventureID: "simulated-adventure",
		Combatants: []*encounter.CombatantInput{
			{
				Name: "Thorin", Side: combat.SidePlayers,
				MaxHP: 24, AC: 16,
				AttackModifier: 5, DamageModifier: 3, DexModifier: 1,
				WeaponName: "battleaxe", WeaponDamage: "1d8",
			},
			{
				Name: "Lyra", Side: combat.SidePlayers,
				MaxHP: 18, AC: 14,
				AttackModifier: 6, DamageModifier: 3, DexModifier: 3,
				WeaponName: "shortbow", WeaponDamage: "1d6",
			},
			{
				Name: "Goblin Raider", Side: combat.SideEnemies,
				MaxHP: 10, AC: 13,
				AttackModifier: 4, DamageModifier: 2, DexModifier: 2,
				WeaponName: "scimitar", WeaponDamage: "1d6",
				FleeThreshold: 3,
			},
			{
				Name: "Goblin Boss", Side: combat.SideEnemies,
				MaxHP: 21, AC: 15,
				AttackModifier: 4, DamageModifier: 2, DexModifier: 2,
				WeaponName: "heavy scimitar", WeaponDamage: "2d6",
			},
		},
	})
	if err != nil {
		return err
	}

	state, err := svc.StartCombat(ctx, enc.ID)
	if err != nil {
		return err
	}

	// Hard cap so a pathological stalemate cannot spin forever.
	const maxRounds = 100

	for state.Status == combat.EncounterStatusActive && state.Round <= maxRounds {
		attacker := state.CurrentCombatant()
		target := pickTarget(state, attacker)
		if target == nil {
			break
		}

		result, err := svc.ResolveAttack(ctx, &encounter.ResolveAttackInput{
			EncounterID: state.ID,
			AttackerID:  attacker.ID,
			TargetID:    target.ID,
		})
		if err != nil {
			// A conflict here means the fight ended under us; anything
			// else is a real failure.
			if engerr.IsConflict(err) {
				break
			}
			return err
		}
		state = result.Encounter
	}

	printOutcome(state)
	return nil
}

// pickTarget returns the first living opponent in turn order.
func pickTarget(enc *combat.Encounter, attacker *combat.Combatant) *combat.Combatant {
	if attacker == nil {
		return nil
	}
	for _, id := range enc.TurnOrder {
		c := enc.Combatants[id]
		if c.Side != attacker.Side && c.IsAlive() {
			return c
		}
	}
	return nil
}

func printOutcome(enc *combat.Encounter) {
	fmt.Fprintln(os.Stdout, "=== Combat Log ===")
	for _, entry := range enc.CombatLog {
		fmt.Fprintln(os.Stdout, entry)
	}

	fmt.Fprintf(os.Stdout, "\nStatus: %s", enc.Status)
	if enc.Winner != "" {
		fmt.Fprintf(os.Stdout, ", winner: %s", enc.Winner)
	}
	fmt.Fprintf(os.Stdout, ", rounds: %d, attacks resolved: %d\n", enc.Round, len(enc.History))
}
