package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/udisondev/gas2go/internal/game/ability"
)

// ActorRepository persists component snapshots.
type ActorRepository struct {
	db *pgxpool.Pool
}

// NewActorRepository creates a new ActorRepository.
func NewActorRepository(db *pgxpool.Pool) *ActorRepository {
	return &ActorRepository{db: db}
}

// Save stores the snapshot (full rewrite).
// Deletes the old rows, inserts the new ones in one transaction.
func (r *ActorRepository) Save(ctx context.Context, snap ability.Snapshot) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err := tx.Rollback(ctx); err != nil {
			// Rollback after commit is expected to fail
		}
	}()

	if _, err := tx.Exec(ctx,
		`INSERT INTO actors (name, saved_at) VALUES ($1, now())
		 ON CONFLICT (name) DO UPDATE SET saved_at = now()`,
		snap.Actor,
	); err != nil {
		return fmt.Errorf("upserting actor %q: %w", snap.Actor, err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM actor_attributes WHERE actor = $1`, snap.Actor); err != nil {
		return fmt.Errorf("deleting existing attributes: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM actor_effects WHERE actor = $1`, snap.Actor); err != nil {
		return fmt.Errorf("deleting existing effects: %w", err)
	}

	for _, a := range snap.Attributes {
		if _, err := tx.Exec(ctx,
			`INSERT INTO actor_attributes (actor, name, base, current) VALUES ($1, $2, $3, $4)`,
			snap.Actor, a.Name, a.Base, a.Current,
		); err != nil {
			return fmt.Errorf("inserting attribute %q: %w", a.Name, err)
		}
	}
	for _, e := range snap.Effects {
		if _, err := tx.Exec(ctx,
			`INSERT INTO actor_effects (actor, definition, level, remaining, stacks) VALUES ($1, $2, $3, $4, $5)`,
			snap.Actor, e.Definition, e.Level, e.Remaining, e.Stacks,
		); err != nil {
			return fmt.Errorf("inserting effect %q: %w", e.Definition, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing actor save: %w", err)
	}
	return nil
}

// Load retrieves the snapshot for an actor.
// Returns found=false when the actor has never been saved.
func (r *ActorRepository) Load(ctx context.Context, actor string) (ability.Snapshot, bool, error) {
	snap := ability.Snapshot{Actor: actor}

	var exists bool
	if err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM actors WHERE name = $1)`, actor,
	).Scan(&exists); err != nil {
		return snap, false, fmt.Errorf("checking actor %q: %w", actor, err)
	}
	if !exists {
		return snap, false, nil
	}

	rows, err := r.db.Query(ctx,
		`SELECT name, base, current FROM actor_attributes WHERE actor = $1 ORDER BY name`, actor)
	if err != nil {
		return snap, false, fmt.Errorf("querying attributes for %q: %w", actor, err)
	}
	defer rows.Close()
	for rows.Next() {
		var a ability.AttributeState
		if err := rows.Scan(&a.Name, &a.Base, &a.Current); err != nil {
			return snap, false, fmt.Errorf("scanning attribute row: %w", err)
		}
		snap.Attributes = append(snap.Attributes, a)
	}
	if err := rows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterating attribute rows: %w", err)
	}

	erows, err := r.db.Query(ctx,
		`SELECT definition, level, remaining, stacks FROM actor_effects WHERE actor = $1 ORDER BY id`, actor)
	if err != nil {
		return snap, false, fmt.Errorf("querying effects for %q: %w", actor, err)
	}
	defer erows.Close()
	for erows.Next() {
		var e ability.EffectState
		if err := erows.Scan(&e.Definition, &e.Level, &e.Remaining, &e.Stacks); err != nil {
			return snap, false, fmt.Errorf("scanning effect row: %w", err)
		}
		snap.Effects = append(snap.Effects, e)
	}
	if err := erows.Err(); err != nil {
		return snap, false, fmt.Errorf("iterating effect rows: %w", err)
	}

	return snap, true, nil
}

// Delete removes an actor and its rows. Used when an actor is
// permanently destroyed.
func (r *ActorRepository) Delete(ctx context.Context, actor string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM actors WHERE name = $1`, actor); err != nil {
		return fmt.Errorf("deleting actor %q: %w", actor, err)
	}
	return nil
}
