package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/udisondev/gas2go/internal/data"
	"github.com/udisondev/gas2go/internal/db"
	"github.com/udisondev/gas2go/internal/game/ability"
	"github.com/udisondev/gas2go/internal/game/attribute"
	"github.com/udisondev/gas2go/internal/game/world"
)

// server ties the authoritative world to loaded content and optional
// persistence. The tick goroutine owns the world; the save loop owns the
// database and only ever sees snapshots handed over a channel.
type server struct {
	world   *world.World
	library *data.Library
	repo    *db.ActorRepository

	saveEvery int // ticks between snapshot flushes, 0 disables
	snapshots chan ability.Snapshot
}

func newServer(w *world.World, lib *data.Library, repo *db.ActorRepository) *server {
	return &server{
		world:     w,
		library:   lib,
		repo:      repo,
		snapshots: make(chan ability.Snapshot, 256),
	}
}

// SpawnActor registers a new actor with the standard vitals set and,
// when persistence is on, restores its previous state. Must be called
// before the tick loop starts or from within it.
func (s *server) SpawnActor(ctx context.Context, name string) *ability.Component {
	vitals := attribute.NewSet("vitals", nil)
	vitals.Declare("health", 100)
	vitals.Declare("mana", 100)
	vitals.Declare("speed", 10)

	c := s.world.Spawn(name, vitals)
	if c == nil {
		return nil
	}

	if s.repo != nil {
		snap, found, err := s.repo.Load(ctx, name)
		if err != nil {
			slog.Error("loading actor state", "actor", name, "err", err)
		} else if found {
			c.Restore(snap, s.library.GetEffect)
			slog.Info("actor state restored", "actor", name, "effects", len(snap.Effects))
		}
	}
	return c
}

// runTickLoop drives the fixed-step simulation until the context is
// cancelled. Wall-clock drift is absorbed by the ticker; every step uses
// the configured dt. Snapshots are queued from here so the world is never
// read concurrently with a tick.
func (s *server) runTickLoop(ctx context.Context, dt float64) error {
	ticker := time.NewTicker(time.Duration(dt * float64(time.Second)))
	defer ticker.Stop()

	ticks := 0
	for {
		select {
		case <-ctx.Done():
			s.queueSnapshots(true)
			close(s.snapshots)
			return nil
		case <-ticker.C:
			s.world.Tick(dt)
			ticks++
			if s.saveEvery > 0 && ticks%s.saveEvery == 0 {
				s.queueSnapshots(false)
			}
		}
	}
}

// queueSnapshots hands a snapshot of every actor to the save loop. A full
// queue drops the snapshot except on shutdown, where losing the final
// state is worse than a warning.
func (s *server) queueSnapshots(final bool) {
	if s.repo == nil {
		return
	}
	for _, c := range s.world.Actors() {
		snap := c.Snapshot()
		if final {
			s.snapshots <- snap
			continue
		}
		select {
		case s.snapshots <- snap:
		default:
			slog.Warn("snapshot queue full, skipping", "actor", snap.Actor)
		}
	}
}

// runSaveLoop writes queued snapshots until the tick loop closes the
// channel, then finishes the backlog on a bounded context.
func (s *server) runSaveLoop(ctx context.Context) error {
	for snap := range s.snapshots {
		if err := s.saveOne(ctx, snap); err != nil {
			slog.Error("saving actor state", "actor", snap.Actor, "err", err)
		}
	}
	return nil
}

// saveOne writes a single snapshot. After cancellation the write runs on
// a detached bounded context so the shutdown flush still lands.
func (s *server) saveOne(ctx context.Context, snap ability.Snapshot) error {
	if ctx.Err() != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
	}
	return s.repo.Save(ctx, snap)
}
