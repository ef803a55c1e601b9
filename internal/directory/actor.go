/*
 * file: actor.go
 * package: directory
 * description:
 *     Directory is the single-writer actor holding the name -> entry
 *     mapping (§4.4). All mutation happens on one goroutine via a command
 *     channel - the same register/unregister idiom generalized here to
 *     upsert/remove/snapshot requests.
 */
package directory

import (
	"context"
	"sort"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/ports"
)

type upsertCmd struct {
	entry domain.DirectoryEntry
	reply chan error
}

type removeCmd struct {
	name  string
	reply chan error
}

type snapshotCmd struct {
	reply chan []domain.DirectoryEntry
}

// Directory is the singleton directory actor.
type Directory struct {
	store ports.DirectoryStore
	log   *logrus.Entry

	upserts   chan upsertCmd
	removes   chan removeCmd
	snapshots chan snapshotCmd

	games  map[string]domain.DirectoryEntry
	loaded bool
}

func New(store ports.DirectoryStore, log *logrus.Logger) *Directory {
	return &Directory{
		store:     store,
		log:       log.WithField("actor", "directory"),
		upserts:   make(chan upsertCmd),
		removes:   make(chan removeCmd),
		snapshots: make(chan snapshotCmd),
		games:     make(map[string]domain.DirectoryEntry),
	}
}

// Run is the actor's serial execution loop. Call it in its own goroutine.
func (d *Directory) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case cmd := <-d.upserts:
			cmd.reply <- d.handleUpsert(ctx, cmd.entry)
		case cmd := <-d.removes:
			cmd.reply <- d.handleRemove(ctx, cmd.name)
		case cmd := <-d.snapshots:
			cmd.reply <- d.handleSnapshot(ctx)
		}
	}
}

func (d *Directory) ensureLoaded(ctx context.Context) {
	if d.loaded {
		return
	}
	games, err := d.store.Load(ctx)
	if err != nil {
		d.log.WithError(err).Error("failed to load persisted directory; starting empty")
		games = make(map[string]domain.DirectoryEntry)
	}
	d.games = games
	d.loaded = true
}

func (d *Directory) handleUpsert(ctx context.Context, entry domain.DirectoryEntry) error {
	d.ensureLoaded(ctx)
	entry.UpdatedAt = time.Now()
	d.games[entry.Name] = entry
	if err := d.store.Save(ctx, d.games); err != nil {
		d.log.WithError(err).WithField("name", entry.Name).Error("failed to persist directory after upsert")
		return err
	}
	return nil
}

func (d *Directory) handleRemove(ctx context.Context, name string) error {
	d.ensureLoaded(ctx)
	delete(d.games, name)
	if err := d.store.Save(ctx, d.games); err != nil {
		d.log.WithError(err).WithField("name", name).Error("failed to persist directory after remove")
		return err
	}
	return nil
}

func (d *Directory) handleSnapshot(ctx context.Context) []domain.DirectoryEntry {
	d.ensureLoaded(ctx)
	out := make([]domain.DirectoryEntry, 0, len(d.games))
	for _, e := range d.games {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	return out
}

// Upsert sets name's entry, bumping UpdatedAt, and persists it (I4).
func (d *Directory) Upsert(ctx context.Context, entry domain.DirectoryEntry) error {
	reply := make(chan error, 1)
	select {
	case d.upserts <- upsertCmd{entry: entry, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-reply
}

// Remove deletes name's entry and persists the change.
func (d *Directory) Remove(ctx context.Context, name string) error {
	reply := make(chan error, 1)
	select {
	case d.removes <- removeCmd{name: name, reply: reply}:
	case <-ctx.Done():
		return ctx.Err()
	}
	return <-reply
}

// Snapshot returns every entry, sorted by UpdatedAt descending, for
// GET /list.bin.
func (d *Directory) Snapshot(ctx context.Context) []domain.DirectoryEntry {
	reply := make(chan []domain.DirectoryEntry, 1)
	select {
	case d.snapshots <- snapshotCmd{reply: reply}:
	case <-ctx.Done():
		return nil
	}
	return <-reply
}
