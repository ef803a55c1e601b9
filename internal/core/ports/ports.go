/*
 * file: ports.go
 * package: ports
 * description:
 *			This file defines the interfaces that form the boundaries of the application's core logic (hexagon).
 *			These ports allow the core services to be decoupled from specific infrastructure implementations:
 *			persistence for the directory's snapshot, and addressing for room actors.
 */

package ports

import (
	"context"

	"github.com/juan10024/roomrelay/internal/core/domain"
)

/* DirectoryStore defines the contract for persisting the directory's
 * name -> DirectoryEntry mapping. Any storage solution must implement this
 * to back the directory actor (§4.4: lazily loaded, at-most-one loader,
 * persisted after each mutation).
 */
type DirectoryStore interface {
	Load(ctx context.Context) (map[string]domain.DirectoryEntry, error)
	Save(ctx context.Context, entries map[string]domain.DirectoryEntry) error
}

// RoomHandle is the stable address a namespace hands back for a given room
// name: a stand-in for cluster-wide actor addressing.
type RoomHandle interface {
	// DialURL is the internal WS endpoint the gateway bridges to.
	DialURL() string
}

// RoomNamespace resolves a room name to its singleton actor handle,
// creating the underlying actor on first resolution.
type RoomNamespace interface {
	Resolve(name string) RoomHandle
}

// DirectoryClient is how a room actor notifies the directory of
// membership changes. Calls are fire-and-forget from the room's
// perspective: failures are logged, never rolled back (§5, §7).
type DirectoryClient interface {
	Upsert(ctx context.Context, entry domain.DirectoryEntry) error
	Remove(ctx context.Context, name string) error
}

// GameListSource is how the gateway answers a GameList query while still
// Sniffing: it needs the directory's already-encoded snapshot frame, not
// the entries themselves, since it never decodes or re-encodes protocol
// packets of its own (I5).
type GameListSource interface {
	ListBin(ctx context.Context) ([]byte, error)
}
