/*
 * file: namespace.go
 * package: actorspace
 * description:
 *     Namespace stands in for cluster-wide actor addressing: given a room
 *     name, it returns a stable dial target for that room's actor. In
 *     this single-process implementation the "dial" is a loopback WS to
 *     the room's own internal /ws endpoint, served off the same
 *     long-lived http.Server as everything else.
 */
package actorspace

import (
	"context"
	"fmt"
	"net/url"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/juan10024/roomrelay/internal/core/ports"
	"github.com/juan10024/roomrelay/internal/roomactor"
)

// Namespace creates and tracks one roomactor.Room per name, lazily, and
// tears a room down once its actor reports itself closed.
type Namespace struct {
	selfAddr      string
	dirClient     ports.DirectoryClient
	log           *logrus.Logger
	maxFrameBytes int

	mu    sync.Mutex
	rooms map[string]*roomactor.Room
	ctx   context.Context
	stop  func()
}

func New(ctx context.Context, selfAddr string, dirClient ports.DirectoryClient, log *logrus.Logger, maxFrameBytes int) *Namespace {
	return &Namespace{
		selfAddr:      selfAddr,
		dirClient:     dirClient,
		log:           log,
		maxFrameBytes: maxFrameBytes,
		rooms:         make(map[string]*roomactor.Room),
		ctx:           ctx,
	}
}

// handle implements ports.RoomHandle for a resolved room.
type handle struct {
	dialURL string
}

func (h handle) DialURL() string { return h.dialURL }

// Resolve returns the dial handle for name, creating and starting its
// actor on first use (§4.2 "the gateway resolves the target room actor,
// creating it on first reference").
func (n *Namespace) Resolve(name string) ports.RoomHandle {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.rooms[name]; !ok {
		n.spawn(name)
	}

	u := url.URL{Scheme: "ws", Host: n.selfAddr, Path: fmt.Sprintf("/internal/room/%s/ws", name)}
	return handle{dialURL: u.String()}
}

// RoomFor exposes the underlying actor for direct registration of its
// internal /ws route; it does not create the room if absent.
func (n *Namespace) RoomFor(name string) (*roomactor.Room, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	room, ok := n.rooms[name]
	return room, ok
}

// EnsureRoom creates and starts name's actor if it doesn't already exist,
// returning it either way.
func (n *Namespace) EnsureRoom(name string) *roomactor.Room {
	n.mu.Lock()
	defer n.mu.Unlock()
	if room, ok := n.rooms[name]; ok {
		return room
	}
	return n.spawn(name)
}

func (n *Namespace) spawn(name string) *roomactor.Room {
	room := roomactor.New(name, n.dirClient, n.log, n.maxFrameBytes, n.onRoomClosed)
	n.rooms[name] = room
	go room.Run(n.ctx)
	n.log.WithField("room", name).Info("room actor started")
	return room
}

func (n *Namespace) onRoomClosed(name string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.rooms, name)
	n.log.WithField("room", name).Info("room actor closed")
}
