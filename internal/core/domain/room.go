/*
 * file: room.go
 * package: domain
 * description:
 *     Core entities owned by a single room actor: the room's own metadata
 *     and the four player slots attached to it. Used by the room actor.
 */
package domain

import "time"

// HostSlot is the slot index that carries host privilege.
const HostSlot = 0

// SlotCount is the fixed number of player slots a room owns.
const SlotCount = 4

// PreJoinSlot marks a connection that has attached to the room but not yet
// been promoted to a player.
const PreJoinSlot = -1

// RoomState is a room's metadata, created on the first successful
// CreateGame and destroyed when the last slot empties or the host leaves.
type RoomState struct {
	Name         string
	Password     string
	Difficulty   uint32
	Seed         uint32
	CreatedAt    time.Time
	Type         uint32
	Version      uint32
	LastActivity time.Time
}

// Player is a connection that has been promoted into one of a room's four
// slots. Slot 0 is always the host.
type Player struct {
	Slot          int
	Cookie        uint32
	ClientVersion uint32
}

// IsHost reports whether this player occupies the host slot.
func (p Player) IsHost() bool {
	return p.Slot == HostSlot
}
