/*
 * file: admission.go
 * package: roomactor
 * description:
 *     CreateGame/JoinGame admission gating (§4.3). Both paths share the
 *     same slot-allocation and success side effects; only the pre-checks
 *     differ.
 */
package roomactor

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"regexp"
	"time"

	"github.com/gorilla/websocket"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

// roomNamePattern is the room name grammar from §6.
var roomNamePattern = regexp.MustCompile(`^[A-Za-z0-9_-]{1,32}$`)

func (r *Room) handleCreateGame(cs *connState, p protocol.CreateGame) {
	if !roomNamePattern.MatchString(p.Name) {
		r.closeConn(cs.ws, websocket.CloseProtocolError, "invalid name")
		return
	}
	if cs.slot != domain.PreJoinSlot {
		r.reject(cs, p.Cookie, protocol.ReasonAlreadyInGame)
		return
	}
	if !cs.hasClientVersion {
		r.reject(cs, p.Cookie, protocol.ReasonVersionMismatch)
		return
	}
	if r.state != nil {
		r.reject(cs, p.Cookie, protocol.ReasonCreateExists)
		return
	}

	slot := r.lowestFreeSlot()
	if slot < 0 {
		r.reject(cs, p.Cookie, protocol.ReasonFull)
		return
	}

	r.state = &domain.RoomState{
		Name:         p.Name,
		Password:     p.Password,
		Difficulty:   p.Difficulty,
		Seed:         randomU32(),
		Type:         0,
		Version:      cs.clientVersion,
		CreatedAt:    time.Now(),
		LastActivity: time.Now(),
	}

	r.admit(cs, slot, p.Cookie, r.state.Seed, r.state.Difficulty)
}

func (r *Room) handleJoinGame(cs *connState, p protocol.JoinGame) {
	if cs.slot != domain.PreJoinSlot {
		r.reject(cs, p.Cookie, protocol.ReasonAlreadyInGame)
		return
	}
	if !cs.hasClientVersion {
		r.reject(cs, p.Cookie, protocol.ReasonVersionMismatch)
		return
	}
	if r.state == nil || r.state.Name != p.Name {
		r.reject(cs, p.Cookie, protocol.ReasonNotFound)
		return
	}
	if p.Password != r.state.Password {
		r.reject(cs, p.Cookie, protocol.ReasonIncorrectPassword)
		return
	}
	if cs.clientVersion != r.state.Version {
		r.reject(cs, p.Cookie, protocol.ReasonVersionMismatch)
		return
	}

	slot := r.lowestFreeSlot()
	if slot < 0 {
		r.reject(cs, p.Cookie, protocol.ReasonFull)
		return
	}

	r.admit(cs, slot, p.Cookie, r.state.Seed, r.state.Difficulty)
}

// admit promotes cs into slot, notifies it and every other joined player,
// and syncs the directory (§4.3 "success side effects").
func (r *Room) admit(cs *connState, slot int, cookie, seed, difficulty uint32) {
	cs.slot = slot
	cs.cookie = cookie
	r.slots[slot] = cs
	r.state.LastActivity = time.Now()

	r.send(cs, protocol.JoinAccept{Cookie: cookie, Index: uint8(slot), Seed: seed, Difficulty: difficulty})
	r.broadcastExcept(cs, protocol.Connect{ID: uint8(slot)})
	r.syncDirectory()
}

func (r *Room) reject(cs *connState, cookie uint32, reason protocol.RejectReason) {
	r.send(cs, protocol.JoinReject{Cookie: cookie, Reason: reason})
}

func (r *Room) lowestFreeSlot() int {
	for i := 0; i < domain.SlotCount; i++ {
		if r.slots[i] == nil {
			return i
		}
	}
	return -1
}

func randomU32() uint32 {
	var b [4]byte
	if _, err := rand.Read(b[:]); err != nil {
		// crypto/rand reads from the OS CSPRNG and practically never
		// fails; fall back to a time-derived value rather than panic.
		return uint32(time.Now().UnixNano())
	}
	return binary.LittleEndian.Uint32(b[:])
}

// slotsUsed counts occupied slots for the directory entry (I4).
func (r *Room) slotsUsed() int {
	n := 0
	for _, s := range r.slots {
		if s != nil {
			n++
		}
	}
	return n
}

func (r *Room) syncDirectory() {
	if r.state == nil {
		return
	}
	entry := domain.DirectoryEntry{
		Name:       r.state.Name,
		Type:       r.state.Type,
		SlotsUsed:  r.slotsUsed(),
		SlotsTotal: domain.SlotCount,
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.dirClient.Upsert(ctx, entry); err != nil {
			r.log.WithError(err).Warn("directory upsert failed")
		}
	}()
}

func (r *Room) removeDirectoryEntry(name string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := r.dirClient.Remove(ctx, name); err != nil {
			r.log.WithError(err).Warn("directory remove failed")
		}
	}()
}
