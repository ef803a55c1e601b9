/*
 * file: handlers.go
 * package: directory
 * description:
 *     HTTP endpoints exposed by the directory actor (§4.4, §6): upsert,
 *     remove, and the binary list snapshot consumed by the gateway's
 *     GameList reply path.
 */
package directory

import (
	"encoding/json"
	"net/http"

	"github.com/juan10024/roomrelay/internal/core/domain"
	"github.com/juan10024/roomrelay/internal/core/protocol"
)

// upsertRequest mirrors the JSON body §6 specifies: an entry without
// UpdatedAt, which the server stamps itself.
type upsertRequest struct {
	Name       string `json:"name"`
	Type       uint32 `json:"type"`
	SlotsUsed  int    `json:"slotsUsed"`
	SlotsTotal int    `json:"slotsTotal"`
}

type removeRequest struct {
	Name string `json:"name"`
}

// Handler bundles the directory actor behind net/http.HandlerFunc values,
// registered directly on a ServeMux with no router framework.
type Handler struct {
	dir *Directory
}

func NewHandler(dir *Directory) *Handler {
	return &Handler{dir: dir}
}

func (h *Handler) HandleUpsert(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "bad", http.StatusBadRequest)
		return
	}

	entry := domain.DirectoryEntry{
		Name:       req.Name,
		Type:       req.Type,
		SlotsUsed:  req.SlotsUsed,
		SlotsTotal: req.SlotsTotal,
	}
	if err := h.dir.Upsert(r.Context(), entry); err != nil {
		http.Error(w, "bad", http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, "ok")
}

func (h *Handler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	var req removeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		http.Error(w, "bad", http.StatusBadRequest)
		return
	}
	if err := h.dir.Remove(r.Context(), req.Name); err != nil {
		http.Error(w, "bad", http.StatusInternalServerError)
		return
	}
	writeText(w, http.StatusOK, "ok")
}

func (h *Handler) HandleListBin(w http.ResponseWriter, r *http.Request) {
	entries := h.dir.Snapshot(r.Context())

	snapshot := protocol.GameListSnapshot{Entries: make([]protocol.GameListEntry, 0, len(entries))}
	for _, e := range entries {
		snapshot.Entries = append(snapshot.Entries, protocol.GameListEntry{Type: e.Type, Name: e.Name})
	}

	body := protocol.EncodeFrame(snapshot)
	w.Header().Set("Content-Type", "application/octet-stream")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	w.Write(body)
}

func writeText(w http.ResponseWriter, code int, msg string) {
	w.WriteHeader(code)
	w.Write([]byte(msg))
}
