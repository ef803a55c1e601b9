/*
 * file: routes.go
 * package: httpapi
 * description:
 *     Route registration for the combined gateway/room/directory process.
 *     Kept as a plain net/http.ServeMux, router-free, consistent with the
 *     rest of this codebase.
 */
package httpapi

import (
	"net/http"
	"strings"

	"github.com/juan10024/roomrelay/internal/actorspace"
	"github.com/juan10024/roomrelay/internal/directory"
	"github.com/juan10024/roomrelay/internal/gateway"
)

// Register wires every HTTP/WS endpoint this process serves onto mux:
// the public gateway entry points, the directory's internal RPC surface,
// the per-room internal /ws endpoint, and a liveness probe.
func Register(mux *http.ServeMux, gw *gateway.Gateway, dirHandler *directory.Handler, ns *actorspace.Namespace) {
	mux.HandleFunc("/ws", gw.ServeWS)
	mux.HandleFunc("/websocket", gw.ServeWS)

	mux.HandleFunc("/internal/room/", func(w http.ResponseWriter, r *http.Request) {
		name, ok := roomNameFromPath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}
		room := ns.EnsureRoom(name)
		room.ServeWS(w, r)
	})

	mux.HandleFunc("/upsert", dirHandler.HandleUpsert)
	mux.HandleFunc("/remove", dirHandler.HandleRemove)
	mux.HandleFunc("/list.bin", dirHandler.HandleListBin)

	mux.HandleFunc("/healthz", handleHealthz)
}

func handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// roomNameFromPath extracts name from "/internal/room/<name>/ws".
func roomNameFromPath(path string) (string, bool) {
	const prefix = "/internal/room/"
	const suffix = "/ws"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	name := strings.TrimSuffix(strings.TrimPrefix(path, prefix), suffix)
	if name == "" {
		return "", false
	}
	return name, true
}
