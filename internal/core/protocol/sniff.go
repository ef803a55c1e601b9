/*
 * file: sniff.go
 * package: protocol
 * description:
 *     SniffLobbyAction is the side-effect-free decode-and-scan the gateway
 *     uses to decide routing without committing to an interpretation of
 *     the whole frame.
 */
package protocol

// LobbyAction holds, for each kind of lobby-relevant intent, the first
// occurrence found in a frame; several kinds may be set at once.
type LobbyAction struct {
	ClientInfoVersion *uint32
	WantsGameList     bool
	Create            *CreateIntent
	Join              *JoinIntent
}

// CreateIntent is the subset of CreateGame the gateway needs to route.
type CreateIntent struct {
	Cookie uint32
	Name   string
}

// JoinIntent is the subset of JoinGame the gateway needs to route.
type JoinIntent struct {
	Cookie uint32
	Name   string
}

// SniffLobbyAction decodes data and returns the first occurrence of each
// lobby intent among its flattened packets, or ok=false if the frame
// doesn't decode at all. A frame that decodes but carries no lobby intent returns a zero
// LobbyAction with ok=true.
func SniffLobbyAction(data []byte) (action LobbyAction, ok bool) {
	packets, err := DecodeFrame(data)
	if err != nil {
		return LobbyAction{}, false
	}
	for _, p := range packets {
		switch v := p.(type) {
		case ClientInfo:
			if action.ClientInfoVersion == nil {
				ver := v.Version
				action.ClientInfoVersion = &ver
			}
		case GameListQuery:
			action.WantsGameList = true
		case CreateGame:
			if action.Create == nil {
				action.Create = &CreateIntent{Cookie: v.Cookie, Name: v.Name}
			}
		case JoinGame:
			if action.Join == nil {
				action.Join = &JoinIntent{Cookie: v.Cookie, Name: v.Name}
			}
		}
	}
	return action, true
}
