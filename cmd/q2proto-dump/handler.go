package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"

	"github.com/kulaginds/q2proto-go/internal/config"
	_ "github.com/kulaginds/q2proto-go/internal/dialect/q2pro"
	_ "github.com/kulaginds/q2proto-go/internal/dialect/q2repro"
	_ "github.com/kulaginds/q2proto-go/internal/dialect/r1q2"
	_ "github.com/kulaginds/q2proto-go/internal/dialect/vanilla"
	"github.com/kulaginds/q2proto-go/internal/dump"
	"github.com/kulaginds/q2proto-go/internal/handshake"
	"github.com/kulaginds/q2proto-go/internal/logging"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
	"github.com/kulaginds/q2proto-go/internal/servedemo"
)

const (
	webSocketReadBufferSize  = 4096
	webSocketWriteBufferSize = 4096
)

// dumpMessage is the JSON shape the /dump websocket endpoint sends
// back for each decoded server message, or for a decode error.
type dumpMessage struct {
	Type  string `json:"type"`
	Kind  string `json:"kind,omitempty"`
	Text  string `json:"text,omitempty"`
	Error string `json:"error,omitempty"`
}

// dumpHandler upgrades to a websocket and decodes every binary frame
// the client sends as one network packet, using internal/dump.Decoder.
// The first frame must contain a svc_serverdata message, matching how
// a real client would start reading a capture (spec.md §7).
func dumpHandler(cfg *config.Config) http.HandlerFunc {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  webSocketReadBufferSize,
		WriteBufferSize: webSocketWriteBufferSize,
		CheckOrigin: func(r *http.Request) bool {
			return isOriginAllowed(r.Header.Get("Origin"), cfg.Security.AllowedOrigins, r.Host)
		},
	}

	return func(w http.ResponseWriter, r *http.Request) {
		wsConn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Error("upgrade websocket: %v", err)
			return
		}
		defer func() {
			if cerr := wsConn.Close(); cerr != nil {
				logging.Error("close websocket: %v", cerr)
			}
		}()

		d := dump.New(q2proto.Options{ExtendedLimits: cfg.Demo.ExtendedLimits})

		for {
			_, data, err := wsConn.ReadMessage()
			if err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) {
					logging.Debug("dump: read message: %v", err)
				}
				return
			}

			msgs, derr := d.Decode(data)
			for _, m := range msgs {
				sendDumpJSON(wsConn, dumpMessage{Type: "message", Kind: fmt.Sprintf("%T", m), Text: fmt.Sprintf("%+v", m)})
			}
			if derr != nil {
				sendDumpJSON(wsConn, dumpMessage{Type: "error", Error: derr.Error()})
				return
			}
		}
	}
}

func sendDumpJSON(wsConn *websocket.Conn, msg dumpMessage) {
	payload, err := json.Marshal(msg)
	if err != nil {
		logging.Error("marshal dump message: %v", err)
		return
	}
	if err := wsConn.WriteMessage(websocket.TextMessage, payload); err != nil {
		logging.Debug("write dump message: %v", err)
	}
}

// selfTestHandler runs internal/servedemo against a connect-string
// query parameter and reports the round trip as JSON, so a user can
// exercise the full handshake+dialect+gamestate+download stack from a
// browser without capturing any real traffic.
func selfTestHandler(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		connectLine := r.URL.Query().Get("connect")
		if connectLine == "" {
			connectLine = defaultConnectLine()
		}

		gameType, err := gameTypeFromString(cfg.Demo.GameType)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		report, err := servedemo.Run(
			q2proto.Options{ExtendedLimits: cfg.Demo.ExtendedLimits},
			connectLine,
			acceptedProtocols(gameType),
			gameType,
			servedemo.DefaultScenario(),
		)
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(dumpMessage{Type: "error", Error: err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(report)
	}
}

func defaultConnectLine() string {
	conn := handshake.Connect{
		Protocol:    protocol.VersionVanilla,
		QPort:       1,
		Challenge:   1,
		UserInfo:    `\name\dumper`,
		NetchanType: 0,
	}
	return handshake.FormatConnect(conn)
}

func gameTypeFromString(s string) (handshake.GameType, error) {
	switch s {
	case "vanilla":
		return handshake.GameTypeVanilla, nil
	case "extended":
		return handshake.GameTypeExtendedQ2PRO, nil
	case "rerelease":
		return handshake.GameTypeRerelease, nil
	default:
		return 0, fmt.Errorf("unknown demo game type %q", s)
	}
}

func acceptedProtocols(gameType handshake.GameType) []protocol.Version {
	all := []protocol.Version{
		protocol.VersionVanilla,
		protocol.VersionR1Q2,
		protocol.VersionQ2PRO,
		protocol.VersionQ2rePRO,
	}
	return handshake.FilterAcceptable(all, gameType)
}

// isOriginAllowed reports whether origin may access the websocket
// endpoint: localhost, 127.0.0.1 and an "http://" origin equal to the
// request host are always accepted; beyond those, an allow-list entry
// of "*" accepts any origin, and other entries match the origin exactly
// or match its host when written with or without an http/https scheme.
// With an empty allow-list only the always-accepted origins pass.
func isOriginAllowed(origin string, allowedOrigins []string, host string) bool {
	if origin == "" {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}

	if parsed.Hostname() == "localhost" || parsed.Hostname() == "127.0.0.1" || origin == "http://"+host {
		return true
	}

	for _, entry := range allowedOrigins {
		candidate := strings.TrimSpace(entry)
		if candidate == "" {
			continue
		}
		if candidate == "*" || candidate == origin {
			return true
		}
		if strings.TrimPrefix(candidate, "http://") == parsed.Host || strings.TrimPrefix(candidate, "https://") == parsed.Host {
			return true
		}
	}

	return false
}
