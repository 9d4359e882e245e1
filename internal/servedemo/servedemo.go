// Package servedemo drives one complete, in-memory client/server
// session through every layer this module exposes: handshake
// negotiation, a dialect's serverdata/gamestate/download writers, and
// the matching client-side readers that decode what was just written.
// cmd/q2proto-dump runs it as a self-test so a user can point the
// demonstration CLI at any supported protocol/minor and see a full
// round trip succeed without needing a real Quake II server or client
// on hand.
package servedemo

import (
	"errors"
	"fmt"

	"github.com/kulaginds/q2proto-go/internal/bitio"
	"github.com/kulaginds/q2proto-go/internal/deflateio"
	"github.com/kulaginds/q2proto-go/internal/dialect"
	"github.com/kulaginds/q2proto-go/internal/dialect/q2pro"
	"github.com/kulaginds/q2proto-go/internal/dialect/q2repro"
	"github.com/kulaginds/q2proto-go/internal/dialect/r1q2"
	"github.com/kulaginds/q2proto-go/internal/dialect/vanilla"
	"github.com/kulaginds/q2proto-go/internal/download"
	"github.com/kulaginds/q2proto-go/internal/gamestate"
	"github.com/kulaginds/q2proto-go/internal/handshake"
	"github.com/kulaginds/q2proto-go/internal/message"
	"github.com/kulaginds/q2proto-go/internal/packed"
	"github.com/kulaginds/q2proto-go/internal/protocol"
	"github.com/kulaginds/q2proto-go/internal/q2proto"
)

// packetSize is the conventional Quake II UDP packet budget this demo
// paces its writes to (spec.md §4.5/§4.6's packet-space-bounded
// streaming), well under Ethernet MTU so the loops below exercise
// resumption at least once for a non-trivial gamestate/download.
const packetSize = 512

// Scenario is the demo content a self-test session sends: a handful of
// configstrings and baselines for the gamestate, and a payload for the
// download sub-protocol.
type Scenario struct {
	ConfigStrings []gamestate.ConfigString
	Baselines     []gamestate.Baseline
	Download      []byte
}

// DefaultScenario returns a small, fixed Scenario exercising both
// gamestate item kinds and a download; at packetSize the download
// payload fits in a single chunk.
func DefaultScenario() Scenario {
	return Scenario{
		ConfigStrings: []gamestate.ConfigString{
			{Index: 0, Value: "maps/q2dm1.bsp"},
			{Index: 1, Value: "models/weapons/v_blast/tris.md2"},
		},
		Baselines: []gamestate.Baseline{
			{EntNum: 1, State: packed.EntityState{ModelIndex: 1, Origin: [3]int32{128, 64, 32}}},
			{EntNum: 2, State: packed.EntityState{ModelIndex: 2, Origin: [3]int32{256, 64, 32}, Solid: 0}},
		},
		Download: []byte("q2proto-dump self-test download payload, repeated to span more than one packet. " +
			"q2proto-dump self-test download payload, repeated to span more than one packet."),
	}
}

// Report summarizes one self-test run for logging.
type Report struct {
	Protocol    protocol.Version
	Minor       protocol.Minor
	PacketCount int
	WireBytes   int
	Messages    []message.ServerMessage
}

// Run negotiates connectLine against accepted/gameType (spec.md §4.7),
// binds the resulting dialect, writes scenario as serverdata +
// gamestate + a one-shot download, then re-reads every byte it just
// wrote through a fresh client context and returns what was decoded.
func Run(opts q2proto.Options, connectLine string, accepted []protocol.Version, gameType handshake.GameType, scenario Scenario) (*Report, error) {
	conn, err := handshake.ParseConnect(connectLine)
	if err != nil {
		return nil, fmt.Errorf("parse connect: %w", err)
	}

	allowed := handshake.FilterAcceptable(accepted, gameType)
	ok := false
	for _, v := range allowed {
		if v == conn.Protocol {
			ok = true
			break
		}
	}
	if !ok {
		return nil, bitio.NewError(bitio.CodeNoAcceptableProtocol, nil, "servedemo: protocol %d not acceptable", conn.Protocol)
	}

	sc := q2proto.NewServerContext(opts)
	if err := dialect.BindServer(sc, conn.Protocol, conn.Minor); err != nil {
		return nil, fmt.Errorf("bind server: %w", err)
	}

	packets, err := writeSession(sc, scenario)
	if err != nil {
		return nil, fmt.Errorf("write session: %w", err)
	}

	messages, err := readSession(opts, packets)
	if err != nil {
		return nil, fmt.Errorf("read session: %w", err)
	}

	wireBytes := 0
	for _, p := range packets {
		wireBytes += len(p)
	}

	return &Report{
		Protocol:    sc.Protocol,
		Minor:       sc.Minor,
		PacketCount: len(packets),
		WireBytes:   wireBytes,
		Messages:    messages,
	}, nil
}

func writeSession(sc *q2proto.ServerContext, scenario Scenario) ([][]byte, error) {
	var packets [][]byte

	var sd message.ServerData
	sc.FillServerData(&sd)
	sd.ServerCount = 1
	sd.GameDir = "q2proto-dump"
	sd.LevelName = "q2dm1"

	w := bitio.NewWriteBuffer(packetSize)
	if err := sc.ServerWrite(w, sd); err != nil {
		return nil, fmt.Errorf("write serverdata: %w", err)
	}
	packets = append(packets, append([]byte(nil), w.Bytes()...))

	gsWriter, err := newGamestateWriter(sc, scenario)
	if err != nil {
		return nil, err
	}

	for {
		w := bitio.NewWriteBuffer(packetSize)
		err := sc.WriteGamestate(w, gsWriter)
		if len(w.Bytes()) > 0 {
			packets = append(packets, append([]byte(nil), w.Bytes()...))
		}
		if err == nil {
			break
		}
		if !errors.Is(err, bitio.ErrNotEnoughPacketSpace) {
			return nil, fmt.Errorf("write gamestate: %w", err)
		}
	}

	deflater := deflateio.New(0)
	state := download.Begin(scenario.Download, download.CompressAuto, sc.Features.RawCompressedDownloads, deflater.NewSession())
	defer state.End()

	for {
		w := bitio.NewWriteBuffer(packetSize)
		chunk, err := state.Data(packetSize)
		if err != nil && !errors.Is(err, download.ErrComplete) {
			return nil, fmt.Errorf("download chunk: %w", err)
		}
		dl := message.Download{Size: chunk.Size, Percent: chunk.Percent, Data: chunk.Data}
		if werr := sc.ServerWrite(w, dl); werr != nil {
			return nil, fmt.Errorf("write download: %w", werr)
		}
		packets = append(packets, append([]byte(nil), w.Bytes()...))
		if errors.Is(err, download.ErrComplete) {
			break
		}
	}

	return packets, nil
}

// newGamestateWriter picks the dialect-specific constructor by
// negotiated protocol: internal/dialect.Codec has no generic
// "build a gamestate writer" method (only "drive one already built"),
// since the wire format for a configstring/baseline item is fixed once
// Profile is known but a Profile itself is per-dialect/per-minor
// derived state the Codec interface doesn't expose.
func newGamestateWriter(sc *q2proto.ServerContext, scenario Scenario) (*gamestate.Writer, error) {
	switch sc.Protocol {
	case protocol.VersionVanilla, protocol.VersionOldDemo:
		return vanilla.NewGamestateWriter(scenario.ConfigStrings, scenario.Baselines), nil
	case protocol.VersionR1Q2:
		return r1q2.NewGamestateWriter(sc.Minor, scenario.ConfigStrings, scenario.Baselines), nil
	case protocol.VersionQ2PRO, protocol.VersionQ2PROExtDemo, protocol.VersionQ2PROExtDemo2, protocol.VersionQ2PROExtDemoFog:
		return q2pro.NewGamestateWriter(sc.Minor, scenario.ConfigStrings, scenario.Baselines), nil
	case protocol.VersionQ2rePRO:
		return q2repro.NewGamestateWriter(scenario.ConfigStrings, scenario.Baselines), nil
	default:
		return nil, bitio.NewError(bitio.CodeProtocolNotSupported, nil, "servedemo: no gamestate writer for protocol %d", sc.Protocol)
	}
}

func readSession(opts q2proto.Options, packets [][]byte) ([]message.ServerMessage, error) {
	cc := q2proto.NewClientContext(opts)
	var messages []message.ServerMessage

	for i, pkt := range packets {
		r := bitio.NewBuffer(pkt)

		if i == 0 {
			cmd, err := r.ReadU8()
			if err != nil {
				return nil, fmt.Errorf("read serverdata opcode: %w", err)
			}
			if protocol.ServerCommand(cmd) != protocol.SvcServerData {
				return nil, bitio.NewError(bitio.CodeExpectedServerData, nil, "servedemo: first packet opcode is %d, not svc_serverdata", cmd)
			}

			proto, err := r.ReadU32()
			if err != nil {
				return nil, fmt.Errorf("read serverdata protocol: %w", err)
			}

			var sd message.ServerData
			sd.Protocol = int32(proto)
			if err := dialect.ContinueServerData(cc, r, &sd); err != nil {
				return nil, fmt.Errorf("continue serverdata: %w", err)
			}
			messages = append(messages, sd)
		}

		for r.Remaining() > 0 {
			msg, err := cc.ClientRead(r)
			if err != nil {
				return nil, fmt.Errorf("client read: %w", err)
			}
			messages = append(messages, msg)
		}
	}

	return messages, nil
}
