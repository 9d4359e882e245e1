// Package common holds the wire-format building blocks shared by
// every dialect subpackage (vanilla, r1q2, q2pro, q2repro): entity- and
// player-state delta codecs, the small fixed-shape messages that don't
// vary across dialects, and the usercmd/move reader. A dialect package
// configures a Profile for its variant and composes these helpers with
// whatever it does differently (solid packing width, Setting message
// opcode, deflate support) rather than re-deriving the wire format from
// scratch, the same layering q2proto_internal_common.c gives the C
// implementation's per-protocol front ends.
package common

import "github.com/kulaginds/q2proto-go/internal/protocol"

// CoordMode selects how a delta-coded coordinate component is carried:
// CoordShort sends an absolute 16-bit scaled value per changed
// component (vanilla/R1Q2); CoordI23 sends Q2PRO's 23-bit delta-or-
// absolute coordinate, which needs one fewer bit of header per
// component to flag presence but carries its own absolute/relative tag
// per value.
type CoordMode int

const (
	CoordShort CoordMode = iota
	CoordI23
)

// Profile names the wire-shape choices that vary across the Quake II
// dialect family (spec.md §4.4), so internal/dialect/common's shared
// codec can be reused by every dialect instead of copied per package.
type Profile struct {
	Version protocol.Version

	Coords CoordMode

	// ExtendedState gates the Q2PRO-extended entity/player fields:
	// 64-bit effects, per-component alpha/scale, loop volume/
	// attenuation, and the wider 64-entry stat bitmask.
	ExtendedState bool

	// ClientNumShort makes WritePlayerDelta/ReadPlayerDelta carry
	// clientnum as part of the player state (Q2PRO >= 1022) rather
	// than only in serverdata.
	ClientNumShort bool

	// DamageBlend enables the separate damage-blend colour channel
	// (Q2PRO extended-demo-v2 onward, Q2rePRO).
	DamageBlend bool

	// Fog enables the playerfog extras (Q2PRO extended-demo-v2+fog,
	// Q2rePRO).
	Fog bool

	// Rerelease enables Q2rePRO's own viewheight/gunskin player-state
	// fields, on top of what Fog/DamageBlend already cover.
	Rerelease bool

	// LongSolid carries entity_state.solid as a 32-bit PackSolid32
	// value instead of vanilla's 16-bit PackSolid16 (R1Q2 minor
	// >= MinorR1Q2LongSolid onward, and every Q2PRO-family dialect).
	LongSolid bool

	// ShortAngles carries an entity delta's changed angle components
	// as 16-bit scaled shorts instead of vanilla's 8-bit scaled chars
	// (Q2PRO minor >= MinorQ2PROShortAngles onward).
	ShortAngles bool

	// StatCount is the number of stat slots/bitmask bits a frame
	// message carries: protocol.MaxStats/2 (32) for vanilla-derived
	// dialects, protocol.MaxStats (64) once ExtendedState is set.
	StatCount int
}

func (p Profile) statCount() int {
	if p.StatCount != 0 {
		return p.StatCount
	}
	if p.ExtendedState {
		return protocol.MaxStats
	}
	return protocol.MaxStats / 2
}
