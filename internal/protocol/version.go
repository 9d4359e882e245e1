// Package protocol holds the wire constants shared by every dialect:
// protocol version numbers, message IDs, entity/player delta bit
// flags, and the handful of packing tables (solid boxes, default
// sound values, vertex normals) the codecs consult directly.
package protocol

// Version identifies a Quake II protocol major version, as sent in
// the connect handshake and serverdata message.
type Version int32

const (
	VersionOldDemo Version = 26
	VersionVanilla Version = 34
	VersionR1Q2    Version = 35
	VersionQ2PRO   Version = 36

	// VersionQ2PROExtDemo/VersionQ2PROExtDemo2/VersionQ2PROExtDemoFog
	// are Q2PRO demo-file protocol numbers: demos record the protocol
	// as one of these instead of 36 once the extended-state wire
	// format settled, so a demo reader dispatches on them the same
	// way a live connection dispatches on VersionQ2PRO+minor.
	VersionQ2PROExtDemo    Version = 1018
	VersionQ2PROExtDemo2   Version = 1024
	VersionQ2PROExtDemoFog Version = 1026

	VersionQ2rePRO Version = 1027
)

func (v Version) String() string {
	switch v {
	case VersionOldDemo:
		return "old-demo"
	case VersionVanilla:
		return "vanilla"
	case VersionR1Q2:
		return "r1q2"
	case VersionQ2PRO:
		return "q2pro"
	case VersionQ2PROExtDemo, VersionQ2PROExtDemo2, VersionQ2PROExtDemoFog:
		return "q2pro-demo"
	case VersionQ2rePRO:
		return "q2repro"
	default:
		return "unknown"
	}
}

// Minor identifies a revision within the R1Q2/Q2PRO major version;
// vanilla and old-demo have no minor revisions.
type Minor int32

// R1Q2 minor revisions.
const (
	MinorR1Q2Minimum  Minor = 1903
	MinorR1Q2UCmd     Minor = 1904
	MinorR1Q2LongSolid Minor = 1905
	MinorR1Q2Current  Minor = 1905
)

// Q2PRO minor revisions.
const (
	MinorQ2PROMinimum         Minor = 1015
	MinorQ2PROReserved        Minor = 1016
	MinorQ2PROBeamOrigin      Minor = 1017
	MinorQ2PROShortAngles     Minor = 1018
	MinorQ2PROServerState     Minor = 1019
	MinorQ2PROExtendedLayout  Minor = 1020
	MinorQ2PROZlibDownloads   Minor = 1021
	MinorQ2PROClientnumShort  Minor = 1022
	MinorQ2PROCinematics      Minor = 1023
	MinorQ2PROExtendedLimits  Minor = 1024
	MinorQ2PROExtendedLimits2 Minor = 1025
	MinorQ2PROCurrent         Minor = 1025
)
