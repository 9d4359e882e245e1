// Package bitio implements the little-endian, bit-level I/O primitives
// shared by every Quake II wire dialect: fixed-width integers, the
// varuint64 encoding used by Q2PRO's extended demo formats, and the
// Q2PRO "i23" delta coordinate.
package bitio

import (
	"errors"
	"fmt"
)

// Code identifies the class of a protocol-level failure, mirroring the
// error taxonomy a codec caller needs to branch on (spec §7).
type Code int

const (
	// CodeBadData means the wire data violated the protocol: an
	// impossible flag combination, an out-of-range value, a malformed
	// number.
	CodeBadData Code = iota + 1
	// CodeBadCommand means an unknown message ID was seen at a
	// top-level dispatch boundary.
	CodeBadCommand
	// CodeExpectedServerData means the first message read by a client
	// reader was not serverdata (or stufftext).
	CodeExpectedServerData
	// CodeProtocolNotSupported means a handshake requested a dialect
	// outside the accepted list, or a feature the dialect lacks.
	CodeProtocolNotSupported
	// CodeNoAcceptableProtocol means the challenge's protocol list and
	// the caller's accepted list were disjoint.
	CodeNoAcceptableProtocol
	// CodeAlreadyCompressed means zpacket wrapping was refused because
	// the payload was already compressed, or compression did not help.
	CodeAlreadyCompressed
	// CodeDeflateNotSupported means the caller asked for compression on
	// a dialect or build without it.
	CodeDeflateNotSupported
	// CodeInvalidArgument means a caller-supplied buffer was nil or
	// zero-sized.
	CodeInvalidArgument
)

func (c Code) String() string {
	switch c {
	case CodeBadData:
		return "bad data"
	case CodeBadCommand:
		return "bad command"
	case CodeExpectedServerData:
		return "expected serverdata"
	case CodeProtocolNotSupported:
		return "protocol not supported"
	case CodeNoAcceptableProtocol:
		return "no acceptable protocol"
	case CodeAlreadyCompressed:
		return "already compressed"
	case CodeDeflateNotSupported:
		return "deflate not supported"
	case CodeInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// ProtocolError is returned for the non-recoverable-by-default taxonomy
// entries (spec §7): BAD_DATA, BAD_COMMAND, EXPECTED_SERVERDATA,
// PROTOCOL_NOT_SUPPORTED, NO_ACCEPTABLE_PROTOCOL, ALREADY_COMPRESSED,
// DEFLATE_NOT_SUPPORTED, INVALID_ARGUMENT. Callers branch on Code; the
// message carries the offending value for logs.
type ProtocolError struct {
	Code Code
	Msg  string
	Err  error
}

func (e *ProtocolError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

func (e *ProtocolError) Unwrap() error { return e.Err }

// NewError constructs a *ProtocolError, wrapping cause if non-nil.
func NewError(code Code, cause error, format string, args ...any) error {
	return &ProtocolError{Code: code, Msg: fmt.Sprintf(format, args...), Err: cause}
}

// CodeOf extracts the Code from err if it (or something it wraps) is a
// *ProtocolError, and ok=false otherwise.
func CodeOf(err error) (code Code, ok bool) {
	var pe *ProtocolError
	if errors.As(err, &pe) {
		return pe.Code, true
	}
	return 0, false
}

// Control-flow sentinels: normal, expected outcomes that are not
// protocol violations (spec §7 "Recoverability").
var (
	// ErrNoMoreInput signals the byte stream is exhausted at a message
	// boundary — a normal end of packet, not a failure.
	ErrNoMoreInput = errors.New("bitio: no more input")
	// ErrNotEnoughPacketSpace signals a writer could not fit the next
	// unit into the remaining output buffer; the caller must flush and
	// retry with the same state.
	ErrNotEnoughPacketSpace = errors.New("bitio: not enough packet space")
)
