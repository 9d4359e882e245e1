// Package download implements the stateful file-download sub-protocol
// (spec.md §4.6, SPEC_FULL.md §4.6): a Fresh → Active →
// (Complete|Aborted) → Dropped machine that chunks a byte slice into
// svc_download messages sized to whatever packet space the caller's
// transport currently has, with an optional deflate pass behind the
// narrow Deflater interface.
package download

import (
	"errors"

	"github.com/kulaginds/q2proto-go/internal/bitio"
)

// ErrComplete is returned by Data alongside the final chunk: a
// non-fatal, expected terminal success (spec.md §7
// DOWNLOAD_COMPLETE) -- the caller still writes the returned message.
var ErrComplete = errors.New("download: complete")

// headerBytes is the fixed budget spec.md §4.6 reserves for the
// svc_download message header (opcode + size int16 + percent byte +
// whatever the dialect's download opcode needs) ahead of the payload
// in each chunk.
const headerBytes = 6

// Status is the download state machine's current phase.
type Status int

const (
	Fresh Status = iota
	Active
	Complete
	Aborted
	Dropped
)

// CompressMode selects whether a State deflates its payload.
type CompressMode int

const (
	// CompressNever never deflates, regardless of dialect support.
	CompressNever CompressMode = iota
	// CompressAuto deflates iff Supported was true at Begin.
	CompressAuto
)

// Deflater is the narrow interface a caller's real zlib/deflate
// implementation satisfies (spec.md §1 "the zlib deflate primitive"
// stays external, consumed through this interface). internal/deflateio
// provides a reference implementation; internal/download never
// imports a compression library directly.
type Deflater interface {
	// Begin starts a deflate session sized for at most maxOutput bytes
	// per GetData call.
	Begin(maxOutput int) error
	// Write feeds more uncompressed input into the session.
	Write(p []byte) error
	// GetData drains whatever compressed bytes are ready, reporting
	// how many uncompressed bytes they correspond to.
	GetData() (compressed []byte, uncompressedLen int, err error)
	// End releases the session. Safe to call more than once.
	End()
}

// State is one in-progress download. The caller owns it: construct
// with Begin, call Data repeatedly as packet space becomes available
// (each call advances the transferred counter by exactly the emitted
// payload, spec.md §4.6's cursor-advance contract), then End on every
// exit path including abort.
type State struct {
	status Status

	data      []byte // remaining uncompressed payload
	total     int
	transferred int

	mode     CompressMode
	supported bool
	deflater Deflater // nil unless compressing
}

// Begin starts a download of the full payload data. supported
// reports whether the dialect advertises deflate support, consulted
// only when mode is CompressAuto.
func Begin(data []byte, mode CompressMode, supported bool, deflater Deflater) *State {
	return &State{
		status:    Active,
		data:      data,
		total:     len(data),
		mode:      mode,
		supported: supported,
		deflater:  deflater,
	}
}

// Status reports the current phase.
func (s *State) Status() Status { return s.status }

// Total reports the uncompressed payload size.
func (s *State) Total() int { return s.total }

// Transferred reports how many uncompressed bytes have been emitted
// so far.
func (s *State) Transferred() int { return s.transferred }

func (s *State) compressing() bool {
	return s.mode == CompressAuto && s.supported && s.deflater != nil
}

// percent implements spec.md §4.6's "min(99, floor(100*transferred/total))
// while Active, 100 at Complete" formula.
func (s *State) percent() uint8 {
	if s.status == Complete {
		return 100
	}
	if s.total == 0 {
		return 99
	}
	p := 100 * s.transferred / s.total
	if p > 99 {
		p = 99
	}
	return uint8(p)
}

// Chunk is one svc_download payload, dialect-agnostic; the codec
// wraps Data/Percent/Size into its own wire form.
type Chunk struct {
	Data    []byte
	Percent uint8
	Size    int16 // -1 for an aborted download
}

// Data computes the next chunk sized to fit packetRemaining bytes
// (the caller's transport's remaining packet space), honoring the
// headerBytes budget. It returns ErrComplete alongside the final
// chunk once the payload is exhausted; ErrNotEnoughPacketSpace if
// packetRemaining leaves no room for payload after the header, in
// which case the transferred counter is NOT advanced and no chunk is
// returned (spec.md §4.6 cursor-advance contract).
func (s *State) Data(packetRemaining int) (Chunk, error) {
	if s.status != Active {
		return Chunk{}, bitio.NewError(bitio.CodeInvalidArgument, nil, "download: Data called in status %d", s.status)
	}

	available := packetRemaining - headerBytes
	if available <= 0 {
		return Chunk{}, bitio.ErrNotEnoughPacketSpace
	}

	remaining := s.data[s.transferred:]
	n := available
	if n > len(remaining) {
		n = len(remaining)
	}

	payload := remaining[:n]
	if s.compressing() {
		var err error
		payload, err = s.deflate(payload, available)
		if err != nil {
			return Chunk{}, err
		}
	}

	s.transferred += n

	chunk := Chunk{Data: payload, Percent: s.percent(), Size: int16(len(payload))}

	if s.transferred >= s.total {
		s.status = Complete
		chunk.Percent = 100
		return chunk, ErrComplete
	}
	return chunk, nil
}

func (s *State) deflate(uncompressed []byte, maxOutput int) ([]byte, error) {
	if err := s.deflater.Begin(maxOutput); err != nil {
		return nil, err
	}
	if err := s.deflater.Write(uncompressed); err != nil {
		return nil, err
	}
	data, _, err := s.deflater.GetData()
	return data, err
}

// Abort transitions an Active download to Aborted and returns the
// "download failed" chunk (size -1, the spec.md §6.2 sentinel).
func (s *State) Abort() Chunk {
	s.status = Aborted
	return Chunk{Size: -1}
}

// End releases the deflate session (if any) and marks the state
// Dropped. Safe to call more than once, and on every exit path
// (spec.md §5 "callers must invoke it on all exit paths").
func (s *State) End() {
	if s.status == Dropped {
		return
	}
	if s.deflater != nil {
		s.deflater.End()
	}
	s.status = Dropped
}
