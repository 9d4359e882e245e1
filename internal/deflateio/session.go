package deflateio

import "github.com/kulaginds/q2proto-go/internal/download"

// Session adapts Deflater's whole-buffer Compress to the incremental
// Begin/Write/GetData/End shape internal/download's State drives: it
// buffers every Write call and deflates the accumulated input in one
// pass on GetData, matching how State.deflate only ever makes one
// Begin/Write/GetData round trip per chunk.
type Session struct {
	d   *Deflater
	buf []byte
}

// NewSession returns a download.Deflater backed by d.
func (d *Deflater) NewSession() *Session {
	return &Session{d: d}
}

func (s *Session) Begin(maxOutput int) error {
	s.buf = s.buf[:0]
	return nil
}

func (s *Session) Write(p []byte) error {
	s.buf = append(s.buf, p...)
	return nil
}

func (s *Session) GetData() (compressed []byte, uncompressedLen int, err error) {
	out, err := s.d.Compress(s.buf)
	if err != nil {
		return nil, 0, err
	}
	return out, len(s.buf), nil
}

func (s *Session) End() {}

var _ download.Deflater = (*Session)(nil)
