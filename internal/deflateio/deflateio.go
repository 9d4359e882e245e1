// Package deflateio wraps klauspost/compress/flate for the raw-deflate
// framing R1Q2 (zpacket/zdownload) and Q2PRO (zlib downloads) layer on
// top of their message streams (spec.md §4.4). Quake II's own deflate
// usage predates zlib headers/trailers -- every dialect that compresses
// writes a bare DEFLATE stream, the same raw mode flate.NewWriter/
// flate.NewReader already speak, so no header stripping is needed.
package deflateio

import (
	"bytes"
	"io"
	"sync"

	"github.com/klauspost/compress/flate"

	"github.com/kulaginds/q2proto-go/internal/bitio"
)

// Deflater compresses and decompresses raw-DEFLATE payloads, pooling
// the underlying klauspost/compress/flate writer/reader the same way
// arloliu-mebo's ZstdCompressor pools its encoder/decoder: a fresh
// flate.Writer/Reader warms up state (Huffman tables, window) that is
// wasteful to throw away between packets on a long-lived connection.
type Deflater struct {
	level int

	writers sync.Pool
	readers sync.Pool
}

// New returns a Deflater compressing at level (flate.DefaultCompression
// if 0).
func New(level int) *Deflater {
	if level == 0 {
		level = flate.DefaultCompression
	}
	return &Deflater{level: level}
}

// Compress returns data deflated as a single raw-DEFLATE stream.
func (d *Deflater) Compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer

	fw, _ := d.writers.Get().(*flate.Writer)
	if fw == nil {
		var err error
		fw, err = flate.NewWriter(&buf, d.level)
		if err != nil {
			return nil, bitio.NewError(bitio.CodeInvalidArgument, err, "deflateio: new writer")
		}
	} else {
		fw.Reset(&buf)
	}
	defer d.writers.Put(fw)

	if _, err := fw.Write(data); err != nil {
		return nil, bitio.NewError(bitio.CodeBadData, err, "deflateio: compress")
	}
	if err := fw.Close(); err != nil {
		return nil, bitio.NewError(bitio.CodeBadData, err, "deflateio: flush")
	}
	return buf.Bytes(), nil
}

// flateResetter is the interface klauspost/compress/flate's reader
// satisfies for reuse across packets without reallocating its window.
type flateResetter interface {
	io.ReadCloser
	Reset(r io.Reader, dict []byte) error
}

// Decompress inflates a raw-DEFLATE payload previously produced by
// Compress (or by a real R1Q2/Q2PRO client/server).
func (d *Deflater) Decompress(data []byte) ([]byte, error) {
	src := bytes.NewReader(data)

	fr, _ := d.readers.Get().(flateResetter)
	if fr == nil {
		rc, ok := flate.NewReader(src).(flateResetter)
		if !ok {
			return nil, bitio.NewError(bitio.CodeAlreadyCompressed, nil, "deflateio: reader does not support reset")
		}
		fr = rc
	} else if err := fr.Reset(src, nil); err != nil {
		return nil, bitio.NewError(bitio.CodeBadData, err, "deflateio: reset reader")
	}
	defer d.readers.Put(fr)

	out, err := io.ReadAll(fr)
	if err != nil {
		return nil, bitio.NewError(bitio.CodeBadData, err, "deflateio: decompress")
	}
	return out, nil
}
