// Package airspacelog is the Airspace Logger: it persists a
// zstd-compressed msgpack record of the fleet to disk on its own
// cadence, and writes a terminal EXIT record on shutdown.
// Rotation follows the same lumberjack convention as logging.New,
// since a long-running simulator's airspace log is exactly the kind
// of append-only, time-ordered file lumberjack is meant for.
package airspacelog

import (
	"fmt"
	"io"
	"sync"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/atc-sim/atc-sim/airspace"
	"github.com/atc-sim/atc-sim/wire"
)

// Writer appends LogRecord entries to a rotating, zstd-framed file.
// Each record is written as a 4-byte big-endian length prefix followed
// by one zstd frame, so Reader can split the stream back into records.
// A record truncated mid-write is not skipped: Reader returns an error
// on reaching it.
type Writer struct {
	mu  sync.Mutex
	out *lumberjack.Logger
	enc *zstd.Encoder
}

// New opens (creating if necessary) the rotating airspace log file at
// path. maxMB/maxBackups/maxAgeDays are the lumberjack rotation fields
// that logging.New sets internally for its own rotating logs.
func New(path string, maxMB, maxBackups, maxAgeDays int) (*Writer, error) {
	out := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    maxMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
		Compress:   false, // this writer does its own zstd framing per record
	}
	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return nil, fmt.Errorf("airspacelog: zstd writer: %w", err)
	}
	return &Writer{out: out, enc: enc}, nil
}

// WriteSnapshot appends a LOG_AIRSPACE record for snap at simulated
// time timestampSec.
func (w *Writer) WriteSnapshot(snap airspace.FleetSnapshot, timestampSec int64) error {
	fw := wire.ToWire(snap, timestampSec)
	rec := wire.LogRecord{
		Kind:      wire.LogAirspace,
		Timestamp: timestampSec,
		NumPlanes: fw.NumPlanes,
	}
	for i := int32(0); i < fw.NumPlanes; i++ {
		rec.Positions = append(rec.Positions, fw.Positions[i])
		rec.Velocities = append(rec.Velocities, fw.Velocities[i])
	}
	return w.append(rec)
}

// WriteExit appends the terminal LOG_EXIT record, the marker that the
// simulation ended cleanly rather than mid-stream.
func (w *Writer) WriteExit(timestampSec int64) error {
	return w.append(wire.LogRecord{Kind: wire.LogExit, Timestamp: timestampSec})
}

func (w *Writer) append(rec wire.LogRecord) error {
	payload, err := wire.Marshal(rec)
	if err != nil {
		return fmt.Errorf("airspacelog: marshal: %w", err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	compressed := w.enc.EncodeAll(payload, nil)
	frame := make([]byte, 4+len(compressed))
	putUint32(frame, uint32(len(compressed)))
	copy(frame[4:], compressed)

	if _, err := w.out.Write(frame); err != nil {
		return fmt.Errorf("airspacelog: write: %w", err)
	}
	return nil
}

func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	var errOut error
	if err := w.enc.Close(); err != nil {
		errOut = err
	}
	if err := w.out.Close(); err != nil && errOut == nil {
		errOut = err
	}
	return errOut
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

// Reader decodes records written by Writer, for tests and for a
// future dev-utility replay tool.
type Reader struct {
	src io.Reader
	dec *zstd.Decoder
}

func NewReader(src io.Reader) (*Reader, error) {
	dec, err := zstd.NewReader(nil)
	if err != nil {
		return nil, err
	}
	return &Reader{src: src, dec: dec}, nil
}

// Next reads and decodes the next record, returning io.EOF when the
// stream is exhausted.
func (r *Reader) Next() (wire.LogRecord, error) {
	var lenBuf [4]byte
	if _, err := io.ReadFull(r.src, lenBuf[:]); err != nil {
		return wire.LogRecord{}, err
	}
	n := uint32(lenBuf[0])<<24 | uint32(lenBuf[1])<<16 | uint32(lenBuf[2])<<8 | uint32(lenBuf[3])
	buf := make([]byte, n)
	if _, err := io.ReadFull(r.src, buf); err != nil {
		return wire.LogRecord{}, err
	}
	decoded, err := r.dec.DecodeAll(buf, nil)
	if err != nil {
		return wire.LogRecord{}, fmt.Errorf("airspacelog: decompress: %w", err)
	}
	var rec wire.LogRecord
	if err := wire.Unmarshal(decoded, &rec); err != nil {
		return wire.LogRecord{}, fmt.Errorf("airspacelog: unmarshal: %w", err)
	}
	return rec, nil
}
