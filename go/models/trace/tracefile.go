package trace

import (
	"bytes"
	"io"
	"sync"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

var TRACE_MAGIC = "IBTR"

type TraceHeader struct {
	// MAGIC ("IBTR")
	Magic string `struc:"[4]byte"`
	// file format version
	Version uint32

	ClockUnits   uint16
	DiskUnits    uint16
	TermUnits    uint16
	ClockDivider uint32
	// 0 for overwrite, 1 for drop-newest
	Policy uint8
}

func (h *TraceHeader) Units() models.Units {
	return models.Units{Clock: int(h.ClockUnits), Disk: int(h.DiskUnits), Term: int(h.TermUnits)}
}

// TraceWriter appends handler events to a trace file. It is a models.Observer;
// the first write error is kept and returned from Close.
type TraceWriter struct {
	sync.Mutex
	w, zw io.WriteCloser
	err   error
	count int
}

func NewWriter(w io.WriteCloser, cfg *models.Config) (*TraceWriter, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}
	header := &TraceHeader{
		Magic:        TRACE_MAGIC,
		Version:      1,
		ClockUnits:   uint16(cfg.Units.Clock),
		DiskUnits:    uint16(cfg.Units.Disk),
		TermUnits:    uint16(cfg.Units.Term),
		ClockDivider: uint32(cfg.ClockDivider),
		Policy:       uint8(policy),
	}
	if err := struc.Pack(w, header); err != nil {
		return nil, errors.Wrap(err, "failed to pack header")
	}
	zw := snappy.NewBufferedWriter(w)
	return &TraceWriter{w: w, zw: zw}, nil
}

func (t *TraceWriter) Interrupt(ev models.Event) {
	t.Lock()
	defer t.Unlock()
	if t.err != nil {
		return
	}
	rec := NewRecord(ev)
	if err := struc.Pack(t.zw, &rec); err != nil {
		t.err = errors.Wrap(err, "failed to pack record")
		return
	}
	t.count++
}

// Count is the number of records written so far.
func (t *TraceWriter) Count() int {
	t.Lock()
	defer t.Unlock()
	return t.count
}

func (t *TraceWriter) Close() error {
	t.Lock()
	defer t.Unlock()
	if err := t.zw.Close(); err != nil && t.err == nil {
		t.err = err
	}
	if err := t.w.Close(); err != nil && t.err == nil {
		t.err = err
	}
	return t.err
}

type TraceReader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	buf    []byte
	Header TraceHeader
}

func NewReader(r io.ReadCloser) (*TraceReader, error) {
	t := &TraceReader{r: r}
	if err := struc.Unpack(r, &t.Header); err != nil {
		return nil, errors.Wrap(err, "failed to unpack header")
	}
	if t.Header.Magic != TRACE_MAGIC {
		return nil, errors.New("invalid trace file magic")
	}
	if t.Header.Version != 1 {
		return nil, errors.Errorf("unsupported trace version %d", t.Header.Version)
	}
	size, err := struc.Sizeof(&Record{})
	if err != nil {
		return nil, errors.Wrap(err, "sizing record")
	}
	t.buf = make([]byte, size)
	t.zr = snappy.NewReader(r)
	return t, nil
}

// Next returns the next event, or io.EOF after the last one.
func (t *TraceReader) Next() (models.Event, error) {
	if _, err := io.ReadFull(t.zr, t.buf); err != nil {
		if err == io.EOF {
			return models.Event{}, err
		}
		return models.Event{}, errors.Wrap(err, "truncated trace record")
	}
	var rec Record
	if err := struc.Unpack(bytes.NewReader(t.buf), &rec); err != nil {
		return models.Event{}, errors.Wrap(err, "failed to unpack record")
	}
	return rec.Event(), nil
}

func (t *TraceReader) Close() {
	t.zr.Reset(nil)
	t.r.Close()
}
