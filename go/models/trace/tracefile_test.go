package trace

import (
	"bytes"
	"io"
	"io/ioutil"
	"testing"

	"github.com/lunixbochs/intrbox/go/models"
)

type closeBuffer struct {
	bytes.Buffer
}

func (c *closeBuffer) Close() error { return nil }

var testEvents = []models.Event{
	{Kind: models.EvTick, Dev: models.ClockDev, Tick: 1},
	{Kind: models.EvDelivered, Dev: models.ClockDev, Status: 100, Tick: 5},
	{Kind: models.EvReplaced, Dev: models.DiskDev, Unit: 1, Status: -3, Tick: 5},
	{Kind: models.EvInvalidUnit, Dev: models.TermDev, Unit: -1, Tick: 6},
	{Kind: models.EvSyscall, Dev: models.SyscallInt, Status: 49, Tick: 7},
}

func TestTraceRoundTrip(t *testing.T) {
	cfg := &models.Config{DropPolicy: "drop-newest"}
	cfg.Init()
	var buf closeBuffer
	w, err := NewWriter(&buf, cfg)
	if err != nil {
		t.Fatal(err)
	}
	for _, ev := range testEvents {
		w.Interrupt(ev)
	}
	if w.Count() != len(testEvents) {
		t.Fatalf("Count() = %d", w.Count())
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	r, err := NewReader(ioutil.NopCloser(bytes.NewReader(buf.Bytes())))
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	if r.Header.Units() != cfg.Units || r.Header.ClockDivider != 5 || r.Header.Policy != uint8(models.PolicyDropNewest) {
		t.Fatalf("bad header: %+v", r.Header)
	}
	for i, want := range testEvents {
		got, err := r.Next()
		if err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if got != want {
			t.Fatalf("event %d: got %+v, want %+v", i, got, want)
		}
	}
	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last event, got %v", err)
	}
}

func TestTraceBadMagic(t *testing.T) {
	data := append([]byte("NOPE"), make([]byte, 32)...)
	if _, err := NewReader(ioutil.NopCloser(bytes.NewReader(data))); err == nil {
		t.Fatal("reader accepted a file with the wrong magic")
	}
}
