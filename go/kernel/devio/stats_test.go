package devio

import (
	"strings"
	"testing"

	"github.com/lunixbochs/intrbox/go/models"
)

func TestStatsCounts(t *testing.T) {
	f := newFixture(t)
	stats := NewStats()
	f.k.obs = models.Observers{f.rec, stats}

	f.k.DiskHandler(models.DiskDev, 0)
	f.k.DiskHandler(models.DiskDev, 0)
	f.k.TermHandler(models.TermDev, 3)
	f.k.TermHandler(models.ClockDev, 0)
	for i := 0; i < 5; i++ {
		f.k.ClockHandler(models.ClockDev, 0)
	}

	if n := stats.Count(models.EvDelivered, models.DiskDev); n != 1 {
		t.Fatalf("disk delivered = %d, want 1", n)
	}
	if n := stats.Count(models.EvReplaced, models.DiskDev); n != 1 {
		t.Fatalf("disk replaced = %d, want 1", n)
	}
	if n := stats.Total(models.EvDelivered); n != 3 {
		t.Fatalf("total delivered = %d, want 3", n)
	}
	if n := stats.Count(models.EvTick, models.ClockDev); n != 5 {
		t.Fatalf("ticks = %d, want 5", n)
	}
	if n := stats.Count(models.EvSpurious, models.ClockDev); n != 1 {
		t.Fatalf("spurious = %d, want 1", n)
	}
	if len(f.rec.Events) != 10 {
		t.Fatalf("recorder saw %d events, want 10", len(f.rec.Events))
	}
	out := stats.String()
	if !strings.Contains(out, "disk=1") {
		t.Fatalf("unexpected stats dump:\n%s", out)
	}
}
