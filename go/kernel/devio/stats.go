package devio

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/lunixbochs/intrbox/go/models"
)

// Stats counts handler events per kind and device. It is a models.Observer.
type Stats struct {
	sync.Mutex
	counts map[models.EventKind]map[models.DeviceClass]uint64
}

func NewStats() *Stats {
	return &Stats{counts: make(map[models.EventKind]map[models.DeviceClass]uint64)}
}

func (s *Stats) Interrupt(ev models.Event) {
	s.Lock()
	byDev, ok := s.counts[ev.Kind]
	if !ok {
		byDev = make(map[models.DeviceClass]uint64)
		s.counts[ev.Kind] = byDev
	}
	byDev[ev.Dev]++
	s.Unlock()
}

func (s *Stats) Count(kind models.EventKind, dev models.DeviceClass) uint64 {
	s.Lock()
	defer s.Unlock()
	return s.counts[kind][dev]
}

func (s *Stats) Total(kind models.EventKind) uint64 {
	s.Lock()
	defer s.Unlock()
	var n uint64
	for _, v := range s.counts[kind] {
		n += v
	}
	return n
}

func (s *Stats) String() string {
	s.Lock()
	defer s.Unlock()
	kinds := make([]int, 0, len(s.counts))
	for k := range s.counts {
		kinds = append(kinds, int(k))
	}
	sort.Ints(kinds)
	var out []string
	for _, k := range kinds {
		kind := models.EventKind(k)
		var parts []string
		for dev := models.DeviceClass(0); dev < models.NumDeviceClasses; dev++ {
			if n := s.counts[kind][dev]; n > 0 {
				parts = append(parts, fmt.Sprintf("%s=%d", dev, n))
			}
		}
		out = append(out, fmt.Sprintf("%-12s %s", kind, strings.Join(parts, " ")))
	}
	return strings.Join(out, "\n")
}
