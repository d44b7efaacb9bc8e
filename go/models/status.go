package models

import (
	"fmt"
	"strings"

	"github.com/mgutz/ansi"
)

var chSame = ansi.ColorCode("default:default")
var chNew = ansi.ColorCode("default+bu:default")
var chIdle = ansi.ColorCode("black+h:default")

func colorPad(s, color string, pad int) string {
	length := len(s)
	s = color + s + ansi.Reset
	if length < pad {
		s = strings.Repeat(" ", pad-length) + s
	}
	return s
}

// ChannelState is one row of the channel table.
type ChannelState struct {
	Addr    Address
	ID      MboxID
	Pending int
}

// ChannelTable renders mailbox occupancy and highlights rows that changed
// since the previous Diff call.
type ChannelTable struct {
	old map[Address]int
}

func (t *ChannelTable) row(s ChannelState, changed, color bool) string {
	name := fmt.Sprintf("%6s", s.Addr)
	body := fmt.Sprintf(" mbox %2d pending %d", s.ID, s.Pending)
	if !color {
		if changed {
			return "+ " + name + body
		}
		return "  " + name + body
	}
	col := chSame
	if changed {
		col = chNew
	} else if s.Pending == 0 {
		col = chIdle
	}
	return "  " + colorPad(strings.TrimSpace(name), col, 6) + col + body + ansi.Reset
}

// Diff renders states and remembers them for the next call.
func (t *ChannelTable) Diff(states []ChannelState, onlyChanged, color bool) string {
	var out []string
	next := make(map[Address]int, len(states))
	for _, s := range states {
		next[s.Addr] = s.Pending
		changed := false
		if t.old != nil {
			changed = t.old[s.Addr] != s.Pending
		}
		if onlyChanged && !changed {
			continue
		}
		out = append(out, t.row(s, changed, color))
	}
	t.old = next
	if len(out) == 0 {
		return ""
	}
	return strings.Join(out, "\n") + "\n"
}
