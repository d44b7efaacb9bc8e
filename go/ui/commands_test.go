package ui

import (
	"bytes"
	"strings"
	"sync"
	"testing"
	"time"

	intrbox "github.com/lunixbochs/intrbox/go"
	"github.com/lunixbochs/intrbox/go/models"
)

type syncBuffer struct {
	sync.Mutex
	buf bytes.Buffer
}

func (s *syncBuffer) Write(p []byte) (int, error) {
	s.Lock()
	defer s.Unlock()
	return s.buf.Write(p)
}

func (s *syncBuffer) String() string {
	s.Lock()
	defer s.Unlock()
	return s.buf.String()
}

func newContext(t *testing.T) (*Context, *syncBuffer) {
	out := &syncBuffer{}
	sys, err := intrbox.NewSystem(&models.Config{Output: out})
	if err != nil {
		t.Fatal(err)
	}
	return &Context{Writer: out, Sys: sys}, out
}

func waitOutput(t *testing.T, out *syncBuffer, want string) {
	deadline := time.Now().Add(5 * time.Second)
	for !strings.Contains(out.String(), want) {
		if time.Now().After(deadline) {
			t.Fatalf("output never contained %q:\n%s", want, out.String())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestShellWaitAndRaise(t *testing.T) {
	c, out := newContext(t)
	Exec(c, "wait disk 1")
	waitOutput(t, out, "pid 1 waiting on disk1")
	deadline := time.Now().Add(5 * time.Second)
	for !c.Sys.Kernel.AnyBlocked() {
		if time.Now().After(deadline) {
			t.Fatal("waiter never blocked")
		}
		time.Sleep(time.Millisecond)
	}
	Exec(c, "disk 1 0x10")
	waitOutput(t, out, "[disk1] status 0x10")
}

func TestShellZap(t *testing.T) {
	c, out := newContext(t)
	Exec(c, "wait term 0")
	waitOutput(t, out, "pid 1")
	Exec(c, "zap 1")
	waitOutput(t, out, "[term0] "+models.ErrInterrupted.Error())
}

func TestShellErrors(t *testing.T) {
	c, out := newContext(t)
	Exec(c, "bogus")
	Exec(c, `raise "unterminated`)
	Exec(c, "wait disk 7")
	Exec(c, "syscall 50")
	s := out.String()
	for _, want := range []string{"command not found", "parse error", "invalid device address", "halted with status 1"} {
		if !strings.Contains(s, want) {
			t.Fatalf("output missing %q:\n%s", want, s)
		}
	}
}

func TestShellHelp(t *testing.T) {
	c, out := newContext(t)
	Exec(c, "help")
	s := out.String()
	if strings.Index(s, "blocked") > strings.Index(s, "zap") {
		t.Fatalf("help not sorted:\n%s", s)
	}
	for name := range Commands {
		if !strings.Contains(s, name) {
			t.Fatalf("help missing %s", name)
		}
	}
}
