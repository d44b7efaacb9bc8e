package mbox

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

func TestCondSendEmpty(t *testing.T) {
	tab := NewTable()
	id, err := tab.Create(1, models.PolicyOverwrite)
	if err != nil {
		t.Fatal(err)
	}
	res, err := tab.CondSend(id, 7)
	if err != nil {
		t.Fatal(err)
	}
	if res != models.Delivered {
		t.Fatalf("CondSend() = %s, want delivered", res)
	}
	if n := tab.Pending(id); n != 1 {
		t.Fatalf("Pending() = %d, want 1", n)
	}
}

func TestOverwriteKeepsNewest(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Create(1, models.PolicyOverwrite)
	tab.CondSend(id, 1)
	res, _ := tab.CondSend(id, 2)
	if res != models.Replaced {
		t.Fatalf("second CondSend() = %s, want replaced", res)
	}
	msg, err := tab.Receive(context.Background(), id)
	if err != nil {
		t.Fatal(err)
	}
	if msg != 2 {
		t.Fatalf("Receive() = %d, want 2", msg)
	}
	if n := tab.Pending(id); n != 0 {
		t.Fatalf("Pending() = %d after receive, want 0", n)
	}
}

func TestDropNewestKeepsOldest(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Create(1, models.PolicyDropNewest)
	tab.CondSend(id, 1)
	res, _ := tab.CondSend(id, 2)
	if res != models.Dropped {
		t.Fatalf("second CondSend() = %s, want dropped", res)
	}
	msg, _ := tab.Receive(context.Background(), id)
	if msg != 1 {
		t.Fatalf("Receive() = %d, want 1", msg)
	}
}

func TestReceiveWakesOnSend(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Create(1, models.PolicyOverwrite)
	got := make(chan models.Status)
	go func() {
		msg, err := tab.Receive(context.Background(), id)
		if err != nil {
			t.Error(err)
		}
		got <- msg
	}()
	tab.CondSend(id, 42)
	select {
	case msg := <-got:
		if msg != 42 {
			t.Fatalf("Receive() = %d, want 42", msg)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("receiver never woke up")
	}
}

func TestReceiveZapped(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Create(1, models.PolicyOverwrite)
	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	var err error
	go func() {
		defer wg.Done()
		_, err = tab.Receive(ctx, id)
	}()
	cancel()
	wg.Wait()
	if errors.Cause(err) != models.ErrZapped {
		t.Fatalf("Receive() err = %v, want ErrZapped", err)
	}
}

func TestBadMailbox(t *testing.T) {
	tab := NewTable()
	if _, err := tab.CondSend(3, 1); errors.Cause(err) != models.ErrNoMailbox {
		t.Fatalf("CondSend() err = %v, want ErrNoMailbox", err)
	}
	if _, err := tab.Create(0, models.PolicyOverwrite); err == nil {
		t.Fatal("Create(0) succeeded")
	}
}

func TestBlockingSend(t *testing.T) {
	tab := NewTable()
	id, _ := tab.Create(1, models.PolicyOverwrite)
	if err := tab.Send(context.Background(), id, 1); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := tab.Send(ctx, id, 2); errors.Cause(err) != models.ErrZapped {
		t.Fatalf("Send() on full box err = %v, want ErrZapped", err)
	}
}
