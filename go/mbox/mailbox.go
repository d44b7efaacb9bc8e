// Package mbox implements models.Mailboxes on top of buffered channels.
package mbox

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"github.com/lunixbochs/intrbox/go/models"
)

type box struct {
	// serializes conditional senders so drain-and-refill is atomic between them
	send   sync.Mutex
	ch     chan models.Status
	policy models.Policy
}

// Table owns every mailbox. Boxes are never released.
type Table struct {
	sync.RWMutex
	boxes []*box
}

func NewTable() *Table {
	return &Table{}
}

func (t *Table) get(id models.MboxID) (*box, error) {
	t.RLock()
	defer t.RUnlock()
	if id < 0 || int(id) >= len(t.boxes) {
		return nil, errors.Wrapf(models.ErrNoMailbox, "mbox %d", id)
	}
	return t.boxes[id], nil
}

func (t *Table) Create(slots int, policy models.Policy) (models.MboxID, error) {
	if slots < 1 {
		return -1, errors.Errorf("mbox: need at least one slot, got %d", slots)
	}
	t.Lock()
	defer t.Unlock()
	t.boxes = append(t.boxes, &box{ch: make(chan models.Status, slots), policy: policy})
	return models.MboxID(len(t.boxes) - 1), nil
}

func (t *Table) Send(ctx context.Context, id models.MboxID, msg models.Status) error {
	b, err := t.get(id)
	if err != nil {
		return err
	}
	select {
	case b.ch <- msg:
		return nil
	case <-ctx.Done():
		return errors.Wrap(models.ErrZapped, "mbox send")
	}
}

func (t *Table) CondSend(id models.MboxID, msg models.Status) (models.SendResult, error) {
	b, err := t.get(id)
	if err != nil {
		return models.Dropped, err
	}
	b.send.Lock()
	defer b.send.Unlock()
	select {
	case b.ch <- msg:
		return models.Delivered, nil
	default:
	}
	if b.policy == models.PolicyDropNewest {
		return models.Dropped, nil
	}
	// full: throw away the oldest pending message and retry once
	replaced := false
	select {
	case <-b.ch:
		replaced = true
	default:
	}
	select {
	case b.ch <- msg:
		if replaced {
			return models.Replaced, nil
		}
		return models.Delivered, nil
	default:
		return models.Dropped, nil
	}
}

func (t *Table) Receive(ctx context.Context, id models.MboxID) (models.Status, error) {
	b, err := t.get(id)
	if err != nil {
		return 0, err
	}
	select {
	case msg := <-b.ch:
		return msg, nil
	case <-ctx.Done():
		return 0, errors.Wrap(models.ErrZapped, "mbox receive")
	}
}

func (t *Table) Pending(id models.MboxID) int {
	b, err := t.get(id)
	if err != nil {
		return 0
	}
	return len(b.ch)
}
