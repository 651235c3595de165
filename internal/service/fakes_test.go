package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/packflow/internal/domain/models"
	"github.com/guttosm/packflow/internal/sms"
	"github.com/guttosm/packflow/internal/storage"
)

type fakePaymentRepo struct {
	payments []models.Payment
	listErr  error
	lists    int
	nextID   int
}

func (f *fakePaymentRepo) List(_ context.Context, userID string) ([]models.Payment, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Payment
	for _, p := range f.payments {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakePaymentRepo) find(userID, id string) int {
	for i, p := range f.payments {
		if p.UserID == userID && p.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakePaymentRepo) Get(_ context.Context, userID, id string) (*models.Payment, error) {
	i := f.find(userID, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	p := f.payments[i]
	return &p, nil
}

func (f *fakePaymentRepo) Create(_ context.Context, p *models.Payment) error {
	f.nextID++
	p.ID = fmt.Sprintf("p-%d", f.nextID)
	p.CreatedAt = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	f.payments = append(f.payments, *p)
	return nil
}

func (f *fakePaymentRepo) UpdateStatus(_ context.Context, userID, id string, st models.Status, at time.Time) (*models.Payment, error) {
	i := f.find(userID, id)
	if i < 0 {
		return nil, storage.ErrNotFound
	}
	p := &f.payments[i]
	p.Status = st
	switch st {
	case models.StatusAccepted:
		p.AcceptedAt = &at
	case models.StatusPaid:
		if p.AcceptedAt == nil {
			p.AcceptedAt = &at
		}
	}
	out := *p
	return &out, nil
}

func (f *fakePaymentRepo) Delete(_ context.Context, userID, id string) error {
	i := f.find(userID, id)
	if i < 0 {
		return storage.ErrNotFound
	}
	f.payments = append(f.payments[:i], f.payments[i+1:]...)
	return nil
}

type fakeBankRepo struct {
	stored map[string]models.BankDetails
	err    error
}

func (f *fakeBankRepo) Get(_ context.Context, userID string) (*models.BankDetails, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.stored[userID]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

func (f *fakeBankRepo) Upsert(_ context.Context, b *models.BankDetails) error {
	if f.err != nil {
		return f.err
	}
	if f.stored == nil {
		f.stored = map[string]models.BankDetails{}
	}
	b.ID = "bank-" + b.UserID
	f.stored[b.UserID] = *b
	return nil
}

type fakeCache struct {
	data        map[string][]models.Payment
	getErr      error
	invalidated int
}

func (c *fakeCache) Get(_ context.Context, userID string) ([]models.Payment, bool, error) {
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	p, ok := c.data[userID]
	return p, ok, nil
}

func (c *fakeCache) Set(_ context.Context, userID string, p []models.Payment) error {
	if c.data == nil {
		c.data = map[string][]models.Payment{}
	}
	c.data[userID] = p
	return nil
}

func (c *fakeCache) Invalidate(_ context.Context, userID string) error {
	c.invalidated++
	delete(c.data, userID)
	return nil
}

type fakeSender struct {
	recipient string
	message   string
	err       error
}

func (s *fakeSender) Send(_ context.Context, recipient, message string) (*sms.Result, error) {
	s.recipient, s.message = recipient, message
	if s.err != nil {
		return nil, s.err
	}
	if _, err := sms.NormalizeRecipient(recipient); err != nil {
		return nil, err
	}
	return &sms.Result{MessageID: "m-1", Status: "SENT", Credits: 1}, nil
}

var errBoom = errors.New("boom")
