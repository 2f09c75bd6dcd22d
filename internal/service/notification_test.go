package service

import (
	"context"
	"errors"
	"testing"

	"github.com/iliyamo/fixsewa/internal/model"
)

func TestInboxMarkRead(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	c := f.signup(t, "c@example.com", model.RoleCustomer)
	w := f.signup(t, "w@example.com", model.RoleWorker)
	completedBooking(t, f, c, w)

	all, err := f.inbox.List(ctx, c, false)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 || all[0].Title != "Booking completed" {
		t.Fatalf("inbox = %+v", all)
	}
	if err := f.inbox.MarkRead(ctx, w, all[0].ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("foreign mark err = %v, want ErrNotFound", err)
	}
	if err := f.inbox.MarkRead(ctx, c, all[0].ID); err != nil {
		t.Fatalf("mark: %v", err)
	}
	n, err := f.inbox.MarkAllRead(ctx, c)
	if err != nil || n != 1 {
		t.Fatalf("mark all = %d, %v; want 1, nil", n, err)
	}
	unread, err := f.inbox.List(ctx, c, true)
	if err != nil || len(unread) != 0 {
		t.Fatalf("unread = %v, %v", unread, err)
	}
	if _, err := f.inbox.List(ctx, Principal{}, false); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("anonymous err = %v, want ErrUnauthorized", err)
	}
}

func TestCatalogListWorkers(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.signup(t, "c@example.com", model.RoleCustomer)
	w := f.signup(t, "w@example.com", model.RoleWorker)

	if got := f.catalog.Services(); len(got) == 0 || got[0].Code != "plumbing" {
		t.Fatalf("services = %+v", got)
	}
	workers, err := f.catalog.ListWorkers(ctx, "Plumbing")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(workers) != 1 || workers[0].UserID != w.UserID {
		t.Fatalf("workers = %+v", workers)
	}
	none, err := f.catalog.ListWorkers(ctx, "cleaning")
	if err != nil || len(none) != 0 {
		t.Fatalf("cleaning = %v, %v", none, err)
	}
}
