package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/ticketdesk/ticketdesk/internal/domain"
	"github.com/ticketdesk/ticketdesk/internal/repository/sqlite"
	"github.com/ticketdesk/ticketdesk/internal/service"
)

func newTestTicketService(t *testing.T) (*service.TicketService, *sqlite.DB) {
	t.Helper()
	db := newTestDB(t)
	return service.NewTicketService(db.Tickets()), db
}

func TestTicketService_CreateUpdateDelete(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "crud@example.com")

	ticket := &domain.Ticket{Title: "Fix bug", Status: domain.StatusOpen}
	if err := tickets.Create(ctx, user.ID, ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if ticket.ID == "" {
		t.Fatal("expected a generated ID")
	}
	if ticket.CreatedAt.IsZero() {
		t.Fatal("expected CreatedAt to be set")
	}

	listed, err := tickets.List(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 || listed[0].Title != "Fix bug" || listed[0].Status != domain.StatusOpen {
		t.Fatalf("unexpected list after create: %+v", listed)
	}

	// Close the ticket.
	updated := &domain.Ticket{ID: ticket.ID, Title: "Fix bug", Status: domain.StatusClosed}
	if err := tickets.Update(ctx, user.ID, updated); err != nil {
		t.Fatalf("Update: %v", err)
	}

	listed, err = tickets.List(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("List after update: %v", err)
	}
	if len(listed) != 1 || listed[0].ID != ticket.ID || listed[0].Status != domain.StatusClosed {
		t.Fatalf("unexpected list after update: %+v", listed)
	}

	if err := tickets.Delete(ctx, user.ID, ticket.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}

	listed, err = tickets.List(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("List after delete: %v", err)
	}
	if len(listed) != 0 {
		t.Fatalf("expected empty list after delete, got %d tickets", len(listed))
	}
}

func TestTicketService_Create_GeneratesDistinctIDs(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "ids@example.com")

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		ticket := &domain.Ticket{Title: "Same title", Status: domain.StatusOpen}
		if err := tickets.Create(ctx, user.ID, ticket); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
		if seen[ticket.ID] {
			t.Fatalf("duplicate ticket ID %q", ticket.ID)
		}
		seen[ticket.ID] = true
	}
}

func TestTicketService_Create_InvalidInput(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "invalid@example.com")

	cases := []struct {
		name   string
		ticket domain.Ticket
	}{
		{"empty title", domain.Ticket{Title: "", Status: domain.StatusOpen}},
		{"short title", domain.Ticket{Title: "ab", Status: domain.StatusOpen}},
		{"long title", domain.Ticket{Title: strings.Repeat("x", 101), Status: domain.StatusOpen}},
		{"bad status", domain.Ticket{Title: "Valid title", Status: "pending"}},
		{"long description", domain.Ticket{Title: "Valid title", Status: domain.StatusOpen, Description: strings.Repeat("d", 501)}},
		{"bad priority", domain.Ticket{Title: "Valid title", Status: domain.StatusOpen, Priority: "urgent"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := tc.ticket
			err := tickets.Create(ctx, user.ID, &ticket)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestTicketService_Update_UnknownID(t *testing.T) {
	tickets, db := newTestTicketService(t)

	user := registerUser(t, db, "noid@example.com")

	err := tickets.Update(context.Background(), user.ID, &domain.Ticket{
		ID:     "does-not-exist",
		Title:  "Valid title",
		Status: domain.StatusOpen,
	})
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestTicketService_Update_OtherUsersTicket(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	owner := registerUser(t, db, "owner@example.com")
	intruder := registerUser(t, db, "intruder@example.com")

	ticket := &domain.Ticket{Title: "Owned ticket", Status: domain.StatusOpen}
	if err := tickets.Create(ctx, owner.ID, ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}

	err := tickets.Update(ctx, intruder.ID, &domain.Ticket{
		ID:     ticket.ID,
		Title:  "Hijacked",
		Status: domain.StatusClosed,
	})
	if !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
}

func TestTicketService_Delete_UnknownID(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "delnone@example.com")

	ticket := &domain.Ticket{Title: "Keep me", Status: domain.StatusOpen}
	if err := tickets.Create(ctx, user.ID, ticket); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Deleting an unknown ID succeeds and changes nothing.
	if err := tickets.Delete(ctx, user.ID, "does-not-exist"); err != nil {
		t.Fatalf("Delete unknown: %v", err)
	}

	listed, err := tickets.List(ctx, user.ID, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected store unchanged, got %d tickets", len(listed))
	}
}

func TestTicketService_List_SearchAndFilter(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "search@example.com")

	seed := []domain.Ticket{
		{Title: "Fix login bug", Status: domain.StatusOpen, Description: "Users cannot sign in"},
		{Title: "Update docs", Status: domain.StatusClosed, Description: "README is stale"},
		{Title: "Refactor storage", Status: domain.StatusInProgress, Description: "split the bug-prone module"},
	}
	for i := range seed {
		if err := tickets.Create(ctx, user.ID, &seed[i]); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}

	// Case-insensitive search matches title or description.
	found, err := tickets.List(ctx, user.ID, "BUG", "")
	if err != nil {
		t.Fatalf("List with query: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 matches for 'BUG', got %d", len(found))
	}

	// Status filter.
	found, err = tickets.List(ctx, user.ID, "", "closed")
	if err != nil {
		t.Fatalf("List with status: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Update docs" {
		t.Fatalf("unexpected closed tickets: %+v", found)
	}

	// Combined.
	found, err = tickets.List(ctx, user.ID, "bug", "open")
	if err != nil {
		t.Fatalf("List combined: %v", err)
	}
	if len(found) != 1 || found[0].Title != "Fix login bug" {
		t.Fatalf("unexpected combined result: %+v", found)
	}

	// "all" disables status filtering.
	found, err = tickets.List(ctx, user.ID, "", "all")
	if err != nil {
		t.Fatalf("List all: %v", err)
	}
	if len(found) != 3 {
		t.Fatalf("expected 3 tickets for status=all, got %d", len(found))
	}
}

func TestTicketService_List_ScopedByUser(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	u1 := registerUser(t, db, "u1@example.com")
	u2 := registerUser(t, db, "u2@example.com")

	if err := tickets.Create(ctx, u1.ID, &domain.Ticket{Title: "Mine only", Status: domain.StatusOpen}); err != nil {
		t.Fatalf("Create: %v", err)
	}

	other, err := tickets.List(ctx, u2.ID, "", "")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("expected no tickets for other user, got %d", len(other))
	}
}

func TestTicketService_Stats(t *testing.T) {
	tickets, db := newTestTicketService(t)
	ctx := context.Background()

	user := registerUser(t, db, "stats@example.com")

	for _, status := range []domain.TicketStatus{domain.StatusOpen, domain.StatusOpen, domain.StatusClosed} {
		if err := tickets.Create(ctx, user.ID, &domain.Ticket{Title: "Stat ticket", Status: status}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}

	stats, err := tickets.Stats(ctx, user.ID)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if stats.Total != 3 || stats.Open != 2 || stats.Closed != 1 || stats.InProgress != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}
