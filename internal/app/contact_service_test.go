package app_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"contactbook/internal/adapter/memory"
	"contactbook/internal/app"
	"contactbook/internal/domain"
)

var (
	alice = domain.Principal{UserID: "alice"}
	bob   = domain.Principal{UserID: "bob"}
)

type mockContactRepo struct {
	findFn   func(ctx context.Context, ownerID, id string) (*domain.Contact, error)
	searchFn func(ctx context.Context, ownerID string, f domain.ContactFilter, page, size int) ([]domain.Contact, int, error)
	saveFn   func(ctx context.Context, c *domain.Contact) error
	deleteFn func(ctx context.Context, id string) error
}

func (m *mockContactRepo) FindContactByOwnerAndID(ctx context.Context, ownerID, id string) (*domain.Contact, error) {
	if m.findFn != nil {
		return m.findFn(ctx, ownerID, id)
	}
	return nil, nil
}

func (m *mockContactRepo) FindAllContactsByOwner(ctx context.Context, ownerID string, f domain.ContactFilter, page, size int) ([]domain.Contact, int, error) {
	if m.searchFn != nil {
		return m.searchFn(ctx, ownerID, f, page, size)
	}
	return nil, 0, nil
}

func (m *mockContactRepo) SaveContact(ctx context.Context, c *domain.Contact) error {
	if m.saveFn != nil {
		return m.saveFn(ctx, c)
	}
	return nil
}

func (m *mockContactRepo) DeleteContact(ctx context.Context, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, id)
	}
	return nil
}

func TestContactService_CreateGetRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := app.NewContactService(memory.New())

	in := app.ContactInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "0812"}
	created, err := svc.Create(ctx, alice, in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.ID == "" {
		t.Fatal("expected generated id")
	}
	if created.OwnerID != "alice" {
		t.Errorf("expected owner alice, got %q", created.OwnerID)
	}

	got, err := svc.Get(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.FirstName != in.FirstName || got.LastName != in.LastName || got.Email != in.Email || got.Phone != in.Phone {
		t.Errorf("round trip mismatch: %+v", got)
	}
}

func TestContactService_CreateValidation(t *testing.T) {
	svc := app.NewContactService(&mockContactRepo{
		saveFn: func(ctx context.Context, c *domain.Contact) error {
			t.Error("invalid contact must not be saved")
			return nil
		},
	})

	tests := []struct {
		name  string
		in    app.ContactInput
		field string
	}{
		{"missing first name", app.ContactInput{}, "firstName"},
		{"blank first name", app.ContactInput{FirstName: "   "}, "firstName"},
		{"bad email", app.ContactInput{FirstName: "Jane", Email: "not-an-email"}, "email"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(context.Background(), alice, tc.in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := ve.Fields[tc.field]; !ok {
				t.Errorf("expected violation on %q, got %v", tc.field, ve.Fields)
			}
		})
	}
}

func TestContactService_OtherOwnerGetsNotFound(t *testing.T) {
	ctx := context.Background()
	svc := app.NewContactService(memory.New())

	c, err := svc.Create(ctx, alice, app.ContactInput{FirstName: "Jane"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, getErr := svc.Get(ctx, bob, c.ID)
	_, updErr := svc.Update(ctx, bob, c.ID, app.ContactInput{FirstName: "Hijacked"})
	delErr := svc.Delete(ctx, bob, c.ID)
	_, missingErr := svc.Get(ctx, bob, "does-not-exist")

	for name, err := range map[string]error{"get": getErr, "update": updErr, "delete": delErr} {
		if !errors.Is(err, domain.ErrNotFound) {
			t.Errorf("%s: expected ErrNotFound, got %v", name, err)
		}
		if err != nil && err.Error() != missingErr.Error() {
			t.Errorf("%s: foreign contact error %q differs from missing contact error %q", name, err, missingErr)
		}
	}

	got, err := svc.Get(ctx, alice, c.ID)
	if err != nil || got.FirstName != "Jane" {
		t.Fatalf("owner's contact changed: %+v, %v", got, err)
	}
}

func TestContactService_UpdateReplacesAllFields(t *testing.T) {
	ctx := context.Background()
	svc := app.NewContactService(memory.New())

	c, _ := svc.Create(ctx, alice, app.ContactInput{FirstName: "Jane", LastName: "Doe", Email: "jane@example.com", Phone: "0812"})

	updated, err := svc.Update(ctx, alice, c.ID, app.ContactInput{FirstName: "Janet"})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if updated.FirstName != "Janet" || updated.LastName != "" || updated.Email != "" || updated.Phone != "" {
		t.Errorf("expected full replace, got %+v", updated)
	}
	if updated.OwnerID != "alice" || updated.ID != c.ID {
		t.Errorf("identity fields changed: %+v", updated)
	}
}

func TestContactService_Search(t *testing.T) {
	ctx := context.Background()
	svc := app.NewContactService(memory.New())

	for i := 0; i < 25; i++ {
		if _, err := svc.Create(ctx, alice, app.ContactInput{FirstName: fmt.Sprintf("Contact%d", i)}); err != nil {
			t.Fatalf("Create: %v", err)
		}
	}
	_, _ = svc.Create(ctx, bob, app.ContactInput{FirstName: "Contact of bob"})

	tests := []struct {
		name      string
		in        app.SearchContactsInput
		wantItems int
		wantPages int
		wantPage  int
		wantSize  int
	}{
		{"first page default size", app.SearchContactsInput{}, 10, 3, 0, 10},
		{"last page", app.SearchContactsInput{Page: 2}, 5, 3, 2, 10},
		{"page past the end", app.SearchContactsInput{Page: 1000}, 0, 3, 1000, 10},
		{"custom size", app.SearchContactsInput{Size: 25}, 25, 1, 0, 25},
		{"no match", app.SearchContactsInput{Name: "zzz"}, 0, 0, 0, 10},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			page, err := svc.Search(ctx, alice, tc.in)
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if len(page.Items) != tc.wantItems {
				t.Errorf("expected %d items, got %d", tc.wantItems, len(page.Items))
			}
			if page.TotalPages != tc.wantPages {
				t.Errorf("expected %d pages, got %d", tc.wantPages, page.TotalPages)
			}
			if page.CurrentPage != tc.wantPage {
				t.Errorf("expected current page %d, got %d", tc.wantPage, page.CurrentPage)
			}
			if page.Size != tc.wantSize {
				t.Errorf("expected size %d, got %d", tc.wantSize, page.Size)
			}
			for _, c := range page.Items {
				if c.OwnerID != "alice" {
					t.Errorf("foreign contact %s in results", c.ID)
				}
			}
		})
	}
}

func TestContactService_SearchValidation(t *testing.T) {
	svc := app.NewContactService(&mockContactRepo{})

	for _, in := range []app.SearchContactsInput{{Page: -1}, {Size: -5}, {Size: 101}} {
		if _, err := svc.Search(context.Background(), alice, in); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%+v: expected ErrValidation, got %v", in, err)
		}
	}
}

func TestContactService_SearchPassesFilters(t *testing.T) {
	var gotFilter domain.ContactFilter
	var gotOwner string
	svc := app.NewContactService(&mockContactRepo{
		searchFn: func(ctx context.Context, ownerID string, f domain.ContactFilter, page, size int) ([]domain.Contact, int, error) {
			gotOwner, gotFilter = ownerID, f
			return nil, 0, nil
		},
	})

	page, err := svc.Search(context.Background(), alice, app.SearchContactsInput{Name: "jo", Email: "@g.com", Phone: "08"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if gotOwner != "alice" {
		t.Errorf("expected owner alice, got %q", gotOwner)
	}
	if gotFilter != (domain.ContactFilter{Name: "jo", Email: "@g.com", Phone: "08"}) {
		t.Errorf("unexpected filter %+v", gotFilter)
	}
	if page.Items == nil {
		t.Error("expected empty, non-nil item slice")
	}
}

func TestContactService_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	svc := app.NewContactService(&mockContactRepo{
		findFn: func(ctx context.Context, ownerID, id string) (*domain.Contact, error) { return nil, boom },
	})

	_, err := svc.Get(context.Background(), alice, "c1")
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if errors.Is(err, domain.ErrNotFound) {
		t.Error("store failure must not look like NotFound")
	}
}
