package address

import (
	"context"
	"errors"
	"sort"
	"testing"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type stubRepo struct {
	addresses map[string]domain.Address

	promoteCalls int
	deleteErr    error
}

func newStubRepo() *stubRepo {
	return &stubRepo{addresses: map[string]domain.Address{}}
}

func (s *stubRepo) ListByCustomer(_ context.Context, customerID string) ([]domain.Address, error) {
	var out []domain.Address
	for _, a := range s.addresses {
		if a.CustomerID == customerID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *stubRepo) GetByID(_ context.Context, id string) (*domain.Address, error) {
	a, ok := s.addresses[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &a, nil
}

func (s *stubRepo) Create(_ context.Context, a domain.Address) (*domain.Address, error) {
	a.ID = "addr-" + a.Line1
	if a.IsDefault {
		s.clearDefault(a.CustomerID)
	}
	s.addresses[a.ID] = a
	return &a, nil
}

func (s *stubRepo) Update(_ context.Context, a domain.Address) (*domain.Address, error) {
	if _, ok := s.addresses[a.ID]; !ok {
		return nil, domain.ErrNotFound
	}
	if a.IsDefault {
		s.clearDefault(a.CustomerID)
	}
	s.addresses[a.ID] = a
	return &a, nil
}

func (s *stubRepo) Delete(_ context.Context, id, customerID string) (bool, error) {
	if s.deleteErr != nil {
		return false, s.deleteErr
	}
	a, ok := s.addresses[id]
	if !ok || a.CustomerID != customerID {
		return false, domain.ErrNotFound
	}
	delete(s.addresses, id)
	return a.IsDefault, nil
}

func (s *stubRepo) PromoteMostRecent(_ context.Context, customerID string) error {
	s.promoteCalls++
	return nil
}

func (s *stubRepo) GetDefault(_ context.Context, customerID string) (*domain.Address, error) {
	var fallback *domain.Address
	for _, a := range s.addresses {
		if a.CustomerID != customerID {
			continue
		}
		if a.IsDefault {
			a := a
			return &a, nil
		}
		if fallback == nil {
			a := a
			fallback = &a
		}
	}
	if fallback == nil {
		return nil, domain.ErrNotFound
	}
	return fallback, nil
}

func (s *stubRepo) clearDefault(customerID string) {
	for id, a := range s.addresses {
		if a.CustomerID == customerID && a.IsDefault {
			a.IsDefault = false
			s.addresses[id] = a
		}
	}
}

func validInput() Input {
	return Input{
		FirstName:  "Ana",
		LastName:   "Pop",
		Line1:      "1 Main St",
		City:       "Cluj",
		State:      "CJ",
		PostalCode: "400001",
		Country:    "RO",
	}
}

func TestCreateValidation(t *testing.T) {
	svc := New(newStubRepo())

	in := validInput()
	in.City = "  "
	in.Country = ""

	_, err := svc.Create(context.Background(), "cust-1", in)
	var vErr *domain.ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(vErr.Fields) != 2 {
		t.Fatalf("expected 2 missing fields, got %v", vErr.Fields)
	}
}

func TestCreateTrimsWhitespace(t *testing.T) {
	svc := New(newStubRepo())

	in := validInput()
	in.FirstName = "  Ana  "

	created, err := svc.Create(context.Background(), "cust-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if created.FirstName != "Ana" {
		t.Fatalf("expected trimmed first name, got %q", created.FirstName)
	}
	if created.CustomerID != "cust-1" {
		t.Fatalf("expected owner cust-1, got %q", created.CustomerID)
	}
}

func TestUpdateOwnership(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), "cust-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = svc.Update(context.Background(), created.ID, "cust-2", validInput())
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestRemovePromotesAfterDefaultDeleted(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	in := validInput()
	in.IsDefault = true
	created, err := svc.Create(context.Background(), "cust-1", in)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Remove(context.Background(), created.ID, "cust-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if repo.promoteCalls != 1 {
		t.Fatalf("expected promotion after deleting the default, got %d calls", repo.promoteCalls)
	}
}

func TestRemoveNonDefaultSkipsPromotion(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), "cust-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := svc.Remove(context.Background(), created.ID, "cust-1"); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if repo.promoteCalls != 0 {
		t.Fatalf("promotion should not run for a non-default address")
	}
}

func TestRemoveForeignAddress(t *testing.T) {
	repo := newStubRepo()
	svc := New(repo)

	created, err := svc.Create(context.Background(), "cust-1", validInput())
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	err = svc.Remove(context.Background(), created.ID, "cust-2")
	if !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
	if _, ok := repo.addresses[created.ID]; !ok {
		t.Fatalf("address should survive a forbidden delete")
	}
}

func TestGetDefaultEmpty(t *testing.T) {
	svc := New(newStubRepo())

	a, err := svc.GetDefault(context.Background(), "cust-1")
	if err != nil {
		t.Fatalf("GetDefault: %v", err)
	}
	if a != nil {
		t.Fatalf("expected nil address for a customer with no addresses, got %+v", a)
	}
}
