package address

import (
	"context"
	"errors"
	"strings"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type Service struct {
	repo addressRepo
}

type addressRepo interface {
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Address, error)
	GetByID(ctx context.Context, id string) (*domain.Address, error)
	Create(ctx context.Context, a domain.Address) (*domain.Address, error)
	Update(ctx context.Context, a domain.Address) (*domain.Address, error)
	Delete(ctx context.Context, id, customerID string) (bool, error)
	PromoteMostRecent(ctx context.Context, customerID string) error
	GetDefault(ctx context.Context, customerID string) (*domain.Address, error)
}

func New(repo addressRepo) *Service {
	return &Service{repo: repo}
}

type Input struct {
	FirstName  string `json:"firstName"`
	LastName   string `json:"lastName"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postalCode"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
	IsDefault  bool   `json:"isDefault"`
}

func (s *Service) List(ctx context.Context, customerID string) ([]domain.Address, error) {
	return s.repo.ListByCustomer(ctx, customerID)
}

func (s *Service) Create(ctx context.Context, customerID string, in Input) (*domain.Address, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, toAddress(customerID, in))
}

func (s *Service) Update(ctx context.Context, id, customerID string, in Input) (*domain.Address, error) {
	if err := validate(in); err != nil {
		return nil, err
	}
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if existing.CustomerID != customerID {
		return nil, domain.ErrForbidden
	}

	a := toAddress(customerID, in)
	a.ID = id
	return s.repo.Update(ctx, a)
}

// Remove deletes the address and, when it held the default flag, promotes
// the most recent remaining address in a follow-up transaction.
func (s *Service) Remove(ctx context.Context, id, customerID string) error {
	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if existing.CustomerID != customerID {
		return domain.ErrForbidden
	}

	wasDefault, err := s.repo.Delete(ctx, id, customerID)
	if err != nil {
		return err
	}
	if wasDefault {
		return s.repo.PromoteMostRecent(ctx, customerID)
	}
	return nil
}

// GetDefault returns nil (no error) when the customer has no addresses.
func (s *Service) GetDefault(ctx context.Context, customerID string) (*domain.Address, error) {
	a, err := s.repo.GetDefault(ctx, customerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return a, nil
}

var requiredFields = []struct {
	name  string
	value func(Input) string
}{
	{"firstName", func(in Input) string { return in.FirstName }},
	{"lastName", func(in Input) string { return in.LastName }},
	{"line1", func(in Input) string { return in.Line1 }},
	{"city", func(in Input) string { return in.City }},
	{"state", func(in Input) string { return in.State }},
	{"postalCode", func(in Input) string { return in.PostalCode }},
	{"country", func(in Input) string { return in.Country }},
}

func validate(in Input) error {
	var missing []string
	for _, f := range requiredFields {
		if strings.TrimSpace(f.value(in)) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return &domain.ValidationError{Fields: missing}
	}
	return nil
}

func toAddress(customerID string, in Input) domain.Address {
	return domain.Address{
		CustomerID: customerID,
		FirstName:  strings.TrimSpace(in.FirstName),
		LastName:   strings.TrimSpace(in.LastName),
		Line1:      strings.TrimSpace(in.Line1),
		Line2:      strings.TrimSpace(in.Line2),
		City:       strings.TrimSpace(in.City),
		State:      strings.TrimSpace(in.State),
		PostalCode: strings.TrimSpace(in.PostalCode),
		Country:    strings.TrimSpace(in.Country),
		Phone:      strings.TrimSpace(in.Phone),
		IsDefault:  in.IsDefault,
	}
}
