package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
)

type Service struct {
	repo    cartRepo
	catalog catalogReader
}

type cartRepo interface {
	GetOrCreate(ctx context.Context, sessionToken string) (*domain.Cart, error)
	GetByID(ctx context.Context, id string) (*domain.Cart, error)
	AddLine(ctx context.Context, cartID, productID string, quantity int) error
	SetLineQuantity(ctx context.Context, cartID, lineID string, quantity int) error
	RemoveLine(ctx context.Context, cartID, lineID string) error
	Clear(ctx context.Context, cartID string) error
}

type catalogReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	Exists(ctx context.Context, id string) (bool, error)
}

func New(repo cartRepo, catalog catalogReader) *Service {
	return &Service{repo: repo, catalog: catalog}
}

// View is a cart plus its live subtotal. Pre-checkout pricing follows the
// current catalog; prices only freeze into the order at checkout.
type View struct {
	Cart          *domain.Cart `json:"cart"`
	SubtotalCents int64        `json:"subtotalCents"`
}

func (s *Service) Get(ctx context.Context, sessionToken string) (*View, error) {
	cart, err := s.repo.GetOrCreate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	subtotal, err := s.subtotal(ctx, cart)
	if err != nil {
		return nil, err
	}
	return &View{Cart: cart, SubtotalCents: subtotal}, nil
}

func (s *Service) AddItem(ctx context.Context, sessionToken, productID string, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, &domain.ValidationError{Fields: []string{"quantity"}}
	}
	exists, err := s.catalog.Exists(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("check product: %w", err)
	}
	if !exists {
		return nil, domain.ErrProductNotFound
	}

	cart, err := s.repo.GetOrCreate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.repo.AddLine(ctx, cart.ID, productID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionToken)
}

// SetItemQuantity requires quantity >= 1. Callers that want quantity zero
// to mean removal must translate it to RemoveItem themselves.
func (s *Service) SetItemQuantity(ctx context.Context, sessionToken, lineID string, quantity int) (*View, error) {
	if quantity < 1 {
		return nil, &domain.ValidationError{Fields: []string{"quantity"}}
	}
	cart, err := s.repo.GetOrCreate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLineQuantity(ctx, cart.ID, lineID, quantity); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionToken)
}

func (s *Service) RemoveItem(ctx context.Context, sessionToken, lineID string) (*View, error) {
	cart, err := s.repo.GetOrCreate(ctx, sessionToken)
	if err != nil {
		return nil, err
	}
	if err := s.repo.RemoveLine(ctx, cart.ID, lineID); err != nil {
		return nil, err
	}
	return s.Get(ctx, sessionToken)
}

// subtotal sums current catalog price times quantity over the lines.
// Lines whose product has vanished from the catalog contribute nothing;
// checkout filters them out for good.
func (s *Service) subtotal(ctx context.Context, cart *domain.Cart) (int64, error) {
	var sum int64
	for _, line := range cart.Lines {
		product, err := s.catalog.GetByID(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			return 0, fmt.Errorf("price line %s: %w", line.ID, err)
		}
		sum += product.PriceCents * int64(line.Quantity)
	}
	return sum, nil
}
