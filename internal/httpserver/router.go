package httpserver

import (
	"context"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/flvvius/ecommerce-jewelry/internal/domain"
	"github.com/flvvius/ecommerce-jewelry/internal/payment"
	addresssvc "github.com/flvvius/ecommerce-jewelry/internal/service/address"
	cartsvc "github.com/flvvius/ecommerce-jewelry/internal/service/cart"
	checkoutsvc "github.com/flvvius/ecommerce-jewelry/internal/service/checkout"
)

type CartService interface {
	Get(ctx context.Context, sessionToken string) (*cartsvc.View, error)
	AddItem(ctx context.Context, sessionToken, productID string, quantity int) (*cartsvc.View, error)
	SetItemQuantity(ctx context.Context, sessionToken, lineID string, quantity int) (*cartsvc.View, error)
	RemoveItem(ctx context.Context, sessionToken, lineID string) (*cartsvc.View, error)
}

type AddressService interface {
	List(ctx context.Context, customerID string) ([]domain.Address, error)
	Create(ctx context.Context, customerID string, in addresssvc.Input) (*domain.Address, error)
	Update(ctx context.Context, id, customerID string, in addresssvc.Input) (*domain.Address, error)
	Remove(ctx context.Context, id, customerID string) error
	GetDefault(ctx context.Context, customerID string) (*domain.Address, error)
}

type CheckoutService interface {
	Checkout(ctx context.Context, in checkoutsvc.Input) (*checkoutsvc.Result, error)
}

type EventHandler interface {
	HandleEvent(ctx context.Context, evt *payment.Event) error
}

type OrderReader interface {
	GetByID(ctx context.Context, id string) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Order, error)
}

type CatalogReader interface {
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	List(ctx context.Context) ([]domain.Product, error)
}

// Deps carries everything the routes need.
type Deps struct {
	CartSvc     CartService
	AddressSvc  AddressService
	CheckoutSvc CheckoutService
	Reconciler  EventHandler
	Orders      OrderReader
	Catalog     CatalogReader

	WebhookSecret           string
	AllowUnverifiedWebhooks bool
}

// buildRouter wires routes for the storefront API.
func buildRouter(logger zerolog.Logger, db *pgxpool.Pool, deps Deps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger), gin.Recovery())
	router.Use(cors.Default())

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	router.GET("/products", listProductsHandler(deps.Catalog))
	router.GET("/products/:id", getProductHandler(deps.Catalog))

	router.GET("/cart", getCartHandler(deps.CartSvc))
	router.POST("/cart/items", addCartItemHandler(deps.CartSvc))
	router.PATCH("/cart/items/:lineID", updateCartItemHandler(deps.CartSvc))
	router.DELETE("/cart/items/:lineID", removeCartItemHandler(deps.CartSvc))

	router.GET("/addresses", listAddressesHandler(deps.AddressSvc))
	router.GET("/addresses/default", defaultAddressHandler(deps.AddressSvc))
	router.POST("/addresses", createAddressHandler(deps.AddressSvc))
	router.PUT("/addresses/:id", updateAddressHandler(deps.AddressSvc))
	router.DELETE("/addresses/:id", removeAddressHandler(deps.AddressSvc))

	router.POST("/checkout", checkoutHandler(deps.CheckoutSvc))

	router.GET("/orders", listOrdersHandler(deps.Orders))
	router.GET("/orders/:id", getOrderHandler(deps.Orders))

	router.POST("/webhooks/payment", webhookHandler(logger, deps))

	return router
}
