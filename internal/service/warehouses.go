package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/apridachin/girya-storekeeper/internal/config"
	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/task"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
)

// DefaultMaxClients bounds the pool when the config leaves it unset.
const DefaultMaxClients = 64

// Warehouse is the warehouse API surface the services use.
type Warehouse interface {
	task.StockSource
	demand.Warehouse
	ProductGroups(ctx context.Context) ([]domain.ProductFolder, error)
}

// WarehouseSource returns the warehouse client acting for credential.
type WarehouseSource interface {
	ClientFor(credential string) (Warehouse, error)
	// Forget drops the client of a credential the warehouse rejected.
	Forget(credential string)
}

// WarehousePool keeps one client per credential so that every call made
// with the same token shares its rate limiter. The least recently used
// client is evicted once the pool is full.
type WarehousePool struct {
	mu      sync.Mutex
	clients *lru.Cache[string, *warehouse.Client]
	cfg     config.WarehouseConfig
	opts    []warehouse.Option
	logger  *slog.Logger
}

// NewWarehousePool creates a pool building clients from cfg. Extra options
// are applied after the ones derived from cfg.
func NewWarehousePool(
	cfg config.WarehouseConfig,
	logger *slog.Logger,
	opts ...warehouse.Option,
) (*WarehousePool, error) {
	if logger == nil {
		return nil, errors.New("logger cannot be nil")
	}
	size := cfg.MaxClients
	if size <= 0 {
		size = DefaultMaxClients
	}
	clients, err := lru.New[string, *warehouse.Client](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create client cache: %w", err)
	}
	return &WarehousePool{
		clients: clients,
		cfg:     cfg,
		opts:    opts,
		logger:  logger.With("component", "warehouse_pool"),
	}, nil
}

// ClientFor returns the cached client for credential, creating it on first use.
func (p *WarehousePool) ClientFor(credential string) (Warehouse, error) {
	if credential == "" {
		return nil, ErrMissingCredential
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if client, ok := p.clients.Get(credential); ok {
		return client, nil
	}

	opts := append([]warehouse.Option{
		warehouse.WithHTTPClient(&http.Client{Timeout: p.cfg.Timeout()}),
		warehouse.WithBatchSize(p.cfg.BatchSize),
	}, p.opts...)

	client, err := warehouse.NewClient(p.cfg.APIURL, credential, p.logger, opts...)
	if err != nil {
		return nil, err
	}
	if evicted := p.clients.Add(credential, client); evicted {
		p.logger.Debug("evicted least recently used client", "pool_size", p.clients.Len())
	}
	return client, nil
}

// Forget removes the client of credential, if any.
func (p *WarehousePool) Forget(credential string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.clients.Remove(credential) {
		p.logger.Info("dropped client of rejected credential", "pool_size", p.clients.Len())
	}
}

// Len returns the number of cached clients.
func (p *WarehousePool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.clients.Len()
}

// forgetRejected drops the credential's client when err says the warehouse
// rejected the credential.
func forgetRejected(warehouses WarehouseSource, credential string, err error) {
	var apiErr *warehouse.APIError
	if errors.As(err, &apiErr) && apiErr.IsAuth() {
		warehouses.Forget(credential)
	}
}

// rejectionAwareStock forgets the credential when a pipeline's stock read
// is rejected.
type rejectionAwareStock struct {
	task.StockSource
	warehouses WarehouseSource
	credential string
}

func (s rejectionAwareStock) SearchStock(ctx context.Context, storeID, productGroupID string) (*warehouse.StockReport, error) {
	report, err := s.StockSource.SearchStock(ctx, storeID, productGroupID)
	if err != nil {
		forgetRejected(s.warehouses, s.credential, err)
	}
	return report, err
}
