package service

import (
	"context"
	"testing"

	"github.com/apridachin/girya-storekeeper/internal/demand"
	"github.com/apridachin/girya-storekeeper/internal/domain"
	"github.com/apridachin/girya-storekeeper/internal/warehouse"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func price(v int64) *int64 { return &v }

func newDemandService(t *testing.T, wh *fakeWarehouse) *DemandService {
	t.Helper()
	importer, err := demand.NewService(demand.Target{
		OrganizationID: "org",
		CounterpartyID: "agent",
		StoreID:        "store",
	}, discardLogger())
	require.NoError(t, err)

	service, err := NewDemandService(importer, &fakeWarehouses{wh: wh}, discardLogger())
	require.NoError(t, err)
	return service
}

func TestNewDemandService_Validation(t *testing.T) {
	t.Parallel()

	_, err := NewDemandService(nil, &fakeWarehouses{}, discardLogger())
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewDemandService(&demand.Service{}, nil, discardLogger())
	assert.ErrorIs(t, err, ErrNilDependency)
	_, err = NewDemandService(&demand.Service{}, &fakeWarehouses{}, nil)
	assert.ErrorIs(t, err, ErrNilDependency)
}

func TestImportDemand(t *testing.T) {
	t.Parallel()

	t.Run("creates demand from matched rows", func(t *testing.T) {
		t.Parallel()
		service := newDemandService(t, &fakeWarehouse{
			SearchProductsFn: func(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error) {
				return &warehouse.SearchProductsResult{
					Products: []domain.Product{{ID: "p1", Name: "Alpha15", Things: []string{"SN1"}}},
					NotFound: []string{},
				}, nil
			},
			CreateDemandFn: func(ctx context.Context, org, agent, store string, products []domain.Product) (*domain.Demand, error) {
				return &domain.Demand{ID: "demand-1", Products: products}, nil
			},
		})

		result, err := service.ImportDemand(context.Background(), "token-a", []domain.ImportRow{
			{Idx: 0, SerialNumber: "SN1", ProductName: "Alpha15", PurchasePrice: price(100)},
			{Idx: 1, SerialNumber: "", ProductName: "Beta8", PurchasePrice: price(100)},
		})

		require.NoError(t, err)
		assert.Equal(t, "demand-1", result.Demand.ID)
		assert.Len(t, result.ProcessedRows, 1)
		assert.Len(t, result.InvalidRows, 1)
	})

	t.Run("nothing valid passes through", func(t *testing.T) {
		t.Parallel()
		service := newDemandService(t, &fakeWarehouse{})

		_, err := service.ImportDemand(context.Background(), "token-a", []domain.ImportRow{{Idx: 0}})

		assert.ErrorIs(t, err, demand.ErrNoValidRows)
		var serviceErr *ServiceError
		assert.NotErrorAs(t, err, &serviceErr)
	})

	t.Run("warehouse failure is wrapped", func(t *testing.T) {
		t.Parallel()
		service := newDemandService(t, &fakeWarehouse{
			SearchProductsFn: func(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error) {
				return nil, &warehouse.APIError{Status: 403, Method: "GET", Path: "entity/product"}
			},
		})

		_, err := service.ImportDemand(context.Background(), "token-a", []domain.ImportRow{
			{Idx: 0, SerialNumber: "SN1", ProductName: "Alpha15", PurchasePrice: price(100)},
		})

		var serviceErr *ServiceError
		require.ErrorAs(t, err, &serviceErr)
		assert.Equal(t, "import_demand", serviceErr.Operation)
		assert.ErrorAs(t, err, new(*warehouse.APIError))
	})

	t.Run("rejected credential is forgotten", func(t *testing.T) {
		t.Parallel()
		importer, err := demand.NewService(demand.Target{OrganizationID: "org", CounterpartyID: "agent", StoreID: "store"}, discardLogger())
		require.NoError(t, err)
		warehouses := &fakeWarehouses{wh: &fakeWarehouse{
			SearchProductsFn: func(ctx context.Context, names []string) (*warehouse.SearchProductsResult, error) {
				return nil, &warehouse.APIError{Status: 401, Method: "GET", Path: "entity/product"}
			},
		}}
		service, err := NewDemandService(importer, warehouses, discardLogger())
		require.NoError(t, err)

		_, err = service.ImportDemand(context.Background(), "token-a", []domain.ImportRow{
			{Idx: 0, SerialNumber: "SN1", ProductName: "Alpha15", PurchasePrice: price(100)},
		})

		require.Error(t, err)
		assert.Equal(t, []string{"token-a"}, warehouses.Forgotten())
	})

	t.Run("missing credential", func(t *testing.T) {
		t.Parallel()
		service := newDemandService(t, &fakeWarehouse{})

		_, err := service.ImportDemand(context.Background(), "", nil)

		assert.ErrorIs(t, err, ErrMissingCredential)
	})
}
