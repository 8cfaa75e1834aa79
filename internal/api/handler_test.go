package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"shop-service/internal/auth"
	"shop-service/internal/models"
	"shop-service/internal/service"
	"shop-service/internal/store"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "secret"

// bcrypt hash computed once; hashing per request slows the suite down.
var testPasswordHash string

func init() {
	gin.SetMode(gin.TestMode)

	hash, err := auth.HashPassword(testPassword)
	if err != nil {
		panic(err)
	}
	testPasswordHash = hash
}

type fakeCredentials struct {
	users map[string]*models.User
}

func (f *fakeCredentials) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	if user, ok := f.users[email]; ok {
		return user, nil
	}
	return nil, store.ErrNotFound
}

type fakeFavorites struct {
	listResult []models.FavoriteView
	addView    *models.FavoriteView
	addCreated bool
	addErr     error
	removeErr  error
}

func (f *fakeFavorites) List(context.Context, *models.User) ([]models.FavoriteView, error) {
	return f.listResult, nil
}

func (f *fakeFavorites) Add(context.Context, *models.User, string) (*models.FavoriteView, bool, error) {
	return f.addView, f.addCreated, f.addErr
}

func (f *fakeFavorites) Remove(context.Context, *models.User, string) error {
	return f.removeErr
}

type fakeOrders struct {
	listResult []models.OrderView
	getView    *models.OrderView
	getErr     error
	createView *models.OrderView
	createErr  error
	replaced   bool
	replaceErr error
	deleteErr  error
}

func (f *fakeOrders) List(context.Context) ([]models.OrderView, error) {
	return f.listResult, nil
}

func (f *fakeOrders) Get(context.Context, string) (*models.OrderView, error) {
	return f.getView, f.getErr
}

func (f *fakeOrders) Create(context.Context, *models.User, service.OrderRequest) (*models.OrderView, error) {
	return f.createView, f.createErr
}

func (f *fakeOrders) Replace(_ context.Context, _ *models.User, _ string, _ service.OrderRequest) (*models.OrderView, error) {
	if f.replaceErr != nil {
		return nil, f.replaceErr
	}
	f.replaced = true
	return f.getView, nil
}

func (f *fakeOrders) Delete(context.Context, *models.User, string) error {
	return f.deleteErr
}

type fakeAddresses struct {
	view *models.AddressView
	err  error
}

func (f *fakeAddresses) List(context.Context, *models.User) ([]models.AddressView, error) {
	if f.err != nil {
		return nil, f.err
	}
	return []models.AddressView{*f.view}, nil
}

func (f *fakeAddresses) Create(context.Context, *models.User, service.AddressInput) (*models.AddressView, error) {
	return f.view, f.err
}

func (f *fakeAddresses) Get(context.Context, *models.User, string) (*models.AddressView, error) {
	return f.view, f.err
}

func (f *fakeAddresses) Update(context.Context, *models.User, string, service.AddressPatch) (*models.AddressView, error) {
	return f.view, f.err
}

func (f *fakeAddresses) Delete(context.Context, *models.User, string) error {
	return f.err
}

type fakeCatalog struct {
	items []models.Item
	item  *models.Item
	err   error
}

func (f *fakeCatalog) ListItems(context.Context) ([]models.Item, error) {
	return f.items, nil
}

func (f *fakeCatalog) GetItem(context.Context, string) (*models.Item, error) {
	return f.item, f.err
}

type testEnv struct {
	router    *gin.Engine
	favorites *fakeFavorites
	orders    *fakeOrders
	addresses *fakeAddresses
	catalog   *fakeCatalog
	user      *models.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	user := &models.User{
		ID:           1,
		UUID:         "c77ff753-4432-4d35-a52c-8428b2c0e416",
		Email:        "alice@example.com",
		PasswordHash: testPasswordHash,
	}

	env := &testEnv{
		favorites: &fakeFavorites{},
		orders:    &fakeOrders{},
		addresses: &fakeAddresses{view: &models.AddressView{UUID: "addr-1"}},
		catalog:   &fakeCatalog{},
		user:      user,
	}

	creds := &fakeCredentials{users: map[string]*models.User{user.Email: user}}

	env.router = gin.New()
	handler := NewHandler(env.favorites, env.orders, env.addresses, env.catalog)
	handler.SetupRoutes(env.router, auth.Required(creds))
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body interface{}, authed bool) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.SetBasicAuth(env.user.Email, testPassword)
	}

	rec := httptest.NewRecorder()
	env.router.ServeHTTP(rec, req)
	return rec
}

func favoriteBody(itemUUID string) map[string]interface{} {
	return map[string]interface{}{
		"data": map[string]interface{}{
			"attributes": map[string]interface{}{
				"item_uuid": itemUUID,
			},
		},
	}
}

func orderBody(deliveryAddress, orderID string, items ...map[string]interface{}) map[string]interface{} {
	order := map[string]interface{}{
		"items":            items,
		"delivery_address": deliveryAddress,
	}
	if orderID != "" {
		order["order_id"] = orderID
	}
	return map[string]interface{}{"order": order}
}

func line(itemUUID string, quantity int) map[string]interface{} {
	return map[string]interface{}{"item_uuid": itemUUID, "quantity": quantity}
}

func TestFavoritesRequireAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/favorites", nil, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestListFavorites(t *testing.T) {
	env := newTestEnv(t)
	env.favorites.listResult = []models.FavoriteView{
		{UUID: "fav-1", UserUUID: env.user.UUID},
	}

	rec := env.do(t, http.MethodGet, "/api/v1/favorites", nil, true)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.FavoriteView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
	assert.Equal(t, "fav-1", got[0].UUID)
}

func TestCreateFavorite(t *testing.T) {
	env := newTestEnv(t)
	env.favorites.addView = &models.FavoriteView{UUID: "fav-1"}
	env.favorites.addCreated = true

	rec := env.do(t, http.MethodPost, "/api/v1/favorites", favoriteBody("item-1"), true)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestCreateFavoriteDuplicateReturnsExisting(t *testing.T) {
	env := newTestEnv(t)
	env.favorites.addView = &models.FavoriteView{UUID: "fav-1"}
	env.favorites.addCreated = false

	rec := env.do(t, http.MethodPost, "/api/v1/favorites", favoriteBody("item-1"), true)
	require.Equal(t, http.StatusOK, rec.Code)

	var got models.FavoriteView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "fav-1", got.UUID)
}

func TestCreateFavoriteUnknownItem(t *testing.T) {
	env := newTestEnv(t)
	env.favorites.addErr = store.ErrNotFound

	rec := env.do(t, http.MethodPost, "/api/v1/favorites", favoriteBody("nope"), true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateFavoriteMalformedBody(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/favorites",
		map[string]interface{}{"item_uuid": "item-1"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteFavoriteNotOwnedReportsNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.favorites.removeErr = store.ErrNotFound

	rec := env.do(t, http.MethodDelete, "/api/v1/favorites/fav-9", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteFavorite(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/favorites/fav-1", nil, true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fav-1")
}

func TestListOrdersIsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.orders.listResult = []models.OrderView{{UUID: "order-1"}}

	rec := env.do(t, http.MethodGet, "/api/v1/orders", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 1)
}

func TestGetOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.orders.getErr = store.ErrNotFound

	rec := env.do(t, http.MethodGet, "/api/v1/orders/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.createView = &models.OrderView{UUID: "order-1", TotalPrice: 20}

	rec := env.do(t, http.MethodPost, "/api/v1/orders",
		orderBody("addr-1", "", line("item-1", 2)), true)
	require.Equal(t, http.StatusCreated, rec.Code)

	var got models.OrderView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "order-1", got.UUID)
}

func TestCreateOrderRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/orders",
		orderBody("addr-1", "", line("item-1", 2)), false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateOrderMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/orders",
		orderBody("", "", line("item-1", 2)), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = env.do(t, http.MethodPost, "/api/v1/orders", orderBody("addr-1", ""), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderUnknownItems(t *testing.T) {
	env := newTestEnv(t)
	env.orders.createErr = service.ErrUnknownItems

	rec := env.do(t, http.MethodPost, "/api/v1/orders",
		orderBody("addr-1", "", line("ghost", 1)), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateOrderInsufficientAvailability(t *testing.T) {
	env := newTestEnv(t)
	env.orders.createErr = store.ErrInsufficientAvailability

	rec := env.do(t, http.MethodPost, "/api/v1/orders",
		orderBody("addr-1", "", line("item-1", 100)), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchOrderRequiresOrderID(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPatch, "/api/v1/orders/order-1",
		orderBody("addr-1", "", line("item-1", 1)), true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPatchOrderNotOwner(t *testing.T) {
	env := newTestEnv(t)
	env.orders.replaceErr = service.ErrNotOwner

	rec := env.do(t, http.MethodPatch, "/api/v1/orders/order-1",
		orderBody("addr-1", "order-1", line("item-1", 1)), true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.False(t, env.orders.replaced)
}

func TestPatchOrder(t *testing.T) {
	env := newTestEnv(t)
	env.orders.getView = &models.OrderView{UUID: "order-1"}

	rec := env.do(t, http.MethodPatch, "/api/v1/orders/order-1",
		orderBody("addr-2", "order-1", line("item-1", 3)), true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, env.orders.replaced)
}

func TestDeleteOrder(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodDelete, "/api/v1/orders/order-1", nil, true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestDeleteOrderNotOwner(t *testing.T) {
	env := newTestEnv(t)
	env.orders.deleteErr = service.ErrNotOwner

	rec := env.do(t, http.MethodDelete, "/api/v1/orders/order-1", nil, true)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDeleteOrderNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.orders.deleteErr = store.ErrNotFound

	rec := env.do(t, http.MethodDelete, "/api/v1/orders/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCreateAddressMissingFields(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/addresses",
		map[string]interface{}{"country": "IT"}, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateAddress(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/addresses", map[string]interface{}{
		"country":   "Italy",
		"city":      "Milan",
		"post_code": "20100",
		"address":   "Via Rossi 1",
		"phone":     "3331234567",
	}, true)
	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestGetAddressNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.addresses.err = store.ErrNotFound

	rec := env.do(t, http.MethodGet, "/api/v1/addresses/missing", nil, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListItemsIsOpen(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.items = []models.Item{{UUID: "item-1", Name: "mug", Availability: 5}}

	rec := env.do(t, http.MethodGet, "/api/v1/items", nil, false)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mug")
}

func TestGetItemNotFound(t *testing.T) {
	env := newTestEnv(t)
	env.catalog.err = store.ErrNotFound

	rec := env.do(t, http.MethodGet, "/api/v1/items/missing", nil, false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/health", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(t, http.MethodGet, "/ready", nil, false)
	assert.Equal(t, http.StatusOK, rec.Code)
}
