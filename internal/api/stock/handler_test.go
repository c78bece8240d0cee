package stock_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"wearstock/internal/api/stock"
	"wearstock/internal/domain"
	"wearstock/internal/pkg/logger"
)

// MockStockService é uma implementação mock da interface StockService
type MockStockService struct {
	mock.Mock
}

func (m *MockStockService) Reserve(ctx context.Context, req domain.ReserveRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockStockService) Release(ctx context.Context, req domain.ReleaseRequest) (int, error) {
	args := m.Called(ctx, req)
	return args.Int(0), args.Error(1)
}

func (m *MockStockService) CheckAvailability(ctx context.Context, productID, sizeName string) (bool, error) {
	args := m.Called(ctx, productID, sizeName)
	return args.Bool(0), args.Error(1)
}

func (m *MockStockService) GetStock(ctx context.Context, productID string) (domain.StockSnapshot, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.StockSnapshot), args.Error(1)
}

func (m *MockStockService) SetSizes(ctx context.Context, req domain.SetSizesRequest) (domain.StockSnapshot, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.StockSnapshot), args.Error(1)
}

func (m *MockStockService) DistributeEvenly(ctx context.Context, productID string) (domain.StockSnapshot, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(domain.StockSnapshot), args.Error(1)
}

func (m *MockStockService) ShuffleStock(ctx context.Context, req domain.ShuffleRequest) (domain.StockSnapshot, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(domain.StockSnapshot), args.Error(1)
}

// TestReserveHandler_Success testa o caminho feliz da reserva via HTTP.
func TestReserveHandler_Success(t *testing.T) {
	mockSvc := new(MockStockService)
	h := stock.NewHandler(mockSvc, logger.NewLogger("error"))

	productID := uuid.New().String()
	expected := domain.ReserveRequest{ProductID: productID, Size: "M", Quantity: 2}
	mockSvc.On("Reserve", mock.Anything, expected).Return(5, nil)

	body := bytes.NewBufferString(`{"product_id":"` + productID + `","size":"M","quantity":2}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/stock/reserve", body)
	rec := httptest.NewRecorder()

	h.ReserveHandler(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["success"])
	assert.Equal(t, float64(5), resp["remaining"])
	mockSvc.AssertExpectations(t)
}

// TestReserveHandler_Fail_NonIntegerQuantity testa que quantidade fracionária
// no JSON é reportada como INVALID_QUANTITY, não como erro genérico de payload.
func TestReserveHandler_Fail_NonIntegerQuantity(t *testing.T) {
	mockSvc := new(MockStockService)
	h := stock.NewHandler(mockSvc, logger.NewLogger("error"))

	body := bytes.NewBufferString(`{"product_id":"` + uuid.New().String() + `","size":"M","quantity":1.5}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/stock/reserve", body)
	rec := httptest.NewRecorder()

	h.ReserveHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp domain.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_QUANTITY", resp.Category)
	mockSvc.AssertNotCalled(t, "Reserve", mock.Anything, mock.Anything)
}

// TestReleaseHandler_Fail_NonNumericQuantity testa o mesmo mapeamento no estorno.
func TestReleaseHandler_Fail_NonNumericQuantity(t *testing.T) {
	mockSvc := new(MockStockService)
	h := stock.NewHandler(mockSvc, logger.NewLogger("error"))

	body := bytes.NewBufferString(`{"product_id":"` + uuid.New().String() + `","size":"M","quantity":"muitos"}`)
	req := httptest.NewRequest(http.MethodPost, "/v1/stock/release", body)
	rec := httptest.NewRecorder()

	h.ReleaseHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp domain.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "INVALID_QUANTITY", resp.Category)
	mockSvc.AssertNotCalled(t, "Release", mock.Anything, mock.Anything)
}

// TestReserveHandler_Fail_MalformedJSON testa que JSON quebrado segue como
// erro genérico de validação de payload.
func TestReserveHandler_Fail_MalformedJSON(t *testing.T) {
	mockSvc := new(MockStockService)
	h := stock.NewHandler(mockSvc, logger.NewLogger("error"))

	req := httptest.NewRequest(http.MethodPost, "/v1/stock/reserve", bytes.NewBufferString(`{not json`))
	rec := httptest.NewRecorder()

	h.ReserveHandler(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	var resp domain.ErrorResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "VALIDATION_ERROR", resp.Category)
}
