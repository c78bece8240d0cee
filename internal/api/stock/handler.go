package stock

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/pkg/logger"
)

// StockService define o contrato que o Handler espera da camada de Serviço.
type StockService interface {
	Reserve(ctx context.Context, req domain.ReserveRequest) (int, error)
	Release(ctx context.Context, req domain.ReleaseRequest) (int, error)
	CheckAvailability(ctx context.Context, productID, sizeName string) (bool, error)
	GetStock(ctx context.Context, productID string) (domain.StockSnapshot, error)
	SetSizes(ctx context.Context, req domain.SetSizesRequest) (domain.StockSnapshot, error)
	DistributeEvenly(ctx context.Context, productID string) (domain.StockSnapshot, error)
	ShuffleStock(ctx context.Context, req domain.ShuffleRequest) (domain.StockSnapshot, error)
}

// Handler agrupa todos os métodos de Handler de estoque.
type Handler struct {
	Service StockService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc StockService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// decodeError classifica falhas de desserialização: erros tipados vindos
// dos campos (e.g. quantidade não inteira -> InvalidQuantity) sobem como
// estão; o resto vira o erro genérico de payload.
func decodeError(err error) error {
	if _, ok := err.(apperror.AppError); ok {
		return err
	}
	return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
				http.Error(w, "Erro ao codificar resposta", http.StatusInternalServerError)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	errorResponse := domain.ErrorResponse{
		Code:     status,
		Category: category,
		Message:  message,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse)
}

// ReserveHandler lida com POST /v1/stock/reserve.
// Chamado pelo fluxo de checkout, uma vez por linha de carrinho.
func (h *Handler) ReserveHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ReserveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, decodeError(err), 0)
		return
	}

	remaining, err := h.Service.Reserve(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success":   true,
		"size":      req.Size,
		"remaining": remaining,
	}, nil, http.StatusOK)
}

// ReleaseHandler lida com POST /v1/stock/release.
// Chamado no estorno de uma reserva (falha de pagamento, abandono).
func (h *Handler) ReleaseHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ReleaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, decodeError(err), 0)
		return
	}

	remaining, err := h.Service.Release(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success":   true,
		"size":      req.Size,
		"remaining": remaining,
	}, nil, http.StatusOK)
}

// AvailabilityHandler lida com GET /v1/stock/availability?product_id=...&size=...
func (h *Handler) AvailabilityHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	available, err := h.Service.CheckAvailability(r.Context(), query.Get("product_id"), query.Get("size"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success":   true,
		"available": available,
	}, nil, http.StatusOK)
}

// GetStockHandler lida com GET /v1/stock?product_id=...
func (h *Handler) GetStockHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	snapshot, err := h.Service.GetStock(r.Context(), r.URL.Query().Get("product_id"))
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    snapshot,
	}, nil, http.StatusOK)
}

// SetSizesHandler lida com POST /v1/stock/sizes (console admin).
func (h *Handler) SetSizesHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req domain.SetSizesRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, decodeError(err), 0)
		return
	}

	snapshot, err := h.Service.SetSizes(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    snapshot,
	}, nil, http.StatusOK)
}

// DistributeHandler lida com POST /v1/stock/distribute (console admin).
func (h *Handler) DistributeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req struct {
		ProductID string `json:"product_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, decodeError(err), 0)
		return
	}

	snapshot, err := h.Service.DistributeEvenly(r.Context(), req.ProductID)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Estoque distribuído igualmente entre os tamanhos.",
		"data":    snapshot,
	}, nil, http.StatusOK)
}

// ShuffleHandler lida com POST /v1/stock/shuffle (console admin).
func (h *Handler) ShuffleHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var req domain.ShuffleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, decodeError(err), 0)
		return
	}

	snapshot, err := h.Service.ShuffleStock(r.Context(), req)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Estoque embaralhado aleatoriamente entre os tamanhos.",
		"data":    snapshot,
	}, nil, http.StatusOK)
}
