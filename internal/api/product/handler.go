package product

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/pkg/logger"
)

// ProductService define o contrato que o Handler espera da camada de Serviço.
type ProductService interface {
	CreateProduct(ctx context.Context, p domain.Product) (domain.Product, error)
	EditProduct(ctx context.Context, id string, p domain.Product) (domain.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	GetAllProducts(ctx context.Context) ([]domain.Product, error)
	GetFilteredProducts(ctx context.Context, categoryCSV, brandCSV, sortBy string) ([]domain.Product, error)
	GetProductDetails(ctx context.Context, id string) (domain.Product, error)
}

// Handler agrupa os métodos de Handler do catálogo (admin + vitrine).
type Handler struct {
	Service ProductService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProductService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		// Sucesso
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

	// TRATAMENTO DE ERROS
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

// --- Console Admin ---

// CreateProductHandler lida com POST /v1/admin/products/create.
func (h *Handler) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	var payload domain.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.CreateProduct(r.Context(), payload)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Produto criado com sucesso.",
		"product": product,
	}, nil, http.StatusCreated)
}

// EditProductHandler lida com PUT /v1/admin/products/edit/{id}.
func (h *Handler) EditProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/products/edit/")
	var payload domain.Product
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	product, err := h.Service.EditProduct(r.Context(), id, payload)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Produto atualizado com sucesso.",
		"product": product,
	}, nil, http.StatusOK)
}

// DeleteProductHandler lida com DELETE /v1/admin/products/delete/{id}.
func (h *Handler) DeleteProductHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/admin/products/delete/")
	if err := h.Service.DeleteProduct(r.Context(), id); err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"message": "Produto removido com sucesso.",
	}, nil, http.StatusOK)
}

// GetAllProductsHandler lida com GET /v1/admin/products/get-all.
func (h *Handler) GetAllProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	products, err := h.Service.GetAllProducts(r.Context())
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    products,
	}, nil, http.StatusOK)
}

// --- Vitrine ---

// GetFilteredProductsHandler lida com GET /v1/shop/products.
// Filtros CSV: ?category=men,kids&brand=nike&sortBy=price-lowtohigh
func (h *Handler) GetFilteredProductsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	query := r.URL.Query()
	sortBy := query.Get("sortBy")
	if sortBy == "" {
		sortBy = domain.SortPriceLowToHigh
	}

	products, err := h.Service.GetFilteredProducts(r.Context(), query.Get("category"), query.Get("brand"), sortBy)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    products,
	}, nil, http.StatusOK)
}

// GetProductDetailsHandler lida com GET /v1/shop/products/{id}.
func (h *Handler) GetProductDetailsHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/v1/shop/products/")
	product, err := h.Service.GetProductDetails(r.Context(), id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, map[string]interface{}{
		"success": true,
		"data":    product,
	}, nil, http.StatusOK)
}
