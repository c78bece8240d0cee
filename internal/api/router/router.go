package router

import (
	"net/http"
	"time"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	"wearstock/docs"
	"wearstock/internal/api/product"
	"wearstock/internal/api/stock"
	"wearstock/internal/pkg/cache"
	"wearstock/internal/pkg/middleware"
)

// NewRouter configura e retorna o roteador HTTP principal.
// Recebe os Handlers já inicializados por injeção de dependências.
func NewRouter(productHandler *product.Handler, stockHandler *stock.Handler, cacheClient cache.Client, rateLimit int, ratePeriod time.Duration) http.Handler {

	// Usamos o ServeMux padrão do net/http para roteamento
	mux := http.NewServeMux()

	// --- 1. Rotas de Health Check ---
	mux.HandleFunc("/ping", PingHandler)

	// --- 2. Rotas do Console Admin (catálogo) ---
	mux.HandleFunc("/v1/admin/products/create", productHandler.CreateProductHandler)
	mux.HandleFunc("/v1/admin/products/edit/", productHandler.EditProductHandler)
	mux.HandleFunc("/v1/admin/products/delete/", productHandler.DeleteProductHandler)
	mux.HandleFunc("/v1/admin/products/get-all", productHandler.GetAllProductsHandler)

	// --- 3. Rotas da Vitrine ---
	mux.HandleFunc("/v1/shop/products", productHandler.GetFilteredProductsHandler)
	mux.HandleFunc("/v1/shop/products/", productHandler.GetProductDetailsHandler)

	// --- 4. Rotas de Estoque (checkout + redistribuição admin) ---
	mux.HandleFunc("/v1/stock", stockHandler.GetStockHandler)
	mux.HandleFunc("/v1/stock/reserve", stockHandler.ReserveHandler)
	mux.HandleFunc("/v1/stock/release", stockHandler.ReleaseHandler)
	mux.HandleFunc("/v1/stock/availability", stockHandler.AvailabilityHandler)
	mux.HandleFunc("/v1/stock/sizes", stockHandler.SetSizesHandler)
	mux.HandleFunc("/v1/stock/distribute", stockHandler.DistributeHandler)
	mux.HandleFunc("/v1/stock/shuffle", stockHandler.ShuffleHandler)

	// --- 5. Documentação (Swagger UI sobre o documento OpenAPI embutido) ---
	mux.HandleFunc("/swagger/doc.json", docs.ServeOpenAPI)
	mux.Handle("/swagger/", httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))

	// --- 6. Middlewares Globais ---
	return middleware.RateLimiter(cacheClient, rateLimit, ratePeriod)(mux)
}

// PingHandler é uma função utilitária para o health check.
func PingHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("pong"))
}
