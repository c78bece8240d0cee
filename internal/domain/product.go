package domain

import (
	"time"
)

// Categorias e marcas válidas para um Produto (conjuntos fixos do catálogo).
var (
	ValidCategories = []string{"men", "women", "kids"}
	ValidBrands     = []string{"nike", "adidas", "puma", "levi", "zara", "h&m"}
)

// Product representa o item principal do catálogo (a Entidade).
// O campo TotalStock é SEMPRE derivado: a soma do estoque de Sizes.
// Nenhuma camada grava TotalStock sem recalculá-lo a partir de Sizes.
type Product struct {
	ID            string      `json:"id"`
	Title         string      `json:"title"`
	Description   string      `json:"description"`
	Price         float64     `json:"price"`
	SalePrice     float64     `json:"salePrice"`
	Category      string      `json:"category"` // Ex: "men", "women", "kids"
	Brand         string      `json:"brand"`    // Ex: "nike", "adidas"
	Image         string      `json:"image"`
	Sizes         []SizeEntry `json:"sizes"`
	TotalStock    int         `json:"totalStock"`
	AverageReview float64     `json:"averageReview"`
	CreatedAt     time.Time   `json:"created_at"`
	UpdatedAt     time.Time   `json:"updated_at"`
}

// ValidCategory verifica se a categoria pertence ao conjunto fixo.
func ValidCategory(category string) bool {
	for _, c := range ValidCategories {
		if c == category {
			return true
		}
	}
	return false
}

// ValidBrand verifica se a marca pertence ao conjunto fixo.
func ValidBrand(brand string) bool {
	for _, b := range ValidBrands {
		if b == brand {
			return true
		}
	}
	return false
}

// --- Estruturas Auxiliares (Filtros) ---

// ProductFilter define os parâmetros de busca e ordenação da vitrine.
// Categories/Brands vazios significam "sem filtro".
type ProductFilter struct {
	Categories []string
	Brands     []string
	SortBy     string // Ex: "price-lowtohigh", "title-atoz"
}

// Ordenações aceitas pela listagem da vitrine.
const (
	SortPriceLowToHigh = "price-lowtohigh"
	SortPriceHighToLow = "price-hightolow"
	SortTitleAToZ      = "title-atoz"
	SortTitleZToA      = "title-ztoa"
)
