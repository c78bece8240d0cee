package productservice

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/ledger"
	"wearstock/internal/pkg/logger"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id string) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id string) error
}

// Service é a camada de regras de negócio do catálogo (console admin + vitrine).
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, log logger.Logger) *Service {
	return &Service{repo: repo, logger: log}
}

// CreateProduct valida e cria um produto do catálogo.
// Regras do console admin: campos obrigatórios, categoria/marca dos conjuntos
// fixos, e pelo menos um tamanho com estoque > 0. O total é SEMPRE derivado
// da coleção de tamanhos, nunca aceito da entrada.
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	normalized, err := s.validateAndNormalize(product, true)
	if err != nil {
		return domain.Product{}, err
	}

	// Pelo menos um tamanho precisa de estoque na criação.
	if normalized.TotalStock == 0 {
		return domain.Product{}, apperror.NewValidationError("Pelo menos um tamanho deve ter estoque maior que zero.")
	}

	normalized.ID = uuid.New().String()
	now := time.Now().UTC()
	normalized.CreatedAt = now
	normalized.UpdatedAt = now

	created, err := s.repo.Save(ctx, normalized)
	if err != nil {
		s.logger.Error("Falha ao salvar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{
		"product_id": created.ID, "title": created.Title, "total_stock": created.TotalStock,
	})
	return created, nil
}

// EditProduct valida e atualiza um produto existente.
// A imagem é opcional na edição: vazia mantém a atual.
func (s *Service) EditProduct(ctx context.Context, id string, product domain.Product) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	normalized, err := s.validateAndNormalize(product, false)
	if err != nil {
		return domain.Product{}, err
	}

	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	normalized.ID = current.ID
	normalized.CreatedAt = current.CreatedAt
	normalized.AverageReview = current.AverageReview
	normalized.UpdatedAt = time.Now().UTC()
	if normalized.Image == "" {
		normalized.Image = current.Image
	}

	updated, err := s.repo.Update(ctx, normalized)
	if err != nil {
		s.logger.Error("Falha ao atualizar produto no repositório.", err)
		return domain.Product{}, err
	}

	s.logger.Info("Produto atualizado.", map[string]interface{}{
		"product_id": updated.ID, "total_stock": updated.TotalStock,
	})
	return updated, nil
}

// DeleteProduct remove um produto do catálogo.
func (s *Service) DeleteProduct(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Produto removido.", map[string]interface{}{"product_id": id})
	return nil
}

// GetAllProducts lista o catálogo completo para o console admin.
func (s *Service) GetAllProducts(ctx context.Context) ([]domain.Product, error) {
	return s.repo.FindAll(ctx, domain.ProductFilter{})
}

// GetFilteredProducts lista produtos para a vitrine, com filtros CSV de
// categoria/marca e ordenação. O total de cada produto é recalculado na
// saída a partir dos tamanhos — a leitura nunca confia no valor gravado.
func (s *Service) GetFilteredProducts(ctx context.Context, categoryCSV, brandCSV, sortBy string) ([]domain.Product, error) {
	filter := domain.ProductFilter{
		Categories: splitCSV(categoryCSV),
		Brands:     splitCSV(brandCSV),
		SortBy:     sortBy,
	}

	products, err := s.repo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}

	for i := range products {
		if products[i].Sizes == nil {
			products[i].Sizes = []domain.SizeEntry{}
		}
		products[i].TotalStock = domain.TotalOf(products[i].Sizes)
	}
	return products, nil
}

// GetProductDetails busca um produto para a página de detalhes da vitrine.
func (s *Service) GetProductDetails(ctx context.Context, id string) (domain.Product, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Product{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}

	if product.Sizes == nil {
		product.Sizes = []domain.SizeEntry{}
	}
	product.TotalStock = domain.TotalOf(product.Sizes)
	return product, nil
}

// validateAndNormalize aplica as regras de entrada do console admin.
// requireImage distingue criação (imagem obrigatória) de edição.
func (s *Service) validateAndNormalize(product domain.Product, requireImage bool) (domain.Product, error) {
	product.Title = strings.TrimSpace(product.Title)
	product.Description = strings.TrimSpace(product.Description)
	product.Category = strings.ToLower(strings.TrimSpace(product.Category))
	product.Brand = strings.ToLower(strings.TrimSpace(product.Brand))
	product.Image = strings.TrimSpace(product.Image)

	var missing []string
	if product.Title == "" {
		missing = append(missing, "title")
	}
	if product.Description == "" {
		missing = append(missing, "description")
	}
	if product.Price <= 0 {
		missing = append(missing, "price")
	}
	if product.Category == "" {
		missing = append(missing, "category")
	}
	if product.Brand == "" {
		missing = append(missing, "brand")
	}
	if requireImage && product.Image == "" {
		missing = append(missing, "image")
	}
	if len(missing) > 0 {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Campos obrigatórios ausentes: %s.", strings.Join(missing, ", ")))
	}

	if !domain.ValidCategory(product.Category) {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Categoria %q inválida (aceitas: %v).", product.Category, domain.ValidCategories))
	}
	if !domain.ValidBrand(product.Brand) {
		return domain.Product{}, apperror.NewValidationError(fmt.Sprintf("Marca %q inválida (aceitas: %v).", product.Brand, domain.ValidBrands))
	}

	// Produto sem tamanhos explícitos recebe o conjunto completo zerado.
	if len(product.Sizes) == 0 {
		product.Sizes = domain.DefaultSizes()
	}
	sizes, err := ledger.CanonicalSizes(product.Sizes)
	if err != nil {
		return domain.Product{}, err
	}
	product.Sizes = sizes
	product.TotalStock = domain.TotalOf(sizes)

	if product.SalePrice < 0 {
		return domain.Product{}, apperror.NewValidationError("O preço promocional não pode ser negativo.")
	}

	return product, nil
}

// splitCSV quebra "men,kids" em fatia, descartando entradas vazias.
func splitCSV(csv string) []string {
	if strings.TrimSpace(csv) == "" {
		return nil
	}
	parts := strings.Split(csv, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, strings.ToLower(trimmed))
		}
	}
	return out
}
