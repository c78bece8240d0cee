package productservice_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/pkg/logger"
	"wearstock/internal/service/productservice"
)

// MockProductRepository é uma implementação mock da interface ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Product), args.Error(1)
}

func (m *MockProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	args := m.Called(ctx, product)
	return args.Get(0).(domain.Product), args.Error(1)
}

func (m *MockProductRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// validProduct devolve um payload de criação válido do console admin.
func validProduct() domain.Product {
	return domain.Product{
		Title:       "Camiseta Básica",
		Description: "Algodão, corte reto.",
		Price:       59.9,
		Category:    "Men", // normaliza para "men"
		Brand:       "NIKE",
		Image:       "https://cdn.example.com/camiseta.jpg",
		Sizes: []domain.SizeEntry{
			{Name: "m", Stock: 10},
			{Name: "L", Stock: 5},
		},
	}
}

// TestCreateProduct_Success testa a criação com normalização e total derivado.
func TestCreateProduct_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	mockRepo.On("Save", mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(domain.Product{}, nil).
		Run(func(args mock.Arguments) {
			saved := args.Get(1).(domain.Product)
			assert.Equal(t, "men", saved.Category)
			assert.Equal(t, "nike", saved.Brand)
			assert.NotEmpty(t, saved.ID)
			// Coleção canônica: os cinco tamanhos, ausentes zerados.
			assert.Len(t, saved.Sizes, 5)
			assert.Equal(t, 15, saved.TotalStock)
			assert.Equal(t, 15, domain.TotalOf(saved.Sizes))
		})

	_, err := svc.CreateProduct(context.Background(), validProduct())

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestCreateProduct_Fail_MissingFields testa a rejeição de campos obrigatórios ausentes.
func TestCreateProduct_Fail_MissingFields(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	product := validProduct()
	product.Title = "   "
	product.Image = ""

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "title")
	assert.Contains(t, err.Error(), "image")
	mockRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
}

// TestCreateProduct_Fail_NoStock testa a regra "pelo menos um tamanho com estoque".
func TestCreateProduct_Fail_NoStock(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	product := validProduct()
	product.Sizes = []domain.SizeEntry{{Name: "S", Stock: 0}, {Name: "M", Stock: 0}}

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	assert.Contains(t, err.Error(), "estoque")
}

// TestCreateProduct_Fail_InvalidCategory testa categoria fora do conjunto fixo.
func TestCreateProduct_Fail_InvalidCategory(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	product := validProduct()
	product.Category = "pets"

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
}

// TestCreateProduct_Fail_InvalidSizeName testa tamanho fora do conjunto fixo.
func TestCreateProduct_Fail_InvalidSizeName(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	product := validProduct()
	product.Sizes = []domain.SizeEntry{{Name: "G", Stock: 3}}

	_, err := svc.CreateProduct(context.Background(), product)

	assert.Error(t, err)
	assert.IsType(t, &apperror.InvalidSizeSetError{}, err)
}

// TestEditProduct_Success_KeepsImageWhenEmpty testa que a edição sem imagem mantém a atual.
func TestEditProduct_Success_KeepsImageWhenEmpty(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	id := uuid.New().String()
	current := validProduct()
	current.ID = id
	current.Category = "men"
	current.Brand = "nike"

	mockRepo.On("FindByID", mock.Anything, id).Return(current, nil)
	mockRepo.On("Update", mock.Anything, mock.AnythingOfType("domain.Product")).
		Return(domain.Product{}, nil).
		Run(func(args mock.Arguments) {
			updated := args.Get(1).(domain.Product)
			assert.Equal(t, current.Image, updated.Image)
			assert.Equal(t, id, updated.ID)
			assert.Equal(t, domain.TotalOf(updated.Sizes), updated.TotalStock)
		})

	payload := validProduct()
	payload.Image = ""
	_, err := svc.EditProduct(context.Background(), id, payload)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

// TestEditProduct_Fail_NotFound testa a edição de produto inexistente.
func TestEditProduct_Fail_NotFound(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	id := uuid.New().String()
	mockRepo.On("FindByID", mock.Anything, id).
		Return(domain.Product{}, apperror.NewNotFoundError("Produto não encontrado."))

	_, err := svc.EditProduct(context.Background(), id, validProduct())

	assert.Error(t, err)
	assert.IsType(t, &apperror.NotFoundError{}, err)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

// TestGetFilteredProducts_Success_RecomputesTotal testa que a leitura da vitrine
// recalcula o total a partir dos tamanhos, ignorando o valor gravado.
func TestGetFilteredProducts_Success_RecomputesTotal(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	stored := []domain.Product{
		{
			ID:         uuid.New().String(),
			Title:      "Jaqueta",
			Sizes:      []domain.SizeEntry{{Name: "S", Stock: 2}, {Name: "M", Stock: 3}},
			TotalStock: 999, // valor gravado divergente, deve ser ignorado
		},
		{
			ID:    uuid.New().String(),
			Title: "Calça",
			Sizes: nil, // sem tamanhos: coleção vazia, total zero
		},
	}

	expectedFilter := domain.ProductFilter{
		Categories: []string{"men", "kids"},
		Brands:     []string{"nike"},
		SortBy:     domain.SortPriceLowToHigh,
	}
	mockRepo.On("FindAll", mock.Anything, expectedFilter).Return(stored, nil)

	products, err := svc.GetFilteredProducts(context.Background(), "men, kids", "nike", domain.SortPriceLowToHigh)

	assert.NoError(t, err)
	assert.Len(t, products, 2)
	assert.Equal(t, 5, products[0].TotalStock)
	assert.Equal(t, 0, products[1].TotalStock)
	assert.NotNil(t, products[1].Sizes)
	mockRepo.AssertExpectations(t)
}

// TestGetProductDetails_Fail_InvalidID testa a validação do formato de UUID.
func TestGetProductDetails_Fail_InvalidID(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	_, err := svc.GetProductDetails(context.Background(), "abc")

	assert.Error(t, err)
	assert.IsType(t, &apperror.ValidationError{}, err)
	mockRepo.AssertNotCalled(t, "FindByID", mock.Anything, mock.Anything)
}

// TestDeleteProduct_Success testa a remoção delegada ao repositório.
func TestDeleteProduct_Success(t *testing.T) {
	mockRepo := new(MockProductRepository)
	svc := productservice.NewService(mockRepo, logger.NewLogger("error"))

	id := uuid.New().String()
	mockRepo.On("Delete", mock.Anything, id).Return(nil)

	err := svc.DeleteProduct(context.Background(), id)

	assert.NoError(t, err)
	mockRepo.AssertExpectations(t)
}
