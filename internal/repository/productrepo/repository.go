package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/lib/pq"

	"wearstock/internal/domain"
	"wearstock/internal/errors"
	"wearstock/internal/pkg/cache"
	"wearstock/internal/pkg/logger"
)

// ProductRepository implementa a persistência do catálogo de produtos.
// Contém as conexões necessárias para acessar dados (PostgreSQL + Redis).
type ProductRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
// Aqui injetamos as dependências de Infraestrutura (DB e Cache).
func NewProductRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Chave de cache para produtos (compartilhada com o stockrepo, que a invalida).
const productCacheKey = "product:%s"

// Tempo de vida da entrada de catálogo no cache.
const productCacheTTL = 5 * time.Minute

const productColumns = `id, title, description, price, sale_price, category, brand, image, sizes, total_stock, average_review, created_at, updated_at`

// Save persiste um novo Produto (com sua coleção de tamanhos) no banco.
func (r *ProductRepository) Save(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rawSizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return domain.Product{}, errors.NewInternalError("Falha ao serializar tamanhos.", err)
	}

	const productSQL = `
        INSERT INTO products (` + productColumns + `)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`

	_, err = r.DB.ExecContext(ctxTimeout, productSQL,
		product.ID,
		product.Title,
		product.Description,
		product.Price,
		product.SalePrice,
		product.Category,
		product.Brand,
		product.Image,
		rawSizes,
		product.TotalStock,
		product.AverageReview,
		product.CreatedAt,
		product.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir produto no DB.", err)
		return domain.Product{}, errors.NewDBError("failed to insert product", err)
	}

	return product, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside.
func (r *ProductRepository) FindByID(ctx context.Context, id string) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)
	var product domain.Product

	// --- 1. Estratégia Cache-Aside (READ) ---
	cachedData, err := r.Cache.Get(ctxTimeout, key)
	if err == nil {
		// Cache HIT
		if json.Unmarshal([]byte(cachedData), &product) == nil {
			return product, nil
		}
		// Desserialização falhou: segue para o DB e repovoa.
	} else if err != cache.ErrCacheMiss {
		// Erro real de cache (ex: conexão perdida): logamos e seguimos para o DB.
		r.logger.Warn("Falha ao ler do cache Redis.", map[string]interface{}{"key": key, "error": err.Error()})
	}

	// --- 2. Busca no Banco de Dados (PostgreSQL) ---
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	row := r.DB.QueryRowContext(ctxTimeout, query, id)
	product, err = scanProduct(row)
	if err == sql.ErrNoRows {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao buscar produto", err)
	}

	// --- 3. Repovoar o cache (best effort) ---
	if payload, marshalErr := json.Marshal(product); marshalErr == nil {
		if cacheErr := r.Cache.Set(ctxTimeout, key, payload, productCacheTTL); cacheErr != nil {
			r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"key": key, "error": cacheErr.Error()})
		}
	}

	return product, nil
}

// FindAll lista produtos com os filtros e ordenações da vitrine.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + productColumns + ` FROM products`

	var args []interface{}
	where := ""
	if len(filter.Categories) > 0 {
		args = append(args, pq.Array(filter.Categories))
		where = fmt.Sprintf(" WHERE category = ANY($%d)", len(args))
	}
	if len(filter.Brands) > 0 {
		args = append(args, pq.Array(filter.Brands))
		if where == "" {
			where = fmt.Sprintf(" WHERE brand = ANY($%d)", len(args))
		} else {
			where += fmt.Sprintf(" AND brand = ANY($%d)", len(args))
		}
	}

	query += where + orderBy(filter.SortBy)

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar produtos no DB.", err)
		return nil, errors.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		product, scanErr := scanProduct(rows)
		if scanErr != nil {
			r.logger.Error("Falha ao mapear linha de produto.", scanErr)
			return nil, errors.NewDBError("Falha ao mapear produto", scanErr)
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewDBError("Falha ao iterar produtos", err)
	}

	return products, nil
}

// Update atualiza os dados de catálogo do produto (inclusive tamanhos).
func (r *ProductRepository) Update(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rawSizes, err := json.Marshal(product.Sizes)
	if err != nil {
		return domain.Product{}, errors.NewInternalError("Falha ao serializar tamanhos.", err)
	}

	const updateSQL = `
        UPDATE products
        SET title = $1, description = $2, price = $3, sale_price = $4,
            category = $5, brand = $6, image = $7, sizes = $8,
            total_stock = $9, updated_at = $10
        WHERE id = $11`

	result, err := r.DB.ExecContext(ctxTimeout, updateSQL,
		product.Title,
		product.Description,
		product.Price,
		product.SalePrice,
		product.Category,
		product.Brand,
		product.Image,
		rawSizes,
		product.TotalStock,
		product.UpdatedAt,
		product.ID,
	)
	if err != nil {
		r.logger.Error("Falha ao atualizar produto no DB.", err)
		return domain.Product{}, errors.NewDBError("Falha ao atualizar produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return domain.Product{}, errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return domain.Product{}, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", product.ID))
	}

	r.invalidate(ctx, product.ID)
	return product, nil
}

// Delete remove o produto do catálogo.
func (r *ProductRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao remover produto no DB.", err)
		return errors.NewDBError("Falha ao remover produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", id))
	}

	r.invalidate(ctx, id)
	return nil
}

// invalidate remove a entrada do produto no cache (best effort).
func (r *ProductRepository) invalidate(ctx context.Context, id string) {
	if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"product_id": id, "error": err.Error()})
	}
}

// rowScanner cobre *sql.Row e *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanProduct mapeia uma linha de products para a struct de domínio,
// desserializando a coluna JSONB de tamanhos.
func scanProduct(row rowScanner) (domain.Product, error) {
	var product domain.Product
	var rawSizes []byte

	err := row.Scan(
		&product.ID,
		&product.Title,
		&product.Description,
		&product.Price,
		&product.SalePrice,
		&product.Category,
		&product.Brand,
		&product.Image,
		&rawSizes,
		&product.TotalStock,
		&product.AverageReview,
		&product.CreatedAt,
		&product.UpdatedAt,
	)
	if err != nil {
		return domain.Product{}, err
	}

	if err := json.Unmarshal(rawSizes, &product.Sizes); err != nil {
		return domain.Product{}, fmt.Errorf("coluna sizes inválida: %w", err)
	}
	return product, nil
}

// orderBy traduz a ordenação da vitrine para SQL; o padrão segue
// preço crescente.
func orderBy(sortBy string) string {
	switch sortBy {
	case domain.SortPriceHighToLow:
		return " ORDER BY price DESC"
	case domain.SortTitleAToZ:
		return " ORDER BY title ASC"
	case domain.SortTitleZToA:
		return " ORDER BY title DESC"
	case domain.SortPriceLowToHigh:
		fallthrough
	default:
		return " ORDER BY price ASC"
	}
}
