package stockrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"wearstock/internal/domain"
	"wearstock/internal/errors"
	"wearstock/internal/pkg/cache"
	"wearstock/internal/pkg/logger"
)

// StockRepository implementa a interface ledger.Store sobre o PostgreSQL.
// sizes e total_stock são gravados juntos em uma única escrita de registro
// (coluna JSONB + inteiro na mesma linha de products): o contrato de
// atomicidade que o Ledger exige da persistência.
type StockRepository struct {
	DB        *sql.DB
	Cache     cache.Client // invalidação da entrada de catálogo após escrita
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewStockRepository cria e retorna uma nova instância do Repositório de Estoque.
func NewStockRepository(db *sql.DB, cacheClient cache.Client, dbTimeout time.Duration, log logger.Logger) *StockRepository {
	return &StockRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		logger:    log,
	}
}

// Chave de cache do produto — a mesma usada pelo productrepo (cache-aside).
const productCacheKey = "product:%s"

// LoadSizes busca a coleção de tamanhos atual do produto.
func (r *StockRepository) LoadSizes(ctx context.Context, productID string) ([]domain.SizeEntry, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT sizes FROM products WHERE id = $1`

	var raw []byte
	err := r.DB.QueryRowContext(ctxTimeout, query, productID).Scan(&raw)
	if err == sql.ErrNoRows {
		r.logger.Debug("Produto não encontrado ao carregar estoque.", map[string]interface{}{"product_id": productID})
		return nil, errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}
	if err != nil {
		r.logger.Error("Falha ao carregar tamanhos do produto no DB.", err)
		return nil, errors.NewDBError("Falha ao carregar tamanhos do produto", err)
	}

	var sizes []domain.SizeEntry
	if err := json.Unmarshal(raw, &sizes); err != nil {
		r.logger.Error("Coluna sizes com JSON inválido.", err)
		return nil, errors.NewInternalError("Coluna sizes corrompida.", err)
	}
	return sizes, nil
}

// SaveSizes grava sizes e total_stock do produto em uma única escrita.
// O Ledger chama este método dentro da seção crítica do produto; aqui só
// garantimos que a linha existe e que a escrita é tudo-ou-nada.
func (r *StockRepository) SaveSizes(ctx context.Context, productID string, sizes []domain.SizeEntry, totalStock int) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	raw, err := json.Marshal(sizes)
	if err != nil {
		return errors.NewInternalError("Falha ao serializar tamanhos.", err)
	}

	query := `
        UPDATE products
        SET sizes = $1, total_stock = $2, updated_at = $3
        WHERE id = $4`

	result, err := r.DB.ExecContext(ctxTimeout, query, raw, totalStock, time.Now().UTC(), productID)
	if err != nil {
		r.logger.Error("Falha ao gravar tamanhos do produto no DB.", err)
		return errors.NewDBError("Falha ao gravar tamanhos do produto", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas após gravação de estoque.", err)
		return errors.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFoundError(fmt.Sprintf("Produto %s não encontrado.", productID))
	}

	// Invalida a visão de catálogo em cache; a próxima leitura repovoa.
	if cacheErr := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, productID)); cacheErr != nil {
		r.logger.Warn("Falha ao invalidar cache do produto após escrita de estoque.", map[string]interface{}{
			"product_id": productID, "error": cacheErr.Error(),
		})
	}

	r.logger.Debug("Estoque do produto persistido.", map[string]interface{}{
		"product_id": productID, "total_stock": totalStock,
	})
	return nil
}
