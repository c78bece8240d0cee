package stockservice

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"wearstock/internal/allocation"
	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/ledger"
	"wearstock/internal/pkg/logger"
)

// StockLedger define o contrato que o Serviço de Estoque espera do Ledger.
type StockLedger interface {
	SetSizes(ctx context.Context, productID string, entries []domain.SizeEntry) (domain.StockSnapshot, error)
	Reserve(ctx context.Context, productID, sizeName string, quantity int) (int, error)
	Release(ctx context.Context, productID, sizeName string, quantity int) (int, error)
	IsAvailable(ctx context.Context, productID, sizeName string) (bool, error)
	Snapshot(ctx context.Context, productID string) (domain.StockSnapshot, error)
	Redistribute(ctx context.Context, productID string, alloc ledger.AllocFunc) (domain.StockSnapshot, error)
}

// Service expõe as operações de estoque para o checkout e o console admin.
type Service struct {
	ledger StockLedger
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Estoque.
func NewService(l StockLedger, log logger.Logger) *Service {
	return &Service{ledger: l, logger: log}
}

// Reserve decrementa o estoque de um tamanho para uma linha de pedido.
// Retorna o estoque restante do tamanho. OutOfStock/UnknownSize sobem
// intactos para o chamador decidir a compensação — o serviço nunca retenta.
func (s *Service) Reserve(ctx context.Context, req domain.ReserveRequest) (int, error) {
	if err := validateTarget(req.ProductID, req.Size); err != nil {
		return 0, err
	}

	remaining, err := s.ledger.Reserve(ctx, req.ProductID, req.Size, req.Quantity.Int())
	if err != nil {
		return 0, err
	}

	s.logger.Info("Reserva de estoque aplicada.", map[string]interface{}{
		"product_id": req.ProductID, "size": req.Size, "quantity": req.Quantity, "remaining": remaining,
	})
	return remaining, nil
}

// Release estorna uma reserva (abandono de checkout, falha de pagamento).
func (s *Service) Release(ctx context.Context, req domain.ReleaseRequest) (int, error) {
	if err := validateTarget(req.ProductID, req.Size); err != nil {
		return 0, err
	}

	remaining, err := s.ledger.Release(ctx, req.ProductID, req.Size, req.Quantity.Int())
	if err != nil {
		return 0, err
	}

	s.logger.Info("Estorno de estoque aplicado.", map[string]interface{}{
		"product_id": req.ProductID, "size": req.Size, "quantity": req.Quantity, "remaining": remaining,
	})
	return remaining, nil
}

// CheckAvailability informa se o tamanho tem estoque > 0.
func (s *Service) CheckAvailability(ctx context.Context, productID, sizeName string) (bool, error) {
	if err := validateTarget(productID, sizeName); err != nil {
		return false, err
	}
	return s.ledger.IsAvailable(ctx, productID, sizeName)
}

// GetStock devolve o snapshot de sizes/totalStock do produto.
func (s *Service) GetStock(ctx context.Context, productID string) (domain.StockSnapshot, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.StockSnapshot{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	return s.ledger.Snapshot(ctx, productID)
}

// SetSizes substitui a coleção de tamanhos do produto (console admin).
func (s *Service) SetSizes(ctx context.Context, req domain.SetSizesRequest) (domain.StockSnapshot, error) {
	if _, err := uuid.Parse(req.ProductID); err != nil {
		return domain.StockSnapshot{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	snapshot, err := s.ledger.SetSizes(ctx, req.ProductID, req.Sizes)
	if err != nil {
		return domain.StockSnapshot{}, err
	}

	s.logger.Info("Coleção de tamanhos substituída.", map[string]interface{}{
		"product_id": req.ProductID, "total_stock": snapshot.TotalStock,
	})
	return snapshot, nil
}

// DistributeEvenly rebalanceia o estoque igualmente entre os tamanhos,
// sem alterar o total.
func (s *Service) DistributeEvenly(ctx context.Context, productID string) (domain.StockSnapshot, error) {
	if _, err := uuid.Parse(productID); err != nil {
		return domain.StockSnapshot{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	snapshot, err := s.ledger.Redistribute(ctx, productID, allocation.DistributeEvenly)
	if err != nil {
		return domain.StockSnapshot{}, err
	}

	s.logger.Info("Estoque distribuído igualmente.", map[string]interface{}{
		"product_id": productID, "total_stock": snapshot.TotalStock,
	})
	return snapshot, nil
}

// ShuffleStock rebalanceia o estoque aleatoriamente entre os tamanhos.
// A seed é injetada (ausente = derivada do relógio) para que a operação
// seja reprodutível em teste e auditável em produção; qualquer valor
// presente, inclusive 0, é usado como está.
func (s *Service) ShuffleStock(ctx context.Context, req domain.ShuffleRequest) (domain.StockSnapshot, error) {
	if _, err := uuid.Parse(req.ProductID); err != nil {
		return domain.StockSnapshot{}, apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}

	seed := time.Now().UnixNano()
	if req.Seed != nil {
		seed = *req.Seed
	}
	rng := rand.New(rand.NewSource(seed))

	snapshot, err := s.ledger.Redistribute(ctx, req.ProductID, func(names []string, total int) ([]domain.SizeEntry, error) {
		return allocation.ShuffleStock(names, total, rng)
	})
	if err != nil {
		if errors.Is(err, allocation.ErrNothingToShuffle) {
			// Sinalização explícita de "nada a embaralhar" para o chamador.
			return domain.StockSnapshot{}, apperror.NewValidationError("Não há estoque para embaralhar.")
		}
		return domain.StockSnapshot{}, err
	}

	s.logger.Info("Estoque embaralhado.", map[string]interface{}{
		"product_id": req.ProductID, "seed": seed, "total_stock": snapshot.TotalStock,
	})
	return snapshot, nil
}

// validateTarget valida o par (produto, tamanho) das operações de checkout.
func validateTarget(productID, sizeName string) error {
	if _, err := uuid.Parse(productID); err != nil {
		return apperror.NewValidationError("O ID do produto deve ser um UUID válido.")
	}
	if strings.TrimSpace(sizeName) == "" {
		return apperror.NewValidationError("O nome do tamanho é obrigatório.")
	}
	return nil
}
