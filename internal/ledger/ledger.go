// Package ledger é o dono do estoque por tamanho de cada produto.
// Todas as mutações de Sizes/TotalStock passam por aqui: cada operação
// valida, aplica e recalcula o total como uma unidade indivisível por
// produto. Produtos diferentes nunca compartilham escopo de exclusão.
package ledger

import (
	"context"
	"fmt"
	"sync"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
	"wearstock/internal/pkg/logger"
)

// Store define o contrato que o Ledger espera da camada de Persistência.
// SaveSizes deve gravar sizes e total_stock do produto em uma única escrita
// atômica de registro; a chamada acontece DENTRO da seção crítica do produto.
type Store interface {
	LoadSizes(ctx context.Context, productID string) ([]domain.SizeEntry, error)
	SaveSizes(ctx context.Context, productID string, sizes []domain.SizeEntry, totalStock int) error
}

// AllocFunc computa uma nova distribuição de estoque para os tamanhos dados,
// preservando o total. As implementações vivem no pacote allocation.
type AllocFunc func(sizeNames []string, totalStock int) ([]domain.SizeEntry, error)

// Ledger serializa as mutações de estoque por produto.
//
// O estorno (Release) simplesmente soma de volta: não há teto de
// high-water-mark, a disciplina de compensação é do chamador (o fluxo de
// checkout estorna exatamente o que reservou).
type Ledger struct {
	store  Store
	logger logger.Logger

	mu    sync.Mutex             // protege o mapa de locks
	locks map[string]*sync.Mutex // exclusão por produto
}

// New cria um Ledger sobre o Store de persistência.
func New(store Store, log logger.Logger) *Ledger {
	return &Ledger{
		store:  store,
		logger: log,
		locks:  make(map[string]*sync.Mutex),
	}
}

// lockFor devolve o mutex do produto, criando-o na primeira operação.
// Locks nunca são descartados: o conjunto de produtos ativos é pequeno.
func (l *Ledger) lockFor(productID string) *sync.Mutex {
	l.mu.Lock()
	defer l.mu.Unlock()
	m, ok := l.locks[productID]
	if !ok {
		m = &sync.Mutex{}
		l.locks[productID] = m
	}
	return m
}

// SetSizes substitui a coleção de tamanhos do produto e recalcula o total.
// Nomes são normalizados (trim + uppercase) e devem ser únicos e pertencer
// ao conjunto fixo; tamanhos do conjunto ausentes na entrada são preenchidos
// com estoque zero, mantendo o formato da coleção estável. Quantidades
// negativas são tratadas como zero.
func (l *Ledger) SetSizes(ctx context.Context, productID string, entries []domain.SizeEntry) (domain.StockSnapshot, error) {
	sizes, err := CanonicalSizes(entries)
	if err != nil {
		return domain.StockSnapshot{}, err
	}

	lock := l.lockFor(productID)
	lock.Lock()
	defer lock.Unlock()

	return l.commit(ctx, productID, sizes)
}

// Reserve decrementa atomicamente o estoque de UM tamanho, vinculado a uma
// linha de carrinho/pedido. Falha com OutOfStock sem nenhuma mutação se o
// estoque for insuficiente. Retorna o estoque restante do tamanho.
func (l *Ledger) Reserve(ctx context.Context, productID, sizeName string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, apperror.NewInvalidQuantityError(fmt.Sprintf("a quantidade da reserva deve ser positiva (recebido %d).", quantity))
	}
	name := domain.NormalizeSizeName(sizeName)

	lock := l.lockFor(productID)
	lock.Lock()
	defer lock.Unlock()

	sizes, err := l.store.LoadSizes(ctx, productID)
	if err != nil {
		return 0, err
	}

	idx := indexOf(sizes, name)
	if idx < 0 {
		return 0, apperror.NewUnknownSizeError(fmt.Sprintf("o produto %s não possui o tamanho %s.", productID, name))
	}
	available := sizes[idx].Stock.Int()
	if available < quantity {
		l.logger.Debug("Reserva rejeitada por estoque insuficiente.", map[string]interface{}{
			"product_id": productID, "size": name, "available": available, "requested": quantity,
		})
		return 0, apperror.NewOutOfStockError(fmt.Sprintf("tamanho %s possui %d em estoque, requisitado %d.", name, available, quantity))
	}

	sizes[idx].Stock = domain.StockCount(available - quantity)
	if _, err := l.commit(ctx, productID, sizes); err != nil {
		return 0, err
	}
	return available - quantity, nil
}

// Release é o inverso de Reserve: devolve a quantidade ao tamanho, usado no
// estorno de uma reserva (abandono de checkout, falha de pagamento).
func (l *Ledger) Release(ctx context.Context, productID, sizeName string, quantity int) (int, error) {
	if quantity <= 0 {
		return 0, apperror.NewInvalidQuantityError(fmt.Sprintf("a quantidade do estorno deve ser positiva (recebido %d).", quantity))
	}
	name := domain.NormalizeSizeName(sizeName)

	lock := l.lockFor(productID)
	lock.Lock()
	defer lock.Unlock()

	sizes, err := l.store.LoadSizes(ctx, productID)
	if err != nil {
		return 0, err
	}

	idx := indexOf(sizes, name)
	if idx < 0 {
		return 0, apperror.NewUnknownSizeError(fmt.Sprintf("o produto %s não possui o tamanho %s.", productID, name))
	}

	sizes[idx].Stock = domain.StockCount(sizes[idx].Stock.Int() + quantity)
	if _, err := l.commit(ctx, productID, sizes); err != nil {
		return 0, err
	}
	return sizes[idx].Stock.Int(), nil
}

// IsAvailable informa se o tamanho existe no produto com estoque > 0.
// Somente leitura: não participa do escopo de exclusão.
func (l *Ledger) IsAvailable(ctx context.Context, productID, sizeName string) (bool, error) {
	sizes, err := l.store.LoadSizes(ctx, productID)
	if err != nil {
		return false, err
	}
	idx := indexOf(sizes, domain.NormalizeSizeName(sizeName))
	return idx >= 0 && sizes[idx].Stock.Int() > 0, nil
}

// Snapshot devolve a visão atual de sizes/totalStock para o caminho de
// leitura do catálogo. O total é recalculado na saída, nunca confiado.
func (l *Ledger) Snapshot(ctx context.Context, productID string) (domain.StockSnapshot, error) {
	sizes, err := l.store.LoadSizes(ctx, productID)
	if err != nil {
		return domain.StockSnapshot{}, err
	}
	return domain.StockSnapshot{
		ProductID:  productID,
		Sizes:      sizes,
		TotalStock: domain.TotalOf(sizes),
	}, nil
}

// Redistribute carrega o estado do produto, aplica a função de alocação ao
// (conjunto de tamanhos, total) e grava o resultado — tudo sob o mesmo lock,
// para que nenhuma reserva concorrente mude o total no meio do cálculo.
func (l *Ledger) Redistribute(ctx context.Context, productID string, alloc AllocFunc) (domain.StockSnapshot, error) {
	lock := l.lockFor(productID)
	lock.Lock()
	defer lock.Unlock()

	sizes, err := l.store.LoadSizes(ctx, productID)
	if err != nil {
		return domain.StockSnapshot{}, err
	}

	names := make([]string, 0, len(sizes))
	for _, s := range sizes {
		names = append(names, s.Name)
	}

	redistributed, err := alloc(names, domain.TotalOf(sizes))
	if err != nil {
		return domain.StockSnapshot{}, err
	}

	canonical, err := CanonicalSizes(redistributed)
	if err != nil {
		return domain.StockSnapshot{}, err
	}
	return l.commit(ctx, productID, canonical)
}

// commit recalcula o total e delega a escrita atômica ao Store.
// Chamado sempre com o lock do produto em mãos. Nenhum caminho grava
// sizes sem recalcular o total.
func (l *Ledger) commit(ctx context.Context, productID string, sizes []domain.SizeEntry) (domain.StockSnapshot, error) {
	total := domain.TotalOf(sizes)
	if err := l.store.SaveSizes(ctx, productID, sizes, total); err != nil {
		return domain.StockSnapshot{}, err
	}
	l.logger.Debug("Estoque do produto gravado.", map[string]interface{}{
		"product_id": productID, "total_stock": total,
	})
	return domain.StockSnapshot{ProductID: productID, Sizes: sizes, TotalStock: total}, nil
}

// CanonicalSizes valida e normaliza uma coleção de entrada: nomes do conjunto
// fixo, sem duplicatas, negativos zerados, ausentes preenchidos com zero,
// resultado na ordem canônica S..XXL.
func CanonicalSizes(entries []domain.SizeEntry) ([]domain.SizeEntry, error) {
	if len(entries) == 0 {
		return nil, apperror.NewInvalidSizeSetError("a coleção de tamanhos não pode ser vazia.")
	}

	byName := make(map[string]int, len(entries))
	for _, e := range entries {
		name := domain.NormalizeSizeName(e.Name)
		if !domain.ValidSizeName(name) {
			return nil, apperror.NewInvalidSizeSetError(fmt.Sprintf("tamanho %q fora do conjunto %v.", e.Name, domain.SizeNames))
		}
		if _, dup := byName[name]; dup {
			return nil, apperror.NewInvalidSizeSetError(fmt.Sprintf("tamanho %s duplicado na coleção.", name))
		}
		stock := e.Stock.Int()
		if stock < 0 {
			stock = 0
		}
		byName[name] = stock
	}

	sizes := make([]domain.SizeEntry, 0, len(domain.SizeNames))
	for _, name := range domain.SizeNames {
		sizes = append(sizes, domain.SizeEntry{Name: name, Stock: domain.StockCount(byName[name])})
	}
	return sizes, nil
}

// indexOf localiza a entrada do tamanho pelo nome já normalizado.
func indexOf(sizes []domain.SizeEntry, name string) int {
	for i, s := range sizes {
		if s.Name == name {
			return i
		}
	}
	return -1
}
