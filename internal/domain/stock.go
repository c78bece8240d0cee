package domain

import (
	"fmt"
	"math"
	"strconv"

	apperror "wearstock/internal/errors"
)

// StockSnapshot é a visão de leitura do estoque de um produto:
// as entradas por tamanho e o total derivado.
type StockSnapshot struct {
	ProductID  string      `json:"product_id"`
	Sizes      []SizeEntry `json:"sizes"`
	TotalStock int         `json:"totalStock"`
}

// Quantity é a quantidade de uma reserva/estorno. Ao contrário de
// StockCount, a coerção aqui é estrita: valor não numérico ou não inteiro
// é rejeitado com InvalidQuantity já na desserialização, para que o
// chamador receba o tipo de erro correto e não um erro genérico de payload.
type Quantity int

// UnmarshalJSON rejeita quantidades não inteiras com um erro tipado.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	raw := string(data)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return apperror.NewInvalidQuantityError(fmt.Sprintf("a quantidade deve ser um número (recebido %s).", raw))
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v != math.Trunc(v) {
		return apperror.NewInvalidQuantityError(fmt.Sprintf("a quantidade deve ser um número inteiro (recebido %s).", raw))
	}
	*q = Quantity(int(v))
	return nil
}

// Int retorna a quantidade como int nativo.
func (q Quantity) Int() int { return int(q) }

// ReserveRequest é o payload de uma reserva: decrementa o estoque de UM
// tamanho, atomicamente, vinculado a uma linha de carrinho/pedido.
type ReserveRequest struct {
	ProductID string   `json:"product_id"`
	Size      string   `json:"size"`
	Quantity  Quantity `json:"quantity"`
}

// ReleaseRequest é o inverso de ReserveRequest (estorno de uma reserva,
// e.g. abandono do checkout ou falha de pagamento).
type ReleaseRequest struct {
	ProductID string   `json:"product_id"`
	Size      string   `json:"size"`
	Quantity  Quantity `json:"quantity"`
}

// SetSizesRequest substitui a coleção de tamanhos de um produto.
// As quantidades passam pela coerção permissiva de StockCount.
type SetSizesRequest struct {
	ProductID string      `json:"product_id"`
	Sizes     []SizeEntry `json:"sizes"`
}

// ShuffleRequest dispara a redistribuição aleatória do estoque.
// Seed opcional (ausente = derivada do relógio); qualquer valor presente,
// inclusive 0, é usado como está e torna a operação reprodutível.
type ShuffleRequest struct {
	ProductID string `json:"product_id"`
	Seed      *int64 `json:"seed,omitempty"`
}
