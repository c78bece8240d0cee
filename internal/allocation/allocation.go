// Package allocation implementa os algoritmos puros de redistribuição de
// estoque entre tamanhos. As funções não persistem nada: o Ledger aplica o
// resultado via SetSizes. O total de estoque nunca muda em uma redistribuição.
package allocation

import (
	"errors"
	"fmt"

	"wearstock/internal/domain"
	apperror "wearstock/internal/errors"
)

// RandSource é a fonte de aleatoriedade injetada no embaralhamento.
// *math/rand.Rand satisfaz a interface; nos testes usa-se uma fonte com
// seed fixa para tornar o resultado reprodutível.
type RandSource interface {
	Float64() float64
}

// ErrNothingToShuffle sinaliza que o total é zero e o embaralhamento seria
// degenerado. O chamador decide como reportar ("no stock to shuffle").
var ErrNothingToShuffle = errors.New("não há estoque para embaralhar")

// DistributeEvenly divide totalStock igualmente entre os tamanhos, na ordem
// recebida: base = total/N, e os primeiros (total mod N) tamanhos recebem
// base+1. Determinística: mesma entrada, mesma saída. A soma do resultado é
// exatamente totalStock.
func DistributeEvenly(sizeNames []string, totalStock int) ([]domain.SizeEntry, error) {
	if err := validate(sizeNames, totalStock); err != nil {
		return nil, err
	}

	n := len(sizeNames)
	base := totalStock / n
	remainder := totalStock % n

	result := make([]domain.SizeEntry, 0, n)
	for i, name := range sizeNames {
		stock := base
		if i < remainder {
			stock++
		}
		result = append(result, domain.SizeEntry{Name: name, Stock: domain.StockCount(stock)})
	}
	return result, nil
}

// ShuffleStock redistribui totalStock aleatoriamente entre os tamanhos.
// Cada tamanho, exceto o último, recebe floor(restante * U[0,1)); o último
// absorve todo o resto (inclusive a sobra de arredondamento). Por construção
// nenhum tamanho recebe valor negativo e a soma é exatamente totalStock.
// Com a mesma seed na fonte, o resultado se repete.
func ShuffleStock(sizeNames []string, totalStock int, rng RandSource) ([]domain.SizeEntry, error) {
	if err := validate(sizeNames, totalStock); err != nil {
		return nil, err
	}
	if totalStock == 0 {
		return nil, ErrNothingToShuffle
	}

	remaining := totalStock
	result := make([]domain.SizeEntry, 0, len(sizeNames))
	for i, name := range sizeNames {
		if i == len(sizeNames)-1 {
			result = append(result, domain.SizeEntry{Name: name, Stock: domain.StockCount(remaining)})
			break
		}
		allocated := int(float64(remaining) * rng.Float64())
		remaining -= allocated
		result = append(result, domain.SizeEntry{Name: name, Stock: domain.StockCount(allocated)})
	}
	return result, nil
}

// validate rejeita N = 0 e totais negativos antes de qualquer cálculo.
func validate(sizeNames []string, totalStock int) error {
	if len(sizeNames) == 0 {
		return apperror.NewInvalidSizeSetError("nenhum tamanho definido para a redistribuição.")
	}
	if totalStock < 0 {
		return apperror.NewInvalidSizeSetError(fmt.Sprintf("total de estoque negativo (%d).", totalStock))
	}
	return nil
}
