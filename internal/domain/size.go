package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// SizeNames é o conjunto ordenado e fixo de tamanhos do vestuário.
// Todo produto carrega exatamente estes tamanhos, nesta ordem; uma entrada
// zerada permanece na coleção (nunca é removida), para que os algoritmos de
// redistribuição operem sempre sobre o mesmo formato de conjunto.
var SizeNames = []string{"S", "M", "L", "XL", "XXL"}

// SizeEntry é um par (nome do tamanho, quantidade em estoque) dentro de Sizes.
// Stock nunca é negativo.
type SizeEntry struct {
	Name  string     `json:"name"`
	Stock StockCount `json:"stock"`
}

// StockCount é uma quantidade de estoque com parsing permissivo:
// aceita número, string numérica ou lixo no JSON de entrada, tratando
// valores não numéricos ou negativos como 0 (espelha o parseInt || 0
// dos formulários do admin). Nunca assume valor negativo.
type StockCount int

// UnmarshalJSON implementa a coerção permissiva de entrada.
func (s *StockCount) UnmarshalJSON(data []byte) error {
	str := strings.Trim(string(data), `"`)
	if str == "null" || str == "" {
		*s = 0
		return nil
	}
	// parseInt aceita prefixos como "12.5" -> 12; float cobre esse caso.
	// NaN/Inf passam pelo ParseFloat mas não são quantidades: viram 0.
	v, err := strconv.ParseFloat(str, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
		*s = 0
		return nil
	}
	*s = StockCount(int(v))
	return nil
}

// MarshalJSON garante que a quantidade é serializada como número simples.
func (s StockCount) MarshalJSON() ([]byte, error) {
	return json.Marshal(int(s))
}

// Int retorna a quantidade como int nativo.
func (s StockCount) Int() int { return int(s) }

// ValidSizeName verifica se o nome (já normalizado) pertence ao conjunto fixo.
func ValidSizeName(name string) bool {
	for _, n := range SizeNames {
		if n == name {
			return true
		}
	}
	return false
}

// DefaultSizes retorna o conjunto completo de tamanhos com estoque zero.
// Usado quando um produto é criado sem tamanhos explícitos.
func DefaultSizes() []SizeEntry {
	sizes := make([]SizeEntry, 0, len(SizeNames))
	for _, name := range SizeNames {
		sizes = append(sizes, SizeEntry{Name: name, Stock: 0})
	}
	return sizes
}

// TotalOf recalcula o estoque total como a soma de todas as entradas.
// É a ÚNICA forma legítima de produzir TotalStock.
func TotalOf(sizes []SizeEntry) int {
	total := 0
	for _, s := range sizes {
		total += s.Stock.Int()
	}
	return total
}

// NormalizeSizeName aplica a normalização dos formulários: trim + uppercase.
func NormalizeSizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}
