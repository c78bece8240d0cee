package domain

// ErrorResponse é a estrutura padronizada para respostas de erro na API.
// @Description Estrutura padronizada para respostas de erro na API.
type ErrorResponse struct {
	Code     int    `json:"code" example:"409"`
	Category string `json:"category" example:"OUT_OF_STOCK"`
	Message  string `json:"message" example:"Estoque insuficiente para o tamanho M."`
}
