package dto

import "github.com/shopspring/decimal"

// Amount — указатель, чтобы отличать отсутствующее поле от нуля.
type CreateCardRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

type UpdateCardRequest struct {
	Amount *decimal.Decimal `json:"amount"`
}

// CardResponse не содержит владельца: клиент и так видит только свои карты.
type CardResponse struct {
	ID     int64           `json:"id"`
	Amount decimal.Decimal `json:"amount"`
}
