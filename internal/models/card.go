package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Card struct {
	ID        int64
	Owner     string
	Amount    decimal.Decimal
	CreatedAt time.Time
}
