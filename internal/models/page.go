package models

import (
	"errors"
	"fmt"
	"strings"
)

const DefaultPageSize = 20

var (
	ErrUnknownSortField     = errors.New("неизвестное поле сортировки")
	ErrUnknownSortDirection = errors.New("неизвестное направление сортировки")
)

// SortField — закрытый перечень полей сортировки. Строки из запроса
// проходят через ParseSortField и никогда не попадают в SQL напрямую.
type SortField string

const (
	SortByAmount SortField = "amount"
	SortByID     SortField = "id"
)

func ParseSortField(s string) (SortField, error) {
	switch s {
	case "amount":
		return SortByAmount, nil
	case "id":
		return SortByID, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownSortField, s)
}

type SortOrder struct {
	Field SortField
	Desc  bool
}

// ParseSortOrder разбирает параметр вида "amount,desc"; направление
// по умолчанию — по возрастанию.
func ParseSortOrder(s string) (SortOrder, error) {
	name, dir, hasDir := strings.Cut(s, ",")

	field, err := ParseSortField(name)
	if err != nil {
		return SortOrder{}, err
	}

	if !hasDir || dir == "asc" {
		return SortOrder{Field: field}, nil
	}
	if dir == "desc" {
		return SortOrder{Field: field, Desc: true}, nil
	}
	return SortOrder{}, fmt.Errorf("%w: %q", ErrUnknownSortDirection, dir)
}

type PageRequest struct {
	Page int
	Size int
	Sort []SortOrder
}
