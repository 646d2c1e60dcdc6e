package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/repository"
)

var ErrInvalidPageRequest = errors.New("некорректные параметры страницы")

type CardService struct {
	cardRepo repository.CardRepository
}

func NewCardService(cardRepo repository.CardRepository) *CardService {
	return &CardService{cardRepo: cardRepo}
}

// CreateCard создает карту. Владелец берется только из аутентифицированного
// запроса: тело запроса не может задать ни owner, ни id.
func (s *CardService) CreateCard(ctx context.Context, owner string, amount decimal.Decimal) (*models.Card, error) {
	card := &models.Card{
		Owner:  owner,
		Amount: amount,
	}

	id, err := s.cardRepo.Create(ctx, card)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания карты в БД: %w", err)
	}

	card.ID = id
	return card, nil
}

// GetCard ищет карту одним запросом с фильтром по владельцу.
func (s *CardService) GetCard(ctx context.Context, owner string, id int64) (*models.Card, error) {
	return s.cardRepo.GetByIDAndOwner(ctx, id, owner)
}

// ListCards возвращает страницу карт вызывающего. Пустая сортировка
// заменяется на amount по возрастанию; страница за пределами набора —
// это пустой список, а не ошибка.
func (s *CardService) ListCards(ctx context.Context, owner string, page models.PageRequest) ([]*models.Card, error) {
	if page.Page < 0 || page.Size <= 0 {
		return nil, ErrInvalidPageRequest
	}

	if len(page.Sort) == 0 {
		page.Sort = []models.SortOrder{{Field: models.SortByAmount}}
	}

	return s.cardRepo.ListByOwner(ctx, owner, page)
}

// UpdateCard читает карту по id без фильтра по владельцу, чтобы внутри
// различать «нет карты» и «карта чужая», но наружу оба случая выглядят
// одинаково — ErrCardNotFound.
func (s *CardService) UpdateCard(ctx context.Context, owner string, id int64, amount decimal.Decimal) error {
	card, err := s.cardRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if _, err := resolveCardAccess(owner, card); err != nil {
		return err
	}

	return s.cardRepo.UpdateAmount(ctx, id, amount)
}
