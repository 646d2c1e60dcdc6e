package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/therealadik/cashcards-api/internal/models"
)

// CardRepositoryMemory хранит карты в памяти (REPO_BACKEND=mem и тесты).
// Срез держится в порядке вставки: вместе со стабильной сортировкой это
// дает детерминированный порядок страниц при равных ключах.
type CardRepositoryMemory struct {
	mu     sync.RWMutex
	cards  []*models.Card
	nextID int64
}

func NewCardRepositoryMemory() *CardRepositoryMemory {
	return &CardRepositoryMemory{nextID: 1}
}

func (r *CardRepositoryMemory) Create(ctx context.Context, card *models.Card) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := *card
	stored.ID = r.nextID
	stored.CreatedAt = time.Now()
	r.nextID++

	r.cards = append(r.cards, &stored)

	return stored.ID, nil
}

func (r *CardRepositoryMemory) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, card := range r.cards {
		if card.ID == id {
			found := *card
			return &found, nil
		}
	}

	return nil, ErrCardNotFound
}

func (r *CardRepositoryMemory) GetByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, card := range r.cards {
		if card.ID == id && card.Owner == owner {
			found := *card
			return &found, nil
		}
	}

	return nil, ErrCardNotFound
}

func (r *CardRepositoryMemory) ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]*models.Card, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	owned := make([]*models.Card, 0)
	for _, card := range r.cards {
		if card.Owner == owner {
			owned = append(owned, card)
		}
	}

	sort.SliceStable(owned, func(i, j int) bool {
		return lessCards(owned[i], owned[j], page.Sort)
	})

	start := page.Page * page.Size
	if start >= len(owned) {
		return []*models.Card{}, nil
	}
	end := start + page.Size
	if end > len(owned) {
		end = len(owned)
	}

	result := make([]*models.Card, 0, end-start)
	for _, card := range owned[start:end] {
		found := *card
		result = append(result, &found)
	}

	return result, nil
}

func lessCards(a, b *models.Card, sortBy []models.SortOrder) bool {
	for _, s := range sortBy {
		var cmp int
		switch s.Field {
		case models.SortByAmount:
			cmp = a.Amount.Cmp(b.Amount)
		case models.SortByID:
			switch {
			case a.ID < b.ID:
				cmp = -1
			case a.ID > b.ID:
				cmp = 1
			}
		}
		if s.Desc {
			cmp = -cmp
		}
		if cmp != 0 {
			return cmp < 0
		}
	}
	return false
}

func (r *CardRepositoryMemory) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, card := range r.cards {
		if card.ID == id {
			card.Amount = amount
			return nil
		}
	}

	return ErrCardNotFound
}
