package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/therealadik/cashcards-api/internal/models"
)

var ErrCardNotFound = errors.New("карта не найдена")

type CardRepository interface {
	Create(ctx context.Context, card *models.Card) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Card, error)
	GetByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error)
	ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]*models.Card, error)
	UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error
}

type CardRepositoryPgx struct {
	pool *pgxpool.Pool
}

func NewCardRepository(pool *pgxpool.Pool) CardRepository {
	return &CardRepositoryPgx{pool: pool}
}

func (r *CardRepositoryPgx) Create(ctx context.Context, card *models.Card) (int64, error) {
	var id int64

	err := r.pool.QueryRow(ctx,
		`INSERT INTO cash_cards (owner, amount)
         VALUES ($1, $2)
         RETURNING id`,
		card.Owner, card.Amount).Scan(&id)

	if err != nil {
		return 0, err
	}

	return id, nil
}

func (r *CardRepositoryPgx) GetByID(ctx context.Context, id int64) (*models.Card, error) {
	return r.get(ctx,
		`SELECT id, owner, amount, created_at
         FROM cash_cards
         WHERE id = $1`,
		id)
}

// GetByIDAndOwner фильтрует по владельцу прямо в запросе: чужая карта
// не читается из БД даже на время проверки.
func (r *CardRepositoryPgx) GetByIDAndOwner(ctx context.Context, id int64, owner string) (*models.Card, error) {
	return r.get(ctx,
		`SELECT id, owner, amount, created_at
         FROM cash_cards
         WHERE id = $1 AND owner = $2`,
		id, owner)
}

func (r *CardRepositoryPgx) get(ctx context.Context, query string, args ...any) (*models.Card, error) {
	card := &models.Card{}

	err := r.pool.QueryRow(ctx, query, args...).
		Scan(&card.ID, &card.Owner, &card.Amount, &card.CreatedAt)

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCardNotFound
		}
		return nil, err
	}

	return card, nil
}

func (r *CardRepositoryPgx) ListByOwner(ctx context.Context, owner string, page models.PageRequest) ([]*models.Card, error) {
	query := fmt.Sprintf(
		`SELECT id, owner, amount, created_at
         FROM cash_cards
         WHERE owner = $1
         ORDER BY %s
         LIMIT $2 OFFSET $3`,
		orderByClause(page.Sort))

	rows, err := r.pool.Query(ctx, query, owner, page.Size, page.Page*page.Size)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cards := make([]*models.Card, 0, page.Size)
	for rows.Next() {
		card := &models.Card{}
		if err := rows.Scan(&card.ID, &card.Owner, &card.Amount, &card.CreatedAt); err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return cards, rows.Err()
}

// orderByClause собирает ORDER BY из уже проверенных полей сортировки;
// id добавляется последним ключом, чтобы равные значения не меняли
// порядок между страницами.
func orderByClause(sort []models.SortOrder) string {
	parts := make([]string, 0, len(sort)+1)
	for _, s := range sort {
		dir := "ASC"
		if s.Desc {
			dir = "DESC"
		}
		parts = append(parts, string(s.Field)+" "+dir)
	}
	parts = append(parts, "id ASC")
	return strings.Join(parts, ", ")
}

// UpdateAmount — условное обновление по id: проверка существования и
// запись выполняются одним запросом.
func (r *CardRepositoryPgx) UpdateAmount(ctx context.Context, id int64, amount decimal.Decimal) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cash_cards
         SET amount = $2
         WHERE id = $1`,
		id, amount)

	if err != nil {
		return err
	}

	if tag.RowsAffected() == 0 {
		return ErrCardNotFound
	}

	return nil
}
