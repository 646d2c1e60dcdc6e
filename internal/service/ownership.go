package service

import (
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/repository"
)

// resolveCardAccess решает, доступна ли карта вызывающему. Чужая карта
// неотличима от несуществующей: в обоих случаях возвращается
// ErrCardNotFound, иначе по ответам можно было бы перебором выяснить,
// какие id заняты другими пользователями.
func resolveCardAccess(owner string, card *models.Card) (*models.Card, error) {
	if card == nil || card.Owner != owner {
		return nil, repository.ErrCardNotFound
	}
	return card, nil
}
