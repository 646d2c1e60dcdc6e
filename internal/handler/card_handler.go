package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/therealadik/cashcards-api/internal/dto"
	"github.com/therealadik/cashcards-api/internal/middleware"
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/repository"
	"github.com/therealadik/cashcards-api/internal/service"
)

type CardHandler struct {
	cardService *service.CardService
	logger      *logrus.Logger
}

func NewCardHandler(cardService *service.CardService, logger *logrus.Logger) *CardHandler {
	return &CardHandler{
		cardService: cardService,
		logger:      logger,
	}
}

func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetOwner(r.Context())
	if err != nil {
		h.logger.Errorf("Ошибка получения владельца из контекста: %v", err)
		http.Error(w, "Ошибка авторизации", http.StatusUnauthorized)
		return
	}

	var req dto.CreateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Ошибка декодирования запроса: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Amount == nil {
		h.logger.Warn("Отсутствует сумма карты")
		http.Error(w, "Сумма обязательна", http.StatusBadRequest)
		return
	}

	card, err := h.cardService.CreateCard(r.Context(), owner, *req.Amount)
	if err != nil {
		h.logger.Errorf("Ошибка создания карты: %v", err)
		http.Error(w, "Не удалось создать карту", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Location", fmt.Sprintf("/cashcards/%d", card.ID))
	w.WriteHeader(http.StatusCreated)
}

func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetOwner(r.Context())
	if err != nil {
		h.logger.Errorf("Ошибка получения владельца из контекста: %v", err)
		http.Error(w, "Ошибка авторизации", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	cardID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.logger.Warnf("Неверный формат ID карты: %v", err)
		http.Error(w, "Неверный ID карты", http.StatusBadRequest)
		return
	}

	card, err := h.cardService.GetCard(r.Context(), owner, cardID)
	if err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			http.Error(w, "Карта не найдена", http.StatusNotFound)
			return
		}
		h.logger.Errorf("Ошибка получения карты: %v", err)
		http.Error(w, "Не удалось получить карту", http.StatusInternalServerError)
		return
	}

	resp := dto.CardResponse{
		ID:     card.ID,
		Amount: card.Amount,
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Errorf("Ошибка кодирования ответа: %v", err)
	}
}

func (h *CardHandler) ListCards(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetOwner(r.Context())
	if err != nil {
		h.logger.Errorf("Ошибка получения владельца из контекста: %v", err)
		http.Error(w, "Ошибка авторизации", http.StatusUnauthorized)
		return
	}

	page, err := parsePageRequest(r)
	if err != nil {
		h.logger.Warnf("Неверные параметры страницы: %v", err)
		http.Error(w, "Неверные параметры страницы", http.StatusBadRequest)
		return
	}

	cards, err := h.cardService.ListCards(r.Context(), owner, page)
	if err != nil {
		if errors.Is(err, service.ErrInvalidPageRequest) {
			http.Error(w, "Неверные параметры страницы", http.StatusBadRequest)
			return
		}
		h.logger.Errorf("Ошибка получения списка карт: %v", err)
		http.Error(w, "Не удалось получить список карт", http.StatusInternalServerError)
		return
	}

	resp := make([]dto.CardResponse, 0, len(cards))
	for _, card := range cards {
		resp = append(resp, dto.CardResponse{
			ID:     card.ID,
			Amount: card.Amount,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Errorf("Ошибка кодирования ответа: %v", err)
	}
}

func (h *CardHandler) UpdateCard(w http.ResponseWriter, r *http.Request) {
	owner, err := middleware.GetOwner(r.Context())
	if err != nil {
		h.logger.Errorf("Ошибка получения владельца из контекста: %v", err)
		http.Error(w, "Ошибка авторизации", http.StatusUnauthorized)
		return
	}

	vars := mux.Vars(r)
	cardID, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		h.logger.Warnf("Неверный формат ID карты: %v", err)
		http.Error(w, "Неверный ID карты", http.StatusBadRequest)
		return
	}

	var req dto.UpdateCardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Ошибка декодирования запроса: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Amount == nil {
		h.logger.Warn("Отсутствует сумма карты")
		http.Error(w, "Сумма обязательна", http.StatusBadRequest)
		return
	}

	if err := h.cardService.UpdateCard(r.Context(), owner, cardID, *req.Amount); err != nil {
		if errors.Is(err, repository.ErrCardNotFound) {
			http.Error(w, "Карта не найдена", http.StatusNotFound)
			return
		}
		h.logger.Errorf("Ошибка обновления карты: %v", err)
		http.Error(w, "Не удалось обновить карту", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// parsePageRequest читает page, size и sort из строки запроса.
// По умолчанию page=0, size=20; сортировку по умолчанию подставляет сервис.
func parsePageRequest(r *http.Request) (models.PageRequest, error) {
	page := models.PageRequest{Size: models.DefaultPageSize}

	query := r.URL.Query()

	if v := query.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return models.PageRequest{}, fmt.Errorf("неверный номер страницы: %q", v)
		}
		page.Page = n
	}

	if v := query.Get("size"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return models.PageRequest{}, fmt.Errorf("неверный размер страницы: %q", v)
		}
		page.Size = n
	}

	for _, v := range query["sort"] {
		order, err := models.ParseSortOrder(v)
		if err != nil {
			return models.PageRequest{}, err
		}
		page.Sort = append(page.Sort, order)
	}

	return page, nil
}
