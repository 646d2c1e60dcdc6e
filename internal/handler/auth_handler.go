package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/therealadik/cashcards-api/internal/dto"
	"github.com/therealadik/cashcards-api/internal/repository"
	"github.com/therealadik/cashcards-api/internal/service"
)

type AuthHandler struct {
	authService service.AuthService
	logger      *logrus.Logger
}

func NewAuthHandler(authService service.AuthService, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Ошибка декодирования запроса: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	if req.Login == "" || req.Password == "" {
		h.logger.Warn("Отсутствует логин или пароль")
		http.Error(w, "Логин и пароль обязательны", http.StatusBadRequest)
		return
	}

	id, err := h.authService.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			http.Error(w, "Пользователь уже существует", http.StatusConflict)
			return
		}
		h.logger.Errorf("Ошибка регистрации: %v", err)
		http.Error(w, "Не удалось зарегистрировать пользователя", http.StatusInternalServerError)
		return
	}

	resp := dto.RegisterResponse{ID: id}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Errorf("Ошибка кодирования ответа: %v", err)
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Errorf("Ошибка декодирования запроса: %v", err)
		http.Error(w, "Неверный формат запроса", http.StatusBadRequest)
		return
	}

	token, err := h.authService.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			http.Error(w, "Неверные учетные данные", http.StatusUnauthorized)
			return
		}
		h.logger.Errorf("Ошибка входа: %v", err)
		http.Error(w, "Не удалось выполнить вход", http.StatusInternalServerError)
		return
	}

	resp := dto.LoginResponse{Token: token}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		h.logger.Errorf("Ошибка кодирования ответа: %v", err)
	}
}
