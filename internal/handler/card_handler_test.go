package handler_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/therealadik/cashcards-api/internal/config"
	"github.com/therealadik/cashcards-api/internal/dto"
	"github.com/therealadik/cashcards-api/internal/handler"
	"github.com/therealadik/cashcards-api/internal/middleware"
	"github.com/therealadik/cashcards-api/internal/models"
	"github.com/therealadik/cashcards-api/internal/repository"
	"github.com/therealadik/cashcards-api/internal/service"
	"golang.org/x/crypto/bcrypt"
)

func TestMain(m *testing.M) {
	// как в main: суммы в JSON — числа, не строки
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type testEnv struct {
	router   http.Handler
	cardRepo *repository.CardRepositoryMemory
	cards    map[string]int64
}

// newTestEnv поднимает полный стек на хранилище в памяти с данными из
// обучающего набора: sarah1 владеет картами 1.00/123.45/150.00,
// kumar2 — картой 200.00, hank-owns-no-cards не имеет роли CARD-OWNER.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cardRepo := repository.NewCardRepositoryMemory()
	userRepo := repository.NewUserRepositoryMemory()

	authService := service.NewAuthService(userRepo, config.AuthConfig{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	})
	cardService := service.NewCardService(cardRepo)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	router := handler.NewRouter(
		handler.NewCardHandler(cardService, logger),
		handler.NewAuthHandler(authService, logger),
		middleware.NewAuthMiddleware(authService, logger),
	)

	seedUser(t, userRepo, "sarah1", "abc123", models.RoleCardOwner)
	seedUser(t, userRepo, "kumar2", "xyz789", models.RoleCardOwner)
	seedUser(t, userRepo, "hank-owns-no-cards", "qrs456", "NON-OWNER")

	cards := map[string]int64{
		"sarah-150.00": seedCard(t, cardRepo, "sarah1", "150.00"),
		"sarah-1.00":   seedCard(t, cardRepo, "sarah1", "1.00"),
		"sarah-123.45": seedCard(t, cardRepo, "sarah1", "123.45"),
		"kumar-200.00": seedCard(t, cardRepo, "kumar2", "200.00"),
	}

	return &testEnv{router: router, cardRepo: cardRepo, cards: cards}
}

func seedUser(t *testing.T, repo repository.UserRepository, login, password, role string) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	_, err = repo.Create(context.Background(), &models.User{
		Login:    login,
		Password: string(hash),
		Role:     role,
	})
	require.NoError(t, err)
}

func seedCard(t *testing.T, repo *repository.CardRepositoryMemory, owner, amount string) int64 {
	t.Helper()

	id, err := repo.Create(context.Background(), &models.Card{
		Owner:  owner,
		Amount: decimal.RequireFromString(amount),
	})
	require.NoError(t, err)

	return id
}

func (e *testEnv) do(t *testing.T, method, path, login, password, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if login != "" {
		req.SetBasicAuth(login, password)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) id(name string) string {
	return strconv.FormatInt(e.cards[name], 10)
}

func decodeCard(t *testing.T, body []byte) dto.CardResponse {
	t.Helper()

	var card dto.CardResponse
	require.NoError(t, json.Unmarshal(body, &card))
	return card
}

func TestGetCard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("владелец получает свою карту", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/"+env.id("sarah-123.45"), "sarah1", "abc123", "")
		require.Equal(t, http.StatusOK, w.Code)

		card := decodeCard(t, w.Body.Bytes())
		assert.Equal(t, env.cards["sarah-123.45"], card.ID)
		assert.True(t, card.Amount.Equal(decimal.RequireFromString("123.45")))
	})

	t.Run("несуществующий id дает 404", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/99999", "sarah1", "abc123", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("чужая карта неотличима от несуществующей", func(t *testing.T) {
		foreign := env.do(t, http.MethodGet, "/cashcards/"+env.id("kumar-200.00"), "sarah1", "abc123", "")
		missing := env.do(t, http.MethodGet, "/cashcards/99999", "sarah1", "abc123", "")

		assert.Equal(t, http.StatusNotFound, foreign.Code)
		assert.Equal(t, missing.Code, foreign.Code)
		assert.Equal(t, missing.Body.String(), foreign.Body.String())
	})

	t.Run("нечисловой id дает 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/abc", "sarah1", "abc123", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAuthentication(t *testing.T) {
	env := newTestEnv(t)

	t.Run("без учетных данных 401", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards", "", "", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("неверный пароль 401", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/99", "sarah1", "wrongPassword", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("неизвестный пользователь 401", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/99", "bad-user", "abc123", "")
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("пользователь без роли CARD-OWNER получает 403", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards/"+env.id("sarah-123.45"), "hank-owns-no-cards", "qrs456", "")
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestCreateCard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("создание возвращает 201 и Location", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cashcards", "sarah1", "abc123", `{"amount": 250.00}`)
		require.Equal(t, http.StatusCreated, w.Code)

		location := w.Header().Get("Location")
		require.NotEmpty(t, location)

		got := env.do(t, http.MethodGet, location, "sarah1", "abc123", "")
		require.Equal(t, http.StatusOK, got.Code)

		card := decodeCard(t, got.Body.Bytes())
		assert.NotZero(t, card.ID)
		assert.True(t, card.Amount.Equal(decimal.RequireFromString("250.00")))
	})

	t.Run("владельцем становится вызывающий, а не тело запроса", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cashcards", "sarah1", "abc123", `{"amount": 5.00, "owner": "kumar2"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		location := w.Header().Get("Location")
		foreign := env.do(t, http.MethodGet, location, "kumar2", "xyz789", "")
		assert.Equal(t, http.StatusNotFound, foreign.Code)

		own := env.do(t, http.MethodGet, location, "sarah1", "abc123", "")
		assert.Equal(t, http.StatusOK, own.Code)
	})

	t.Run("без суммы 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cashcards", "sarah1", "abc123", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("некорректная сумма 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/cashcards", "sarah1", "abc123", `{"amount": "not-a-number"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestListCards(t *testing.T) {
	env := newTestEnv(t)

	t.Run("без параметров: все карты по amount по возрастанию", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards", "sarah1", "abc123", "")
		require.Equal(t, http.StatusOK, w.Code)

		var cards []dto.CardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
		require.Len(t, cards, 3)

		assert.True(t, cards[0].Amount.Equal(decimal.RequireFromString("1.00")))
		assert.True(t, cards[1].Amount.Equal(decimal.RequireFromString("123.45")))
		assert.True(t, cards[2].Amount.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("page=0&size=1&sort=amount,desc", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards?page=0&size=1&sort=amount,desc", "sarah1", "abc123", "")
		require.Equal(t, http.StatusOK, w.Code)

		var cards []dto.CardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		assert.True(t, cards[0].Amount.Equal(decimal.RequireFromString("150.00")))
	})

	t.Run("обход страниц size=1 без потерь и дублей", func(t *testing.T) {
		seen := map[int64]bool{}
		for page := 0; page < 10; page++ {
			w := env.do(t, http.MethodGet, "/cashcards?size=1&page="+strconv.Itoa(page), "sarah1", "abc123", "")
			require.Equal(t, http.StatusOK, w.Code)

			var cards []dto.CardResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
			if len(cards) == 0 {
				break
			}
			require.Len(t, cards, 1)
			assert.False(t, seen[cards[0].ID])
			seen[cards[0].ID] = true
		}
		assert.Len(t, seen, 3)
	})

	t.Run("чужие карты не попадают в список", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards", "kumar2", "xyz789", "")
		require.Equal(t, http.StatusOK, w.Code)

		var cards []dto.CardResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &cards))
		require.Len(t, cards, 1)
		assert.Equal(t, env.cards["kumar-200.00"], cards[0].ID)
	})

	t.Run("неизвестное поле сортировки 400", func(t *testing.T) {
		w := env.do(t, http.MethodGet, "/cashcards?sort=owner,asc", "sarah1", "abc123", "")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("некорректные page и size 400", func(t *testing.T) {
		for _, q := range []string{"?page=-1", "?size=0", "?page=abc", "?size=abc"} {
			w := env.do(t, http.MethodGet, "/cashcards"+q, "sarah1", "abc123", "")
			assert.Equal(t, http.StatusBadRequest, w.Code, q)
		}
	})
}

func TestUpdateCard(t *testing.T) {
	env := newTestEnv(t)

	t.Run("владелец обновляет сумму, 204 без тела", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/cashcards/"+env.id("sarah-123.45"), "sarah1", "abc123", `{"amount": 19.99}`)
		require.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.String())

		got := env.do(t, http.MethodGet, "/cashcards/"+env.id("sarah-123.45"), "sarah1", "abc123", "")
		require.Equal(t, http.StatusOK, got.Code)
		card := decodeCard(t, got.Body.Bytes())
		assert.True(t, card.Amount.Equal(decimal.RequireFromString("19.99")))
	})

	t.Run("несуществующая карта 404", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/cashcards/99999", "sarah1", "abc123", `{"amount": 19.99}`)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("чужая карта: 404 и сумма не меняется", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/cashcards/"+env.id("kumar-200.00"), "sarah1", "abc123", `{"amount": 333.33}`)
		assert.Equal(t, http.StatusNotFound, w.Code)

		got := env.do(t, http.MethodGet, "/cashcards/"+env.id("kumar-200.00"), "kumar2", "xyz789", "")
		require.Equal(t, http.StatusOK, got.Code)
		card := decodeCard(t, got.Body.Bytes())
		assert.True(t, card.Amount.Equal(decimal.RequireFromString("200.00")))
	})

	t.Run("без суммы 400", func(t *testing.T) {
		w := env.do(t, http.MethodPut, "/cashcards/"+env.id("sarah-150.00"), "sarah1", "abc123", `{}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestBearerToken(t *testing.T) {
	env := newTestEnv(t)

	login := env.do(t, http.MethodPost, "/login", "", "", `{"login": "sarah1", "password": "abc123"}`)
	require.Equal(t, http.StatusOK, login.Code)

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(login.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)

	req := httptest.NewRequest(http.MethodGet, "/cashcards", nil)
	req.Header.Set("Authorization", "Bearer "+resp.Token)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/cashcards", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRegister(t *testing.T) {
	env := newTestEnv(t)

	t.Run("новый пользователь 201", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/register", "", "", `{"login": "dana3", "password": "pwd999"}`)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotZero(t, resp.ID)

		// зарегистрированный пользователь сразу может работать с картами
		list := env.do(t, http.MethodGet, "/cashcards", "dana3", "pwd999", "")
		assert.Equal(t, http.StatusOK, list.Code)
	})

	t.Run("повторная регистрация 409", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/register", "", "", `{"login": "sarah1", "password": "abc123"}`)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("без логина или пароля 400", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/register", "", "", `{"login": "nopass"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("неверные учетные данные при входе 401", func(t *testing.T) {
		w := env.do(t, http.MethodPost, "/login", "", "", `{"login": "sarah1", "password": "nope"}`)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
