package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"appeals-system/migrations"
	"appeals-system/pkg/config"
	"appeals-system/pkg/constants"
	"appeals-system/pkg/service"
	"appeals-system/pkg/utils"
	"appeals-system/seeders"
)

// AppealFlowSuite гоняет HTTP-сценарии на живых Postgres (PostGIS) и Redis.
// Нужны TEST_DATABASE_URL и TEST_REDIS_ADDRESS, иначе тесты пропускаются.
type AppealFlowSuite struct {
	suite.Suite
	Echo    *echo.Echo
	DB      *pgxpool.Pool
	Redis   *redis.Client
	themeID uint64
	groupID uint64
}

func TestAppealFlowSuite(t *testing.T) {
	if os.Getenv("TEST_DATABASE_URL") == "" || os.Getenv("TEST_REDIS_ADDRESS") == "" {
		t.Skip("TEST_DATABASE_URL / TEST_REDIS_ADDRESS не заданы")
	}
	suite.Run(t, new(AppealFlowSuite))
}

func (s *AppealFlowSuite) SetupSuite() {
	ctx := context.Background()

	pool, err := pgxpool.New(ctx, os.Getenv("TEST_DATABASE_URL"))
	s.Require().NoError(err)
	s.Require().NoError(migrations.Up(ctx, pool))
	_, err = pool.Exec(ctx, `TRUNCATE appeal_histories, appeal_users, user_appeal_attachments, user_appeals,
		employees, appeal_themes, departments, users, social_groups, appeal_statuses RESTART IDENTITY CASCADE`)
	s.Require().NoError(err)
	seeders.SeedDictionaries(pool)

	s.Require().NoError(pool.QueryRow(ctx, `SELECT id FROM appeal_themes ORDER BY id LIMIT 1`).Scan(&s.themeID))
	s.Require().NoError(pool.QueryRow(ctx, `SELECT id FROM social_groups ORDER BY id LIMIT 1`).Scan(&s.groupID))

	redisClient := redis.NewClient(&redis.Options{Addr: os.Getenv("TEST_REDIS_ADDRESS"), DB: 1})
	s.Require().NoError(redisClient.FlushDB(ctx).Err())

	cfg := config.New()
	cfg.Storage.MediaRoot = s.T().TempDir()
	cfg.Cache.AppealsTTL = time.Minute
	cfg.Auth.RateLimitBurst = 100

	e := echo.New()
	e.Validator = utils.NewValidator()
	jwtSvc := service.NewJWTService("test-secret", time.Hour)
	InitRouter(e, pool, redisClient, jwtSvc, NewLoggers(zap.NewNop()), cfg)

	s.Echo = e
	s.DB = pool
	s.Redis = redisClient
}

func (s *AppealFlowSuite) TearDownSuite() {
	s.Redis.Close()
	s.DB.Close()
}

func (s *AppealFlowSuite) do(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, req)
	return rec
}

func (s *AppealFlowSuite) jsonRequest(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	raw, err := json.Marshal(body)
	s.Require().NoError(err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	return s.do(req, token)
}

func (s *AppealFlowSuite) register(email string) (uint64, string) {
	rec := s.jsonRequest(http.MethodPost, "/users/register", map[string]interface{}{
		"first_name":            "Тест",
		"last_name":             "Тестов",
		"patronymic":            "Тестович",
		"email":                 email,
		"phone":                 "+992 93 123 45 67",
		"password":              "password123",
		"password_confirmation": "password123",
		"social_group_id":       s.groupID,
	}, "")
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			User struct {
				ID uint64 `json:"id"`
			} `json:"user"`
			AccessToken string `json:"access_token"`
			TokenType   string `json:"token_type"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Equal("Bearer", resp.Data.TokenType)
	return resp.Data.User.ID, resp.Data.AccessToken
}

func (s *AppealFlowSuite) createAppeal(token string) uint64 {
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	s.Require().NoError(w.WriteField("appeal_theme_id", fmt.Sprint(s.themeID)))
	s.Require().NoError(w.WriteField("problem_body", "Не работает фонарь"))
	s.Require().NoError(w.WriteField("address", "ул. Рудаки, 10"))
	s.Require().NoError(w.WriteField("locate", "38.5598,68.7870"))
	part, err := w.CreateFormFile("files", "photo.jpg")
	s.Require().NoError(err)
	_, err = part.Write([]byte("jpeg"))
	s.Require().NoError(err)
	s.Require().NoError(w.Close())

	req := httptest.NewRequest(http.MethodPost, "/appeals/", body)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	rec := s.do(req, token)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			ID          uint64 `json:"id"`
			Attachments []struct {
				Link string `json:"link"`
			} `json:"attachments"`
			Locate struct {
				Lat float64 `json:"lat"`
				Lng float64 `json:"lng"`
			} `json:"locate"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))
	s.Require().Len(resp.Data.Attachments, 1)
	s.InDelta(38.5598, resp.Data.Locate.Lat, 1e-9)
	return resp.Data.ID
}

func (s *AppealFlowSuite) TestRegisterAndLogin() {
	email := fmt.Sprintf("user_%d@example.com", time.Now().UnixNano())
	s.register(email)

	rec := s.jsonRequest(http.MethodPost, "/users/register", map[string]interface{}{
		"first_name": "Тест", "last_name": "Тестов", "patronymic": "Тестович",
		"email": strings.ToUpper(email), "phone": "+992931234567",
		"password": "password123", "password_confirmation": "password123", "social_group_id": s.groupID,
	}, "")
	s.Equal(http.StatusBadRequest, rec.Code, "email регистронезависим")

	rec = s.jsonRequest(http.MethodPost, "/users/login", map[string]string{"email": email, "password": "wrong-password"}, "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	rec = s.jsonRequest(http.MethodPost, "/users/login", map[string]string{"email": email, "password": "password123"}, "")
	s.Equal(http.StatusOK, rec.Code)

	var resp struct {
		Data struct {
			AccessToken string `json:"access_token"`
		} `json:"data"`
	}
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = s.do(httptest.NewRequest(http.MethodGet, "/users/me", nil), resp.Data.AccessToken)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), email)
}

func (s *AppealFlowSuite) TestAppealLifecycle() {
	ctx := context.Background()
	citizenID, citizenToken := s.register(fmt.Sprintf("citizen_%d@example.com", time.Now().UnixNano()))

	rec := s.do(httptest.NewRequest(http.MethodPost, "/appeals/", nil), "")
	s.Equal(http.StatusUnauthorized, rec.Code)

	appealID := s.createAppeal(citizenToken)

	var links int
	s.Require().NoError(s.DB.QueryRow(ctx,
		`SELECT count(*) FROM appeal_users WHERE appeal_id = $1 AND creator_id = $2 AND employee_id IS NULL`,
		appealID, citizenID).Scan(&links))
	s.Equal(1, links)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/appeals/?page=1&per_page=5", nil), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), fmt.Sprintf(`"id":%d`, appealID))
	s.Contains(rec.Body.String(), `"meta"`)

	rec = s.do(httptest.NewRequest(http.MethodGet, fmt.Sprintf("/appeals/%d/history", appealID), nil), "")
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), `"type":"MODERATION"`)

	toWork := fmt.Sprintf("/appeals/%d/to-work", appealID)
	rec = s.jsonRequest(http.MethodPost, toWork, map[string]interface{}{"appeal_theme_id": s.themeID}, citizenToken)
	s.Equal(http.StatusForbidden, rec.Code)

	_, err := s.DB.Exec(ctx, `UPDATE users SET roles = $1 WHERE id = $2`, []string{constants.ModeratorRole}, citizenID)
	s.Require().NoError(err)

	rec = s.jsonRequest(http.MethodPost, toWork, map[string]interface{}{"appeal_theme_id": s.themeID, "note": "в работу"}, citizenToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())
	s.Contains(rec.Body.String(), `"note":"в работу"`)

	rec = s.do(httptest.NewRequest(http.MethodGet, "/appeals/report?format=json", nil), citizenToken)
	s.Equal(http.StatusOK, rec.Code)
	s.Contains(rec.Body.String(), "Не работает фонарь")
}

func (s *AppealFlowSuite) TestAdminGrantConnectsAppeals() {
	ctx := context.Background()
	_, citizenToken := s.register(fmt.Sprintf("author_%d@example.com", time.Now().UnixNano()))
	appealID := s.createAppeal(citizenToken)

	adminID, adminToken := s.register(fmt.Sprintf("admin_%d@example.com", time.Now().UnixNano()))
	_, err := s.DB.Exec(ctx, `UPDATE users SET roles = $1 WHERE id = $2`, []string{constants.AdminRole}, adminID)
	s.Require().NoError(err)

	employeeID, _ := s.register(fmt.Sprintf("employee_%d@example.com", time.Now().UnixNano()))

	payload := map[string]interface{}{"user_id": employeeID, "roles": []string{constants.ModeratorRole}, "first_name": "Модератор"}
	rec := s.jsonRequest(http.MethodPost, "/users/set/employee-user", payload, adminToken)
	s.Require().Equal(http.StatusOK, rec.Code, rec.Body.String())

	var links int
	s.Require().NoError(s.DB.QueryRow(ctx,
		`SELECT count(*) FROM appeal_users WHERE appeal_id = $1 AND employee_id = $2`, appealID, employeeID).Scan(&links))
	s.Equal(1, links)

	rec = s.jsonRequest(http.MethodPost, "/users/set/employee-user", payload, adminToken)
	s.Require().Equal(http.StatusOK, rec.Code)
	s.Require().NoError(s.DB.QueryRow(ctx,
		`SELECT count(*) FROM appeal_users WHERE appeal_id = $1 AND employee_id = $2`, appealID, employeeID).Scan(&links))
	s.Equal(1, links, "повторная выдача роли не дублирует связи")
}
