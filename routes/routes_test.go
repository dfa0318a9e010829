package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quizmaster/generator"
	"quizmaster/handlers"
	"quizmaster/logger"
	"quizmaster/models"
	"quizmaster/repository"
	"quizmaster/services"
)

const testJWTSecret = "routes-test-secret"

type stubGenerator struct {
	payload string
	err     error
}

func (s *stubGenerator) Generate(ctx context.Context, topic string, difficulty int, numberOfQuestions int) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return s.payload, nil
}

func capitalsPayload(n int) string {
	payload := `{"questions":[`
	for i := 0; i < n; i++ {
		if i > 0 {
			payload += ","
		}
		payload += fmt.Sprintf(`{"text":"Capital question %d?","answers":[
			{"text":"Right","isCorrect":true},
			{"text":"Wrong A","isCorrect":false},
			{"text":"Wrong B","isCorrect":false},
			{"text":"Wrong C","isCorrect":false}]}`, i+1)
	}
	return payload + `]}`
}

type testAPI struct {
	router *gin.Engine
	db     *gorm.DB
}

func newTestAPI(t *testing.T, gen generator.Client) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Quiz{},
		&models.Question{},
		&models.Answer{},
	))

	repo := repository.NewQuizRepository(db)
	log := logger.Nop()

	authService := services.NewAuthService(db, testJWTSecret)
	quizService := services.NewQuizService(repo, gen, nil, log)
	questionService := services.NewQuestionService(repo, nil, log)

	router := gin.New()
	SetupRoutes(router,
		handlers.NewAuthHandler(authService),
		handlers.NewQuizHandler(quizService),
		handlers.NewQuestionHandler(questionService),
		testJWTSecret,
	)

	return &testAPI{router: router, db: db}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) registerUser(t *testing.T, email string) string {
	t.Helper()

	rec := a.do(t, http.MethodPost, "/auth/register", "", map[string]string{
		"email":    email,
		"name":     "Test User",
		"password": "longenough",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func createQuizBody() map[string]any {
	return map[string]any{
		"title":             "Capitals",
		"topic":             "World Capitals",
		"difficulty":        1,
		"numberOfQuestions": 5,
	}
}

func TestCreateAndFetchQuiz(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(5)})
	token := api.registerUser(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/quizzes", token, createQuizBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.NotZero(t, created.ID)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var details struct {
		Title             string `json:"title"`
		Topic             string `json:"topic"`
		NumberOfQuestions int    `json:"numberOfQuestions"`
		Questions         []struct {
			ID      uint   `json:"id"`
			Text    string `json:"text"`
			Answers []struct {
				Text      string `json:"text"`
				IsCorrect bool   `json:"isCorrect"`
			} `json:"answers"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))

	assert.Equal(t, "Capitals", details.Title)
	assert.Equal(t, "World Capitals", details.Topic)
	assert.Equal(t, 5, details.NumberOfQuestions)
	require.Len(t, details.Questions, 5)
	for _, q := range details.Questions {
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		assert.Equal(t, 1, correct)
	}
}

func TestCreateQuiz_GeneratorDown(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{err: fmt.Errorf("%w: http 502", generator.ErrGeneration)})
	token := api.registerUser(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/quizzes", token, createQuizBody())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Error.ThirdPartyRequest", errResp.Code)
	assert.NotContains(t, errResp.Message, "502")

	// Nothing was persisted.
	var count int64
	require.NoError(t, api.db.Model(&models.Quiz{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestCreateQuiz_ValidationError(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(1)})
	token := api.registerUser(t, "alice@example.com")

	body := createQuizBody()
	body["difficulty"] = 9

	rec := api.do(t, http.MethodPost, "/quizzes", token, body)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var errResp struct {
		Code string `json:"code"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &errResp))
	assert.Equal(t, "Error.Validation", errResp.Code)
}

func TestQuizList_Pagination(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(1)})
	token := api.registerUser(t, "alice@example.com")

	for i := 0; i < 25; i++ {
		rec := api.do(t, http.MethodPost, "/quizzes", token, createQuizBody())
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := api.do(t, http.MethodGet, "/quizzes?pageNumber=1&pageSize=10", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var page struct {
		Items           []json.RawMessage `json:"items"`
		PageNumber      int               `json:"pageNumber"`
		TotalPages      int               `json:"totalPages"`
		TotalCount      int64             `json:"totalCount"`
		HasPreviousPage bool              `json:"hasPreviousPage"`
		HasNextPage     bool              `json:"hasNextPage"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Len(t, page.Items, 10)
	assert.Equal(t, 3, page.TotalPages)
	assert.Equal(t, int64(25), page.TotalCount)
	assert.False(t, page.HasPreviousPage)
	assert.True(t, page.HasNextPage)

	rec = api.do(t, http.MethodGet, "/quizzes?pageNumber=0&pageSize=10", token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestOwnershipIsolationOverHTTP(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(2)})
	aliceToken := api.registerUser(t, "alice@example.com")
	bobToken := api.registerUser(t, "bob@example.com")

	rec := api.do(t, http.MethodPost, "/quizzes", aliceToken, createQuizBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), bobToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = api.do(t, http.MethodPatch, fmt.Sprintf("/quizzes/%d/title", created.ID), bobToken, map[string]string{"title": "Stolen"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/quizzes/%d", created.ID), bobToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// Alice still owns an intact quiz.
	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), aliceToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUpdateTitleAndDeleteQuiz(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(1)})
	token := api.registerUser(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/quizzes", token, createQuizBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodPatch, fmt.Sprintf("/quizzes/%d/title", created.ID), token, map[string]string{"title": "Renamed"})
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Renamed")

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again is NotFound, surfaced as 400 on this endpoint.
	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestQuestionEndpoints(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(2)})
	token := api.registerUser(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/quizzes", token, createQuizBody())
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = api.do(t, http.MethodGet, fmt.Sprintf("/quizzes/%d", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var details struct {
		Questions []struct {
			ID uint `json:"id"`
		} `json:"questions"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &details))
	require.Len(t, details.Questions, 2)
	questionID := details.Questions[0].ID

	update := map[string]any{
		"id":   questionID,
		"text": "Updated question?",
		"answers": []map[string]any{
			{"text": "Yes", "isCorrect": true},
			{"text": "No", "isCorrect": false},
		},
	}
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/questions/%d", questionID), token, update)
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Zero or two correct answers are rejected.
	update["answers"] = []map[string]any{
		{"text": "Yes", "isCorrect": true},
		{"text": "No", "isCorrect": true},
	}
	rec = api.do(t, http.MethodPut, fmt.Sprintf("/questions/%d", questionID), token, update)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", questionID), token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = api.do(t, http.MethodDelete, fmt.Sprintf("/questions/%d", questionID), token, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(1)})

	rec := api.do(t, http.MethodGet, "/quizzes", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodGet, "/quizzes", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = api.do(t, http.MethodPost, "/quizzes", "", createQuizBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Health stays public.
	rec = api.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLoginRoundTrip(t *testing.T) {
	api := newTestAPI(t, &stubGenerator{payload: capitalsPayload(1)})
	api.registerUser(t, "alice@example.com")

	rec := api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "longenough",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	rec = api.do(t, http.MethodGet, "/auth/profile", resp.Token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alice@example.com")

	rec = api.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"email":    "alice@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
