package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todostack/todostack/database"
	"todostack/todostack/models"
	"todostack/todostack/services"
	"todostack/todostack/storage"
	"todostack/todostack/validation"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// MockTodoService runs the real validator against a fixed in-memory
// record set, so handler tests cover the full error mapping.
type MockTodoService struct {
	lastImagePath string
}

var mockExisting = models.Todo{
	ID:          1,
	Title:       "Buy milk",
	Description: "Get milk from the store",
	Status:      models.StatusCompleted,
	Priority:    models.PriorityLow,
	DueDate:     time.Date(2999, 1, 1, 0, 0, 0, 0, time.Local),
}

func (m *MockTodoService) CreateTodo(db *database.Database, payload map[string]interface{}, imagePath string) (models.Todo, error) {
	normalized, vErr := validation.ValidateTodoPayload(payload, time.Now(), validation.Create, nil, validation.ExtendedPolicy, validation.SecondsGrammar)
	if vErr != nil {
		return models.Todo{}, vErr
	}
	m.lastImagePath = imagePath
	return models.Todo{
		ID:          2,
		Title:       normalized.Title,
		Description: normalized.Description,
		Status:      normalized.Status,
		Priority:    normalized.Priority,
		DueDate:     normalized.DueDate,
		Image:       imagePath,
	}, nil
}

func (m *MockTodoService) GetTodoById(db *database.Database, id string) (models.Todo, error) {
	if id == "1" {
		return mockExisting, nil
	}
	return models.Todo{}, services.ErrTodoNotFound
}

func (m *MockTodoService) GetTodos(db *database.Database, filter models.ListFilter) ([]models.Todo, error) {
	todos := []models.Todo{
		mockExisting,
		{ID: 3, Title: "Pay rent", Status: models.StatusPending, Priority: models.PriorityHigh},
	}

	var filtered []models.Todo
	for _, todo := range todos {
		if filter.Matches(todo) {
			filtered = append(filtered, todo)
		}
	}
	return filtered, nil
}

func (m *MockTodoService) UpdateTodo(db *database.Database, id string, payload map[string]interface{}) (models.Todo, error) {
	if id != "1" {
		return models.Todo{}, services.ErrTodoNotFound
	}
	existing := mockExisting
	normalized, vErr := validation.ValidateTodoPayload(payload, time.Now(), validation.Update, &existing, validation.ExtendedPolicy, validation.SecondsGrammar)
	if vErr != nil {
		return models.Todo{}, vErr
	}
	existing.Title = normalized.Title
	existing.Description = normalized.Description
	existing.Status = normalized.Status
	existing.Priority = normalized.Priority
	existing.DueDate = normalized.DueDate
	return existing, nil
}

func (m *MockTodoService) DeleteTodo(db *database.Database, id string) error {
	if id == "1" {
		return nil
	}
	return services.ErrTodoNotFound
}

func setupTestRouter(t *testing.T) (*gin.Engine, *MockTodoService) {
	t.Helper()
	router := gin.Default()
	db := &database.Database{}
	mockService := &MockTodoService{}

	uploads, err := storage.NewLocalStore(t.TempDir())
	assert.NoError(t, err)

	apiGroup := router.Group("/api/v1")
	RegisterTodoRoutes(apiGroup, db, mockService, uploads)
	return router, mockService
}

func TestCreateTodo(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("Valid JSON", func(t *testing.T) {
		body := `{"title":"Buy milk","description":"Get milk from the store","status":"Pending","priority":"Low","dueDate":"2999-01-01T00:00:00"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/todos", bytes.NewBufferString(body))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"pending"`)
		assert.Contains(t, w.Body.String(), `"priority":"low"`)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		body := `{"title":"Hi","description":"Get milk from the store","status":"Pending","priority":"Low","dueDate":"2999-01-01T00:00:00"}`
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/todos", bytes.NewBufferString(body))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)

		var response map[string]string
		assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "Title should be at least 4 characters long", response["error"])
		assert.NotEmpty(t, response["timestamp"])
	})

	t.Run("Malformed JSON", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/v1/todos", bytes.NewBufferString("{not json"))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestCreateTodo_MultipartWithImage(t *testing.T) {
	router, mockService := setupTestRouter(t)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	assert.NoError(t, writer.WriteField("title", "Buy milk"))
	assert.NoError(t, writer.WriteField("description", "Get milk from the store"))
	assert.NoError(t, writer.WriteField("status", "Pending"))
	assert.NoError(t, writer.WriteField("priority", "Low"))
	assert.NoError(t, writer.WriteField("dueDate", "2999-01-01T00:00:00"))
	part, err := writer.CreateFormFile("image", "receipt.png")
	assert.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	assert.NoError(t, err)
	assert.NoError(t, writer.Close())

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/v1/todos", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.NotEmpty(t, mockService.lastImagePath)
	assert.Contains(t, mockService.lastImagePath, ".png")
	assert.Contains(t, w.Body.String(), `"image"`)
}

func TestGetTodoById(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("Todo Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buy milk")
	})

	t.Run("Todo Not Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos/42", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Contains(t, w.Body.String(), "Todo not found")
	})
}

func TestGetTodos(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("No Filters", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buy milk")
		assert.Contains(t, w.Body.String(), "Pay rent")
	})

	t.Run("Priority Filter Ignores Casing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos?priority=HIGH", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Pay rent")
		assert.NotContains(t, w.Body.String(), "Buy milk")
	})

	t.Run("Status And Priority", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos?status=pending&priority=high", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Pay rent")
	})

	t.Run("Unknown Filter Value Matches Nothing", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("GET", "/api/v1/todos?status=archived", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotContains(t, w.Body.String(), "Buy milk")
	})
}

func TestUpdateTodo(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("Partial Update Carries Status Forward", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/todos/1", bytes.NewBufferString(`{"title":"Buy oat milk"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Buy oat milk")
		assert.Contains(t, w.Body.String(), `"status":"completed"`)
	})

	t.Run("Todo Not Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/todos/42", bytes.NewBufferString(`{"title":"Buy oat milk"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Validation Failure", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("PUT", "/api/v1/todos/1", bytes.NewBufferString(`{"status":"done"}`))
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Status must be one of")
	})
}

func TestDeleteTodo(t *testing.T) {
	router, _ := setupTestRouter(t)

	t.Run("Todo Deleted", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/todos/1", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "Todo deleted successfully")
	})

	t.Run("Todo Not Found", func(t *testing.T) {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("DELETE", "/api/v1/todos/42", nil)
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
