package services

import (
	"errors"
	"strconv"
	"time"

	"todostack/todostack/broker"
	"todostack/todostack/config"
	"todostack/todostack/database"
	"todostack/todostack/models"
	"todostack/todostack/validation"

	"gorm.io/gorm"
)

type TodoServiceInterface interface {
	CreateTodo(db *database.Database, payload map[string]interface{}, imagePath string) (models.Todo, error)
	GetTodoById(db *database.Database, id string) (models.Todo, error)
	GetTodos(db *database.Database, filter models.ListFilter) ([]models.Todo, error)
	UpdateTodo(db *database.Database, id string, payload map[string]interface{}) (models.Todo, error)
	DeleteTodo(db *database.Database, id string) error
}

// TodoService validates inbound payloads against the configured character
// policy and due-date grammar before touching storage. The clock is a
// field so tests can pin "now".
type TodoService struct {
	policy  validation.CharPolicy
	grammar validation.DueDateGrammar
	now     func() time.Time
}

func NewTodoService(cfg config.Config) *TodoService {
	return &TodoService{
		policy:  validation.ParseCharPolicy(cfg.ValidationCharPolicy),
		grammar: validation.ParseDueDateGrammar(cfg.DueDatePrecision),
		now:     time.Now,
	}
}

func (s *TodoService) CreateTodo(db *database.Database, payload map[string]interface{}, imagePath string) (models.Todo, error) {
	normalized, vErr := validation.ValidateTodoPayload(payload, s.now(), validation.Create, nil, s.policy, s.grammar)
	if vErr != nil {
		return models.Todo{}, vErr
	}

	todo := models.Todo{
		Title:       normalized.Title,
		Description: normalized.Description,
		Status:      normalized.Status,
		Priority:    normalized.Priority,
		DueDate:     normalized.DueDate,
		Image:       imagePath,
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Todo{}, tx.Error
	}

	if err := tx.Create(&todo).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	event, err := models.NewEvent(string(broker.TodoCreated), "todo", todo)
	if err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	broker.PublishEvent(broker.TodoEventsTopic, event)

	return todo, nil
}

func (s *TodoService) GetTodoById(db *database.Database, id string) (models.Todo, error) {
	todoID, err := parseTodoID(id)
	if err != nil {
		return models.Todo{}, ErrTodoNotFound
	}

	var todo models.Todo
	if err := db.DB.First(&todo, "id = ?", todoID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Todo{}, ErrTodoNotFound
		}
		return models.Todo{}, err
	}
	return todo, nil
}

func (s *TodoService) GetTodos(db *database.Database, filter models.ListFilter) ([]models.Todo, error) {
	var todos []models.Todo
	result := filter.Scope(db.DB).Find(&todos)
	if result.Error != nil {
		return nil, result.Error
	}
	return todos, nil
}

// UpdateTodo applies a partial update: fields present in the payload are
// validated and applied, absent fields carry forward from the stored
// record.
func (s *TodoService) UpdateTodo(db *database.Database, id string, payload map[string]interface{}) (models.Todo, error) {
	todoID, err := parseTodoID(id)
	if err != nil {
		return models.Todo{}, ErrTodoNotFound
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return models.Todo{}, tx.Error
	}

	var todo models.Todo
	if err := tx.First(&todo, "id = ?", todoID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Todo{}, ErrTodoNotFound
		}
		return models.Todo{}, err
	}

	normalized, vErr := validation.ValidateTodoPayload(payload, s.now(), validation.Update, &todo, s.policy, s.grammar)
	if vErr != nil {
		tx.Rollback()
		return models.Todo{}, vErr
	}

	todo.Title = normalized.Title
	todo.Description = normalized.Description
	todo.Status = normalized.Status
	todo.Priority = normalized.Priority
	todo.DueDate = normalized.DueDate

	if err := tx.Save(&todo).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	event, err := models.NewEvent(string(broker.TodoUpdated), "todo", todo)
	if err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return models.Todo{}, err
	}

	broker.PublishEvent(broker.TodoEventsTopic, event)

	return todo, nil
}

func (s *TodoService) DeleteTodo(db *database.Database, id string) error {
	todoID, err := parseTodoID(id)
	if err != nil {
		return ErrTodoNotFound
	}

	tx := db.DB.Begin()
	if tx.Error != nil {
		return tx.Error
	}

	var todo models.Todo
	if err := tx.First(&todo, "id = ?", todoID).Error; err != nil {
		tx.Rollback()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrTodoNotFound
		}
		return err
	}

	if err := tx.Delete(&todo).Error; err != nil {
		tx.Rollback()
		return err
	}

	event, err := models.NewEvent(string(broker.TodoDeleted), "todo", map[string]interface{}{"id": todo.ID})
	if err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Create(event).Error; err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		return err
	}

	broker.PublishEvent(broker.TodoEventsTopic, event)

	return nil
}

func parseTodoID(id string) (uint, error) {
	parsed, err := strconv.ParseUint(id, 10, 64)
	if err != nil {
		return 0, err
	}
	return uint(parsed), nil
}

var TodoServiceInstance TodoServiceInterface
