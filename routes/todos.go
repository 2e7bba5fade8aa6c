package routes

import (
	"errors"
	"log"
	"net/http"
	"time"

	"todostack/todostack/database"
	"todostack/todostack/models"
	"todostack/todostack/services"
	"todostack/todostack/storage"
	"todostack/todostack/validation"

	"github.com/gin-gonic/gin"
)

const maxUploadSize = 10 << 20 // 10 MB

func RegisterTodoRoutes(group *gin.RouterGroup, db *database.Database, todoService services.TodoServiceInterface, uploads *storage.LocalStore) {
	group.GET("/todos", func(c *gin.Context) { GetTodos(c, db, todoService) })
	group.POST("/todos", func(c *gin.Context) { CreateTodo(c, db, todoService, uploads) })
	group.GET("/todos/:id", func(c *gin.Context) { GetTodoById(c, db, todoService) })
	group.PUT("/todos/:id", func(c *gin.Context) { UpdateTodo(c, db, todoService) })
	group.DELETE("/todos/:id", func(c *gin.Context) { DeleteTodo(c, db, todoService) })
}

// CreateTodo accepts either a JSON body or a multipart form with an
// optional "image" file alongside the todo fields.
func CreateTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface, uploads *storage.LocalStore) {
	payload := make(map[string]interface{})
	imagePath := ""

	if c.ContentType() == "multipart/form-data" {
		if err := c.Request.ParseMultipartForm(maxUploadSize); err != nil {
			c.JSON(http.StatusBadRequest, errorBody("Invalid form data"))
			return
		}
		for key, values := range c.Request.MultipartForm.Value {
			if len(values) > 0 {
				payload[key] = values[0]
			}
		}
		if file, err := c.FormFile("image"); err == nil {
			path, err := uploads.Save(file)
			if err != nil {
				respondError(c, err)
				return
			}
			imagePath = path
		}
	} else {
		if err := c.ShouldBindJSON(&payload); err != nil {
			c.JSON(http.StatusBadRequest, errorBody(err.Error()))
			return
		}
	}

	createdTodo, err := todoService.CreateTodo(db, payload, imagePath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, createdTodo)
}

func GetTodoById(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	id := c.Param("id")
	todo, err := todoService.GetTodoById(db, id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

func GetTodos(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	filter := models.BuildListFilter(c.Query("status"), c.Query("priority"))

	todos, err := todoService.GetTodos(db, filter)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

func UpdateTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	id := c.Param("id")
	payload := make(map[string]interface{})
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, errorBody(err.Error()))
		return
	}

	updatedTodo, err := todoService.UpdateTodo(db, id, payload)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, updatedTodo)
}

func DeleteTodo(c *gin.Context, db *database.Database, todoService services.TodoServiceInterface) {
	id := c.Param("id")
	if err := todoService.DeleteTodo(db, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"message":   "Todo deleted successfully",
	})
}

// respondError maps error kinds to response codes: validation failures
// are 400 with the validator's timestamp, a missing record is 404, and
// anything else is a generic 500 with the detail only logged.
func respondError(c *gin.Context, err error) {
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{
			"timestamp": vErr.Timestamp.UTC().Format(time.RFC3339),
			"error":     vErr.Message,
		})
		return
	}
	if errors.Is(err, services.ErrTodoNotFound) {
		c.JSON(http.StatusNotFound, errorBody("Todo not found"))
		return
	}
	log.Printf("todo request failed: %v", err)
	c.JSON(http.StatusInternalServerError, errorBody("Server error"))
}

func errorBody(message string) gin.H {
	return gin.H{
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"error":     message,
	}
}
