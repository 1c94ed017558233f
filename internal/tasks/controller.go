package tasks

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vaultodo/vaultodo-core/internal/auth"
	"github.com/vaultodo/vaultodo-core/internal/database"
)

type createTaskDTO struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

type updateTaskDTO struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Priority    *string    `json:"priority"`
	Status      *string    `json:"status"`
	DueDate     *time.Time `json:"due_date"`
}

// ListTasksHandler returns the caller's tasks, newest first.
func ListTasksHandler(c *gin.Context) {
	uid := auth.CallerID(c)

	taskList := []Task{}
	if err := database.DB.Where("user_id = ?", uid).Order("created_at DESC").Find(&taskList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching tasks"})
		return
	}
	c.JSON(http.StatusOK, taskList)
}

func CreateTaskHandler(c *gin.Context) {
	var dto createTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}

	if dto.Priority == "" {
		dto.Priority = PriorityMedium
	}
	if dto.Status == "" {
		dto.Status = StatusToDo
	}
	if !ValidPriority(dto.Priority) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
		return
	}
	if !ValidStatus(dto.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
		return
	}

	task := Task{
		Title:       dto.Title,
		Description: dto.Description,
		Priority:    dto.Priority,
		Status:      dto.Status,
		DueDate:     dto.DueDate,
		UserID:      auth.CallerID(c),
	}

	if err := database.DB.Create(&task).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error creating task"})
		return
	}

	c.JSON(http.StatusCreated, task)
}

// UpdateTaskHandler applies a partial update to a task owned by the
// caller. A task owned by someone else reads as not found.
func UpdateTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	var dto updateTaskDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "error updating task"})
		return
	}

	var task Task
	if err := database.DB.Where("id = ? AND user_id = ?", uint(id), auth.CallerID(c)).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating task"})
		return
	}

	if dto.Title != nil {
		if *dto.Title == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "title cannot be empty"})
			return
		}
		task.Title = *dto.Title
	}
	if dto.Description != nil {
		task.Description = *dto.Description
	}
	if dto.Priority != nil {
		if !ValidPriority(*dto.Priority) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid priority"})
			return
		}
		task.Priority = *dto.Priority
	}
	if dto.Status != nil {
		if !ValidStatus(*dto.Status) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		task.Status = *dto.Status
	}
	if dto.DueDate != nil {
		task.DueDate = dto.DueDate
	}

	if err := database.DB.Save(&task).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating task"})
		return
	}

	c.JSON(http.StatusOK, task)
}

func DeleteTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	res := database.DB.Where("id = ? AND user_id = ?", uint(id), auth.CallerID(c)).Delete(&Task{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting task"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "task deleted successfully"})
}
