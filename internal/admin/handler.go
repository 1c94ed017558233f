package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vaultodo/vaultodo-core/internal/auth"
	"github.com/vaultodo/vaultodo-core/internal/database"
	"github.com/vaultodo/vaultodo-core/internal/tasks"
	"github.com/vaultodo/vaultodo-core/internal/users"
)

type updateRoleDTO struct {
	NewRole string `json:"newRole" binding:"required"`
}

// taskWithOwner is a task row joined with its owner's email for the
// all-tasks admin view.
type taskWithOwner struct {
	tasks.Task `gorm:"embedded"`
	UserEmail  string `gorm:"column:user_email" json:"userEmail"`
}

func ListUsersHandler(c *gin.Context) {
	var userList []users.User
	if err := database.DB.Find(&userList).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching users"})
		return
	}

	out := make([]users.UserResponse, 0, len(userList))
	for i := range userList {
		out = append(out, users.ToResponse(&userList[i]))
	}
	c.JSON(http.StatusOK, out)
}

func UpdateUserRoleHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	var dto updateRoleDTO
	if err := c.ShouldBindJSON(&dto); err != nil || !users.ValidRole(dto.NewRole) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role specified"})
		return
	}

	if auth.CallerID(c) == uint(id) && dto.NewRole == users.RoleUser {
		c.JSON(http.StatusForbidden, gin.H{"error": "admins cannot demote themselves"})
		return
	}

	var u users.User
	if err := database.DB.First(&u, uint(id)).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating user role"})
		return
	}

	if err := database.DB.Model(&u).Update("role", dto.NewRole).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error updating user role"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "user role updated to " + dto.NewRole,
		"user": gin.H{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

// DeleteUserHandler removes a user and then that user's tasks. The two
// deletes are sequential, not transactional: a failure between them
// leaves orphaned tasks.
func DeleteUserHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if auth.CallerID(c) == uint(id) {
		c.JSON(http.StatusForbidden, gin.H{"error": "admins cannot delete their own account"})
		return
	}

	res := database.DB.Delete(&users.User{}, uint(id))
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting user"})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	if err := database.DB.Where("user_id = ?", uint(id)).Delete(&tasks.Task{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error deleting user tasks"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "user and associated tasks deleted successfully"})
}

// ListAllTasksHandler returns every task across all users, each
// annotated with the owner's email.
func ListAllTasksHandler(c *gin.Context) {
	sort := c.DefaultQuery("sort", "created_at")
	order := c.DefaultQuery("order", "desc")

	allowedSorts := map[string]bool{"id": true, "created_at": true, "priority": true, "status": true, "due_date": true}
	if !allowedSorts[sort] {
		sort = "created_at"
	}
	if order != "asc" && order != "desc" {
		order = "desc"
	}

	rows := []taskWithOwner{}
	err := database.DB.Model(&tasks.Task{}).
		Select("tasks.*, users.email AS user_email").
		Joins("LEFT JOIN users ON users.id = tasks.user_id").
		Order("tasks." + sort + " " + order).
		Scan(&rows).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error fetching all tasks"})
		return
	}

	for i := range rows {
		if rows[i].UserEmail == "" {
			rows[i].UserEmail = "Unknown User"
		}
	}
	c.JSON(http.StatusOK, rows)
}

func DeleteAnyTaskHandler(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}

	res := database.DB.Delete(&tasks.Task{}, uint(id))
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
