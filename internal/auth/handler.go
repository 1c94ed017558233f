package auth

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vaultodo/vaultodo-core/internal/database"
	"github.com/vaultodo/vaultodo-core/internal/users"
)

type credentialsDTO struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type forgotPasswordDTO struct {
	Email string `json:"email" binding:"required,email"`
}

const resetAckMessage = "If an account with that email exists, a password reset link has been sent."

func SignupHandler(c *gin.Context) {
	var dto credentialsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	hashed, err := users.HashPassword(dto.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}

	user := users.User{
		Email:        dto.Email,
		PasswordHash: hashed,
		Role:         users.RoleUser,
	}

	if err := database.DB.Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "signup failed"})
		return
	}

	// no token on signup: registration and login are separate steps
	c.JSON(http.StatusCreated, gin.H{"message": "account created successfully, please sign in"})
}

func SigninHandler(c *gin.Context) {
	var dto credentialsDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password required"})
		return
	}

	// unknown email and wrong password produce the same error
	var u users.User
	if err := database.DB.First(&u, "email = ?", dto.Email).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login credentials"})
		return
	}
	if !users.CheckPassword(u.PasswordHash, dto.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid login credentials"})
		return
	}

	tok, err := GenerateToken(&u)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tok,
		"user": gin.H{
			"id":    u.ID,
			"email": u.Email,
			"role":  u.Role,
		},
	})
}

func ForgotPasswordHandler(c *gin.Context) {
	var dto forgotPasswordDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	var u users.User
	if err := database.DB.First(&u, "email = ?", dto.Email).Error; err != nil {
		// same acknowledgement whether or not the account exists
		c.JSON(http.StatusOK, gin.H{"message": resetAckMessage})
		return
	}

	token := uuid.NewString()
	expires := time.Now().Add(time.Hour)
	updates := map[string]interface{}{
		"password_reset_token":   token,
		"password_reset_expires": expires,
	}
	if err := database.DB.Model(&u).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error processing password reset request"})
		return
	}

	// delivery is out of scope; the token is only logged
	log.Printf("password reset token for %s: %s", u.Email, token)

	c.JSON(http.StatusOK, gin.H{"message": resetAckMessage})
}
