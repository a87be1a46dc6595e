package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"donatehub/api/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
}

type authData struct {
	User  userResponse `json:"user"`
	Token string       `json:"token"`
}

func (h HandlerSet) RegisterUser(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), service.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     req.Role,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusCreated, "User registered successfully", authData{
		User:  newUserResponse(result.User),
		Token: result.Token,
	})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h HandlerSet) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBadRequest(c)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), service.LoginInput{
		Email:     req.Email,
		Password:  req.Password,
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Login successful", authData{
		User:  newUserResponse(result.User),
		Token: result.Token,
	})
}

func (h HandlerSet) Logout(c *gin.Context) {
	session, ok := currentSession(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	if err := h.auth.Logout(c.Request.Context(), session.ID); err != nil {
		h.respondError(c, err)
		return
	}

	respondSuccess(c, http.StatusOK, "Logout successful", nil)
}

type profileData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Phone     *string   `json:"phone"`
	CreatedAt time.Time `json:"created_at"`
}

func (h HandlerSet) Me(c *gin.Context) {
	user, ok := currentUser(c)
	if !ok {
		abortMissingContext(c)
		return
	}

	respondSuccess(c, http.StatusOK, "", profileData{
		ID:        user.ID,
		Name:      user.Name,
		Email:     user.Email,
		Role:      string(user.Role),
		Phone:     user.Phone,
		CreatedAt: user.CreatedAt,
	})
}

// abortMissingContext only fires if a protected route was registered
// without the auth middleware.
func abortMissingContext(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, envelope{
		Success: false,
		Message: "Unauthenticated",
	})
}
