package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/kindred/kcf/internal/logic"
)

type AuthHandler struct {
	userLogic *logic.UserLogic
}

func NewAuthHandler(userLogic *logic.UserLogic) *AuthHandler {
	return &AuthHandler{userLogic: userLogic}
}

// Register 用户注册
func (h *AuthHandler) Register(c *gin.Context) {
	var body struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.userLogic.Register(body.Name, body.Email, body.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusCreated, "注册成功", AuthResponse{
		Token: token,
		User:  ToUserResponse(user),
	})
}

// Login 用户登录
func (h *AuthHandler) Login(c *gin.Context) {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		ErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	user, token, err := h.userLogic.Login(body.Email, body.Password)
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "登录成功", AuthResponse{
		Token: token,
		User:  ToUserResponse(user),
	})
}

// GetProfile 获取当前用户信息
func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.userLogic.GetUser(currentUserId(c))
	if err != nil {
		handleError(c, err)
		return
	}

	SuccessResponse(c, http.StatusOK, "获取用户信息成功", ToUserResponse(user))
}
