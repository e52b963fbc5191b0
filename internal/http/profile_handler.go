package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"profile-api/internal/service"
)

// ProfileHandler mantiene dependencias para endpoints de perfil.
type ProfileHandler struct {
	logger      *zap.Logger
	profileServ *service.ProfileService
}

// NewProfileHandler crea una instancia de ProfileHandler con dependencias necesarias.
func NewProfileHandler(logger *zap.Logger, profileServ *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{
		logger:      logger,
		profileServ: profileServ,
	}
}

// CreateProfile maneja POST /api/users.
func (h *ProfileHandler) CreateProfile(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req struct {
		UID         string `json:"uid"`
		Email       string `json:"email"`
		DisplayName string `json:"displayName"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.profileServ.CreateProfile(c.Request.Context(), identity.UserID, service.CreateProfileInput{
		UserID:      req.UID,
		Email:       req.Email,
		DisplayName: req.DisplayName,
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrProfileInput):
			c.JSON(http.StatusBadRequest, gin.H{"error": "uid and email required"})
		case errors.Is(err, service.ErrProfileForbidden):
			c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
		default:
			h.logger.Error("create profile failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create profile"})
		}
		return
	}

	c.JSON(http.StatusOK, profile)
}

// GetMe maneja GET /api/users/me.
func (h *ProfileHandler) GetMe(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	profile, err := h.profileServ.GetProfile(c.Request.Context(), identity.UserID)
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("get profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}

// UpdateMe maneja PUT /api/users/me. Solo acepta los atributos editables;
// el cuerpo nunca identifica al usuario, siempre manda la identidad resuelta.
func (h *ProfileHandler) UpdateMe(c *gin.Context) {
	identity, ok := GetAuthIdentity(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
		return
	}

	var req struct {
		FullName *string `json:"fullName"`
		Gender   *string `json:"gender"`
		NickName *string `json:"nickName"`
		Address  *string `json:"address"`
		City     *string `json:"city"`
		Country  *string `json:"country"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid update profile request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	profile, err := h.profileServ.UpdateProfile(c.Request.Context(), identity.UserID, service.UpdateProfileInput{
		FullName: req.FullName,
		Gender:   req.Gender,
		NickName: req.NickName,
		Address:  req.Address,
		City:     req.City,
		Country:  req.Country,
	})
	if err != nil {
		if errors.Is(err, service.ErrProfileNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
			return
		}
		h.logger.Error("update profile failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}

	c.JSON(http.StatusOK, profile)
}
