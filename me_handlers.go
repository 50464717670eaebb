package main

import (
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MeResponse struct {
	PublicID    string  `json:"publicId"`
	DisplayName *string `json:"displayName,omitempty"`
}

type MeUpdateReq struct {
	DisplayName *string `json:"displayName"`
}

type RestoreReq struct {
	PublicID string `json:"publicId" binding:"required,uuid"`
}

func loadCurrentUser(c *gin.Context, db *gorm.DB) (*User, bool) {
	uid, ok := currentUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "no user"})
		return nil, false
	}
	var u User
	if err := db.First(&u, uid).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return nil, false
	}
	return &u, true
}

// GET /api/v1/me
func GetMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadCurrentUser(c, db)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: u.PublicID, DisplayName: u.DisplayName})
	}
}

// PUT /api/v1/me
func UpdateMe(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		u, ok := loadCurrentUser(c, db)
		if !ok {
			return
		}
		var req MeUpdateReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad request"})
			return
		}
		if req.DisplayName != nil {
			name := strings.TrimSpace(*req.DisplayName)
			if n := utf8.RuneCountInString(name); n < 2 || n > 40 {
				c.JSON(http.StatusBadRequest, gin.H{"error": "displayName must be 2..40 chars"})
				return
			}
			u.DisplayName = &name
		}
		if err := db.Save(u).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "db"})
			return
		}
		c.JSON(http.StatusOK, MeResponse{PublicID: u.PublicID, DisplayName: u.DisplayName})
	}
}

// GET /api/v1/me/export-key returns the id a user can paste on another
// device to carry their attempt history over.
func ExportKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		pubID := c.GetString("userPublicID")
		if pubID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "no user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"publicId": pubID})
	}
}

// POST /api/v1/me/restore switches the cookie to an exported id.
func RestoreAccount(db *gorm.DB, secureCookies bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RestoreReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "publicId required"})
			return
		}
		pubID := strings.ToLower(strings.TrimSpace(req.PublicID))
		if _, err := uuid.Parse(pubID); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "publicId must be a UUID"})
			return
		}
		var u User
		if err := db.First(&u, "public_id = ?", pubID).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
			return
		}
		setUserCookie(c, u.PublicID, secureCookies)
		c.Header(publicIDHeader, u.PublicID)
		c.JSON(http.StatusOK, gin.H{"status": "restored"})
	}
}
