package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"catalog-backend/internal/shared/response"
	"catalog-backend/pkg/jwt"
)

// ContextUserIDKey là key lưu principal trong gin.Context
const ContextUserIDKey = "userID"

// TokenVerifier is satisfied by *jwt.Manager
type TokenVerifier interface {
	ValidateAccessToken(tokenString string) (*jwt.Claims, error)
}

// AuthMiddleware - Middleware xác thực JWT token.
// Catalog tin tưởng principal do identity context cung cấp, không tra DB.
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Lấy token từ Authorization header (fallback cookie accessToken)
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "Unauthorized request")
			c.Abort()
			return
		}

		// 2. Verify và parse JWT
		claims, err := verifier.ValidateAccessToken(token)
		if err != nil {
			log.Debug().Err(err).Str("request_id", c.GetString("request_id")).Msg("Rejected access token")
			response.Unauthorized(c, "Invalid access token")
			c.Abort()
			return
		}

		// 3. Convert user_id sang uuid.UUID
		userID, err := uuid.Parse(claims.UserID)
		if err != nil || userID == uuid.Nil {
			response.Unauthorized(c, "Invalid user ID in token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// GetUserID trả về principal đã được AuthMiddleware set
func GetUserID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	userID, ok := v.(uuid.UUID)
	if !ok || userID == uuid.Nil {
		return uuid.Nil, false
	}
	return userID, true
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return ""
		}
		return strings.TrimSpace(parts[1])
	}
	if cookie, err := c.Cookie("accessToken"); err == nil {
		return cookie
	}
	return ""
}
