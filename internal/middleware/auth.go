package middleware

import (
	"context"
	"strings"

	"github.com/tonzxz/ipophil-dms-sub000/internal/auth"
	"github.com/tonzxz/ipophil-dms-sub000/internal/errors"
	"github.com/tonzxz/ipophil-dms-sub000/internal/user"

	"github.com/gin-gonic/gin"
)

type UserProvider interface {
	GetUserByID(ctx context.Context, id uint64) (*user.User, error)
}

type Auth struct {
	UserService UserProvider
}

// AuthMiddleWare verifies the bearer token and loads the caller's account.
// It sets user_id, agency_id and user_name on the context; every handler
// downstream reads the viewer office from there, never from session state.
func (m *Auth) AuthMiddleWare() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")
		if authHeader == "" {
			ctx.Error(errors.Unauthorized("Authorization is not found!", nil))
			ctx.Abort()
			return
		}
		token := strings.TrimPrefix(authHeader, "Bearer ")

		parsedToken, err := auth.VerifyJWT(token)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		userID, tokenVersion, err := auth.GetDataFromToken(parsedToken)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid token!", err))
			ctx.Abort()
			return
		}

		account, err := m.UserService.GetUserByID(ctx.Request.Context(), userID)
		if err != nil {
			ctx.Error(errors.Unauthorized("Invalid User ID!", err))
			ctx.Abort()
			return
		}

		// Check token version
		if account.TokenVersion != tokenVersion {
			ctx.Error(errors.Unauthorized("Invalid token version!", nil))
			ctx.Abort()
			return
		}

		ctx.Set("user_id", account.ID)
		ctx.Set("agency_id", account.AgencyID)
		ctx.Set("user_name", account.Name)
		ctx.Set("jwt_token", token)
		ctx.Next()
	}
}
