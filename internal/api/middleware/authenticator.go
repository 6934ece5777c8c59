package middleware

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"partyvote/internal/api/handler/v1/response"
	"partyvote/internal/pkg/jwthelper"
)

// ContextKeyUserID is where the authenticator stores the verified caller ID
// for downstream handlers.
const ContextKeyUserID = "user_id"

type Authenticator struct {
	signingKey string
}

func NewAuthenticator(signingKey string) *Authenticator {
	return &Authenticator{
		signingKey: signingKey,
	}
}

func (a *Authenticator) VerifyJWT() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if header == "" {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("authorization header is missing")))
			return
		}

		token, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("authorization header is not a bearer token")))
			return
		}

		claims, err := jwthelper.ParseToken(a.signingKey, token)
		if err != nil {
			response.RenderErr(ctx, response.ErrWrongCredentials(errors.New("invalid token")))
			return
		}

		ctx.Set(ContextKeyUserID, claims.UserID)
		ctx.Next()
	}
}
