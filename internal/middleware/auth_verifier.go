package middleware

import (
	"context"
	"strings"

	"github.com/rafflehub/backend/internal/model"
	"github.com/rafflehub/backend/pkg/errorx"
	"github.com/rafflehub/backend/pkg/router"
	"github.com/rafflehub/backend/pkg/xcontext"
)

type AuthVerifier struct {
	useAccessToken bool
}

func NewAuthVerifier() *AuthVerifier {
	return &AuthVerifier{}
}

func (a *AuthVerifier) WithAccessToken() *AuthVerifier {
	a.useAccessToken = true
	return a
}

func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if a.useAccessToken {
			token := getAccessToken(ctx)
			if token != "" {
				var info model.AccessToken
				if err := xcontext.TokenEngine(ctx).Verify(token, &info); err != nil {
					xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
				} else {
					return xcontext.WithRequestUserID(ctx, info.ID), nil
				}
			}
		}

		return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
	}
}

// getAccessToken takes the token from the Authorization header, falling back
// to the access token cookie.
func getAccessToken(ctx context.Context) string {
	authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
	auth, token, found := strings.Cut(authorization, " ")
	if found && auth == "Bearer" {
		return token
	}

	cookie, err := xcontext.HTTPRequest(ctx).Cookie(xcontext.Configs(ctx).Auth.AccessToken.Name)
	if err != nil {
		return ""
	}

	return cookie.Value
}
