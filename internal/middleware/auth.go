package middleware

import (
	"context"
	"strings"

	"github.com/tixpool-lab/backend/pkg/errorx"
	"github.com/tixpool-lab/backend/pkg/router"
	"github.com/tixpool-lab/backend/pkg/xcontext"
)

// Authenticate parses the bearer token and records the request user in the
// context. It rejects the request if no valid token is presented.
func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID, err := verifyToken(ctx)
		if err != nil {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

// OptionalAuthenticate records the request user if a valid token is
// presented, and lets anonymous requests through.
func OptionalAuthenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID, err := verifyToken(ctx)
		if err != nil {
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

func verifyToken(ctx context.Context) (string, error) {
	authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
	token, found := strings.CutPrefix(authorization, "Bearer ")
	if !found {
		return "", errorx.New(errorx.Unauthenticated, "No bearer token is given")
	}

	accessToken, err := xcontext.TokenEngine(ctx).Verify(token)
	if err != nil {
		xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
		return "", errorx.New(errorx.Unauthenticated, "Invalid access token")
	}

	return accessToken.ID, nil
}
