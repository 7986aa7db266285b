package common

import (
	"context"
	"errors"

	"github.com/tixpool-lab/backend/pkg/xcontext"
)

// AdminVerifier checks the request user against the configured admin
// account list. Privileged operations must pass it before touching state.
type AdminVerifier struct{}

func NewAdminVerifier() *AdminVerifier {
	return &AdminVerifier{}
}

func (v *AdminVerifier) Verify(ctx context.Context) error {
	userID := xcontext.RequestUserID(ctx)
	if userID == "" {
		return errors.New("no request user")
	}

	for _, admin := range xcontext.Configs(ctx).Auth.Admins {
		if admin == userID {
			return nil
		}
	}

	return errors.New("user is not an admin")
}
