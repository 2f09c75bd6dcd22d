package service

import (
	"fmt"

	"github.com/iliyamo/fixsewa/internal/model"
)

// Principal is the authenticated caller on whose behalf an operation
// runs.  The HTTP layer builds it from the access token claims.
type Principal struct {
	UserID uint64
	Role   model.Role
}

func (p Principal) require(role model.Role) error {
	if p.UserID == 0 || p.Role != role {
		return fmt.Errorf("%w: %s role required", ErrUnauthorized, role)
	}
	return nil
}

func (p Principal) authenticated() error {
	if p.UserID == 0 {
		return fmt.Errorf("%w: sign in required", ErrUnauthorized)
	}
	if _, ok := model.ParseRole(string(p.Role)); !ok {
		return fmt.Errorf("%w: unknown role %q", ErrUnauthorized, p.Role)
	}
	return nil
}
