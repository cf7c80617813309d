package auth

import "context"

var _ Checker = (*LoginChecker)(nil)

// Checker tells whether a session token issued by the identity service is still valid.
type Checker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}
