package services

import (
	"context"
	"time"
)

// AuthSvcFacade authenticates the studio admin.
type AuthSvcFacade interface {
	// Login checks the credentials and returns a signed access token with its expiry.
	Login(ctx context.Context, username, password string) (string, time.Time, error)
}
