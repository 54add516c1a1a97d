package http

import (
	"github.com/telos-kitchen/account-service/internal/application/account"
	"github.com/telos-kitchen/account-service/internal/infrastructure/sentry"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	GrantRepo account.GrantStore
	Ledger    account.Ledger
	SMSSender account.SMSSender
	Reporter  sentry.Reporter
}
