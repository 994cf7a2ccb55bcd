package billing

import (
	"errors"

	"gastos-server/internal/models"
)

// ErrUnknownAccount is returned when an account has no configured billing
// period rule. It signals a configuration/domain mismatch rather than a
// malformed request.
var ErrUnknownAccount = errors.New("unknown account")

// PeriodRule describes how an account's billing period is derived. Card
// accounts carry a fixed cyclic window; EndDay < StartDay means the window
// closes in the following calendar month. Recurring accounts (PIX, Boleto)
// simply use the calendar month itself.
type PeriodRule struct {
	StartDay    int
	EndDay      int
	IsRecurring bool
}

// Static configuration: one rule per known account. Loaded once, immutable.
// EndDay values stay <= 30 so a window end never lands on a day February
// cannot hold; resolveWindow still clamps defensively.
var accountRules = map[models.Account]PeriodRule{
	models.AccountOurocardKetlyn:    {StartDay: 17, EndDay: 16},
	models.AccountOurocardAlexandre: {StartDay: 9, EndDay: 8},
	models.AccountNubank:            {StartDay: 28, EndDay: 27},
	models.AccountPix:               {IsRecurring: true},
	models.AccountBoleto:            {IsRecurring: true},
}

// RuleFor returns the billing period rule for an account.
func RuleFor(account models.Account) (PeriodRule, error) {
	rule, ok := accountRules[account]
	if !ok {
		return PeriodRule{}, ErrUnknownAccount
	}
	return rule, nil
}

// IsKnownAccount reports whether the account has a configured rule.
func IsKnownAccount(account models.Account) bool {
	_, ok := accountRules[account]
	return ok
}

// IsRecurringEligible reports whether recurring expense templates may use the
// account. Only calendar-month accounts qualify.
func IsRecurringEligible(account models.Account) bool {
	rule, ok := accountRules[account]
	return ok && rule.IsRecurring
}

// KnownAccounts returns every configured account in a stable order.
func KnownAccounts() []models.Account {
	return []models.Account{
		models.AccountOurocardKetlyn,
		models.AccountOurocardAlexandre,
		models.AccountNubank,
		models.AccountPix,
		models.AccountBoleto,
	}
}
