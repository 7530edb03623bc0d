package domain

// AccountType enumerates the supported kinds of money accounts.
type AccountType string

const (
	AccountCash       AccountType = "cash"
	AccountBank       AccountType = "bank"
	AccountCredit     AccountType = "credit"
	AccountSavings    AccountType = "savings"
	AccountInvestment AccountType = "investment"
	AccountOther      AccountType = "other"
)

// Account is a user-owned money account. Balance is an integer amount in
// minor currency units; it is set at creation and thereafter mutated only
// through the conditional balance update primitive of the ledger engine.
type Account struct {
	AccountID string      `json:"id"`
	UserID    string      `json:"userId"`
	Name      string      `json:"name"`
	Type      AccountType `json:"type"`
	BankName  *string     `json:"bankName"` // only meaningful when Type == AccountBank
	Balance   int64       `json:"balance"`
	AuditFields
}

// NormalizeBankName forces BankName to nil for non-bank accounts.
func (a *Account) NormalizeBankName() {
	if a.Type != AccountBank {
		a.BankName = nil
	}
}
