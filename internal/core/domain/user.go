package domain

// User is an authenticated owner of finance data. The user id equality filter
// on every store operation is the sole authorization mechanism.
type User struct {
	UserID       string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"-"`
	AuditFields
}
