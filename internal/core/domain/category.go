package domain

import "strings"

// Category is a user-owned transaction category. Name is unique per
// (user, type) case-insensitively; Type is immutable once transactions exist.
type Category struct {
	CategoryID string   `json:"id"`
	UserID     string   `json:"userId"`
	Name       string   `json:"name"`
	Type       FlowType `json:"type"`
	Color      string   `json:"color"`
	Icon       string   `json:"icon"`
	IsActive   bool     `json:"isActive"`
	AuditFields
}

// NormalizeCategoryName canonicalizes a category name for uniqueness checks.
func NormalizeCategoryName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
