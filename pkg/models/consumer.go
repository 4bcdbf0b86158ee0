package models

import (
	"time"
)

// Consumer is a stored customer profile. All five profile fields are optional;
// an empty string means the field was never provided.
// Field order matches schema: id, tenant_id, first_name, last_name, email, phone, address, ...
type Consumer struct {
	ID          string     `json:"id" db:"id"`
	TenantID    string     `json:"tenant_id" db:"tenant_id"`
	FirstName   string     `json:"first_name" db:"first_name"`
	LastName    string     `json:"last_name" db:"last_name"`
	Email       string     `json:"email" db:"email"`
	Phone       string     `json:"phone" db:"phone"`
	Address     string     `json:"address" db:"address"`
	IsDuplicate bool       `json:"is_duplicate" db:"is_duplicate"`
	DuplicateOf *string    `json:"duplicate_of,omitempty" db:"duplicate_of"`
	Fingerprint string     `json:"fingerprint" db:"fingerprint"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt   *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// Record is the scoring view of a consumer: the identity fields the similarity
// formula reads, plus the opaque ID passed through untouched. Address is carried
// for retrieval and display only; it never contributes points.
type Record struct {
	ID        string `json:"id,omitempty"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address,omitempty"`
}

// Record converts a stored consumer into its scoring view.
func (c Consumer) Record() Record {
	return Record{
		ID:        c.ID,
		FirstName: c.FirstName,
		LastName:  c.LastName,
		Email:     c.Email,
		Phone:     c.Phone,
		Address:   c.Address,
	}
}

// PresentFieldCount returns how many of the five profile fields carry a value.
func (r Record) PresentFieldCount() int {
	count := 0
	for _, v := range []string{r.FirstName, r.LastName, r.Email, r.Phone, r.Address} {
		if v != "" {
			count++
		}
	}
	return count
}

// CreateConsumerRequest is the request for creating a consumer profile
type CreateConsumerRequest struct {
	FirstName string `json:"first_name" validate:"omitempty,max=255"`
	LastName  string `json:"last_name" validate:"omitempty,max=255"`
	Email     string `json:"email" validate:"omitempty,max=320"`
	Phone     string `json:"phone" validate:"omitempty,max=32"`
	Address   string `json:"address" validate:"omitempty,max=512"`
	// Confirmed skips the duplicate check when the caller has already reviewed
	// the high-confidence candidates returned on a previous attempt.
	Confirmed bool `json:"confirmed"`
}

// UpdateConsumerRequest is the request for updating a consumer profile
type UpdateConsumerRequest struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Address   *string `json:"address,omitempty"`
	Confirmed bool    `json:"confirmed"`
}

// ConsumerListResponse is the response for browsing consumers
type ConsumerListResponse struct {
	Items      []Consumer `json:"items"`
	TotalCount int        `json:"total_count"`
	Page       int        `json:"page"`
	PageSize   int        `json:"page_size"`
}

// ConsumerStats summarizes the collection for the browse view
type ConsumerStats struct {
	TotalRecords     int `json:"total_records" db:"total_records"`
	OriginalRecords  int `json:"original_records" db:"original_records"`
	DuplicateRecords int `json:"duplicate_records" db:"duplicate_records"`
}
