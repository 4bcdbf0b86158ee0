package kafka

import (
	"encoding/json"
	"fmt"
	"time"
)

// IncomingMessage is a Kafka message plus its parsed payload
type IncomingMessage struct {
	Key       string
	Value     []byte
	Headers   map[string]string
	Partition int
	Offset    int64
	Timestamp time.Time
	Topic     string

	Profile *ProfileMessage
}

// ProfileMessage is the ingestion payload: one consumer profile upsert or
// deletion from an upstream source system.
type ProfileMessage struct {
	TenantID  string `json:"tenant_id"`
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	Deleted   bool   `json:"deleted,omitempty"`
}

// ParseProfileMessage parses the message value as a profile payload. The
// tenant may arrive in the payload or in the tenant_id header.
func (m *IncomingMessage) ParseProfileMessage() error {
	var profile ProfileMessage
	if err := json.Unmarshal(m.Value, &profile); err != nil {
		return fmt.Errorf("invalid profile message: %w", err)
	}

	if profile.TenantID == "" {
		profile.TenantID = m.Headers["tenant_id"]
	}
	if profile.TenantID == "" {
		return fmt.Errorf("profile message missing tenant_id")
	}

	m.Profile = &profile
	return nil
}
