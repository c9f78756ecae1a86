// Package notification is the outbound notification sink. Dispatch is
// best-effort: the ledger change has already committed by the time an event
// reaches this package, so failures are reported to the caller for logging
// and nothing more.
package notification

import (
	"context"
	"fmt"
	"log"

	"skillhub/internal/repositories"
)

// Service dispatches user-facing events (email / push, depending on the
// configured channel).
type Service struct {
	users repositories.UserRepository
}

// NewService creates a new notification service.
func NewService(users repositories.UserRepository) *Service {
	return &Service{users: users}
}

// Notify delivers one event to one user. The default channel writes to the
// application log; a real mail/push channel slots in behind the same method.
func (s *Service) Notify(ctx context.Context, userID uint, event string, payload map[string]interface{}) error {
	address := fmt.Sprintf("user:%d", userID)
	if s.users != nil {
		if user, err := s.users.GetByID(userID); err == nil {
			address = user.Email
		}
	}
	log.Printf("notify %s event=%s payload=%v", address, event, payload)
	return nil
}
