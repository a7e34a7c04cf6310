package auth

import (
	"context"
	"log"
)

// LogMailer writes reset links to the process log. Used until an SMTP
// provider is configured.
type LogMailer struct{}

func (LogMailer) SendPasswordReset(_ context.Context, to, link string) error {
	log.Printf("password_reset_link to=%s link=%s", to, link)
	return nil
}
