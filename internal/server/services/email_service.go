package services

import (
	"fmt"
	"os"

	"github.com/resendlabs/resend-go"
)

type EmailService struct {
	client    *resend.Client
	fromEmail string
}

func NewEmailService() (*EmailService, error) {
	apiKey := os.Getenv("RESEND_API_KEY")
	if apiKey == "" {
		return nil, fmt.Errorf("RESEND_API_KEY environment variable not set")
	}

	fromEmail := os.Getenv("FROM_EMAIL")
	if fromEmail == "" {
		fromEmail = "noreply@kardo.app"
	}

	client := resend.NewClient(apiKey)

	return &EmailService{
		client:    client,
		fromEmail: fromEmail,
	}, nil
}

// SendClaimConfirmation emails a user after they claim a card.
func (s *EmailService) SendClaimConfirmation(email, code, handle string) error {
	// Skip email sending in test mode
	if os.Getenv("SKIP_EMAIL_SEND") == "true" {
		return nil
	}

	baseURL := os.Getenv("PUBLIC_BASE_URL")
	if baseURL == "" {
		baseURL = "https://kardo.app"
	}

	params := &resend.SendEmailRequest{
		From:    s.fromEmail,
		To:      []string{email},
		Subject: fmt.Sprintf("Your Kardo card %s is ready", code),
		Html: fmt.Sprintf(`
			<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
				<h2 style="color: #333;">Your card is claimed</h2>
				<p>Card <strong>%s</strong> now points at your public profile:</p>
				<div style="background-color: #f4f4f4; padding: 20px; text-align: center; font-size: 20px; margin: 20px 0;">
					<a href="%s/u/%s">%s/u/%s</a>
				</div>
				<p style="color: #666;">Anyone who scans or types your card code will land on this page.</p>
				<p style="color: #666;">You can edit your profile at any time from your dashboard.</p>
				<hr style="border: none; border-top: 1px solid #eee; margin: 30px 0;">
				<p style="color: #999; font-size: 12px;">Kardo - your card, one link</p>
			</div>
		`, code, baseURL, handle, baseURL, handle),
	}

	_, err := s.client.Emails.Send(params)
	return err
}
