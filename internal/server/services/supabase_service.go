package services

import (
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/supabase-community/gotrue-go"
	"github.com/supabase-community/gotrue-go/types"
)

// SupabaseService wraps the Supabase GoTrue API. It is the external auth
// collaborator: password hashing, sessions and email confirmation all live
// on the Supabase side; this service only proxies the handful of calls the
// server needs.
type SupabaseService struct {
	client gotrue.Client
	admin  gotrue.Client // nil unless SUPABASE_SERVICE_ROLE_KEY is set
}

// extractProjectRef reduces a Supabase URL to the bare project reference,
// e.g. https://abcdefgh.supabase.co -> abcdefgh.
func extractProjectRef(url string) string {
	url = strings.TrimPrefix(url, "https://")
	url = strings.TrimPrefix(url, "http://")
	ref, _, _ := strings.Cut(url, ".")
	return ref
}

func NewSupabaseService() (*SupabaseService, error) {
	supabaseURL := os.Getenv("SUPABASE_URL")
	anonKey := os.Getenv("SUPABASE_ANON_KEY")
	if supabaseURL == "" || anonKey == "" {
		return nil, fmt.Errorf("SUPABASE_URL and SUPABASE_ANON_KEY environment variables must be set")
	}

	projectRef := extractProjectRef(supabaseURL)
	client := gotrue.New(projectRef, anonKey)

	svc := &SupabaseService{client: client}

	// The service role key unlocks the admin API (user deletion). Without
	// it account deletion still works, minus the auth user cleanup.
	if serviceKey := os.Getenv("SUPABASE_SERVICE_ROLE_KEY"); serviceKey != "" {
		svc.admin = gotrue.New(projectRef, serviceKey).WithToken(serviceKey)
	}

	return svc, nil
}

// SignUp registers a new user. Supabase sends the confirmation email.
func (s *SupabaseService) SignUp(email, password string) error {
	_, err := s.client.Signup(types.SignupRequest{
		Email:    email,
		Password: password,
	})
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	return nil
}

// SignIn performs the password grant and returns the session tokens.
func (s *SupabaseService) SignIn(email, password string) (accessToken, refreshToken string, expiresIn int, err error) {
	resp, err := s.client.SignInWithEmailPassword(email, password)
	if err != nil {
		return "", "", 0, fmt.Errorf("authentication failed: %w", err)
	}
	return resp.AccessToken, resp.RefreshToken, resp.ExpiresIn, nil
}

// VerifyPassword re-authenticates an already-signed-in user. Destructive
// admin actions (unclaim, delete, NFC unassign) require this gate.
func (s *SupabaseService) VerifyPassword(email, password string) error {
	if _, err := s.client.SignInWithEmailPassword(email, password); err != nil {
		return fmt.Errorf("incorrect password")
	}
	return nil
}

// AdminDeleteUser removes the auth user. Requires the service role key.
func (s *SupabaseService) AdminDeleteUser(userID uuid.UUID) error {
	if s.admin == nil {
		return fmt.Errorf("SUPABASE_SERVICE_ROLE_KEY not set, cannot delete auth user")
	}
	if err := s.admin.AdminDeleteUser(types.AdminDeleteUserRequest{UserID: userID}); err != nil {
		return fmt.Errorf("failed to delete auth user: %w", err)
	}
	return nil
}
