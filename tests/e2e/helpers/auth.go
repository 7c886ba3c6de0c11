//go:build e2e

package helpers

import (
	"fmt"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/pages"
)

// AuthHelper signs in to the back office through the login page
type AuthHelper struct {
	s        *ui.Session
	username string
	password string
}

// NewAuthHelper creates a helper for the configured admin account
func NewAuthHelper(b *BrowserHelper, s *ui.Session) *AuthHelper {
	return &AuthHelper{
		s:        s,
		username: b.Config.Admin.Username,
		password: b.Config.Admin.Password,
	}
}

// OpenLoginPage visits the login page and waits for the form.
func (a *AuthHelper) OpenLoginPage() (*pages.LoginPage, error) {
	login := pages.NewLoginPage(a.s)
	if err := login.Visit(); err != nil {
		return nil, fmt.Errorf("failed to navigate to login: %w", err)
	}
	if err := login.VerifyPage(); err != nil {
		return nil, err
	}
	return login, nil
}

// Login signs in with the given credentials and checks the dashboard.
func (a *AuthHelper) Login(username, password string) (*pages.MainPage, error) {
	login, err := a.OpenLoginPage()
	if err != nil {
		return nil, err
	}
	main, err := login.Login(username, password)
	if err != nil {
		return nil, err
	}
	if err := main.VerifyPage(); err != nil {
		return nil, fmt.Errorf("login as %s did not reach the dashboard: %w", username, err)
	}
	return main, nil
}

// LoginAsAdmin logs in with admin credentials from config
func (a *AuthHelper) LoginAsAdmin() (*pages.MainPage, error) {
	if a.username == "" || a.password == "" {
		return nil, fmt.Errorf("admin credentials not configured")
	}
	return a.Login(a.username, a.password)
}

// Logout signs out through the top menu and checks the login form.
func (a *AuthHelper) Logout(main *pages.MainPage) (*pages.LoginPage, error) {
	login, err := main.LogOut()
	if err != nil {
		return nil, err
	}
	if err := login.VerifyPage(); err != nil {
		return nil, fmt.Errorf("logout did not reach the login page: %w", err)
	}
	return login, nil
}
