package pages

import (
	"fmt"

	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/components"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui/elements"
	"github.com/backoffice-qa/backoffice-e2e/internal/utils"
)

// LoginPage is the admin sign-in form.
type LoginPage struct {
	Base

	UsernameInput *elements.Input
	PasswordInput *elements.Input
	LoginButton   *elements.Button
	FailureBanner *elements.Label
}

func NewLoginPage(s *ui.Session) *LoginPage {
	return &LoginPage{
		Base:          newBase(s, "Admin/Login", "/admin"),
		UsernameInput: elements.NewInput(s, "input[name=username]", "Username field"),
		PasswordInput: elements.NewInput(s, "input[name=password]", "Password field"),
		LoginButton:   elements.NewButton(s, "button[name=login]", "Login button"),
		FailureBanner: elements.NewLabel(s, ".alert-danger", "Failed login notification"),
	}
}

func (p *LoginPage) VerifyPage() error {
	return p.s.Step("Page is loaded", func() error {
		return p.LoginButton.ShouldBeVisible()
	})
}

// Login submits the credentials. The returned main page is only
// meaningful when the credentials are valid.
func (p *LoginPage) Login(username, password string) (*MainPage, error) {
	title := fmt.Sprintf("Logging in as %s/%s", username, utils.MaskString(password))
	err := p.s.Step(title, func() error {
		if err := p.UsernameInput.ClickAndFill(username, elements.Plain); err != nil {
			return err
		}
		if err := p.PasswordInput.ClickAndFill(password, elements.Masked); err != nil {
			return err
		}
		return p.LoginButton.Click()
	})
	if err != nil {
		return nil, err
	}
	return NewMainPage(p.s), nil
}

func (p *LoginPage) FailureBannerShouldBeVisible() error {
	return p.FailureBanner.ShouldBeVisible()
}

// FailureBannerShouldHaveText accepts a string, a regexp or a
// textrepo.Message.
func (p *LoginPage) FailureBannerShouldHaveText(text any) error {
	return p.s.Step(fmt.Sprintf("Login failure banner should read %q", fmt.Sprint(text)), func() error {
		if err := p.FailureBannerShouldBeVisible(); err != nil {
			return err
		}
		return p.FailureBanner.ShouldHaveText(text)
	})
}

// MainPage is the dashboard shown after signing in.
type MainPage struct {
	Base

	SuccessBanner *elements.Banner
	TopMenu       *components.AdminTopMenu
	SideMenu      *components.AdminSideMenu
}

func NewMainPage(s *ui.Session) *MainPage {
	return &MainPage{
		Base:          newBase(s, "Admin/Main", "/admin/"),
		SuccessBanner: elements.NewBanner(s, ".alert-success", "Log In notification banner"),
		TopMenu:       components.NewAdminTopMenu(s),
		SideMenu:      components.NewAdminSideMenu(s),
	}
}

func (p *MainPage) VerifyPage() error {
	return p.s.Step("Page is loaded", func() error {
		if err := p.SideMenu.ShouldBeVisible(); err != nil {
			return err
		}
		return p.TopMenu.ShouldBeVisible()
	})
}

func (p *MainPage) LoginBannerShouldBeVisible() error {
	return p.SuccessBanner.ShouldBeVisible()
}

// ChangeCategory opens c from the sidebar.
func (p *MainPage) ChangeCategory(c Category) (CategoryView, error) {
	if err := p.SideMenu.ChangeCategory(c.Code, c.Doc); err != nil {
		return nil, err
	}
	return c.Open(p.s), nil
}

// LogOut signs out through the top menu.
func (p *MainPage) LogOut() (*LoginPage, error) {
	if err := p.TopMenu.LogOut(); err != nil {
		return nil, err
	}
	return NewLoginPage(p.s), nil
}
