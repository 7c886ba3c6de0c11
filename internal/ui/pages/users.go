package pages

import (
	"github.com/backoffice-qa/backoffice-e2e/internal/lookup"
	"github.com/backoffice-qa/backoffice-e2e/internal/models"
	"github.com/backoffice-qa/backoffice-e2e/internal/ui"
)

var userLookup = []lookup.LookupStrategy{
	lookup.Lookup(1, "id", lookup.Selector("input"), lookup.ByValue(), lookup.PrimaryKey()),
	lookup.Lookup(4, "username", lookup.Selector("a")),
	lookup.Lookup(7, "date_valid_from"),
	lookup.Lookup(8, "date_valid_to"),
}

// UsersPage is Admin / Users.
type UsersPage struct {
	listing
}

func NewUsersPage(s *ui.Session) *UsersPage {
	p := &UsersPage{
		listing: newListing(s, Users, "Users", lookup.Read(1, lookup.Selector("input"), lookup.ByValue())),
	}
	p.Table.MustSetStrategy(userLookup, nil)
	return p
}

func (p *UsersPage) VerifyPage() error {
	return p.verify(p.HeaderTextShouldMatch, visible(p.Table))
}

// UserShouldBeListed checks that user has a row and stores the ID shown
// there.
func (p *UsersPage) UserShouldBeListed(user *models.UserEntity) error {
	return p.s.Step("User "+user.Username+" should be listed", func() error {
		_, err := p.FindInTable(user, true)
		return err
	})
}
