package helpers

import (
	"context"

	"github.com/backoffice-qa/backoffice-e2e/internal/models"
)

// Creator stores entities in the back office.
type Creator interface {
	Create(ctx context.Context, e models.Entity) error
}

// createHandled creates e and passes it to handle once it has an ID,
// also when Create fails after the back office already stored it.
func createHandled(ctx context.Context, c Creator, e models.Entity, handle func(...models.Entity)) error {
	err := c.Create(ctx, e)
	if e.EntityID() != "" {
		handle(e)
	}
	return err
}
