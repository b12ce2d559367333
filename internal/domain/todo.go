package domain

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"-"`
	UserID      uuid.UUID `json:"-"`

	// Owner is attached on reads so responses carry the owning user's
	// name/username without exposing the internal user id.
	Owner *TodoOwner `json:"user,omitempty"`
}

type TodoOwner struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}
