package domain

import (
	"strings"
	"time"

	"github.com/acervoapp/acervo-server/internal/errors"
)

// Patron is a library member: a student, teacher, or staff member.
// Group is a free-text classroom or role label ("5º Ano B", "Professores").
type Patron struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Group     string    `json:"group"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Validate checks patron invariants before persistence.
func (p *Patron) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return errors.Validation("patron name is required")
	}
	return nil
}

// Identity is the stable key used to diff patron lists during a sync when
// no ID is supplied: name plus group, case-insensitively.
func (p *Patron) Identity() string {
	return strings.ToLower(strings.TrimSpace(p.Name)) + "\x00" + strings.ToLower(strings.TrimSpace(p.Group))
}
