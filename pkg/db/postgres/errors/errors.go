package errors

import (
	"errors"
	"fmt"

	"github.com/jackc/pgconn"
	"github.com/jackc/pgerrcode"
	kdb "github.com/opensilex/phis/pkg/db"
)

// requested record is missing.
type Missing struct {
	Table    string
	Identity string
}

var _ error = Missing{}

func (m Missing) Error() string {
	return fmt.Sprintf("%s is not found in %s", m.Identity, m.Table)
}

func (m Missing) Unwrap() error {
	return kdb.ErrMissing
}

// record conflicts with existing one.
type Conflict struct {
	Table      string
	Identity   string
	Constraint string
}

var _ error = Conflict{}

func (c Conflict) Error() string {
	return fmt.Sprintf("%s conflicts in %s (%s)", c.Identity, c.Table, c.Constraint)
}

func (c Conflict) Unwrap() error {
	return kdb.ErrConflict
}

// AsConflict converts unique violation into Conflict. Other errors are returned as they are.
func AsConflict(err error, table string, identity string) error {
	pgerr := new(pgconn.PgError)
	if errors.As(err, &pgerr) && pgerr.Code == pgerrcode.UniqueViolation {
		return Conflict{Table: table, Identity: identity, Constraint: pgerr.ConstraintName}
	}
	return err
}

// IsForeignKeyViolation tells err is caused by a missing referenced record.
func IsForeignKeyViolation(err error) bool {
	pgerr := new(pgconn.PgError)
	return errors.As(err, &pgerr) && pgerr.Code == pgerrcode.ForeignKeyViolation
}
