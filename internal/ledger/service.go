// Package ledger keeps accounts, budgets and goals consistent with the
// transactions and bills of each owner.
//
// Every exported operation takes the owner explicitly and runs as one unit
// of work: all of its reads and writes happen inside a single database
// transaction that is committed as a whole or rolled back as a whole.
// Operations that depend on "today" take it as an explicit as-of date.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultHorizon is the number of occurrences an unbounded master expands to.
const DefaultHorizon = 12

// Service is the entry point of the bookkeeping core.
type Service struct {
	db      *gorm.DB
	log     *slog.Logger
	horizon int
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the logger used for operation outcomes.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.log = l }
}

// WithHorizon overrides DefaultHorizon.
func WithHorizon(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.horizon = n
		}
	}
}

// NewService returns a Service storing its data in db.
func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{
		db:      db,
		log:     slog.Default(),
		horizon: DefaultHorizon,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// unitOfWork collects the reads and writes of one operation. All of them go
// through tx; nothing inside a unit of work may touch Service.db.
type unitOfWork struct {
	tx      *gorm.DB
	owner   uint
	asOf    datecycle.Date
	horizon int
	op      string
	opID    string
	audit   []models.AuditLog
}

// run executes fn as one unit of work for owner.
func (s *Service) run(ctx context.Context, owner uint, asOf datecycle.Date, op string, fn func(u *unitOfWork) error) error {
	if owner == 0 {
		return fmt.Errorf("owner: %w", ErrNotFound)
	}
	opID := uuid.NewString()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		u := &unitOfWork{
			tx:      tx,
			owner:   owner,
			asOf:    asOf,
			horizon: s.horizon,
			op:      op,
			opID:    opID,
		}
		if err := fn(u); err != nil {
			return err
		}
		if len(u.audit) == 0 {
			return nil
		}
		return tx.Create(&u.audit).Error
	})
	if err != nil {
		err = translate(err)
		s.log.Warn("operation rolled back", "op", op, "operation_id", opID, "owner", owner, "err", err)
		return err
	}
	s.log.Debug("operation committed", "op", op, "operation_id", opID, "owner", owner)
	return nil
}

// record queues an audit row written when the unit of work commits.
func (u *unitOfWork) record(entity string, id uint, detail string) {
	u.audit = append(u.audit, models.AuditLog{
		UserID:      u.owner,
		OperationID: u.opID,
		Operation:   u.op,
		EntityType:  entity,
		EntityID:    id,
		Detail:      detail,
	})
}

// owned scopes a query to the unit's owner.
func (u *unitOfWork) owned() *gorm.DB {
	return u.tx.Where("user_id = ?", u.owner)
}

// find loads the row of type T with the given id owned by the unit's owner.
// Rows of other owners are reported as missing.
func find[T any](u *unitOfWork, what string, id uint) (*T, error) {
	var v T
	err := u.tx.Where("id = ? AND user_id = ?", id, u.owner).First(&v).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, notFound(what, id)
	}
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// checkRefs verifies that the optional references belong to the owner.
func (u *unitOfWork) checkRefs(categoryID, accountID, goalID *uint) error {
	if categoryID != nil {
		if _, err := find[models.Category](u, "category", *categoryID); err != nil {
			return err
		}
	}
	if accountID != nil {
		if _, err := find[models.Account](u, "account", *accountID); err != nil {
			return err
		}
	}
	if goalID != nil {
		if _, err := find[models.Goal](u, "goal", *goalID); err != nil {
			return err
		}
	}
	return nil
}

// list is the read path shared by the List* operations.
func list[T any](ctx context.Context, s *Service, owner uint, scope func(*gorm.DB) *gorm.DB) ([]T, error) {
	if owner == 0 {
		return nil, fmt.Errorf("owner: %w", ErrNotFound)
	}
	q := s.db.WithContext(ctx).Where("user_id = ?", owner)
	if scope != nil {
		q = scope(q)
	}
	var out []T
	if err := q.Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
