package ledger

import (
	"context"
	"fmt"
	"strings"

	"finance-ledger/internal/datecycle"
	"finance-ledger/internal/models"

	"gorm.io/gorm"
)

// GoalInput is the user-supplied content of a goal.
type GoalInput struct {
	Name    string
	Target  string
	DueDate string // optional, YYYY-MM-DD
}

func (in GoalInput) validate() (name string, target int64, due *datecycle.Date, err error) {
	if name, err = cleanName("goal name", in.Name); err != nil {
		return "", 0, nil, err
	}
	if target, err = parseAmount("target amount", in.Target, false); err != nil {
		return "", 0, nil, err
	}
	if strings.TrimSpace(in.DueDate) != "" {
		d, err := parseDate("due date", in.DueDate)
		if err != nil {
			return "", 0, nil, err
		}
		due = &d
	}
	return name, target, due, nil
}

// CreateGoal adds a savings goal.
func (s *Service) CreateGoal(ctx context.Context, owner uint, in GoalInput) (*models.Goal, error) {
	name, target, due, err := in.validate()
	if err != nil {
		return nil, err
	}
	g := models.Goal{UserID: owner, Name: name, TargetCent: target, DueDate: due, Status: models.GoalInProgress}
	err = s.run(ctx, owner, datecycle.Date{}, "create_goal", func(u *unitOfWork) error {
		if err := u.tx.Create(&g).Error; err != nil {
			return err
		}
		u.record("goal", g.ID, "created")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &g, nil
}

// EditGoal changes name, target and due date; the status is re-derived.
func (s *Service) EditGoal(ctx context.Context, owner, id uint, in GoalInput) (*models.Goal, error) {
	name, target, due, err := in.validate()
	if err != nil {
		return nil, err
	}
	var out *models.Goal
	err = s.run(ctx, owner, datecycle.Date{}, "edit_goal", func(u *unitOfWork) error {
		g, err := find[models.Goal](u, "goal", id)
		if err != nil {
			return err
		}
		g.Name, g.TargetCent, g.DueDate = name, target, due
		g.DeriveStatus()
		if err := u.tx.Save(g).Error; err != nil {
			return err
		}
		u.record("goal", g.ID, "edited")
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AbandonGoal marks a goal abandoned. Abandoned goals take no contributions.
func (s *Service) AbandonGoal(ctx context.Context, owner, id uint) (*models.Goal, error) {
	var out *models.Goal
	err := s.run(ctx, owner, datecycle.Date{}, "abandon_goal", func(u *unitOfWork) error {
		g, err := find[models.Goal](u, "goal", id)
		if err != nil {
			return err
		}
		g.Status = models.GoalAbandoned
		if err := u.tx.Model(g).Update("status", g.Status).Error; err != nil {
			return err
		}
		u.record("goal", g.ID, "abandoned")
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteGoal removes a goal. Its contributions stay posted on their
// accounts and budgets, detached from the goal.
func (s *Service) DeleteGoal(ctx context.Context, owner, id uint) error {
	return s.run(ctx, owner, datecycle.Date{}, "delete_goal", func(u *unitOfWork) error {
		g, err := find[models.Goal](u, "goal", id)
		if err != nil {
			return err
		}
		if err := u.owned().Model(&models.Transaction{}).Where("goal_id = ?", g.ID).Update("goal_id", nil).Error; err != nil {
			return err
		}
		if err := u.tx.Delete(g).Error; err != nil {
			return err
		}
		u.record("goal", g.ID, "deleted")
		return nil
	})
}

// ListGoals returns owner's goals.
func (s *Service) ListGoals(ctx context.Context, owner uint) ([]models.Goal, error) {
	return list[models.Goal](ctx, s, owner, func(q *gorm.DB) *gorm.DB {
		return q.Order("id ASC")
	})
}

// Contribution is the outcome of ContributeToGoal.
type Contribution struct {
	Goal        *models.Goal
	Transaction *models.Transaction
	// Capped is true when the requested amount exceeded what the goal
	// still needed.
	Capped bool
}

// ContributeToGoal moves money from an account into a goal. The amount is
// capped at what the goal still needs and posted as an expense in the
// reserved "Savings for Goals" category, tagged with the goal.
func (s *Service) ContributeToGoal(ctx context.Context, owner, goalID, accountID uint, amount string, asOf datecycle.Date) (*Contribution, error) {
	if err := requireAsOf(asOf); err != nil {
		return nil, err
	}
	requested, err := parseAmount("contribution", amount, false)
	if err != nil {
		return nil, err
	}
	var out Contribution
	err = s.run(ctx, owner, asOf, "contribute_to_goal", func(u *unitOfWork) error {
		g, err := find[models.Goal](u, "goal", goalID)
		if err != nil {
			return err
		}
		if g.Status == models.GoalAbandoned {
			return invalid("goal %q is abandoned", g.Name)
		}
		remaining := g.RemainingCent()
		if remaining <= 0 {
			return invalid("goal %q is already reached", g.Name)
		}
		a, err := find[models.Account](u, "account", accountID)
		if err != nil {
			return err
		}
		cents := requested
		if cents > remaining {
			cents, out.Capped = remaining, true
		}
		if a.BalanceCent < cents {
			return fmt.Errorf("account %q: %w", a.Name, ErrInsufficientFunds)
		}
		c, err := u.ensureCategory(CategorySavingsForGoals, models.TypeExpense)
		if err != nil {
			return err
		}
		t := models.Transaction{
			Description: fmt.Sprintf("Contribution to %s", g.Name),
			AmountCent:  cents,
			Date:        u.asOf,
			Type:        models.TypeExpense,
			CategoryID:  &c.ID,
			AccountID:   &a.ID,
			GoalID:      &g.ID,
		}
		if err := u.createTransaction(&t); err != nil {
			return err
		}
		if out.Goal, err = find[models.Goal](u, "goal", g.ID); err != nil {
			return err
		}
		out.Transaction = &t
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
