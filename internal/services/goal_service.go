package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shopspring/decimal"

	"fintrack/internal/core"
	"fintrack/internal/storage"
)

// GoalService manages savings goals and allocates unallocated balance
// across them.
type GoalService struct {
	storage *storage.SQLiteRepository
}

func NewGoalService(storage *storage.SQLiteRepository) *GoalService {
	return &GoalService{storage: storage}
}

// Add creates a goal. current_amount always starts at zero; only Rebalance
// or an explicit Update changes it afterward.
func (s *GoalService) Add(ctx context.Context, name string, target core.Money, deadline core.Date) (int64, error) {
	g := core.Goal{
		Name:     name,
		Target:   target,
		Deadline: deadline,
	}
	if err := g.Validate(); err != nil {
		return 0, err
	}

	id, err := s.storage.CreateGoal(ctx, g)
	if err != nil {
		return 0, fmt.Errorf("add goal: %w", err)
	}

	slog.InfoContext(ctx, "Goal created",
		"id", id,
		"name", name,
		"target_cents", target.Cents,
		"deadline", deadline.String())

	return id, nil
}

// Update replaces all fields of an existing goal, including current_amount.
func (s *GoalService) Update(ctx context.Context, g core.Goal) error {
	if err := g.Validate(); err != nil {
		return err
	}
	if err := s.storage.UpdateGoal(ctx, g); err != nil {
		return fmt.Errorf("update goal: %w", err)
	}
	return nil
}

func (s *GoalService) Delete(ctx context.Context, id int64) error {
	if err := s.storage.DeleteGoal(ctx, id); err != nil {
		return fmt.Errorf("delete goal: %w", err)
	}
	return nil
}

func (s *GoalService) List(ctx context.Context) ([]core.Goal, error) {
	goals, err := s.storage.ListGoals(ctx)
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

// Rebalance distributes the unallocated part of balance across open goals,
// proportionally to each goal's remaining need and capped at its target.
// Returns the total amount allocated by this call.
//
// Unallocated is reconciled against the sum of prior allocations
// (balance minus total current_amount), so calling Rebalance again with an
// unchanged balance is a no-op rather than a second hand-out of the same
// funds. Fully funded goals are untouched. Rounding may leave a cent or two
// unallocated; that residual is picked up by a later call once the balance
// grows.
func (s *GoalService) Rebalance(ctx context.Context, balance core.Money) (core.Money, error) {
	goals, err := s.storage.ListGoals(ctx)
	if err != nil {
		return core.Money{}, fmt.Errorf("rebalance: list goals: %w", err)
	}
	if len(goals) == 0 {
		return core.Money{}, nil
	}

	var totalAllocated, totalRemaining int64
	for _, g := range goals {
		totalAllocated += g.Current.Cents
		totalRemaining += g.Remaining().Cents
	}

	unallocated := balance.Cents - totalAllocated
	if unallocated <= 0 || totalRemaining <= 0 {
		return core.Money{}, nil
	}

	// Exact decimal division keeps proportions drift-free; results round
	// half-up to whole cents.
	budget := decimal.NewFromInt(unallocated)
	remTotal := decimal.NewFromInt(totalRemaining)

	var allocated int64
	for _, g := range goals {
		remaining := g.Remaining().Cents
		if remaining <= 0 {
			continue
		}

		share := budget.
			Mul(decimal.NewFromInt(remaining)).
			Div(remTotal).
			Round(0).
			IntPart()
		if share > remaining {
			share = remaining
		}
		// Never hand out more than the remaining budget
		if share > unallocated-allocated {
			share = unallocated - allocated
		}
		if share <= 0 {
			continue
		}

		if err := s.storage.UpdateGoalCurrent(ctx, g.ID, g.Current.Add(core.Money{Cents: share})); err != nil {
			return core.Money{Cents: allocated}, fmt.Errorf("rebalance: goal %d: %w", g.ID, err)
		}
		allocated += share

		slog.InfoContext(ctx, "Allocated to goal",
			"id", g.ID,
			"name", g.Name,
			"allocated_cents", share,
			"current_cents", g.Current.Cents+share,
			"target_cents", g.Target.Cents)
	}

	slog.InfoContext(ctx, "Rebalance complete",
		"balance_cents", balance.Cents,
		"unallocated_cents", unallocated,
		"allocated_cents", allocated,
		"goals", len(goals))

	return core.Money{Cents: allocated}, nil
}
