// Package services provides business logic and orchestration over the store.
//
// This file implements the Strategy Pattern for advancing a scheduled
// transaction's next due date. Each recurring frequency has its own advancer;
// one-time entries have none because they are retired instead of advanced.
package services

import (
	"fmt"

	"fintrack/internal/core"
)

// DateAdvancer is the strategy interface for rolling a scheduled
// transaction's due date forward by one period.
type DateAdvancer interface {
	// Next returns the due date one period after d.
	Next(d core.Date) core.Date
}

// WeeklyAdvancer rolls the date forward by 7 days.
type WeeklyAdvancer struct{}

func (WeeklyAdvancer) Next(d core.Date) core.Date { return d.AddDays(7) }

// MonthlyAdvancer rolls the date forward by a fixed 30 days. This is a
// documented approximation, not day-of-month aware.
type MonthlyAdvancer struct{}

func (MonthlyAdvancer) Next(d core.Date) core.Date { return d.AddDays(30) }

// YearlyAdvancer rolls the date forward by a fixed 365 days, leap years
// ignored.
type YearlyAdvancer struct{}

func (YearlyAdvancer) Next(d core.Date) core.Date { return d.AddDays(365) }

// advanceStrategies maps recurring frequencies to their advancers.
var advanceStrategies = map[core.Frequency]DateAdvancer{
	core.Weekly:  WeeklyAdvancer{},
	core.Monthly: MonthlyAdvancer{},
	core.Yearly:  YearlyAdvancer{},
}

// GetDateAdvancer returns the advancer for a recurring frequency. One-time
// and unknown frequencies return an error.
func GetDateAdvancer(frequency core.Frequency) (DateAdvancer, error) {
	advancer, ok := advanceStrategies[frequency]
	if !ok {
		return nil, fmt.Errorf("no advancer for frequency: %s", frequency)
	}
	return advancer, nil
}
