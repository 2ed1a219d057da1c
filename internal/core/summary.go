package core

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// Statistics is the aggregate view over all recorded transactions.
type Statistics struct {
	TotalIncome   Money
	TotalExpenses Money
	ByCategory    []CategoryAmount
}

// Balance is total income minus total expenses. It may be negative.
func (s Statistics) Balance() Money {
	return s.TotalIncome.Sub(s.TotalExpenses)
}
