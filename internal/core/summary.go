package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string `json:"name"`
	Amount Money  `json:"amount"`
}

// MonthSummary is the computed overview for a single monthly bucket.
type MonthSummary struct {
	Year         int              `json:"year"`
	Month        int              `json:"month"` // 1-12
	Count        int              `json:"count"`
	TotalIncome  Money            `json:"totalIncome"`
	TotalExpense Money            `json:"totalExpense"`
	ByCategory   []CategoryAmount `json:"byCategory"`
}

// Summarize computes the overview for one bucket's transaction list.
// ByCategory covers expenses only, ordered by descending amount with ties
// broken by name so repeated runs produce identical output.
func Summarize(year, month int, list []Transaction) MonthSummary {
	s := MonthSummary{Year: year, Month: month, Count: len(list)}

	byCat := map[string]int64{}
	order := []string{}
	for _, t := range list {
		switch t.Type {
		case Income:
			s.TotalIncome.Cents += t.Amount.Cents
		case Expense:
			s.TotalExpense.Cents += t.Amount.Cents
			if _, seen := byCat[t.MainCategory]; !seen {
				order = append(order, t.MainCategory)
			}
			byCat[t.MainCategory] += t.Amount.Cents
		}
	}

	for _, name := range order {
		s.ByCategory = append(s.ByCategory, CategoryAmount{
			Name:   name,
			Amount: Money{Cents: byCat[name]},
		})
	}
	sort.Slice(s.ByCategory, func(i, j int) bool {
		a, b := s.ByCategory[i], s.ByCategory[j]
		if a.Amount.Cents != b.Amount.Cents {
			return a.Amount.Cents > b.Amount.Cents
		}
		return a.Name < b.Name
	})
	return s
}
