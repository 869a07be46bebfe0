package query

import (
	"reflect"
	"testing"

	"moneybook/internal/core"
)

func tx(id string, day int, user string, typ core.TransactionType, category, merchant, detail string, cents int64) core.Transaction {
	return core.Transaction{
		ID:           id,
		Date:         core.NewDate(2025, 3, day),
		User:         user,
		Type:         typ,
		MainCategory: category,
		Merchant:     merchant,
		Detail:       detail,
		Amount:       core.Money{Cents: cents},
	}
}

func fixture() []core.Transaction {
	return []core.Transaction{
		tx("tx_1", 1, "alex", core.Expense, "Food", "Corner Market", "weekly groceries", 4250),
		tx("tx_2", 5, "sam", core.Expense, "Transport", "Metro", "monthly pass", 6000),
		tx("tx_3", 10, "alex", core.Income, "Salary", "", "March payroll", 300_000),
		tx("tx_4", 20, "shared", core.Expense, "Food", "Pizzeria Roma", "dinner", 5200),
	}
}

func ids(list []core.Transaction) []string {
	out := make([]string, len(list))
	for i, t := range list {
		out[i] = t.ID
	}
	return out
}

func TestFilter_Apply(t *testing.T) {
	min := int64(5000)
	max := int64(6000)

	tests := []struct {
		name   string
		filter Filter
		want   []string
	}{
		{name: "empty filter matches all", filter: Filter{}, want: []string{"tx_1", "tx_2", "tx_3", "tx_4"}},
		{name: "by user", filter: Filter{User: "alex"}, want: []string{"tx_1", "tx_3"}},
		{name: "by type", filter: Filter{Type: core.Income}, want: []string{"tx_3"}},
		{name: "by category", filter: Filter{MainCategory: "Food"}, want: []string{"tx_1", "tx_4"}},
		{name: "text matches merchant case-insensitively", filter: Filter{Text: "corner"}, want: []string{"tx_1"}},
		{name: "text matches detail", filter: Filter{Text: "PAYROLL"}, want: []string{"tx_3"}},
		{name: "text matches merchant or detail", filter: Filter{Text: "ma"}, want: []string{"tx_1", "tx_3", "tx_4"}},
		{name: "min amount inclusive", filter: Filter{MinAmount: &min}, want: []string{"tx_2", "tx_3", "tx_4"}},
		{name: "max amount inclusive", filter: Filter{MaxAmount: &max}, want: []string{"tx_1", "tx_2", "tx_4"}},
		{name: "amount range", filter: Filter{MinAmount: &min, MaxAmount: &max}, want: []string{"tx_2", "tx_4"}},
		{name: "criteria are ANDed", filter: Filter{User: "alex", MainCategory: "Food"}, want: []string{"tx_1"}},
		{name: "nothing matches", filter: Filter{User: "nobody"}, want: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(tt.filter.Apply(fixture()))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_Idempotent(t *testing.T) {
	filter := Filter{User: "alex"}
	once := filter.Apply(fixture())
	twice := filter.Apply(once)
	if !reflect.DeepEqual(ids(once), ids(twice)) {
		t.Errorf("second application changed the result: %v vs %v", ids(once), ids(twice))
	}
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	input := fixture()
	Filter{User: "sam"}.Apply(input)
	if !reflect.DeepEqual(ids(input), []string{"tx_1", "tx_2", "tx_3", "tx_4"}) {
		t.Errorf("input reordered: %v", ids(input))
	}
}

func TestSort_DateOrders(t *testing.T) {
	list := fixture()

	desc := Sort(list, DateDesc)
	if got := ids(desc); !reflect.DeepEqual(got, []string{"tx_4", "tx_3", "tx_2", "tx_1"}) {
		t.Errorf("date-desc got %v", got)
	}
	asc := Sort(list, DateAsc)
	if got := ids(asc); !reflect.DeepEqual(got, []string{"tx_1", "tx_2", "tx_3", "tx_4"}) {
		t.Errorf("date-asc got %v", got)
	}
}

func TestSort_DateTieBreaksByID(t *testing.T) {
	list := []core.Transaction{
		tx("tx_1", 15, "alex", core.Expense, "Food", "", "", 100),
		tx("tx_2", 15, "alex", core.Expense, "Food", "", "", 200),
	}

	if got := ids(Sort(list, DateDesc)); !reflect.DeepEqual(got, []string{"tx_2", "tx_1"}) {
		t.Errorf("date-desc same-day got %v, want higher id first", got)
	}
	if got := ids(Sort(list, DateAsc)); !reflect.DeepEqual(got, []string{"tx_1", "tx_2"}) {
		t.Errorf("date-asc same-day got %v, want lower id first", got)
	}
}

func TestSort_AmountKeepsInputOrderOnTies(t *testing.T) {
	list := []core.Transaction{
		tx("a", 1, "alex", core.Expense, "Food", "", "", 500),
		tx("b", 2, "alex", core.Expense, "Food", "", "", 500),
		tx("c", 3, "alex", core.Expense, "Food", "", "", 900),
	}

	if got := ids(Sort(list, AmountDesc)); !reflect.DeepEqual(got, []string{"c", "a", "b"}) {
		t.Errorf("amount-desc got %v, want equal amounts in input order", got)
	}
	if got := ids(Sort(list, AmountAsc)); !reflect.DeepEqual(got, []string{"a", "b", "c"}) {
		t.Errorf("amount-asc got %v, want equal amounts in input order", got)
	}
}

func TestSort_DoesNotMutateInput(t *testing.T) {
	list := fixture()
	Sort(list, DateDesc)
	if got := ids(list); !reflect.DeepEqual(got, []string{"tx_1", "tx_2", "tx_3", "tx_4"}) {
		t.Errorf("input reordered: %v", got)
	}
}

func TestOrder_IsValid(t *testing.T) {
	for _, o := range []Order{DateDesc, DateAsc, AmountDesc, AmountAsc} {
		if !o.IsValid() {
			t.Errorf("%s should be valid", o)
		}
	}
	if Order("merchant-asc").IsValid() {
		t.Error("unknown order should be invalid")
	}
	if Order("").IsValid() {
		t.Error("empty order should be invalid")
	}
}
