package core

// DefaultUsers is the fixed payer set a fresh ledger starts with.
var DefaultUsers = []string{"shared", "alex", "sam"}

// DefaultConfig returns the baseline reference data used when no config
// has been saved yet. The config store never substitutes this itself;
// callers fall back to it when a load reports absent.
func DefaultConfig() Config {
	return Config{
		PaymentMethods: PaymentMethods{
			CreditCards: []PaymentMethod{
				{ID: "visa_main_alex", Label: "Visa Rewards (alex)", Type: PayCredit},
				{ID: "amex_gold_sam", Label: "Amex Gold (sam)", Type: PayCredit},
				{ID: "master_shared", Label: "Mastercard (shared)", Type: PayCredit},
			},
			CheckCards: []PaymentMethod{
				{ID: "debit_shared", Label: "Joint debit card (shared)", Type: PayCheck},
				{ID: "debit_sam", Label: "Everyday debit (sam)", Type: PayCheck},
			},
			Accounts: []PaymentMethod{
				{ID: "acct_salary", Label: "Salary account", Type: PayAccount},
				{ID: "acct_living", Label: "Living expenses account", Type: PayAccount},
				{ID: "acct_emergency", Label: "Emergency fund", Type: PayAccount},
			},
			Etc: []PaymentMethod{
				{ID: "cash", Label: "Cash", Type: PayCash},
				{ID: "mobile_pay", Label: "Mobile pay", Type: PayPay},
			},
		},
		Accounts: []Account{
			{No: 1, AccountNo: "123-456-7890", Name: "Salary", Bank: "First National", Note: "payroll deposits and fixed outgoings", Active: true},
			{No: 2, AccountNo: "3333-01-2345678", Name: "Living expenses", Bank: "Metro Bank", Note: "shared household spending", Active: true},
			{No: 3, AccountNo: "1000-00-000000", Name: "Emergency fund", Bank: "Metro Bank", Note: "irregular expenses buffer", Active: true},
		},
		IncomeCategories: Taxonomy{
			"Salary": {"Base pay", "Bonus", "Overtime"},
			"Side":   {"Interest", "Dividends", "Resale", "Cashback"},
			"Other":  {"Allowance", "Carry-over", "Misc income"},
		},
		ExpenseCategories: Taxonomy{
			"Food":      {"Groceries", "Dining out", "Cafe", "Delivery"},
			"Housing":   {"Rent", "Maintenance", "Gas/Water", "Electricity", "Internet/TV"},
			"Living":    {"Household goods", "Furniture/Appliances", "Cleaning", "Sundries"},
			"Transport": {"Public transit", "Taxi", "Fuel", "Tolls", "Car maintenance"},
			"Telecom":   {"Mobile plan", "Subscriptions"},
			"Health":    {"Clinic/Pharmacy", "Gym", "Supplements"},
			"Shopping":  {"Clothing", "Cosmetics", "Hobby"},
			"Leisure":   {"Movies/Shows", "Travel", "Books"},
			"Education": {"Self-development", "Courses"},
			"Occasions": {"Weddings/Funerals", "Gifts", "Allowance"},
			"Finance":   {"Insurance", "Loan interest", "Savings/Investments"},
			"Misc":      {"Other", "Unknown"},
		},
	}
}
