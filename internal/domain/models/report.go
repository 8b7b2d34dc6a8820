package models

import "time"

// Summary aggregates operations over a date window. Money and weights are
// kept as decimal strings so the MongoDB archive stays exact.
type Summary struct {
	From              time.Time `bson:"from" json:"from"`
	To                time.Time `bson:"to" json:"to"`
	CashIn            string    `bson:"cash_in" json:"cash_in"`
	CashOut           string    `bson:"cash_out" json:"cash_out"`
	CashBalance       string    `bson:"cash_balance" json:"cash_balance"`
	PurchasedKilos    string    `bson:"purchased_kilos" json:"purchased_kilos"`
	PurchaseCost      string    `bson:"purchase_cost" json:"purchase_cost"`
	KilosIn           string    `bson:"kilos_in" json:"kilos_in"`
	KilosOut          string    `bson:"kilos_out" json:"kilos_out"`
	Surplus           string    `bson:"surplus" json:"surplus"`
	DeliveredKilos    string    `bson:"delivered_kilos" json:"delivered_kilos"`
	OutstandingAmount string    `bson:"outstanding_amount" json:"outstanding_amount"`
	Expenses          string    `bson:"expenses" json:"expenses"`
	Salaries          string    `bson:"salaries" json:"salaries"`
	CreatedAt         time.Time `bson:"created_at" json:"created_at"`
}
