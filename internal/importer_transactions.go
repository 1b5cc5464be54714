package internal

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// TransactionsFormat is a bank statement in a minimal JSON shape. Recurring
// monthly payments found in it are imported as subscriptions.
// Example:
//
//	{
//	  "currency": "SEK",
//	  "transactions": [
//	    {"date": "2025-01-15", "text": "Netflix", "amount": -99.00},
//	    {"date": "2025-02-15", "text": "Netflix", "amount": -99.00}
//	  ]
//	}
type TransactionsFormat struct {
	Currency     string                 `json:"currency,omitempty"`
	Tolerance    float64                `json:"tolerance,omitempty"`
	Transactions []TransactionsFormatTx `json:"transactions"`
}

type TransactionsFormatTx struct {
	Date   string  `json:"date"`   // YYYY-MM-DD format
	Text   string  `json:"text"`   // Payee/description
	Amount float64 `json:"amount"` // Negative for expenses
}

// ParseTransactionsJSON reads the statement file without detection.
func ParseTransactionsJSON(path string) (TransactionsFormat, []Transaction, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TransactionsFormat{}, nil, fmt.Errorf("reading file: %w", err)
	}

	var doc TransactionsFormat
	if err := json.Unmarshal(data, &doc); err != nil {
		return TransactionsFormat{}, nil, fmt.Errorf("parsing JSON: %w", err)
	}

	txs := make([]Transaction, 0, len(doc.Transactions))
	for _, tx := range doc.Transactions {
		date, err := time.Parse("2006-01-02", tx.Date)
		if err != nil {
			return TransactionsFormat{}, nil, fmt.Errorf("parsing date %q: %w", tx.Date, err)
		}
		txs = append(txs, Transaction{Date: date, Text: tx.Text, Amount: tx.Amount})
	}
	return doc, txs, nil
}

// ImportTransactionsJSON detects recurring payments in a statement file.
func ImportTransactionsJSON(path string) ([]SubscriptionDraft, error) {
	doc, txs, err := ParseTransactionsJSON(path)
	if err != nil {
		return nil, err
	}
	currency := doc.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	tolerance := doc.Tolerance
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}

	var drafts []SubscriptionDraft
	for _, r := range DetectRecurring(txs, tolerance) {
		drafts = append(drafts, r.Draft(currency))
	}
	return drafts, nil
}

func init() {
	RegisterImporter("transactions", ImporterFunc(ImportTransactionsJSON))
}
