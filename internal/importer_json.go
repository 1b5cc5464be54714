package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// jsonRecord is one subscription in a JSON import. It accepts the records
// written by the json exporter as well as hand-written files:
//
//	{
//	  "subscriptions": [
//	    {"name": "Netflix", "amount": 15.99, "currency": "USD",
//	     "billingFrequency": "monthly", "nextPaymentDate": "2025-01-15",
//	     "category": "Entertainment"}
//	  ]
//	}
//
// A bare top-level array of records is accepted too.
type jsonRecord struct {
	Name             string  `json:"name"`
	Amount           float64 `json:"amount"`
	Currency         string  `json:"currency"`
	BillingFrequency string  `json:"billingFrequency"`
	NextPaymentDate  string  `json:"nextPaymentDate"`
	Category         string  `json:"category"`
	Description      string  `json:"description"`
	IsActive         *bool   `json:"isActive"` // defaults to true
}

type jsonImportFile struct {
	Subscriptions []jsonRecord `json:"subscriptions"`
}

// ImportJSON reads a JSON file of subscription records.
func ImportJSON(path string) ([]SubscriptionDraft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading file: %w", err)
	}

	var records []jsonRecord
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		err = json.Unmarshal(trimmed, &records)
	} else {
		var file jsonImportFile
		err = json.Unmarshal(data, &file)
		records = file.Subscriptions
	}
	if err != nil {
		return nil, fmt.Errorf("parsing JSON: %w", err)
	}

	drafts := make([]SubscriptionDraft, 0, len(records))
	for i, r := range records {
		d := SubscriptionDraft{
			Name:             r.Name,
			Amount:           r.Amount,
			Currency:         r.Currency,
			BillingFrequency: BillingFrequency(r.BillingFrequency),
			Category:         r.Category,
			Description:      r.Description,
			IsActive:         r.IsActive == nil || *r.IsActive,
		}
		if d.Currency == "" {
			d.Currency = "USD"
		}
		if d.BillingFrequency == "" {
			d.BillingFrequency = Monthly
		}
		if r.NextPaymentDate != "" {
			if d.NextPaymentDate, err = parseImportDate(r.NextPaymentDate); err != nil {
				return nil, fmt.Errorf("record %d: %w", i+1, err)
			}
		}
		drafts = append(drafts, d)
	}
	return drafts, nil
}

func init() {
	RegisterImporter("json", ImporterFunc(ImportJSON))
}
