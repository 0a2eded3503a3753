package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SscSPs/statement_review_app/internal/dto"
)

// editFields maps the short names accepted on the command line to request fields.
var editFields = map[string]string{
	"date":       "transactionDate",
	"time":       "transactionTime",
	"security":   "securityIdentifier",
	"name":       "displayName",
	"type":       "transactionType",
	"quantity":   "quantity",
	"qty":        "quantity",
	"price":      "price",
	"amount":     "amount",
	"commission": "commission",
	"tax":        "tax",
	"fx":         "exchangeRate",
	"currency":   "currencyCode",
	"notes":      "reviewNotes",
}

// parseEdit turns "field=value" arguments into an update request.
// "clear=commission,tax" nulls out optional fields.
func parseEdit(args []string) (dto.UpdatePendingRequest, error) {
	var req dto.UpdatePendingRequest
	body := map[string]any{}
	var clear []string
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return req, fmt.Errorf("expected field=value, got %q", arg)
		}
		key = strings.ToLower(strings.TrimSpace(key))
		if key == "clear" {
			for _, f := range strings.Split(value, ",") {
				name, known := editFields[strings.TrimSpace(f)]
				if !known {
					return req, fmt.Errorf("unknown field %q", f)
				}
				clear = append(clear, name)
			}
			continue
		}
		name, known := editFields[key]
		if !known {
			return req, fmt.Errorf("unknown field %q", key)
		}
		if name == "transactionType" || name == "currencyCode" {
			value = strings.ToUpper(value)
		}
		body[name] = value
	}
	if len(clear) > 0 {
		body["clearFields"] = clear
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return req, err
	}
	if err := json.Unmarshal(raw, &req); err != nil {
		return req, fmt.Errorf("invalid value: %w", err)
	}
	if req.IsEmpty() {
		return req, fmt.Errorf("nothing to edit")
	}
	return req, nil
}
