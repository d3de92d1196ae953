package api

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/Luismorlan/dept_ledger/model"
)

// Amount accepts a JSON number or a numeric string holding a positive integer.
type Amount uint64

func (a *Amount) UnmarshalJSON(data []byte) error {
	raw := bytes.TrimSpace(data)
	if bytes.Equal(raw, []byte("null")) {
		return model.Errorf(model.KindInvalidAmount, "amount is required")
	}
	text := string(raw)
	if strings.HasPrefix(text, `"`) {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return model.Errorf(model.KindInvalidAmount, "amount %s is not a number", text)
		}
		text = strings.TrimSpace(s)
	}
	v, err := parseAmount(text)
	if err != nil {
		return err
	}
	*a = Amount(v)
	return nil
}

func parseAmount(text string) (uint64, error) {
	if v, err := strconv.ParseUint(text, 10, 64); err == nil {
		if v == 0 {
			return 0, model.Errorf(model.KindInvalidAmount, "amount must be positive")
		}
		return v, nil
	}
	// Integral floats such as 2500.0 or 2.5e3 are accepted.
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, model.Errorf(model.KindInvalidAmount, "amount %q is not a number", text)
	}
	if f <= 0 || f != float64(uint64(f)) || f >= 1<<63 {
		return 0, model.Errorf(model.KindInvalidAmount, "amount %q must be a positive integer", text)
	}
	return uint64(f), nil
}

type transactionRequest struct {
	Sender   string  `json:"sender"`
	Receiver string  `json:"receiver"`
	Amount   *Amount `json:"amount"`
}

type branchTransactionRequest struct {
	Branch string  `json:"branch"`
	Vendor string  `json:"vendor"`
	Amount *Amount `json:"amount"`
}

// decode reads a JSON body. Amount errors keep their kind, anything else is invalid input.
func decode(body []byte, v interface{}) error {
	if err := json.Unmarshal(body, v); err != nil {
		if kind := model.KindOf(err); kind != "" {
			return err
		}
		return model.Errorf(model.KindInvalidInput, "malformed request body: %v", err)
	}
	return nil
}

func requireAmount(a *Amount) (uint64, error) {
	if a == nil {
		return 0, model.Errorf(model.KindInvalidAmount, "amount is required")
	}
	return uint64(*a), nil
}
