package dashboard

import (
	"bytes"
	"encoding/json"

	"github.com/shopspring/decimal"

	"expensedash/internal/core"
)

// Entry is one key/value pair of a summary mapping, in body order.
type Entry struct {
	Key   string
	Value any
}

// DecodeEntries reads a JSON object into its entries, keeping the order the
// keys appear in the body. A repeated key keeps its first position and takes
// the last value. Anything that is not a well-formed object yields nil.
func DecodeEntries(raw []byte) []Entry {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil || tok != json.Delim('{') {
		return nil
	}

	var out []Entry
	index := map[string]int{}
	for dec.More() {
		kt, err := dec.Token()
		if err != nil {
			return nil
		}
		key, ok := kt.(string)
		if !ok {
			return nil
		}
		var v any
		if err := dec.Decode(&v); err != nil {
			return nil
		}
		if i, seen := index[key]; seen {
			out[i].Value = v
			continue
		}
		index[key] = len(out)
		out = append(out, Entry{Key: key, Value: v})
	}
	if _, err := dec.Token(); err != nil {
		return nil
	}
	return out
}

// ProgressTotal sums the "total" field of every record in a progress body.
// The body is either a page object {"content": [...]} or a bare array.
// Missing, malformed or non-numeric parts contribute zero.
func ProgressTotal(raw []byte) decimal.Decimal {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var body any
	if err := dec.Decode(&body); err != nil {
		return decimal.Zero
	}

	var content []any
	switch b := body.(type) {
	case []any:
		content = b
	case map[string]any:
		content, _ = b["content"].([]any)
	}

	total := decimal.Zero
	for _, item := range content {
		rec, ok := item.(map[string]any)
		if !ok {
			continue
		}
		total = total.Add(core.Amount(rec["total"]))
	}
	return total
}
