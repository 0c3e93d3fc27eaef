package webhook

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// productID tolerates Hotmart sending product ids as either a JSON
// number or a string. A missing or null id normalizes to "0", matching
// how records have historically been keyed.
type productID string

func (p *productID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*p = "0"
		return nil
	}

	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = productID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("product id is neither string nor number: %w", err)
	}
	*p = productID(n.String())
	return nil
}

func (p productID) String() string {
	if p == "" {
		return "0"
	}
	return string(p)
}
