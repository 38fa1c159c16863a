package memo

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Envelope mirrors the wire shape returned by the extraction model:
// a single "cashMemo" object wrapping the record.
type Envelope struct {
	CashMemo *CashMemo `json:"cashMemo"`
}

// CashMemo is the canonical record extracted from a memo image. Every
// nested block is a value struct so absent fields decode to zero values;
// consumers never need a nil check below the root.
type CashMemo struct {
	Number   string     `json:"number"`
	Date     string     `json:"date"`
	Shop     Shop       `json:"shop"`
	Customer Customer   `json:"customer"`
	Products []LineItem `json:"products"`
	Totals   Totals     `json:"totals"`
	InWords  string     `json:"inWords"`
	Footer   Footer     `json:"footer"`
	Language string     `json:"language"`
}

// Shop identifies the issuing business.
type Shop struct {
	Name    string `json:"name"`
	Tagline string `json:"tagline"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Cell    string `json:"cell"`
}

// Customer identifies the buyer.
type Customer struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Number  string `json:"number"`
}

// LineItem is one product row on the memo. Row order is significant and
// matches the physical document.
type LineItem struct {
	SlNo        Serial `json:"slNo"`
	Description string `json:"description"`
	Size        string `json:"size"`
	Quantity    Number `json:"quantity"`
	Rate        Number `json:"rate"`
	Amount      Number `json:"amount"`
	Discount    Number `json:"discount"`
}

// Totals carries the money summary block.
type Totals struct {
	Total    Number `json:"total"`
	Advance  Number `json:"advance"`
	Balance  Number `json:"balance"`
	Discount Number `json:"discount"`
}

// Footer carries the free-text notes at the bottom of the memo.
type Footer struct {
	Delivery   string `json:"delivery"`
	Note       string `json:"note"`
	ReceivedBy string `json:"receivedBy"`
	For        string `json:"for"`
}

// Number is a float64 that tolerates the model returning amounts as JSON
// numbers, numeric strings, null, or garbage. Anything unparseable decodes
// to zero rather than failing the whole record.
type Number float64

func (n *Number) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*n = 0
		return nil
	}
	if s[0] == '"' {
		var err error
		if s, err = strconv.Unquote(s); err != nil {
			*n = 0
			return nil
		}
		s = strings.TrimSpace(s)
	}
	if s == "" {
		*n = 0
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		*n = 0
		return nil
	}
	// ParseFloat accepts "NaN" and "Inf", neither of which can be
	// re-encoded as a JSON number.
	if math.IsNaN(f) || math.IsInf(f, 0) {
		*n = 0
		return nil
	}
	*n = Number(f)
	return nil
}

func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(strconv.FormatFloat(float64(n), 'f', -1, 64)), nil
}

// Float returns the plain float64 value.
func (n Number) Float() float64 { return float64(n) }

// Fixed2 renders the value with exactly two decimal places.
func (n Number) Fixed2() string {
	return strconv.FormatFloat(float64(n), 'f', 2, 64)
}

// Serial is a display-only value that may arrive as a JSON string or
// number (serial numbers frequently do both). It round-trips numbers as
// numbers.
type Serial string

func (l *Serial) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		*l = ""
		return nil
	}
	if s[0] == '"' {
		var v string
		if err := json.Unmarshal(b, &v); err != nil {
			*l = ""
			return nil
		}
		*l = Serial(v)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		*l = ""
		return nil
	}
	*l = Serial(strconv.FormatFloat(f, 'f', -1, 64))
	return nil
}

func (l Serial) MarshalJSON() ([]byte, error) {
	if f, err := strconv.ParseFloat(string(l), 64); err == nil {
		return []byte(strconv.FormatFloat(f, 'f', -1, 64)), nil
	}
	return json.Marshal(string(l))
}

func (l Serial) String() string { return string(l) }
