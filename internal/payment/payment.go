package payment

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var ErrInvalidDate = errors.New("date must be an ISO 8601 timestamp, a YYYY-MM-DD day or epoch milliseconds")

// Payment is a write-once record of a payment the storefront reports after
// the client confirmed an intent. Nothing checks it against the provider.
// Keys other than the typed ones (cart lines, email and so on) are kept in
// Extra and stored at the top level of the document.
type Payment struct {
	ID            primitive.ObjectID
	PayerID       string
	PayerName     string
	Amount        float64
	TransactionID string
	Date          time.Time
	Extra         map[string]any
}

// dateLayouts are tried in order for string dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
	time.RFC1123Z,
	time.RFC1123,
}

func parseDate(v any) (time.Time, error) {
	switch t := v.(type) {
	case nil:
		return time.Time{}, nil
	case float64:
		return time.UnixMilli(int64(t)).UTC(), nil
	case string:
		for _, layout := range dateLayouts {
			if d, err := time.Parse(layout, t); err == nil {
				return d, nil
			}
		}
	}
	return time.Time{}, ErrInvalidDate
}

// UnmarshalJSON keeps every key. payerId, payerName, amount and
// transactionId are typed only when they carry the usual JSON type.
func (p *Payment) UnmarshalJSON(b []byte) error {
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return err
	}
	var np Payment
	extra := map[string]any{}
	for k, v := range m {
		ok := true
		switch k {
		case "_id":
			continue
		case "payerId":
			np.PayerID, ok = v.(string)
		case "payerName":
			np.PayerName, ok = v.(string)
		case "transactionId":
			np.TransactionID, ok = v.(string)
		case "amount":
			np.Amount, ok = v.(float64)
		case "date":
			d, err := parseDate(v)
			if err != nil {
				return fmt.Errorf("%w (got %v)", err, v)
			}
			np.Date = d
		default:
			ok = false
		}
		if !ok {
			extra[k] = v
		}
	}
	if len(extra) > 0 {
		np.Extra = extra
	}
	*p = np
	return nil
}

func (p Payment) doc() bson.M {
	d := make(bson.M, len(p.Extra)+6)
	for k, v := range p.Extra {
		d[k] = v
	}
	if !p.ID.IsZero() {
		d["_id"] = p.ID
	}
	if p.PayerID != "" {
		d["payerId"] = p.PayerID
	}
	if p.PayerName != "" {
		d["payerName"] = p.PayerName
	}
	if _, raw := p.Extra["amount"]; !raw {
		d["amount"] = p.Amount
	}
	if p.TransactionID != "" {
		d["transactionId"] = p.TransactionID
	}
	if !p.Date.IsZero() {
		d["date"] = p.Date
	}
	return d
}

func (p Payment) MarshalJSON() ([]byte, error) {
	d := p.doc()
	if !p.ID.IsZero() {
		d["_id"] = p.ID.Hex()
	}
	return json.Marshal(d)
}

func (p Payment) MarshalBSON() ([]byte, error) {
	return bson.Marshal(p.doc())
}

// PayerSummary is one row of GET /users-who-paid.
type PayerSummary struct {
	Payer           string    `json:"payer" bson:"_id"`
	PayerName       string    `json:"payerName,omitempty" bson:"payerName,omitempty"`
	TotalAmount     float64   `json:"totalAmount" bson:"totalAmount"`
	PaymentCount    int64     `json:"paymentCount" bson:"paymentCount"`
	LastPaymentDate time.Time `json:"lastPaymentDate" bson:"lastPaymentDate"`
}
