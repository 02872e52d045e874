package listfilter

import "strings"

// Record is one order row. EndDate is only populated for history rows.
type Record struct {
	ID       string `json:"id" yaml:"id"`
	Customer string `json:"customer" yaml:"customer"`
	Property string `json:"property" yaml:"property"`
	Room     string `json:"room" yaml:"room"`
	Date     string `json:"date" yaml:"date"`
	EndDate  string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	Amount   string `json:"amount" yaml:"amount"`
	Status   string `json:"status" yaml:"status"`
}

// Searchable field names accepted by Filter.
const (
	FieldID       = "id"
	FieldCustomer = "customer"
	FieldProperty = "property"
	FieldRoom     = "room"
	FieldDate     = "date"
	FieldEndDate  = "endDate"
	FieldAmount   = "amount"
	FieldStatus   = "status"
)

// Field returns the value of a named attribute. Unknown names report false.
func (r Record) Field(name string) (string, bool) {
	switch strings.TrimSpace(name) {
	case FieldID:
		return r.ID, true
	case FieldCustomer:
		return r.Customer, true
	case FieldProperty:
		return r.Property, true
	case FieldRoom:
		return r.Room, true
	case FieldDate:
		return r.Date, true
	case FieldEndDate:
		return r.EndDate, true
	case FieldAmount:
		return r.Amount, true
	case FieldStatus:
		return r.Status, true
	default:
		return "", false
	}
}
