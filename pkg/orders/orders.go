// Package orders holds the dashboard's sample bookings and the property
// choices offered to room intake, and builds the filtered list views over
// them.
package orders

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-propdash/pkg/forms"
	"github.com/goliatone/go-propdash/pkg/listfilter"
)

//go:embed data/orders.yaml
var sampleData []byte

// SearchFields are the record fields matched by free-text search.
var SearchFields = []string{listfilter.FieldCustomer, listfilter.FieldProperty, listfilter.FieldID}

// Property is a property a room can be attached to.
type Property struct {
	ID   string `yaml:"id" json:"id"`
	Name string `yaml:"name" json:"name"`
}

// RecordSet is a list of bookings with the statuses they may carry.
type RecordSet struct {
	Statuses []string            `yaml:"statuses"`
	Records  []listfilter.Record `yaml:"records"`
}

// Catalog is a decoded data set.
type Catalog struct {
	Active     RecordSet  `yaml:"active"`
	History    RecordSet  `yaml:"history"`
	Properties []Property `yaml:"properties"`
	Dashboard  Summary    `yaml:"dashboard"`
}

// Parse decodes a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("orders: decode catalog: %w", err)
	}
	return &cat, nil
}

var (
	sampleOnce sync.Once
	sample     *Catalog
	sampleErr  error
)

// Sample returns the embedded catalog. It panics if the embedded document is
// malformed, which is a build defect.
func Sample() *Catalog {
	sampleOnce.Do(func() {
		sample, sampleErr = Parse(sampleData)
	})
	if sampleErr != nil {
		panic(sampleErr)
	}
	return sample
}

// ActiveRecords returns a copy of the current bookings.
func (c *Catalog) ActiveRecords() []listfilter.Record {
	return append([]listfilter.Record(nil), c.Active.Records...)
}

// HistoryRecords returns a copy of the past bookings.
func (c *Catalog) HistoryRecords() []listfilter.Record {
	return append([]listfilter.Record(nil), c.History.Records...)
}

// ActiveStatuses lists the statuses a current booking can have.
func (c *Catalog) ActiveStatuses() []string {
	return append([]string(nil), c.Active.Statuses...)
}

// HistoryStatuses lists the statuses a past booking can have.
func (c *Catalog) HistoryStatuses() []string {
	return append([]string(nil), c.History.Statuses...)
}

// PropertyList returns a copy of the properties.
func (c *Catalog) PropertyList() []Property {
	return append([]Property(nil), c.Properties...)
}

// PropertyOptions maps the properties onto form options.
func (c *Catalog) PropertyOptions() []forms.Option {
	out := make([]forms.Option, 0, len(c.Properties))
	for _, p := range c.Properties {
		out = append(out, forms.Option{Value: p.ID, Label: p.Name})
	}
	return out
}

// ActiveView builds the current-orders list view.
func (c *Catalog) ActiveView() *listfilter.View {
	return listfilter.NewView(c.Active.Records, c.Active.Statuses, SearchFields...)
}

// HistoryView builds the order-history list view.
func (c *Catalog) HistoryView() *listfilter.View {
	return listfilter.NewView(c.History.Records, c.History.Statuses, SearchFields...)
}

// Active returns the sample current bookings.
func Active() []listfilter.Record { return Sample().ActiveRecords() }

// History returns the sample past bookings.
func History() []listfilter.Record { return Sample().HistoryRecords() }

// Properties returns the sample properties.
func Properties() []Property { return Sample().PropertyList() }

// PropertyOptions returns the sample properties as form options.
func PropertyOptions() []forms.Option { return Sample().PropertyOptions() }

// ActiveView builds a view over the sample current bookings.
func ActiveView() *listfilter.View { return Sample().ActiveView() }

// HistoryView builds a view over the sample past bookings.
func HistoryView() *listfilter.View { return Sample().HistoryView() }
