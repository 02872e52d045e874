package listfilter_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-propdash/pkg/listfilter"
)

func TestView_SettersDriveRows(t *testing.T) {
	view := listfilter.NewView(sampleRecords(), []string{"confirmed", "pending", "cancelled"},
		listfilter.FieldCustomer, listfilter.FieldProperty, listfilter.FieldID)

	if view.Len() != 2 || len(view.Rows()) != 2 {
		t.Fatalf("expected all rows initially")
	}

	view.SetSearch("downtown")
	if diff := cmp.Diff([]string{"ORD-1235"}, ids(view.Rows())); diff != "" {
		t.Fatalf("ids mismatch (-want +got):\n%s", diff)
	}

	view.SetStatus("confirmed")
	if !view.Empty() {
		t.Fatalf("expected no rows for downtown+confirmed, got %v", ids(view.Rows()))
	}

	view.SetSearch("")
	view.SetStatus("")
	if got := view.Query(); got.Status != listfilter.StatusAll || got.Text != "" {
		t.Fatalf("unexpected reset query: %#v", got)
	}
}

func TestView_UnknownStatusFailsClosed(t *testing.T) {
	records := append(sampleRecords(), listfilter.Record{ID: "ORD-9", Status: "archived"})
	view := listfilter.NewView(records, []string{"confirmed", "pending", "cancelled"}, listfilter.FieldID)

	view.SetStatus("archived")
	if rows := view.Rows(); rows == nil || len(rows) != 0 {
		t.Fatalf("expected empty rows for unknown status, got %#v", rows)
	}
	if view.KnownStatus("archived") {
		t.Fatalf("expected archived to be unknown")
	}
}

func TestView_DoesNotShareInput(t *testing.T) {
	records := sampleRecords()
	view := listfilter.NewView(records, nil, listfilter.FieldCustomer)
	records[0].Customer = "Someone Else"

	view.SetSearch("john smith")
	if len(view.Rows()) != 1 {
		t.Fatalf("expected view to keep its own copy")
	}
}
