package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-propdash/pkg/listfilter"
	"github.com/goliatone/go-propdash/pkg/orders"
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true)
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#6b7280"))

	toneColors = map[listfilter.Tone]lipgloss.Color{
		listfilter.ToneSuccess: lipgloss.Color("#16a34a"),
		listfilter.ToneWarning: lipgloss.Color("#ca8a04"),
		listfilter.ToneInfo:    lipgloss.Color("#2563eb"),
		listfilter.ToneDanger:  lipgloss.Color("#dc2626"),
		listfilter.ToneNeutral: lipgloss.Color("#6b7280"),
	}
)

type listSpec struct {
	use, short, title string
	view              func() *listfilter.View
	history           bool
}

func newOrdersCmd(a *app) *cobra.Command {
	return newListCmd(a, listSpec{
		use:   "orders",
		short: "List current bookings",
		title: "Orders",
		view:  func() *listfilter.View { return orders.Sample().ActiveView() },
	})
}

func newHistoryCmd(a *app) *cobra.Command {
	return newListCmd(a, listSpec{
		use:     "history",
		short:   "List past bookings",
		title:   "Order History",
		view:    func() *listfilter.View { return orders.Sample().HistoryView() },
		history: true,
	})
}

func newListCmd(a *app, spec listSpec) *cobra.Command {
	var search, status string
	cmd := &cobra.Command{
		Use:   spec.use,
		Short: spec.short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := spec.view()
			if !view.KnownStatus(status) {
				a.logger.Warn("unknown status filter", zap.String("status", status), zap.Strings("known", view.Statuses()))
			}
			view.SetSearch(search)
			view.SetStatus(status)
			return renderRecords(cmd.OutOrStdout(), spec, view.Rows())
		},
	}
	cmd.Flags().StringVarP(&search, "query", "q", "", "Search customer, property or order id")
	cmd.Flags().StringVarP(&status, "status", "s", listfilter.StatusAll, "Filter by status")
	return cmd
}

func renderRecords(w io.Writer, spec listSpec, records []listfilter.Record) error {
	var b strings.Builder
	b.WriteString(titleStyle.Render(spec.title))
	b.WriteString("\n")

	if len(records) == 0 {
		b.WriteString(mutedStyle.Render("No orders found"))
		b.WriteString("\n")
		_, err := io.WriteString(w, b.String())
		return err
	}

	headers := []string{"Order", "Customer", "Property", "Room", "Check-in"}
	if spec.history {
		headers = append(headers, "Check-out")
	}
	headers = append(headers, "Amount", "Status")

	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		row := []string{rec.ID, rec.Customer, rec.Property, rec.Room, rec.Date}
		if spec.history {
			row = append(row, rec.EndDate)
		}
		row = append(row, rec.Amount, listfilter.StatusLabel(rec.Status))
		rows = append(rows, row)
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		widths[i] += 2
	}

	sep := mutedStyle.Render("|")
	for i, h := range headers {
		b.WriteString(headerStyle.Width(widths[i]).Render(h))
		if i < len(headers)-1 {
			b.WriteString(sep)
		}
	}
	b.WriteString("\n")

	for ri, row := range rows {
		tone := listfilter.StatusTone(records[ri].Status)
		for i, cell := range row {
			style := cellStyle.Width(widths[i])
			if i == len(row)-1 {
				style = style.Foreground(toneColors[tone])
			}
			b.WriteString(style.Render(cell))
			if i < len(row)-1 {
				b.WriteString(sep)
			}
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("%d order(s)", len(records))))

	_, err := io.WriteString(w, b.String())
	return err
}
