package orders

// Metric is one headline figure on the dashboard.
type Metric struct {
	ID     string `yaml:"id" json:"id"`
	Title  string `yaml:"title" json:"title"`
	Value  string `yaml:"value" json:"value"`
	Change string `yaml:"change" json:"change"`
}

// RecentBooking is a row of the recent bookings card.
type RecentBooking struct {
	ID     string `yaml:"id" json:"id"`
	Room   string `yaml:"room" json:"room"`
	Date   string `yaml:"date" json:"date"`
	Amount string `yaml:"amount" json:"amount"`
}

// PropertyOccupancy is the occupancy of one property, in percent.
type PropertyOccupancy struct {
	Name    string `yaml:"name" json:"name"`
	Percent int    `yaml:"percent" json:"percent"`
}

// Occupancy is the overall rate plus the per-property breakdown.
type Occupancy struct {
	Overall    int                 `yaml:"overall" json:"overall"`
	Properties []PropertyOccupancy `yaml:"properties" json:"properties"`
}

// Summary is the landing dashboard of a logged-in manager.
type Summary struct {
	Plan              string          `yaml:"plan" json:"plan"`
	Trial             string          `yaml:"trial" json:"trial"`
	Metrics           []Metric        `yaml:"metrics" json:"metrics"`
	BookingsThisMonth int             `yaml:"bookingsThisMonth" json:"bookingsThisMonth"`
	RecentBookings    []RecentBooking `yaml:"recentBookings" json:"recentBookings"`
	Occupancy         Occupancy       `yaml:"occupancy" json:"occupancy"`
	Alerts            []string        `yaml:"alerts" json:"alerts"`
}

// Summary returns a copy of the dashboard figures.
func (c *Catalog) Summary() Summary {
	out := c.Dashboard
	out.Metrics = append([]Metric{}, c.Dashboard.Metrics...)
	out.RecentBookings = append([]RecentBooking{}, c.Dashboard.RecentBookings...)
	out.Occupancy.Properties = append([]PropertyOccupancy{}, c.Dashboard.Occupancy.Properties...)
	out.Alerts = append([]string{}, c.Dashboard.Alerts...)
	return out
}

// Metric looks up a headline figure by id.
func (s Summary) Metric(id string) (Metric, bool) {
	for _, m := range s.Metrics {
		if m.ID == id {
			return m, true
		}
	}
	return Metric{}, false
}

// Dashboard returns the embedded dashboard figures.
func Dashboard() Summary { return Sample().Summary() }
