package models

// Metric identifies one selectable dataset column. It is a closed set:
// anything outside it normalizes to the default instead of flowing through
// as a free-form string.
type Metric string

const (
	MetricSales      Metric = "sales"
	MetricUsers      Metric = "users"
	MetricConversion Metric = "conversion"
)

// IsValidMetric returns true if m is a supported metric.
func IsValidMetric(m Metric) bool {
	switch m {
	case MetricSales, MetricUsers, MetricConversion:
		return true
	default:
		return false
	}
}

// DefaultMetric returns the metric selected on a fresh session.
func DefaultMetric() Metric { return MetricSales }

// NormalizeMetric converts a raw string to a valid metric (or default).
func NormalizeMetric(s string) Metric {
	if s == "" {
		return DefaultMetric()
	}
	m := Metric(s)
	if IsValidMetric(m) {
		return m
	}
	return DefaultMetric()
}

// AllMetrics lists the selectable metrics in display order.
func AllMetrics() []Metric {
	return []Metric{MetricSales, MetricUsers, MetricConversion}
}

// Label returns the display name used by the dashboard controls.
func (m Metric) Label() string {
	switch m {
	case MetricUsers:
		return "Users"
	case MetricConversion:
		return "Conversion Rate"
	default:
		return "Sales"
	}
}

// Value extracts the metric's column value from a row.
func (m Metric) Value(r Row) float64 {
	switch m {
	case MetricUsers:
		return float64(r.Users)
	case MetricConversion:
		return r.Conversion
	default:
		return r.Sales
	}
}
