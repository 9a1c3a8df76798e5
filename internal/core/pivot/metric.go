package pivot

import (
	"math/big"
	"strconv"

	"github.com/pkg/errors"

	"exusiai.dev/sprintsummary/internal/model"
)

// Metric is one column kind of the pivot table.
type Metric int

const (
	Committed Metric = iota
	Completed
	AllCompleted
	PercentCompleted
)

var ErrUnknownMetric = errors.New("unknown metric")

var metricNames = [...]string{
	Committed:        "Committed",
	Completed:        "Completed",
	AllCompleted:     "AllCompleted",
	PercentCompleted: "PercentCompleted",
}

// AllMetrics lists every metric in display order.
func AllMetrics() []Metric {
	return []Metric{Committed, Completed, AllCompleted, PercentCompleted}
}

// MetricNames lists the names of every metric in display order.
func MetricNames() []string {
	return metricNames[:]
}

func (m Metric) String() string {
	if m < 0 || int(m) >= len(metricNames) {
		return "Metric(" + strconv.Itoa(int(m)) + ")"
	}
	return metricNames[m]
}

func ParseMetric(s string) (Metric, error) {
	for i, name := range metricNames {
		if name == s {
			return Metric(i), nil
		}
	}
	return 0, errors.Wrapf(ErrUnknownMetric, "%q", s)
}

func ParseMetrics(names []string) ([]Metric, error) {
	metrics := make([]Metric, 0, len(names))
	for _, name := range names {
		m, err := ParseMetric(name)
		if err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, nil
}

func (m Metric) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

func (m *Metric) UnmarshalText(text []byte) error {
	parsed, err := ParseMetric(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// tally accumulates raw counters for one cell, row total, column total or
// grand total.
type tally struct {
	committed    int
	completed    int
	allCompleted int
}

func (t *tally) add(c *model.TeamCounters) {
	t.committed += c.Committed
	t.completed += c.Completed
	t.allCompleted += c.AllCompleted
}

func (t *tally) merge(o tally) {
	t.committed += o.committed
	t.completed += o.completed
	t.allCompleted += o.allCompleted
}

// format renders the cell of metric m for t. present is false only for a
// team without an entry in a sprint; totals are always present.
func (m Metric) format(t tally, present bool) string {
	switch m {
	case Committed:
		return strconv.Itoa(t.committed)
	case Completed:
		return strconv.Itoa(t.completed)
	case AllCompleted:
		return strconv.Itoa(t.allCompleted)
	case PercentCompleted:
		if !present {
			return "N/A%"
		}
		return fixed2(model.PercentOf(t.allCompleted, t.committed)) + "%"
	default:
		return ""
	}
}

// fixed2 formats a non-negative x with two decimals. It rounds on the exact
// binary value of x and sends exact ties up, so 0.125 becomes "0.13".
func fixed2(x float64) string {
	scaled := new(big.Float).SetPrec(256).SetFloat64(x)
	scaled.Mul(scaled, big.NewFloat(100))
	n, _ := scaled.Int(nil)
	frac := new(big.Float).SetPrec(256).SetInt(n)
	frac.Sub(scaled, frac)
	if frac.Cmp(big.NewFloat(0.5)) >= 0 {
		n.Add(n, big.NewInt(1))
	}

	digits := n.String()
	for len(digits) < 3 {
		digits = "0" + digits
	}
	return digits[:len(digits)-2] + "." + digits[len(digits)-2:]
}
