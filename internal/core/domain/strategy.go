package domain

import "fmt"

// RefundStrategy is the configured policy for distributing a partial
// refund across split payments.
type RefundStrategy int

const (
	StrategyAscending RefundStrategy = iota + 1
	StrategyDescending
	StrategyRatio
)

func (s RefundStrategy) String() string {
	switch s {
	case StrategyAscending:
		return "ascending"
	case StrategyDescending:
		return "descending"
	case StrategyRatio:
		return "ratio"
	default:
		return fmt.Sprintf("RefundStrategy(%d)", int(s))
	}
}

// ParseRefundStrategy maps the store configuration value to a strategy.
// Unknown values fall back to ascending, the gateway's documented default.
func ParseRefundStrategy(v string) RefundStrategy {
	switch v {
	case "2", "descending":
		return StrategyDescending
	case "3", "ratio":
		return StrategyRatio
	default:
		return StrategyAscending
	}
}
