// Package capacity models how reservations consume a room's seat budget.
package capacity

import "errors"

// ErrUnknownPolicy is returned when configuration names a policy that does not exist.
var ErrUnknownPolicy = errors.New("capacity: unknown consumption policy")

// DefaultBaseCapacity is the seat budget assumed for rooms without an explicit value.
const DefaultBaseCapacity = 15

// Policy maps a party size to the number of capacity units it consumes.
// Implementations must be monotonically non-decreasing in the party size.
type Policy interface {
	Name() string
	Consumption(partySize int) int
}

// FlatPolicy is the canonical policy: a party of p consumes exactly p units.
type FlatPolicy struct{}

func (FlatPolicy) Name() string { return "flat" }

func (FlatPolicy) Consumption(partySize int) int {
	if partySize < 1 {
		return 1
	}
	return partySize
}

// GroupPenaltyPolicy charges larger groups extra units for spacing overhead:
// a party of p consumes p + (p-1)/3 units.
type GroupPenaltyPolicy struct{}

func (GroupPenaltyPolicy) Name() string { return "group-penalty" }

func (GroupPenaltyPolicy) Consumption(partySize int) int {
	if partySize < 1 {
		return 1
	}
	return partySize + (partySize-1)/3
}

// PolicyByName resolves a configured policy name.
func PolicyByName(name string) (Policy, error) {
	switch name {
	case "", FlatPolicy{}.Name():
		return FlatPolicy{}, nil
	case GroupPenaltyPolicy{}.Name():
		return GroupPenaltyPolicy{}, nil
	default:
		return nil, ErrUnknownPolicy
	}
}

// Model combines a room's base capacity with the consumption policy. A single
// model instance is shared by admission, capacity queries and status projection
// so the policy is applied uniformly.
type Model struct {
	Base   int
	Policy Policy
}

// NewModel builds a model, falling back to defaults for zero values.
func NewModel(base int, policy Policy) Model {
	if base <= 0 {
		base = DefaultBaseCapacity
	}
	if policy == nil {
		policy = FlatPolicy{}
	}
	return Model{Base: base, Policy: policy}
}

// TotalConsumption sums the consumption of the given party sizes.
func (m Model) TotalConsumption(partySizes []int) int {
	total := 0
	for _, p := range partySizes {
		total += m.Policy.Consumption(p)
	}
	return total
}

// Headroom returns the signed capacity remaining after the given consumption.
func (m Model) Headroom(consumed int) int {
	return m.Base - consumed
}

// Residual returns the capacity remaining for reporting, floored at zero.
func (m Model) Residual(consumed int) int {
	if r := m.Base - consumed; r > 0 {
		return r
	}
	return 0
}
