package capacity

import (
	"errors"
	"testing"
)

func TestFlatPolicyConsumption(t *testing.T) {
	policy := FlatPolicy{}
	for p := 1; p <= 40; p++ {
		if got := policy.Consumption(p); got != p {
			t.Fatalf("flat Consumption(%d) = %d, want %d", p, got, p)
		}
	}
}

func TestGroupPenaltyPolicyConsumption(t *testing.T) {
	policy := GroupPenaltyPolicy{}
	cases := []struct{ party, want int }{
		{party: 1, want: 1},
		{party: 2, want: 2},
		{party: 3, want: 3},
		{party: 4, want: 5},
		{party: 7, want: 9},
		{party: 10, want: 13},
		{party: 15, want: 19},
	}
	for _, tc := range cases {
		if got := policy.Consumption(tc.party); got != tc.want {
			t.Errorf("group-penalty Consumption(%d) = %d, want %d", tc.party, got, tc.want)
		}
	}
}

func TestPoliciesAreMonotonic(t *testing.T) {
	for _, policy := range []Policy{FlatPolicy{}, GroupPenaltyPolicy{}} {
		prev := 0
		for p := 1; p <= 100; p++ {
			got := policy.Consumption(p)
			if got < prev {
				t.Fatalf("%s: Consumption(%d) = %d < Consumption(%d) = %d", policy.Name(), p, got, p-1, prev)
			}
			if got < 1 {
				t.Fatalf("%s: Consumption(%d) = %d, want >= 1", policy.Name(), p, got)
			}
			prev = got
		}
	}
}

func TestPolicyByName(t *testing.T) {
	if p, err := PolicyByName(""); err != nil || p.Name() != "flat" {
		t.Errorf("PolicyByName(\"\") = %v, %v; want flat policy", p, err)
	}
	if p, err := PolicyByName("group-penalty"); err != nil || p.Name() != "group-penalty" {
		t.Errorf("PolicyByName(group-penalty) = %v, %v", p, err)
	}
	if _, err := PolicyByName("quadratic"); !errors.Is(err, ErrUnknownPolicy) {
		t.Errorf("PolicyByName(quadratic): got %v, want ErrUnknownPolicy", err)
	}
}

func TestModelResidual(t *testing.T) {
	model := NewModel(15, FlatPolicy{})

	if got := model.TotalConsumption([]int{4, 5, 6}); got != 15 {
		t.Errorf("TotalConsumption = %d, want 15", got)
	}
	if got := model.Headroom(15); got != 0 {
		t.Errorf("Headroom(15) = %d, want 0", got)
	}
	if got := model.Headroom(20); got != -5 {
		t.Errorf("Headroom(20) = %d, want -5", got)
	}
	if got := model.Residual(20); got != 0 {
		t.Errorf("Residual(20) = %d, want 0 (never negative)", got)
	}
	if got := model.Residual(10); got != 5 {
		t.Errorf("Residual(10) = %d, want 5", got)
	}
}

func TestNewModelDefaults(t *testing.T) {
	model := NewModel(0, nil)
	if model.Base != DefaultBaseCapacity {
		t.Errorf("Base = %d, want %d", model.Base, DefaultBaseCapacity)
	}
	if model.Policy.Name() != "flat" {
		t.Errorf("Policy = %q, want flat", model.Policy.Name())
	}
}
