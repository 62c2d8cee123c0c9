package stockroom

import (
	"fmt"
	"sort"
	"strings"
)

type Unit string

const (
	UnitGram       Unit = "g"
	UnitKilogram   Unit = "kg"
	UnitMilliliter Unit = "ml"
	UnitLiter      Unit = "L"
	UnitItem       Unit = "u"
)

type Family string

const (
	FamilyMass   Family = "mass"
	FamilyVolume Family = "volume"
	FamilyCount  Family = "count"
)

// UnitRule ties a unit to its family: 1 Unit = Factor Base.
type UnitRule struct {
	Unit   Unit
	Family Family
	Base   Unit
	Factor int64
}

var unitRules = map[Unit]UnitRule{
	UnitGram:       {Unit: UnitGram, Family: FamilyMass, Base: UnitGram, Factor: 1},
	UnitKilogram:   {Unit: UnitKilogram, Family: FamilyMass, Base: UnitGram, Factor: 1000},
	UnitMilliliter: {Unit: UnitMilliliter, Family: FamilyVolume, Base: UnitMilliliter, Factor: 1},
	UnitLiter:      {Unit: UnitLiter, Family: FamilyVolume, Base: UnitMilliliter, Factor: 1000},
	UnitItem:       {Unit: UnitItem, Family: FamilyCount, Base: UnitItem, Factor: 1},
}

func LookupUnit(u Unit) (UnitRule, error) {
	rule, ok := unitRules[u]
	if !ok {
		return UnitRule{}, fmt.Errorf("%w: %q", ErrUnknownUnit, string(u))
	}
	return rule, nil
}

// ParseUnit accepts the canonical spellings plus "l" for liters.
func ParseUnit(s string) (Unit, error) {
	s = strings.TrimSpace(s)
	if s == "l" {
		return UnitLiter, nil
	}
	u := Unit(s)
	if _, err := LookupUnit(u); err != nil {
		return "", err
	}
	return u, nil
}

func (u Unit) Valid() bool {
	_, ok := unitRules[u]
	return ok
}

func (u Unit) Family() Family {
	return unitRules[u].Family
}

func (u Unit) BaseUnit() Unit {
	return unitRules[u].Base
}

func (u Unit) String() string {
	return string(u)
}

// Units lists every known unit grouped by family, base unit first.
func Units() []Unit {
	rules := make([]UnitRule, 0, len(unitRules))
	for _, r := range unitRules {
		rules = append(rules, r)
	}
	sort.Slice(rules, func(i, j int) bool {
		if rules[i].Family != rules[j].Family {
			return rules[i].Family < rules[j].Family
		}
		return rules[i].Factor < rules[j].Factor
	})
	units := make([]Unit, len(rules))
	for i := range rules {
		units[i] = rules[i].Unit
	}
	return units
}

func SameFamily(a, b Unit) (bool, error) {
	ra, err := LookupUnit(a)
	if err != nil {
		return false, err
	}
	rb, err := LookupUnit(b)
	if err != nil {
		return false, err
	}
	return ra.Family == rb.Family, nil
}
