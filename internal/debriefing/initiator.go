package debriefing

import (
	"strconv"
	"strings"

	"github.com/dcsl-project/debrief/pkg/model"
)

// SkipReason explains why an initiator could not be decomposed.
type SkipReason string

const (
	SkipNone          SkipReason = ""
	SkipMalformed     SkipReason = "malformed"
	SkipBadCountry    SkipReason = "bad_country"
	SkipBadGroup      SkipReason = "bad_group"
	SkipWrongCategory SkipReason = "wrong_category"
	SkipUnknownType   SkipReason = "unknown_type"
)

// Resolver maps a raw type name to a unit type.
type Resolver interface {
	Resolve(name string) (model.UnitType, bool)
}

// DecomposeInitiator splits "category|countryId|groupId|unitTypeName". It
// returns SkipNone with a usable reference, or the reason the event must be
// dropped.
func DecomposeInitiator(raw string, r Resolver) (model.InitiatorReference, SkipReason) {
	parts := strings.Split(raw, "|")
	if len(parts) != 4 {
		return model.InitiatorReference{}, SkipMalformed
	}

	country, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return model.InitiatorReference{}, SkipBadCountry
	}
	group, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return model.InitiatorReference{}, SkipBadGroup
	}
	if parts[0] != model.CategoryUnit {
		return model.InitiatorReference{}, SkipWrongCategory
	}
	unit, ok := r.Resolve(parts[3])
	if !ok {
		return model.InitiatorReference{}, SkipUnknownType
	}

	return model.InitiatorReference{
		Category:  parts[0],
		CountryID: model.CountryID(country),
		GroupID:   group,
		UnitType:  unit,
	}, SkipNone
}
