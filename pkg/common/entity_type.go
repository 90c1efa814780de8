package common

import (
	"encoding/json"
	"strings"
)

// EntityKind enumerates the entity types the extraction prompt asks for.
// Model output is open-ended, so unknown strings are preserved as
// KindOther with the raw value intact.
type EntityKind int

const (
	KindUnknown EntityKind = iota
	KindPerson
	KindOrganization
	KindLocation
	KindConcept
	KindEvent
	KindProduct
	KindDate
	KindCreativeWork
	KindOther
)

var kindNames = map[EntityKind]string{
	KindUnknown:      "UNKNOWN",
	KindPerson:       "PERSON",
	KindOrganization: "ORGANIZATION",
	KindLocation:     "LOCATION",
	KindConcept:      "CONCEPT",
	KindEvent:        "EVENT",
	KindProduct:      "PRODUCT",
	KindDate:         "DATE",
	KindCreativeWork: "CREATIVE_WORK",
}

// KnownEntityTypes lists the type names offered to the extraction model.
func KnownEntityTypes() []string {
	return []string{
		"PERSON", "ORGANIZATION", "LOCATION", "CONCEPT",
		"EVENT", "PRODUCT", "DATE", "CREATIVE_WORK",
	}
}

// EntityType is a tagged entity type: a known kind, or KindOther carrying
// the raw model output. Keeping the tag lets histogram code switch
// exhaustively while still accepting novel types.
type EntityType struct {
	Kind EntityKind
	Raw  string
}

// ParseEntityType maps a free-form type string from model output to an
// EntityType. Unrecognized values become KindOther with the cleaned raw
// string preserved.
func ParseEntityType(s string) EntityType {
	cleaned := strings.ToUpper(strings.Join(strings.Fields(s), "_"))
	switch cleaned {
	case "", "UNKNOWN":
		return EntityType{Kind: KindUnknown}
	case "PERSON", "PEOPLE":
		return EntityType{Kind: KindPerson}
	case "ORGANIZATION", "ORGANISATION", "COMPANY":
		return EntityType{Kind: KindOrganization}
	case "LOCATION", "PLACE", "GEO":
		return EntityType{Kind: KindLocation}
	case "CONCEPT":
		return EntityType{Kind: KindConcept}
	case "EVENT":
		return EntityType{Kind: KindEvent}
	case "PRODUCT":
		return EntityType{Kind: KindProduct}
	case "DATE", "TIME":
		return EntityType{Kind: KindDate}
	case "CREATIVE_WORK", "WORK_OF_ART":
		return EntityType{Kind: KindCreativeWork}
	default:
		return EntityType{Kind: KindOther, Raw: cleaned}
	}
}

// UnknownEntityType is the type assigned to placeholder entities synthesized
// for relationship endpoints that were never extracted as entities.
func UnknownEntityType() EntityType {
	return EntityType{Kind: KindUnknown}
}

func (t EntityType) String() string {
	if t.Kind == KindOther {
		if t.Raw == "" {
			return "OTHER"
		}
		return t.Raw
	}
	return kindNames[t.Kind]
}

func (t EntityType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *EntityType) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*t = ParseEntityType(s)
	return nil
}
