package graph

import (
	"strings"

	"github.com/kgraphrag/backend/pkg/common"
)

// mergeEntitiesAndRelations folds new candidates into the accumulated sets.
// Entities and relationships are matched by their derived identifiers, so
// the same real-world entity extracted from several chunks collapses into
// one candidate before anything reaches storage.
func mergeEntitiesAndRelations(
	entities []common.Entity,
	newEntities []common.Entity,
	relations []common.Relationship,
	newRelations []common.Relationship,
) ([]common.Entity, []common.Relationship) {
	for _, entity := range newEntities {
		found := false
		for j := range entities {
			if entities[j].ID == entity.ID {
				entities[j].Description = mergeDescriptions(entities[j].Description, entity.Description)
				found = true
				break
			}
		}
		if !found {
			entities = append(entities, entity)
		}
	}

	for _, rel := range newRelations {
		found := false
		for j := range relations {
			if relations[j].ID == rel.ID {
				relations[j].Description = mergeDescriptions(relations[j].Description, rel.Description)
				relations[j].Weight = (relations[j].Weight + rel.Weight) / 2
				relations[j].Mentions += rel.Mentions
				found = true
				break
			}
		}
		if !found {
			relations = append(relations, rel)
		}
	}

	return entities, relations
}

// mergeDescriptions combines two descriptions without duplicating content:
// an empty side yields the other, a contained side yields the container,
// otherwise both are kept separated by a newline.
func mergeDescriptions(existing, incoming string) string {
	existing = strings.TrimSpace(existing)
	incoming = strings.TrimSpace(incoming)

	switch {
	case existing == "":
		return incoming
	case incoming == "":
		return existing
	case strings.Contains(existing, incoming):
		return existing
	case strings.Contains(incoming, existing):
		return incoming
	default:
		return existing + "\n" + incoming
	}
}
