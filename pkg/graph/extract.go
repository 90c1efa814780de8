package graph

import (
	"context"
	"fmt"
	"strings"

	"github.com/kgraphrag/backend/pkg/ai"
	"github.com/kgraphrag/backend/pkg/common"
)

type extractEntity struct {
	Name        string `json:"name" jsonschema_description:"Name of the entity, all letters capitalized"`
	Type        string `json:"type" jsonschema_description:"One of the provided entity types"`
	Description string `json:"description" jsonschema_description:"Comprehensive description of the entity's attributes, activities and information provided by the source."`
}

type extractRelationship struct {
	SourceEntity string  `json:"source_entity" jsonschema_description:"Name of the source entity, as identified during entity extraction"`
	TargetEntity string  `json:"target_entity" jsonschema_description:"Name of the target entity, as identified during entity extraction"`
	Label        string  `json:"label" jsonschema_description:"Short ALL-CAPS verb phrase naming the relationship"`
	Description  string  `json:"description" jsonschema_description:"Explanation as to why the source entity and the target entity are related to each other"`
	Strength     float64 `json:"strength" jsonschema_description:"A numeric score between 0.0 and 1.0 indicating strength of the relationship"`
}

type extractResponse struct {
	Entities      []extractEntity       `json:"entities" jsonschema_description:"Entities identified in the text chunk"`
	Relationships []extractRelationship `json:"relationships" jsonschema_description:"Relationships identified in the text chunk"`
}

const defaultRelationshipLabel = "RELATED_TO"

func extractFromChunk(
	ctx context.Context,
	chunk common.Chunk,
	docName string,
	client ai.GraphAIClient,
) (*extractResponse, error) {
	types := strings.Join(common.KnownEntityTypes(), ", ")
	prompt := fmt.Sprintf(ai.ExtractPrompt, types, docName, types, chunk.Text)

	var res extractResponse
	err := client.GenerateCompletionWithFormat(
		ctx,
		"extract_entities_and_relationships",
		"Extract entities and relationships from a provided text chunk.",
		prompt,
		&res,
	)
	if err != nil {
		return nil, err
	}
	return &res, nil
}

// candidatesFromResponse turns raw model output into graph candidates with
// stable identifiers. Entities with empty names are dropped. Relationship
// endpoints that were never extracted as entities get a placeholder entity
// of unknown type, so no edge ever dangles.
func candidatesFromResponse(
	groupID string,
	res *extractResponse,
) ([]common.Entity, []common.Relationship) {
	entities := make([]common.Entity, 0, len(res.Entities))
	typeByName := make(map[string]common.EntityType)

	for _, e := range res.Entities {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			continue
		}
		typ := common.ParseEntityType(e.Type)
		norm := common.NormalizeName(name)
		if _, seen := typeByName[norm]; !seen {
			typeByName[norm] = typ
		}
		entities = append(entities, common.Entity{
			ID:          common.EntityID(groupID, name, typ),
			Name:        name,
			Type:        typ,
			Description: strings.TrimSpace(e.Description),
			GroupID:     groupID,
		})
	}

	resolve := func(name string) (common.Entity, bool) {
		norm := common.NormalizeName(name)
		if norm == "" {
			return common.Entity{}, false
		}
		typ, ok := typeByName[norm]
		if !ok {
			// endpoint never extracted as an entity, synthesize one
			typ = common.UnknownEntityType()
			typeByName[norm] = typ
			placeholder := common.Entity{
				ID:      common.EntityID(groupID, name, typ),
				Name:    strings.TrimSpace(name),
				Type:    typ,
				GroupID: groupID,
			}
			entities = append(entities, placeholder)
			return placeholder, true
		}
		return common.Entity{
			ID:   common.EntityID(groupID, name, typ),
			Name: strings.TrimSpace(name),
			Type: typ,
		}, true
	}

	relationships := make([]common.Relationship, 0, len(res.Relationships))
	for _, r := range res.Relationships {
		source, ok := resolve(r.SourceEntity)
		if !ok {
			continue
		}
		target, ok := resolve(r.TargetEntity)
		if !ok {
			continue
		}
		if source.ID == target.ID {
			continue
		}

		label := strings.ToUpper(strings.Join(strings.Fields(r.Label), "_"))
		if label == "" {
			label = defaultRelationshipLabel
		}

		relationships = append(relationships, common.Relationship{
			ID:          common.RelationshipID(groupID, source.ID, target.ID, label),
			SourceID:    source.ID,
			TargetID:    target.ID,
			SourceName:  source.Name,
			TargetName:  target.Name,
			Label:       label,
			Description: strings.TrimSpace(r.Description),
			GroupID:     groupID,
			Weight:      clampWeight(r.Strength),
			Mentions:    1,
		})
	}

	return entities, relationships
}

func clampWeight(w float64) float64 {
	if w <= 0 {
		return 0.5
	}
	if w > 1 {
		return 1
	}
	return w
}
