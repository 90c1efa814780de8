package pgx

import (
	"context"
	"fmt"

	"github.com/kgraphrag/backend/pkg/common"
)

// Stats summarizes the graph content. An empty groupID aggregates across
// all groups.
func (s *GraphDBStorage) Stats(ctx context.Context, groupID string) (*common.GraphStats, error) {
	stats := &common.GraphStats{
		NodeTypes: map[string]int64{},
		EdgeTypes: map[string]int64{},
	}

	nodeRows, err := s.conn.Query(ctx,
		`SELECT type, count(*) FROM entities
		 WHERE ($1 = '' OR group_id = $1)
		 GROUP BY type`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: node stats: %v", common.ErrStorage, err)
	}
	for nodeRows.Next() {
		var (
			typ string
			n   int64
		)
		if err := nodeRows.Scan(&typ, &n); err != nil {
			nodeRows.Close()
			return nil, fmt.Errorf("%w: scan node stats: %v", common.ErrStorage, err)
		}
		stats.NodeTypes[typ] = n
		stats.TotalNodes += n
	}
	nodeRows.Close()
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate node stats: %v", common.ErrStorage, err)
	}

	edgeRows, err := s.conn.Query(ctx,
		`SELECT label, count(*) FROM relationships
		 WHERE ($1 = '' OR group_id = $1)
		 GROUP BY label`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: edge stats: %v", common.ErrStorage, err)
	}
	for edgeRows.Next() {
		var (
			label string
			n     int64
		)
		if err := edgeRows.Scan(&label, &n); err != nil {
			edgeRows.Close()
			return nil, fmt.Errorf("%w: scan edge stats: %v", common.ErrStorage, err)
		}
		stats.EdgeTypes[label] = n
		stats.TotalEdges += n
	}
	edgeRows.Close()
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate edge stats: %v", common.ErrStorage, err)
	}

	groups, err := s.Groups(ctx)
	if err != nil {
		return nil, err
	}
	stats.Groups = groups

	return stats, nil
}

// Visualize returns up to limit recently updated nodes of the group and
// all edges whose both endpoints made the cut.
func (s *GraphDBStorage) Visualize(ctx context.Context, groupID string, limit int) (*common.GraphView, error) {
	view := &common.GraphView{
		Nodes: []common.GraphNode{},
		Edges: []common.GraphEdge{},
	}

	nodeRows, err := s.conn.Query(ctx,
		`SELECT id, name, type, description FROM entities
		 WHERE group_id = $1
		 ORDER BY updated_at DESC
		 LIMIT $2`,
		groupID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: visualize nodes: %v", common.ErrStorage, err)
	}
	selected := map[string]bool{}
	for nodeRows.Next() {
		var id, name, typ, description string
		if err := nodeRows.Scan(&id, &name, &typ, &description); err != nil {
			nodeRows.Close()
			return nil, fmt.Errorf("%w: scan node: %v", common.ErrStorage, err)
		}
		selected[id] = true
		view.Nodes = append(view.Nodes, common.GraphNode{
			ID:   id,
			Name: name,
			Type: typ,
			Properties: map[string]any{
				"description": description,
			},
		})
	}
	nodeRows.Close()
	if err := nodeRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate nodes: %v", common.ErrStorage, err)
	}

	edgeRows, err := s.conn.Query(ctx,
		`SELECT id, source_id, target_id, label, description, weight, mentions
		 FROM relationships
		 WHERE group_id = $1`,
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: visualize edges: %v", common.ErrStorage, err)
	}
	for edgeRows.Next() {
		var (
			id, sourceID, targetID, label, description string
			weight                                     float64
			mentions                                   int
		)
		if err := edgeRows.Scan(&id, &sourceID, &targetID, &label, &description, &weight, &mentions); err != nil {
			edgeRows.Close()
			return nil, fmt.Errorf("%w: scan edge: %v", common.ErrStorage, err)
		}
		if !selected[sourceID] || !selected[targetID] {
			continue
		}
		view.Edges = append(view.Edges, common.GraphEdge{
			ID:           id,
			Source:       sourceID,
			Target:       targetID,
			Relationship: label,
			Properties: map[string]any{
				"description": description,
				"weight":      weight,
				"mentions":    mentions,
			},
		})
	}
	edgeRows.Close()
	if err := edgeRows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate edges: %v", common.ErrStorage, err)
	}

	return view, nil
}

// Groups lists all group identifiers known to the graph.
func (s *GraphDBStorage) Groups(ctx context.Context) ([]string, error) {
	rows, err := s.conn.Query(ctx,
		`SELECT DISTINCT group_id FROM entities
		 UNION
		 SELECT DISTINCT group_id FROM relationships
		 ORDER BY group_id`,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: list groups: %v", common.ErrStorage, err)
	}
	defer rows.Close()

	groups := []string{}
	for rows.Next() {
		var g string
		if err := rows.Scan(&g); err != nil {
			return nil, fmt.Errorf("%w: scan group: %v", common.ErrStorage, err)
		}
		groups = append(groups, g)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate groups: %v", common.ErrStorage, err)
	}
	return groups, nil
}

// DeleteGroup removes all graph content of the group in one transaction.
func (s *GraphDBStorage) DeleteGroup(ctx context.Context, groupID string) (nodes, edges int64, err error) {
	tx, err := s.conn.Begin(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: begin delete: %v", common.ErrStorage, err)
	}
	defer tx.Rollback(ctx)

	edgeTag, err := tx.Exec(ctx, `DELETE FROM relationships WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: delete relationships: %v", common.ErrStorage, err)
	}
	nodeTag, err := tx.Exec(ctx, `DELETE FROM entities WHERE group_id = $1`, groupID)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: delete entities: %v", common.ErrStorage, err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, 0, fmt.Errorf("%w: commit delete: %v", common.ErrStorage, err)
	}
	return nodeTag.RowsAffected(), edgeTag.RowsAffected(), nil
}
