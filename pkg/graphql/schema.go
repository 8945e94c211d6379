package graphql

import (
	"fmt"

	"github.com/graphql-go/graphql"

	"github.com/dd0wney/semgraph/pkg/session"
)

// Provider is the read surface the schema resolves against. The session
// satisfies it; tests substitute fixtures.
type Provider interface {
	Snapshot() session.Snapshot
	PredictViews(node int) []session.PredictionView
}

// GenerateSchema builds the read-only query schema over the explorer state.
func GenerateSchema(p Provider) (graphql.Schema, error) {
	nodeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Node",
		Fields: graphql.Fields{
			"index":       fieldFor(graphql.NewNonNull(graphql.Int), func(n session.NodeView) any { return n.Index }),
			"label":       fieldFor(graphql.NewNonNull(graphql.String), func(n session.NodeView) any { return n.Label }),
			"x":           fieldFor(graphql.Float, func(n session.NodeView) any { return n.X }),
			"y":           fieldFor(graphql.Float, func(n session.NodeView) any { return n.Y }),
			"radius":      fieldFor(graphql.Float, func(n session.NodeView) any { return n.Radius }),
			"connections": fieldFor(graphql.Int, func(n session.NodeView) any { return n.Connections }),
			"rank":        fieldFor(graphql.Float, func(n session.NodeView) any { return n.Rank }),
			"rankTier":    fieldFor(graphql.String, func(n session.NodeView) any { return n.RankTier }),
		},
	})

	edgeType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Edge",
		Fields: graphql.Fields{
			"from":      edgeField(func(e session.EdgeView) any { return e.From }, graphql.Int),
			"to":        edgeField(func(e session.EdgeView) any { return e.To }, graphql.Int),
			"fromLabel": edgeField(func(e session.EdgeView) any { return e.FromLabel }, graphql.String),
			"toLabel":   edgeField(func(e session.EdgeView) any { return e.ToLabel }, graphql.String),
			"predicate": edgeField(func(e session.EdgeView) any { return e.Predicate }, graphql.String),
		},
	})

	predictionType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Prediction",
		Fields: graphql.Fields{
			"index": predictionField(func(v session.PredictionView) any { return v.Index }, graphql.Int),
			"label": predictionField(func(v session.PredictionView) any { return v.Label }, graphql.String),
			"score": predictionField(func(v session.PredictionView) any { return v.Score }, graphql.Float),
			"tier":  predictionField(func(v session.PredictionView) any { return v.Tier }, graphql.String),
		},
	})

	summaryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Summary",
		Fields: graphql.Fields{
			"datasetId":  summaryField(func(s session.Summary) any { return s.DatasetID }, graphql.String),
			"source":     summaryField(func(s session.Summary) any { return s.Source }, graphql.String),
			"nodes":      summaryField(func(s session.Summary) any { return s.Nodes }, graphql.Int),
			"edges":      summaryField(func(s session.Summary) any { return s.Edges }, graphql.Int),
			"rankMean":   summaryField(func(s session.Summary) any { return s.RankMean }, graphql.Float),
			"rankStddev": summaryField(func(s session.Summary) any { return s.RankStdDev }, graphql.Float),
		},
	})

	queryType := graphql.NewObject(graphql.ObjectConfig{
		Name: "Query",
		Fields: graphql.Fields{
			"health": &graphql.Field{
				Type: graphql.String,
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					return "ok", nil
				},
			},
			"summary": &graphql.Field{
				Type: summaryType,
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					return p.Snapshot().Summary, nil
				},
			},
			"nodes": &graphql.Field{
				Type: graphql.NewList(nodeType),
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					return p.Snapshot().Nodes, nil
				},
			},
			"node": &graphql.Field{
				Type: nodeType,
				Args: graphql.FieldConfigArgument{
					"index": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					index, _ := gp.Args["index"].(int)
					nodes := p.Snapshot().Nodes
					if index < 0 || index >= len(nodes) {
						return nil, nil
					}
					return nodes[index], nil
				},
			},
			"edges": &graphql.Field{
				Type: graphql.NewList(edgeType),
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					return p.Snapshot().Edges, nil
				},
			},
			"predictions": &graphql.Field{
				Type: graphql.NewList(predictionType),
				Args: graphql.FieldConfigArgument{
					"node": &graphql.ArgumentConfig{
						Type: graphql.NewNonNull(graphql.Int),
					},
				},
				Resolve: func(gp graphql.ResolveParams) (any, error) {
					node, _ := gp.Args["node"].(int)
					return p.PredictViews(node), nil
				},
			},
		},
	})

	schema, err := graphql.NewSchema(graphql.SchemaConfig{Query: queryType})
	if err != nil {
		return graphql.Schema{}, fmt.Errorf("failed to create schema: %w", err)
	}
	return schema, nil
}

func fieldFor(t graphql.Output, get func(session.NodeView) any) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(gp graphql.ResolveParams) (any, error) {
			if n, ok := gp.Source.(session.NodeView); ok {
				return get(n), nil
			}
			return nil, nil
		},
	}
}

func edgeField(get func(session.EdgeView) any, t graphql.Output) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(gp graphql.ResolveParams) (any, error) {
			if e, ok := gp.Source.(session.EdgeView); ok {
				return get(e), nil
			}
			return nil, nil
		},
	}
}

func predictionField(get func(session.PredictionView) any, t graphql.Output) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(gp graphql.ResolveParams) (any, error) {
			if v, ok := gp.Source.(session.PredictionView); ok {
				return get(v), nil
			}
			return nil, nil
		},
	}
}

func summaryField(get func(session.Summary) any, t graphql.Output) *graphql.Field {
	return &graphql.Field{
		Type: t,
		Resolve: func(gp graphql.ResolveParams) (any, error) {
			if s, ok := gp.Source.(session.Summary); ok {
				return get(s), nil
			}
			return nil, nil
		},
	}
}

// ExecuteQuery runs a GraphQL query against the schema.
func ExecuteQuery(query string, schema graphql.Schema) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:        schema,
		RequestString: query,
	})
}

// ExecuteQueryWithVariables runs a parameterized GraphQL query.
func ExecuteQueryWithVariables(query string, schema graphql.Schema, variables map[string]any) *graphql.Result {
	return graphql.Do(graphql.Params{
		Schema:         schema,
		RequestString:  query,
		VariableValues: variables,
	})
}
