package stats

import "lead-insights-service/internal/model"

// PlaceholderLabel stands in for missing hierarchy values in the flow
// graph. It is a single shared node, not one node per record.
const PlaceholderLabel = "Not defined"

// nodeRegistry assigns sequential indices to names in first-seen order.
type nodeRegistry struct {
	index map[string]int
	names []string
}

func newNodeRegistry() *nodeRegistry {
	return &nodeRegistry{index: make(map[string]int)}
}

func (r *nodeRegistry) add(name string) int {
	if i, ok := r.index[name]; ok {
		return i
	}
	i := len(r.names)
	r.index[name] = i
	r.names = append(r.names, name)
	return i
}

type edgeKey struct {
	source int
	target int
}

// BuildFlowGraph collapses the four-stage funnel (source → campaign →
// ad-set → ad) of every record into deduplicated nodes and weighted
// directed edges. Missing stage values resolve to the shared
// PlaceholderLabel node, so flow totals include records that the ranked
// lists exclude. Zero records yield empty (non-nil) lists.
func BuildFlowGraph(records []model.Lead) model.FlowGraph {
	registry := newNodeRegistry()
	weights := make(map[edgeKey]int)
	var order []edgeKey

	for _, lead := range records {
		stages := [4]int{
			registry.add(stageValue(&lead.Source)),
			registry.add(stageValue(lead.Campaign)),
			registry.add(stageValue(lead.AdSet)),
			registry.add(stageValue(lead.Ad)),
		}
		for i := 0; i < 3; i++ {
			key := edgeKey{source: stages[i], target: stages[i+1]}
			if _, ok := weights[key]; !ok {
				order = append(order, key)
			}
			weights[key]++
		}
	}

	nodes := make([]model.FlowNode, len(registry.names))
	for i, name := range registry.names {
		nodes[i] = model.FlowNode{Name: name}
	}
	links := make([]model.FlowLink, len(order))
	for i, key := range order {
		links[i] = model.FlowLink{Source: key.source, Target: key.target, Value: weights[key]}
	}
	return model.FlowGraph{Nodes: nodes, Links: links}
}

func stageValue(v *string) string {
	if v == nil || *v == "" {
		return PlaceholderLabel
	}
	return *v
}
