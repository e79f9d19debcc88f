package pool

import (
	"goprofile/domain/profile"
)

// combine merges partial chunk results by task strategy. Chunk completion
// order is unspecified, so every strategy must be order-independent;
// partials are merged in chunk (queue) order to keep ties deterministic.
func combine(taskName string, partials []interface{}) interface{} {
	switch taskName {
	case TaskProfileColumns:
		return combineColumnStats(partials)
	case TaskCalculateCorrelations:
		return combineCorrelations(partials)
	default:
		return combineGeneric(partials)
	}
}

// combineColumnStats unions the per-chunk column stats maps. Chunks cover
// disjoint columns, so no key collides.
func combineColumnStats(partials []interface{}) map[string]*profile.ColumnStats {
	merged := make(map[string]*profile.ColumnStats)
	for _, partial := range partials {
		stats, ok := partial.(map[string]*profile.ColumnStats)
		if !ok {
			continue
		}
		for name, cs := range stats {
			merged[name] = cs
		}
	}
	return merged
}

// combineCorrelations concatenates the partial pair lists, then re-sorts by
// descending strength and recomputes the partitions
func combineCorrelations(partials []interface{}) profile.CorrelationSet {
	var all []profile.CorrelationPair
	for _, partial := range partials {
		pairs, ok := partial.([]profile.CorrelationPair)
		if !ok {
			continue
		}
		all = append(all, pairs...)
	}
	return profile.NewCorrelationSet(all)
}

// combineGeneric list-concatenates array partials, map-merges map partials,
// and otherwise returns the last-seen value
func combineGeneric(partials []interface{}) interface{} {
	var (
		listOut  []interface{}
		mapOut   map[string]interface{}
		lastSeen interface{}
	)
	for _, partial := range partials {
		switch v := partial.(type) {
		case []interface{}:
			listOut = append(listOut, v...)
		case map[string]interface{}:
			if mapOut == nil {
				mapOut = make(map[string]interface{})
			}
			for k, val := range v {
				mapOut[k] = val
			}
		default:
			if v != nil {
				lastSeen = v
			}
		}
	}
	if listOut != nil {
		return listOut
	}
	if mapOut != nil {
		return mapOut
	}
	return lastSeen
}
