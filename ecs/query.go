package ecs

// IntersectEntities returns the entities of a that are also in set.
func IntersectEntities(a []Entity, set *SparseSet) []Entity {
	if len(a) == 0 || set.Len() == 0 {
		return nil
	}
	out := make([]Entity, 0, min(len(a), set.Len()))
	for _, e := range a {
		if set.Has(e) {
			out = append(out, e)
		}
	}
	return out
}
