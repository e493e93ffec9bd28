package model

// IdRange is an inclusive [First, Last] interval over WordID, defining a
// prefix class produced by an earlier prefix-expansion stage.
type IdRange struct {
	First WordID
	Last  WordID
}

// Contains reports whether id falls within the inclusive range.
func (r IdRange) Contains(id WordID) bool {
	return id >= r.First && id <= r.Last
}

// FilterSet is an unordered, externally supplied restriction on EntityID.
// The kernel only ever reads it; it is borrowed, never mutated.
type FilterSet map[EntityID]struct{}

// NewFilterSet builds a FilterSet from a slice of entity ids.
func NewFilterSet(ids ...EntityID) FilterSet {
	s := make(FilterSet, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}

// Contains reports whether id is a member of the filter set.
func (s FilterSet) Contains(id EntityID) bool {
	_, ok := s[id]
	return ok
}

// FilterMap maps an EntityID to a (possibly multi-row, multi-column) table
// of bound values carried along from a joined sub-result. Each row has the
// same width, NumColumns(). The kernel only reads it; it is borrowed.
type FilterMap map[EntityID][][]ValueID

// NumColumns returns the column width of the map's rows, or 0 if the map
// is empty. All rows across all entities in a single FilterMap share one
// width by construction of the upstream join.
func (m FilterMap) NumColumns() int {
	for _, rows := range m {
		for _, row := range rows {
			return len(row)
		}
	}
	return 0
}

// Contains reports whether id has at least one bound row in the map.
func (m FilterMap) Contains(id EntityID) bool {
	rows, ok := m[id]
	return ok && len(rows) > 0
}
