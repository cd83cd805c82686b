package model

// PolygonPoint is one vertex of a state boundary polygon. Many points share
// a region; Group separates disjoint rings (islands, exclaves) within it.
type PolygonPoint struct {
	Region string  `json:"region"`
	Long   float64 `json:"long"`
	Lat    float64 `json:"lat"`
	Group  int     `json:"group"`
}

// JoinedPoint pairs a polygon vertex with the state row matching its region.
// State is nil when no state row matched; the vertex is retained regardless
// (left-join semantics, polygons never drop).
type JoinedPoint struct {
	Point PolygonPoint
	State *StateVoteRow
}
