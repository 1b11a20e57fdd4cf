package app

import (
	"pontoon-planner/internal/grid"
)

// Statistics summarizes the current platform for panels and the parts
// list exporter.
type Statistics struct {
	Pontoons  int
	Cells     int
	ByType    map[string]int
	ByColor   map[string]int
	ByLevel   map[int]int
	Connected bool
}

// Statistics computes the summary over the current grid.
func (s *State) Statistics() Statistics {
	g := s.pipeline.Grid()
	stats := Statistics{
		ByType:  make(map[string]int),
		ByColor: make(map[string]int),
		ByLevel: make(map[int]int),
	}
	for _, p := range g.Pontoons() {
		stats.Pontoons++
		stats.Cells += p.Type.CellCount()
		stats.ByType[p.Type.String()]++
		stats.ByColor[p.Color.String()]++
		stats.ByLevel[p.Position.Y]++
	}
	stats.Connected = s.pipeline.Engine().ValidateConnectivity().OK()
	return stats
}

// NearbyValidPositions suggests anchors near target where the type
// would place successfully, nearest first by Chebyshev distance.
func (s *State) NearbyValidPositions(target grid.Position, typ grid.PontoonType, maxDistance int) []grid.Position {
	return s.pipeline.Engine().FindNearbyValidPositions(target, typ, maxDistance)
}
