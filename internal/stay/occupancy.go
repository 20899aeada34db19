package stay

type Occupancy struct {
	Rooms    int `json:"rooms"`
	Adults   int `json:"adults"`
	Children int `json:"children"`
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}

	if v > hi {
		return hi
	}

	return v
}

// Clamp bounds every count to [minimum, ceiling]. Ceilings below the minimum are raised to it.
func (o Occupancy) Clamp(maxRooms, maxAdults, maxChildren int) Occupancy {
	return Occupancy{
		Rooms:    clamp(o.Rooms, 1, max(1, maxRooms)),
		Adults:   clamp(o.Adults, 1, max(1, maxAdults)),
		Children: clamp(o.Children, 0, max(0, maxChildren)),
	}
}
