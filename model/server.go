package model

// ServerInfo is the simulation server's self-description.
type ServerInfo struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	TPS    uint16 `json:"tps"`
}

// WorldBounds is the extent of the simulated world, starting at the origin.
type WorldBounds struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Contains reports whether (x, y) lies inside the world.
func (b WorldBounds) Contains(x, y float64) bool {
	return x >= 0 && y >= 0 && x <= b.Width && y <= b.Height
}
