package sensor

import "math"

// PadGroup is a named grid of contact-sensor pads.
type PadGroup struct {
	Name            string    `json:"name"`
	Label           string    `json:"label"`     // summary key stem, e.g. "thumb4" -> "thumb4_pads"
	PrimPath        string    `json:"prim_path"` // scene-graph pattern, e.g. "/hand/thumb_sensor_4_pad_*"
	UpdatePeriod    float64   `json:"update_period"`
	ForceThreshold  float64   `json:"force_threshold"`
	TorqueThreshold float64   `json:"torque_threshold"`
	SensorCount     int       `json:"sensor_count"`
	Grid            []int     `json:"grid"`     // [rows, cols]
	PadSize         []float64 `json:"pad_size"` // [width, depth, height] in meters
	Color           string    `json:"color"`
}

// SummaryKey returns the key used for this group in the totals block.
func (g PadGroup) SummaryKey() string {
	return g.Label + "_pads"
}

// Rows returns the number of grid rows, or 0 if the grid is malformed.
func (g PadGroup) Rows() int {
	if len(g.Grid) != 2 {
		return 0
	}
	return g.Grid[0]
}

// Cols returns the number of grid columns, or 0 if the grid is malformed.
func (g PadGroup) Cols() int {
	if len(g.Grid) != 2 {
		return 0
	}
	return g.Grid[1]
}

// Height returns the pad height in meters, or 0 if pad_size is malformed.
func (g PadGroup) Height() float64 {
	if len(g.PadSize) != 3 {
		return 0
	}
	return g.PadSize[2]
}

// Specs describes the physical sensor part shared by all groups.
type Specs struct {
	TriggerForce int `json:"trigger_force"` // grams
	ForceRange   int `json:"force_range"`   // newtons
	SampleRate   int `json:"sample_rate"`   // Hz
}

// Profile is an ordered table of pad groups for one hand build.
type Profile struct {
	Name          string     `json:"-"`
	Title         string     `json:"title"`
	AssetKey      string     `json:"asset_key"`
	NewGroup      string     `json:"new_group,omitempty"`
	DeclaredTotal int        `json:"declared_total,omitempty"`
	Specs         Specs      `json:"specs"`
	Groups        []PadGroup `json:"groups"`
}

// TotalPads returns the sum of sensor_count over all groups.
func (p Profile) TotalPads() int {
	total := 0
	for _, g := range p.Groups {
		total += g.SensorCount
	}
	return total
}

// Group returns the group with the given name.
func (p Profile) Group(name string) (PadGroup, bool) {
	for _, g := range p.Groups {
		if g.Name == name {
			return g, true
		}
	}
	return PadGroup{}, false
}

// UniformThicknessMM returns the shared pad height in millimeters.
// The second result is false when groups disagree or the profile is empty.
func (p Profile) UniformThicknessMM() (float64, bool) {
	if len(p.Groups) == 0 {
		return 0, false
	}
	h := p.Groups[0].Height()
	for _, g := range p.Groups[1:] {
		if g.Height() != h {
			return 0, false
		}
	}
	// Round to micrometers so 0.0006 m prints as 0.6 mm.
	return math.Round(h*1e6) / 1e3, true
}
