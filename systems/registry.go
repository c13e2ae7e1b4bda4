package systems

import "github.com/pthm-cable/lovehate/telemetry"

// SystemInfo describes one tick phase for display and perf logs.
type SystemInfo struct {
	ID          string // perf phase name
	Name        string // display name
	Description string
}

// SystemRegistry keeps phase metadata in tick order so the HUD and the
// perf log agree on names.
type SystemRegistry struct {
	infos []SystemInfo
	index map[string]int
}

// NewSystemRegistry creates a registry holding every tick phase.
func NewSystemRegistry() *SystemRegistry {
	reg := &SystemRegistry{index: make(map[string]int, len(telemetry.Phases))}
	reg.Register(SystemInfo{ID: telemetry.PhaseMotion, Name: "Motion", Description: "Headings, wall slides and collision checks"})
	reg.Register(SystemInfo{ID: telemetry.PhaseSink, Name: "Sink", Description: "Forwards moves to the renderer"})
	reg.Register(SystemInfo{ID: telemetry.PhaseTelemetry, Name: "Telemetry", Description: "Samples window statistics"})
	return reg
}

// Register appends a phase. It reports false if the ID is taken.
func (r *SystemRegistry) Register(info SystemInfo) bool {
	if _, taken := r.index[info.ID]; taken {
		return false
	}
	r.index[info.ID] = len(r.infos)
	r.infos = append(r.infos, info)
	return true
}

// Get looks a phase up by ID.
func (r *SystemRegistry) Get(id string) (SystemInfo, bool) {
	i, ok := r.index[id]
	if !ok {
		return SystemInfo{}, false
	}
	return r.infos[i], true
}

// GetName returns the display name of a phase, or id when unknown.
func (r *SystemRegistry) GetName(id string) string {
	if info, ok := r.Get(id); ok {
		return info.Name
	}
	return id
}

// IDs returns phase IDs in tick order.
func (r *SystemRegistry) IDs() []string {
	ids := make([]string, len(r.infos))
	for i, info := range r.infos {
		ids[i] = info.ID
	}
	return ids
}
