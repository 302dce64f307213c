package track

import (
	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/registry"
)

// CellState is what a dashboard cell should render for one (lead, kind).
type CellState string

const (
	// StateDone: content is present; terminal, no action available.
	StateDone CellState = "done"
	// StateProcessing: a registry task is pending; show cancel control.
	StateProcessing CellState = "processing"
	// StateQueuing: local request in flight but not yet registered.
	// Transient, normally sub-second.
	StateQueuing CellState = "queuing"
	// StateIdle: nothing running; show the start-generation control.
	StateIdle CellState = "idle"
)

// Project derives the cell state for one lead and job kind. Pure: it reads
// the lead's content field, the registry, and the local in-flight flag, in
// that priority order. A task must reach the registry before "queuing" gives
// way to the durable "processing" state.
func Project(l *lead.Lead, kind lead.Kind, reg *registry.Registry, tokens *TokenSet) CellState {
	if l.HasContent(kind) {
		return StateDone
	}
	if reg.Get(l.ID, kind) != nil {
		return StateProcessing
	}
	if tokens.Active(l.ID, kind) {
		return StateQueuing
	}
	return StateIdle
}

// Projection is the full per-kind state for one lead, as served to the
// dashboard feed.
type Projection struct {
	LeadID string                  `json:"lead_id"`
	Cells  map[lead.Kind]CellState `json:"cells"`
}

// ProjectAll derives cell states for every lead and kind.
func ProjectAll(leads []lead.Lead, reg *registry.Registry, tokens *TokenSet) []Projection {
	out := make([]Projection, 0, len(leads))
	for i := range leads {
		p := Projection{LeadID: leads[i].ID, Cells: make(map[lead.Kind]CellState, len(lead.Kinds))}
		for _, k := range lead.Kinds {
			p.Cells[k] = Project(&leads[i], k, reg, tokens)
		}
		out = append(out, p)
	}
	return out
}
