package track

import (
	"context"
	"testing"

	"github.com/leadforge/leadforge/internal/lead"
	"github.com/leadforge/leadforge/internal/registry"
)

func TestProjectPriority(t *testing.T) {
	reg := registry.New(nullStore{})
	tokens := NewTokenSet()

	tests := []struct {
		name     string
		lead     lead.Lead
		pending  bool
		inFlight bool
		want     CellState
	}{
		{
			name:    "content present wins over everything",
			lead:    lead.Lead{ID: "l1", GeneratedEmail: "Hi"},
			pending: true, inFlight: true,
			want: StateDone,
		},
		{
			name:    "registry task shows processing",
			lead:    lead.Lead{ID: "l2"},
			pending: true, inFlight: true,
			want: StateProcessing,
		},
		{
			name:     "local token only shows queuing",
			lead:     lead.Lead{ID: "l3"},
			inFlight: true,
			want:     StateQueuing,
		},
		{
			name: "nothing running is idle",
			lead: lead.Lead{ID: "l4"},
			want: StateIdle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.pending {
				reg.Add(tt.lead.ID, tt.lead.Name, lead.KindEmail)
				defer reg.Remove(tt.lead.ID, lead.KindEmail)
			}
			if tt.inFlight {
				_, release := tokens.Begin(context.Background(), tt.lead.ID, lead.KindEmail)
				defer release()
			}

			got := Project(&tt.lead, lead.KindEmail, reg, tokens)
			if got != tt.want {
				t.Errorf("Project() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestProjectionIsPerKind(t *testing.T) {
	reg := registry.New(nullStore{})
	tokens := NewTokenSet()

	l := lead.Lead{ID: "l1", Description: "A bakery in Lisbon"}
	reg.Add("l1", "Lisbon Bakery", lead.KindEmail)

	if got := Project(&l, lead.KindDescription, reg, tokens); got != StateDone {
		t.Errorf("description cell = %s, want done", got)
	}
	if got := Project(&l, lead.KindEmail, reg, tokens); got != StateProcessing {
		t.Errorf("email cell = %s, want processing", got)
	}
	if got := Project(&l, lead.KindWhatsApp, reg, tokens); got != StateIdle {
		t.Errorf("whatsapp cell = %s, want idle", got)
	}
}

func TestProjectAllCoversEveryKind(t *testing.T) {
	reg := registry.New(nullStore{})
	tokens := NewTokenSet()

	leads := []lead.Lead{{ID: "l1"}, {ID: "l2", GeneratedWhatsApp: "Ola"}}
	projections := ProjectAll(leads, reg, tokens)

	if len(projections) != 2 {
		t.Fatalf("expected 2 projections, got %d", len(projections))
	}
	for _, p := range projections {
		if len(p.Cells) != len(lead.Kinds) {
			t.Errorf("projection for %s has %d cells, want %d", p.LeadID, len(p.Cells), len(lead.Kinds))
		}
	}
	if projections[1].Cells[lead.KindWhatsApp] != StateDone {
		t.Error("populated whatsapp content should project as done")
	}
}
