// Package state defines the canonical snapshot of one player's farm. States
// are passed by value, replaced wholesale by the engine, and never mutated in
// place: any caller holding the prior snapshot observes no change.
package state

import "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/inventory"

// Bumpkin is the player's identity profile. Its absence blocks all purchase
// actions.
type Bumpkin struct {
	ID         uint64 `json:"id"`
	Experience uint64 `json:"experience"`
}

// GameState is the canonical snapshot of a farm. Serialized with exact
// decimal quantities: every inventory value survives a JSON round trip
// without precision loss.
type GameState struct {
	Inventory inventory.Inventory `json:"inventory"`
	Bumpkin   *Bumpkin            `json:"bumpkin,omitempty"`
}

// Clone returns a structurally independent copy. No mutable substructure is
// shared with the receiver.
func (s GameState) Clone() GameState {
	next := GameState{
		Inventory: s.Inventory.Clone(),
	}
	if s.Bumpkin != nil {
		bumpkin := *s.Bumpkin
		next.Bumpkin = &bumpkin
	}
	return next
}

// Equal reports whether two states carry the same effective content.
func (s GameState) Equal(other GameState) bool {
	if !s.Inventory.Equal(other.Inventory) {
		return false
	}
	if (s.Bumpkin == nil) != (other.Bumpkin == nil) {
		return false
	}
	if s.Bumpkin != nil && *s.Bumpkin != *other.Bumpkin {
		return false
	}
	return true
}
