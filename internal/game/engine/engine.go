// Package engine dispatches typed actions to their validator and mutator and
// enforces the all-or-nothing transition contract: a rejected action leaves
// the caller's state untouched, an accepted one yields a structurally new
// snapshot.
package engine

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/banner"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
)

// handlerEntry declares the validator and mutator for one action kind.
type handlerEntry struct {
	validate func(state.GameState, action.Action, action.Context) error
	apply    func(state.GameState, action.Action, action.Context) (state.GameState, error)
	decode   func(json.RawMessage) (action.Action, error)
}

// handlers maps each action kind to exactly one validator+mutator pair. The
// table is fixed at compile time: adding an action kind is a closed,
// auditable change here, not open-ended dynamic dispatch.
var handlers = map[action.Type]handlerEntry{
	banner.TypePurchased: {
		validate: func(st state.GameState, act action.Action, ctx action.Context) error {
			purchase, err := asPurchase(act)
			if err != nil {
				return err
			}
			return banner.ValidatePurchase(st, purchase, ctx)
		},
		apply: func(st state.GameState, act action.Action, ctx action.Context) (state.GameState, error) {
			purchase, err := asPurchase(act)
			if err != nil {
				return state.GameState{}, err
			}
			return banner.ApplyPurchase(st, purchase, ctx)
		},
		decode: banner.DecodePurchase,
	},
}

func asPurchase(act action.Action) (banner.PurchaseAction, error) {
	purchase, ok := act.(banner.PurchaseAction)
	if !ok {
		return banner.PurchaseAction{}, apperrors.New(apperrors.CodeActionMalformed,
			fmt.Sprintf("action %s carries payload type %T", act.ActionType(), act))
	}
	return purchase, nil
}

// Apply validates and applies an action to a snapshot. On rejection the error
// carries a stable machine-checkable code and no partial mutation occurs; the
// same (state, action, context) triple always yields the same result.
func Apply(st state.GameState, act action.Action, ctx action.Context) (state.GameState, error) {
	h, ok := handlers[act.ActionType()]
	if !ok {
		return state.GameState{}, apperrors.WithMetadata(apperrors.CodeActionUnsupported,
			fmt.Sprintf("action type %s is not supported", act.ActionType()),
			map[string]string{"type": string(act.ActionType())})
	}
	if err := h.validate(st, act, ctx); err != nil {
		return state.GameState{}, err
	}
	return h.apply(st, act, ctx)
}

// Validate runs only the validator for an action without computing the
// mutation.
func Validate(st state.GameState, act action.Action, ctx action.Context) error {
	h, ok := handlers[act.ActionType()]
	if !ok {
		return apperrors.New(apperrors.CodeActionUnsupported,
			fmt.Sprintf("action type %s is not supported", act.ActionType()))
	}
	return h.validate(st, act, ctx)
}

// Decode reconstructs a typed action from its journaled kind and payload.
func Decode(typ action.Type, payload json.RawMessage) (action.Action, error) {
	h, ok := handlers[typ]
	if !ok {
		return nil, apperrors.New(apperrors.CodeActionUnsupported,
			fmt.Sprintf("action type %s is not supported", typ))
	}
	return h.decode(payload)
}

// RegisteredTypes returns the sorted list of action kinds in the registry.
func RegisteredTypes() []action.Type {
	types := make([]action.Type, 0, len(handlers))
	for t := range handlers {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool {
		return string(types[i]) < string(types[j])
	})
	return types
}
