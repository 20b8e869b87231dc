package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/banner"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/inventory"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/season"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
)

var springWeek0 = time.Date(2025, time.February, 3, 0, 0, 0, 0, time.UTC)

type unknownAction struct{}

func (unknownAction) ActionType() action.Type { return "banner.burned" }

func newFarm(bucks int64) state.GameState {
	return state.GameState{
		Inventory: inventory.Inventory{inventory.BlockBuck: decimal.NewFromInt(bucks)},
		Bumpkin:   &state.Bumpkin{ID: 1},
	}
}

func TestApplyDispatchesRegisteredAction(t *testing.T) {
	st := newFarm(100)
	next, err := Apply(st, banner.PurchaseAction{Name: season.SpringBanner}, action.Context{CreatedAt: springWeek0})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !next.Inventory.Has(inventory.ItemName(season.SpringBanner)) {
		t.Fatalf("purchase not applied")
	}
}

func TestApplyRejectsUnsupportedAction(t *testing.T) {
	_, err := Apply(newFarm(100), unknownAction{}, action.Context{CreatedAt: springWeek0})
	if got := apperrors.GetCode(err); got != apperrors.CodeActionUnsupported {
		t.Fatalf("Apply() code = %s, want %s", got, apperrors.CodeActionUnsupported)
	}
}

func TestApplyIsAllOrNothing(t *testing.T) {
	st := newFarm(10)
	before := st.Clone()

	_, err := Apply(st, banner.PurchaseAction{Name: season.SpringBanner}, action.Context{CreatedAt: springWeek0})
	if got := apperrors.GetCode(err); got != apperrors.CodeInsufficientFunds {
		t.Fatalf("Apply() code = %s, want %s", got, apperrors.CodeInsufficientFunds)
	}
	if !st.Equal(before) {
		t.Fatalf("rejected transition mutated the input state")
	}
}

func TestApplyIsDeterministic(t *testing.T) {
	st := newFarm(100)
	ctx := action.Context{CreatedAt: springWeek0, FarmID: "farm-1"}
	act := banner.PurchaseAction{Name: season.SpringBanner}

	first, err1 := Apply(st, act, ctx)
	second, err2 := Apply(st, act, ctx)
	if err1 != nil || err2 != nil {
		t.Fatalf("Apply() errors = %v, %v", err1, err2)
	}
	if !first.Equal(second) {
		t.Fatalf("identical inputs produced different states")
	}
}

func TestApplyReturnsStructurallyIndependentState(t *testing.T) {
	st := newFarm(100)
	next, err := Apply(st, banner.PurchaseAction{Name: season.SpringBanner}, action.Context{CreatedAt: springWeek0})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	next.Inventory[inventory.BlockBuck] = decimal.NewFromInt(0)
	next.Bumpkin.Experience = 999

	if got := st.Inventory.Quantity(inventory.BlockBuck); !got.Equal(decimal.NewFromInt(100)) {
		t.Fatalf("output aliases input inventory: %s", got)
	}
	if st.Bumpkin.Experience != 0 {
		t.Fatalf("output aliases input bumpkin")
	}
}

func TestValidateDoesNotMutate(t *testing.T) {
	st := newFarm(100)
	before := st.Clone()
	if err := Validate(st, banner.PurchaseAction{Name: season.SpringBanner}, action.Context{CreatedAt: springWeek0}); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if !st.Equal(before) {
		t.Fatalf("validation mutated state")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	act, err := Decode(banner.TypePurchased, []byte(`{"name":"Winter Banner"}`))
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if act.ActionType() != banner.TypePurchased {
		t.Fatalf("decoded type = %s", act.ActionType())
	}

	if _, err := Decode("banner.burned", []byte(`{}`)); apperrors.GetCode(err) != apperrors.CodeActionUnsupported {
		t.Fatalf("Decode(unknown) code = %s", apperrors.GetCode(err))
	}
}

func TestRegisteredTypes(t *testing.T) {
	types := RegisteredTypes()
	if len(types) == 0 {
		t.Fatalf("no registered action types")
	}
	for i := 1; i < len(types); i++ {
		if types[i-1] >= types[i] {
			t.Fatalf("types not sorted: %v", types)
		}
	}
	found := false
	for _, typ := range types {
		if typ == banner.TypePurchased {
			found = true
		}
	}
	if !found {
		t.Fatalf("banner.purchased not registered")
	}
}
