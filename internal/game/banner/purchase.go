// Package banner implements the banner.purchased action: validation of
// purchase preconditions against the current snapshot and the pure mutation
// producing the next one.
package banner

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/action"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/inventory"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/pricing"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/season"
	"github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/game/state"
	apperrors "github.com/ShinKan42/Wheatcher-s-Hay-Fork/internal/platform/errors"
)

// TypePurchased is the action kind handled by this package.
const TypePurchased action.Type = "banner.purchased"

var (
	// ErrMissingIdentity indicates the farm has no bumpkin profile.
	ErrMissingIdentity = apperrors.New(apperrors.CodeMissingIdentity, "farm has no bumpkin")
	// ErrAlreadyOwned indicates the banner is already held.
	ErrAlreadyOwned = apperrors.New(apperrors.CodeAlreadyOwned, "banner is already owned")
	// ErrUnknownItem indicates the name is not a known banner.
	ErrUnknownItem = apperrors.New(apperrors.CodeUnknownItem, "unknown banner")
)

// PurchaseAction is the intent to buy one banner.
type PurchaseAction struct {
	Name season.Banner `json:"name"`
}

// ActionType implements action.Action.
func (PurchaseAction) ActionType() action.Type {
	return TypePurchased
}

// ValidatePurchase checks purchase preconditions in fixed order, each failure
// short-circuiting so the first applicable reason is the one reported. It is
// pure and never mutates state.
func ValidatePurchase(st state.GameState, act PurchaseAction, ctx action.Context) error {
	if st.Bumpkin == nil {
		return ErrMissingIdentity
	}

	if act.Name == season.LifetimeFarmerBanner {
		if st.Inventory.Has(inventory.ItemName(act.Name)) {
			return ErrAlreadyOwned
		}
		return validateFunds(st, act.Name, ctx.CreatedAt)
	}

	if !season.IsSeasonalBanner(act.Name) {
		return apperrors.WithMetadata(apperrors.CodeUnknownItem,
			fmt.Sprintf("unknown banner %q", act.Name),
			map[string]string{"banner": string(act.Name)})
	}
	if st.Inventory.Has(inventory.ItemName(act.Name)) {
		return ErrAlreadyOwned
	}
	if current := season.CurrentBanner(ctx.CreatedAt); act.Name != current {
		return apperrors.WithMetadata(apperrors.CodeWrongPeriod,
			fmt.Sprintf("attempt to purchase %s during the %s season", act.Name, season.SeasonAt(ctx.CreatedAt)),
			map[string]string{"banner": string(act.Name), "current": string(current)})
	}

	return validateFunds(st, act.Name, ctx.CreatedAt)
}

func validateFunds(st state.GameState, name season.Banner, at time.Time) error {
	price := purchasePrice(st, name, at)
	if st.Inventory.Quantity(inventory.BlockBuck).LessThan(price) {
		return apperrors.WithMetadata(apperrors.CodeInsufficientFunds,
			"insufficient block bucks",
			map[string]string{"price": price.String(), "balance": st.Inventory.Quantity(inventory.BlockBuck).String()})
	}
	return nil
}

// ApplyPurchase produces the post-purchase state. The price and ownership
// flags are read from the pre-mutation snapshot before any ledger operation,
// so a purchase is never priced as if already owned. The returned state
// shares no mutable substructure with the input.
func ApplyPurchase(st state.GameState, act PurchaseAction, ctx action.Context) (state.GameState, error) {
	price := purchasePrice(st, act.Name, ctx.CreatedAt)

	inv, err := st.Inventory.Debit(inventory.BlockBuck, price)
	if err != nil {
		return state.GameState{}, err
	}
	inv, err = inv.Credit(inventory.ItemName(act.Name), decimal.NewFromInt(1))
	if err != nil {
		return state.GameState{}, err
	}

	next := st.Clone()
	next.Inventory = inv
	return next, nil
}

// purchasePrice computes the price against the pre-mutation snapshot.
func purchasePrice(st state.GameState, name season.Banner, at time.Time) decimal.Decimal {
	hasPrevious := st.Inventory.Has(inventory.ItemName(season.PreviousBanner(at)))
	hasLifetime := st.Inventory.Has(inventory.ItemName(season.LifetimeFarmerBanner))
	return pricing.BannerPrice(name, hasPrevious, hasLifetime, at)
}

// DecodePurchase unmarshals a journaled purchase payload back into its typed
// action for replay.
func DecodePurchase(payload json.RawMessage) (action.Action, error) {
	var act PurchaseAction
	if err := json.Unmarshal(payload, &act); err != nil {
		return nil, apperrors.Wrap(apperrors.CodeActionMalformed, "decode banner purchase payload", err)
	}
	if act.Name == "" {
		return nil, apperrors.New(apperrors.CodeActionMalformed, "banner purchase payload has no name")
	}
	return act, nil
}
