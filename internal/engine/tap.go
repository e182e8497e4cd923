package engine

import (
	"context"
	"fmt"
	"time"

	"tapnode/internal/model"
)

const (
	// TapBatchSize caps the taps sent in one request.
	TapBatchSize = 10
	// TapDelay is the pause between a batch and the energy refresh.
	TapDelay = 5 * time.Second
)

type TapExit string

const (
	TapDepleted      TapExit = "depleted"
	TapNoProfile     TapExit = "no-profile"
	TapInvalidPower  TapExit = "invalid-tap-power"
	TapSubmitFailed  TapExit = "tap-failed"
	TapRefreshFailed TapExit = "refresh-failed"
	TapCanceled      TapExit = "canceled"
)

type TapResult struct {
	Batches int
	Taps    int
	// Energy is the last known energy when the loop stopped.
	Energy int
	Exit   TapExit
}

// BatchSize is min(TapBatchSize, energy/tapPower), or 0 when no tap is
// affordable.
func BatchSize(energy, tapPower int) int {
	if energy <= 0 || tapPower <= 0 {
		return 0
	}
	return min(TapBatchSize, energy/tapPower)
}

// Tap spends the account's energy in batches until it no longer covers a
// single tap. The server's energy reading replaces the local estimate after
// every batch.
func (e *Engine) Tap(ctx context.Context, acc model.Account, profile *model.Profile) TapResult {
	if profile == nil || profile.Energy == nil {
		e.console.Println("")
		e.console.Section("CANNOT START TAPPING: NO PROFILE DATA")
		e.console.Println("")
		e.step(acc, "tap", errNoEnergy, "")
		return TapResult{Exit: TapNoProfile}
	}

	res := TapResult{Energy: *profile.Energy, Exit: TapDepleted}
	tapPower := profile.TapPower
	if tapPower <= 0 {
		err := fmt.Errorf("invalid tap power %d", tapPower)
		e.console.Fail("Cannot start tapping", err)
		e.step(acc, "tap", err, "")
		res.Exit = TapInvalidPower
		return res
	}

	e.console.Println("")
	e.console.Section("STARTING TAPPING")

	for res.Energy > 0 {
		taps := BatchSize(res.Energy, tapPower)
		if taps == 0 {
			break
		}

		if err := e.provider.SubmitTaps(ctx, acc, taps); err != nil {
			e.console.Fail("Tapping failed", err)
			e.step(acc, "tap", err, "")
			res.Exit = TapSubmitFailed
			if ctx.Err() != nil {
				res.Exit = TapCanceled
			}
			break
		}
		e.console.OK(fmt.Sprintf("Performed %d taps", taps))
		e.step(acc, "tap", nil, fmt.Sprint(taps))
		res.Batches++
		res.Taps += taps
		res.Energy -= taps * tapPower

		if !sleep(ctx, e.tapDelay) {
			res.Exit = TapCanceled
			break
		}

		updated := e.fetchProfile(ctx, acc)
		if updated == nil || updated.Energy == nil {
			e.console.Println("Failed to fetch updated profile, stopping tapping")
			res.Exit = TapRefreshFailed
			if ctx.Err() != nil {
				res.Exit = TapCanceled
			}
			break
		}
		res.Energy = *updated.Energy
		e.console.OK(fmt.Sprintf("Energy refreshed: %d/%d", res.Energy, updated.EnergyMax))
	}

	e.console.Section("TAPPING COMPLETED")
	e.console.Println("")
	return res
}
