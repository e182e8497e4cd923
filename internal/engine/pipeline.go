package engine

import (
	"context"
	"fmt"

	"tapnode/internal/model"
)

// AccountResult summarizes one pass of the pipeline.
type AccountResult struct {
	Account     model.Account
	ProfileOK   bool
	TasksDone   int
	TasksFailed int
	Claimed     bool
	Tap         TapResult
}

// ProcessAccount runs fetch profile, tasks, daily claim and the tap loop for
// acc. Stage failures are reported and skipped; the returned error is set
// only for a panic or a canceled ctx.
func (e *Engine) ProcessAccount(ctx context.Context, acc model.Account) (res AccountResult, err error) {
	res.Account = acc
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	e.console.AccountStart(acc)

	profile := e.fetchProfile(ctx, acc)
	e.console.Profile(profile)
	if profile == nil {
		e.console.Println("Skipping tasks and tapping due to profile fetch failure")
	} else {
		res.ProfileOK = true
		res.TasksDone, res.TasksFailed = e.completeTasks(ctx, acc)
		res.Claimed = e.claimDailyReward(ctx, acc)
		res.Tap = e.Tap(ctx, acc, profile)
	}

	e.console.AccountDone(acc)
	return res, ctx.Err()
}

// fetchProfile returns nil when the profile could not be read.
func (e *Engine) fetchProfile(ctx context.Context, acc model.Account) *model.Profile {
	p, err := e.provider.FetchProfile(ctx, acc)
	e.step(acc, "profile", err, "")
	if err != nil {
		e.console.Error("Error fetching profile", err)
		return nil
	}
	return p
}

func (e *Engine) completeTasks(ctx context.Context, acc model.Account) (done, failed int) {
	e.console.Println("Attempting to complete tasks...")
	for _, id := range e.tasks {
		err := e.provider.CompleteTask(ctx, acc, id)
		e.step(acc, "task", err, id)
		if err != nil {
			e.console.Fail(fmt.Sprintf("Task %s failed", id), err)
			failed++
			continue
		}
		e.console.OK(fmt.Sprintf("Task %s completed successfully", id))
		done++
	}
	return done, failed
}

func (e *Engine) claimDailyReward(ctx context.Context, acc model.Account) bool {
	err := e.provider.ClaimDailyReward(ctx, acc)
	e.step(acc, "claim", err, "")
	if err != nil {
		e.console.Fail("Daily reward claim failed", err)
		return false
	}
	e.console.OK("Daily reward claimed successfully")
	return true
}
