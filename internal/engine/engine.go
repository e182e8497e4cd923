package engine

import (
	"context"
	"time"

	"tapnode/internal/console"
	"tapnode/internal/logbus"
	"tapnode/internal/model"
	"tapnode/internal/provider"
)

// Loader supplies the raw credential and proxy lists.
type Loader interface {
	LoadTokens(ctx context.Context) ([]string, error)
	LoadProxies(ctx context.Context) ([]string, error)
}

type Options struct {
	Provider provider.Provider
	Loader   Loader
	Bus      *logbus.Bus
	Console  *console.Console
	// Tasks defaults to model.DefaultTaskIDs.
	Tasks []string
	// TokensSource names the token file in the "no tokens" hint.
	TokensSource string
	// TapDelay overrides the pause between tap batches. Zero means TapDelay.
	TapDelay time.Duration
}

// Engine drives accounts through the pipeline one at a time.
type Engine struct {
	provider provider.Provider
	loader   Loader
	bus      *logbus.Bus
	console  *console.Console

	tasks        []string
	tokensSource string
	tapDelay     time.Duration
}

func New(opts Options) *Engine {
	tasks := opts.Tasks
	if len(tasks) == 0 {
		tasks = model.DefaultTaskIDs
	}
	tapDelay := opts.TapDelay
	if tapDelay <= 0 {
		tapDelay = TapDelay
	}
	tokensSource := opts.TokensSource
	if tokensSource == "" {
		tokensSource = "tokens.txt"
	}
	bus := opts.Bus
	if bus == nil {
		bus = logbus.New(200)
	}
	return &Engine{
		provider:     opts.Provider,
		loader:       opts.Loader,
		bus:          bus,
		console:      opts.Console,
		tasks:        append([]string(nil), tasks...),
		tokensSource: tokensSource,
		tapDelay:     tapDelay,
	}
}

func (e *Engine) step(acc model.Account, action string, err error, detail string) {
	if err != nil {
		e.bus.Step(acc.Index, action, false, err.Error())
		return
	}
	e.bus.Step(acc.Index, action, true, detail)
}

// sleep waits for d or until ctx is done; it reports whether d elapsed.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-ctx.Done():
		return false
	}
}
