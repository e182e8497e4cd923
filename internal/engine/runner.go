package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"tapnode/internal/model"
)

var (
	// ErrNoTokens ends a run before any request is made.
	ErrNoTokens = errors.New("no tokens found")

	errNoEnergy = errors.New("no profile energy")
)

type RunSummary struct {
	RunID    string
	Accounts int
	// Skipped counts accounts whose profile could not be fetched.
	Skipped int
	// Failed counts accounts whose pipeline returned an error.
	Failed int
	Taps   int
}

// AssignProxy picks the proxy for account i round-robin, "" when there are
// no proxies.
func AssignProxy(i int, proxies []string) string {
	if len(proxies) == 0 {
		return ""
	}
	return proxies[i%len(proxies)]
}

// Run processes every loaded token in file order, one account at a time.
// Only an empty token list or a canceled ctx ends the run early.
func (e *Engine) Run(ctx context.Context) (RunSummary, error) {
	sum := RunSummary{RunID: uuid.NewString()}
	e.bus.Log("info", "run started", map[string]any{"runId": sum.RunID, "provider": e.provider.Name()})

	e.console.Banner("Tap Node Inflectiv - Auto Tapper")

	tokens, err := e.loader.LoadTokens(ctx)
	if err != nil {
		e.console.Error("Error reading tokens file", err)
		tokens = nil
	}
	e.console.Loaded(len(tokens), "TOKENS")

	proxies, err := e.loader.LoadProxies(ctx)
	if err != nil {
		e.console.Error("Error reading proxies file", err)
		proxies = nil
	}
	e.console.Loaded(len(proxies), "PROXIES")

	if len(tokens) == 0 {
		e.console.Printf("No tokens found. Please add tokens to %s", e.tokensSource)
		return sum, ErrNoTokens
	}

	for i, token := range tokens {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		acc := model.Account{Index: i, Token: token, Proxy: AssignProxy(i, proxies)}
		res, err := e.ProcessAccount(ctx, acc)
		sum.Accounts++
		sum.Taps += res.Tap.Taps
		if !res.ProfileOK {
			sum.Skipped++
		}
		if err != nil {
			sum.Failed++
			e.console.Error("Error processing token", err)
			e.bus.Log("error", "account failed", map[string]any{
				"runId":   sum.RunID,
				"account": i,
				"error":   err.Error(),
			})
			continue
		}
		e.bus.Log("info", "account done", map[string]any{
			"runId":   sum.RunID,
			"account": i,
			"taps":    res.Tap.Taps,
			"tapExit": string(res.Tap.Exit),
		})
	}

	e.bus.Log("info", "run finished", map[string]any{
		"runId":    sum.RunID,
		"accounts": sum.Accounts,
		"skipped":  sum.Skipped,
		"failed":   sum.Failed,
		"taps":     sum.Taps,
	})
	return sum, ctx.Err()
}

func (s RunSummary) String() string {
	return fmt.Sprintf("run %s: %d accounts, %d skipped, %d failed, %d taps",
		s.RunID, s.Accounts, s.Skipped, s.Failed, s.Taps)
}
