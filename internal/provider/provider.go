package provider

import (
	"context"
	"errors"
	"fmt"

	"tapnode/internal/model"
)

// ErrNoPlayerData is returned when the profile response lacks playerData.
var ErrNoPlayerData = errors.New("response has no playerData")

// APIError is a non-2xx response. Message carries the server's message field
// when one was sent.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("request failed with status code %d", e.Status)
}

type Provider interface {
	Name() string

	FetchProfile(ctx context.Context, account model.Account) (*model.Profile, error)
	CompleteTask(ctx context.Context, account model.Account, taskID string) error
	ClaimDailyReward(ctx context.Context, account model.Account) error
	SubmitTaps(ctx context.Context, account model.Account, taps int) error
}
