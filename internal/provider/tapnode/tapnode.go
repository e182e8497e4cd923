package tapnode

import (
	"context"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"tapnode/internal/config"
	"tapnode/internal/logbus"
	"tapnode/internal/model"
	"tapnode/internal/provider"
	"tapnode/internal/proxy"
	"tapnode/internal/utils"
)

type Provider struct {
	cfg     config.ProviderConfig
	bus     *logbus.Bus
	log     *zap.Logger
	limiter *rate.Limiter
}

func New(cfg config.ProviderConfig, limits config.LimitsConfig, bus *logbus.Bus, log *zap.Logger) *Provider {
	if log == nil {
		log = zap.NewNop()
	}
	limit := rate.Limit(limits.QPS)
	if limits.QPS <= 0 {
		limit = rate.Inf
	}
	burst := limits.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Provider{
		cfg:     cfg,
		bus:     bus,
		log:     log,
		limiter: rate.NewLimiter(limit, burst),
	}
}

func (p *Provider) Name() string { return "tapnode" }

type errorResp struct {
	Message string `json:"message"`
}

type profileResp struct {
	PlayerData *model.Profile `json:"playerData"`
}

type completeTaskReq struct {
	TaskID string `json:"taskId"`
}

type tapReq struct {
	Taps int `json:"taps"`
}

func (p *Provider) FetchProfile(ctx context.Context, account model.Account) (*model.Profile, error) {
	var resp profileResp
	if err := p.do(ctx, account, http.MethodGet, "/user/profile", nil, &resp); err != nil {
		return nil, err
	}
	if resp.PlayerData == nil {
		return nil, provider.ErrNoPlayerData
	}
	return resp.PlayerData, nil
}

func (p *Provider) CompleteTask(ctx context.Context, account model.Account, taskID string) error {
	return p.do(ctx, account, http.MethodPost, "/tasks/complete", completeTaskReq{TaskID: taskID}, nil)
}

func (p *Provider) ClaimDailyReward(ctx context.Context, account model.Account) error {
	return p.do(ctx, account, http.MethodPost, "/game/claim-daily-reward", struct{}{}, nil)
}

func (p *Provider) SubmitTaps(ctx context.Context, account model.Account, taps int) error {
	return p.do(ctx, account, http.MethodPost, "/game/tap", tapReq{Taps: taps}, nil)
}

func (p *Provider) do(ctx context.Context, account model.Account, method, path string, body, result any) error {
	client, err := p.newClient(account)
	if err != nil {
		return err
	}
	if err := p.limiter.Wait(ctx); err != nil {
		return err
	}

	var apiErr errorResp
	req := client.R().
		SetContext(ctx).
		SetError(&apiErr)
	if body != nil {
		req.SetBody(body)
	}
	if result != nil {
		req.SetResult(result)
	}
	resp, err := req.Execute(method, path)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return &provider.APIError{Status: resp.StatusCode(), Message: apiErr.Message}
	}
	return nil
}

// newClient builds a client bound to the account's proxy. Connections are
// closed after each response, so no tunnel outlives its request. A proxy that
// cannot be used fails here, before any request leaves the host.
func (p *Provider) newClient(account model.Account) (*resty.Client, error) {
	client := resty.New().
		SetBaseURL(p.cfg.BaseURL).
		SetTimeout(p.cfg.Timeout()).
		SetRetryCount(0).
		SetCloseConnection(true).
		SetLogger(p.log.Sugar()).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", utils.NormalizeUserAgent(p.cfg.UserAgent)).
		SetHeader("Authorization", "Bearer "+account.Token)

	if account.Proxy != "" {
		d := proxy.Resolve(account.Proxy)
		switch d.Scheme {
		case proxy.SchemeSOCKS:
			dial, err := d.DialContext()
			if err != nil {
				return nil, err
			}
			client.SetTransport(&http.Transport{
				DialContext:         dial,
				TLSHandshakeTimeout: 10 * time.Second,
				DisableKeepAlives:   true,
			})
		default:
			u, err := d.URL()
			if err != nil {
				return nil, err
			}
			client.SetProxy(u.String())
		}
	}

	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		if p.bus != nil {
			p.bus.Log("debug", "http request", map[string]any{
				"account": account.Index,
				"method":  req.Method,
				"url":     req.URL,
			})
		}
		return nil
	})

	return client, nil
}
