package tapnode

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tapnode/internal/config"
	"tapnode/internal/logbus"
	"tapnode/internal/model"
	"tapnode/internal/provider"
)

type recorded struct {
	Method string
	Path   string
	Auth   string
	CType  string
	Body   map[string]any
}

type fakeAPI struct {
	mu       sync.Mutex
	requests []recorded
	handler  func(w http.ResponseWriter, r *http.Request)
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := recorded{
		Method: r.Method,
		Path:   r.URL.Path,
		Auth:   r.Header.Get("Authorization"),
		CType:  r.Header.Get("Content-Type"),
	}
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&rec.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, rec)
	f.mu.Unlock()
	f.handler(w, r)
}

func (f *fakeAPI) last() recorded {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestProvider(t *testing.T, baseURL string) *Provider {
	t.Helper()
	return New(
		config.ProviderConfig{BaseURL: baseURL, TimeoutMs: 2000},
		config.LimitsConfig{QPS: -1},
		logbus.New(50),
		nil,
	)
}

func startAPI(t *testing.T, h func(w http.ResponseWriter, r *http.Request)) (*fakeAPI, *Provider) {
	t.Helper()
	api := &fakeAPI{handler: h}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	return api, newTestProvider(t, srv.URL+"/api")
}

func TestFetchProfile(t *testing.T) {
	api, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"playerData": map[string]any{
				"username":          "alice",
				"energy":            95,
				"energy_max":        1000,
				"energy_level":      3,
				"tap_power":         10,
				"fullEnergy":        map[string]any{"lastUsed": 1700000000000},
				"lastEnergyTime":    "2024-01-02T03:04:05Z",
				"lastDataClaimTime": nil,
			},
		})
	})

	prof, err := p.FetchProfile(context.Background(), model.Account{Token: "tok"})
	require.NoError(t, err)
	require.NotNil(t, prof.Energy)
	assert.Equal(t, "alice", prof.Username)
	assert.Equal(t, 95, *prof.Energy)
	assert.Equal(t, 1000, prof.EnergyMax)
	assert.Equal(t, 3, prof.EnergyLevel)
	assert.Equal(t, 10, prof.TapPower)
	assert.Equal(t, int64(1700000000000), prof.FullEnergy.LastUsed.UnixMilli())
	assert.Equal(t, 2024, prof.LastEnergyTime.Year())
	assert.True(t, prof.LastDataClaimTime.IsZero())

	req := api.last()
	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/api/user/profile", req.Path)
	assert.Equal(t, "Bearer tok", req.Auth)
	assert.Equal(t, "application/json", req.CType)
}

func TestFetchProfileMissingPlayerData(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"other": true})
	})
	prof, err := p.FetchProfile(context.Background(), model.Account{Token: "tok"})
	require.ErrorIs(t, err, provider.ErrNoPlayerData)
	assert.Nil(t, prof)
}

func TestFetchProfileMalformed(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"playerData": map[string]any{"energy": "lots"}})
	})
	prof, err := p.FetchProfile(context.Background(), model.Account{Token: "tok"})
	require.Error(t, err)
	assert.Nil(t, prof)
}

func TestFetchProfileBadTimestampIsNoProfile(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"playerData": map[string]any{
			"energy":         10,
			"lastEnergyTime": "yesterday",
		}})
	})
	prof, err := p.FetchProfile(context.Background(), model.Account{Token: "tok"})
	require.Error(t, err)
	assert.Nil(t, prof)
}

func TestAPIErrorCarriesServerMessage(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]any{"message": "Task already completed"})
	})
	err := p.CompleteTask(context.Background(), model.Account{Token: "tok"}, "task_7")
	var apiErr *provider.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Task already completed", err.Error())
}

func TestAPIErrorWithoutMessage(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	err := p.ClaimDailyReward(context.Background(), model.Account{Token: "tok"})
	require.Error(t, err)
	assert.Equal(t, "request failed with status code 500", err.Error())
}

func TestPostBodies(t *testing.T) {
	api, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"success": true})
	})
	ctx := context.Background()
	acc := model.Account{Token: "tok"}

	require.NoError(t, p.CompleteTask(ctx, acc, "7BhNEc96WsnmuMNzmBxRkY"))
	req := api.last()
	assert.Equal(t, http.MethodPost, req.Method)
	assert.Equal(t, "/api/tasks/complete", req.Path)
	assert.Equal(t, map[string]any{"taskId": "7BhNEc96WsnmuMNzmBxRkY"}, req.Body)

	require.NoError(t, p.ClaimDailyReward(ctx, acc))
	req = api.last()
	assert.Equal(t, "/api/game/claim-daily-reward", req.Path)
	assert.Equal(t, map[string]any{}, req.Body)

	require.NoError(t, p.SubmitTaps(ctx, acc, 9))
	req = api.last()
	assert.Equal(t, "/api/game/tap", req.Path)
	assert.Equal(t, map[string]any{"taps": float64(9)}, req.Body)
	assert.Equal(t, "application/json", req.CType)
}

func TestRequestsGoThroughHTTPProxy(t *testing.T) {
	var (
		mu        sync.Mutex
		seenURL   string
		seenProxy string
	)
	proxySrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		seenURL = r.URL.String()
		seenProxy = r.Header.Get("Proxy-Authorization")
		mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]any{"playerData": map[string]any{"username": "via-proxy", "energy": 1}})
	}))
	defer proxySrv.Close()

	hostPort := strings.TrimPrefix(proxySrv.URL, "http://")
	host, port, _ := strings.Cut(hostPort, ":")
	p := newTestProvider(t, "http://api.tapnode.invalid/api")

	prof, err := p.FetchProfile(context.Background(), model.Account{Token: "tok", Proxy: host + ":" + port + ":bob:pw"})
	require.NoError(t, err)
	assert.Equal(t, "via-proxy", prof.Username)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, "http://api.tapnode.invalid/api/user/profile", seenURL)
	assert.Equal(t, "Basic "+base64.StdEncoding.EncodeToString([]byte("bob:pw")), seenProxy)
}

func TestUnusableProxyIsTransportError(t *testing.T) {
	api, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx := context.Background()

	err := p.SubmitTaps(ctx, model.Account{Token: "tok", Proxy: "socks4://127.0.0.1:1080"}, 1)
	require.Error(t, err)

	err = p.SubmitTaps(ctx, model.Account{Token: "tok", Proxy: "not a proxy"}, 1)
	require.Error(t, err)

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Empty(t, api.requests)
}

func TestRequestLoggedOnBus(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	require.NoError(t, p.SubmitTaps(context.Background(), model.Account{Index: 4, Token: "tok"}, 1))

	snap := p.bus.Snapshot()
	require.NotEmpty(t, snap)
	data := snap[len(snap)-1].Data.(logbus.LogData)
	assert.Equal(t, "http request", data.Msg)
	assert.Equal(t, 4, data.Fields["account"])
}

func TestCanceledContext(t *testing.T) {
	_, p := startAPI(t, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{})
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, p.SubmitTaps(ctx, model.Account{Token: "tok"}, 1))
}
