// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rewardmill/rewardmill/builtin"
	"github.com/rewardmill/rewardmill/lvldb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
	"github.com/rewardmill/rewardmill/state"
)

func newHandler(t *testing.T) (http.Handler, *slog.LevelVar, *atomic.Bool, *runtime.Runtime) {
	kv, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })

	var logLevel slog.LevelVar
	logLevel.Set(slog.LevelInfo)
	var apiLogs atomic.Bool
	rt := runtime.New(state.New(kv), nil, runtime.NewManualClock(1000))
	return HTTPHandler(&logLevel, &apiLogs, rt), &logLevel, &apiLogs, rt
}

func serve(h http.Handler, method, path string, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestLogLevel(t *testing.T) {
	h, logLevel, _, _ := newHandler(t)

	tests := []struct {
		name    string
		method  string
		body    string
		status  int
		level   string
		message string
	}{
		{"get", http.MethodGet, "", http.StatusOK, "info", ""},
		{"set debug", http.MethodPost, `{"level":"debug"}`, http.StatusOK, "debug", ""},
		{"case insensitive", http.MethodPost, `{"level":"WARN"}`, http.StatusOK, "warn", ""},
		{"invalid level", http.MethodPost, `{"level":"invalid_body"}`, http.StatusBadRequest, "", "Invalid verbosity level"},
		{"invalid body", http.MethodPost, `{"level":`, http.StatusBadRequest, "", "Invalid request body"},
		{"method", http.MethodPut, `{}`, http.StatusMethodNotAllowed, "", "method not allowed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serve(h, tt.method, "/admin/loglevel", tt.body)
			require.Equal(t, tt.status, rr.Code)
			if tt.message != "" {
				var res errorResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
				assert.Equal(t, tt.message, res.ErrorMessage)
				return
			}
			var res logLevelResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
			assert.Equal(t, tt.level, res.CurrentLevel)
		})
	}
	assert.Equal(t, slog.LevelWarn, logLevel.Level())
}

func TestAPILogs(t *testing.T) {
	h, _, apiLogs, _ := newHandler(t)

	rr := serve(h, http.MethodPost, "/admin/apilogs", `{"enabled":true}`)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, apiLogs.Load())

	rr = serve(h, http.MethodGet, "/admin/apilogs", "")
	var res apiLogsResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&res))
	assert.True(t, res.Enabled)

	rr = serve(h, http.MethodPost, "/admin/apilogs", `{}`)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.True(t, apiLogs.Load())
}

func TestStatus(t *testing.T) {
	h, _, _, rt := newHandler(t)

	var res statusResponse
	require.NoError(t, json.NewDecoder(serve(h, http.MethodGet, "/admin/status", "").Body).Decode(&res))
	assert.Equal(t, uint64(1000), res.Now)
	assert.Empty(t, res.LastReceipt)

	receipt, err := rt.Execute(context.Background(), mill.Address{1}, "noop", func(*builtin.Env) error { return nil })
	require.NoError(t, err)

	require.NoError(t, json.NewDecoder(serve(h, http.MethodGet, "/admin/status", "").Body).Decode(&res))
	assert.Equal(t, receipt.ID, res.LastReceipt)
	assert.Equal(t, "noop", res.LastMethod)
}
