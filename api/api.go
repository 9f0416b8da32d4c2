// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package api serves the built-in contracts over HTTP.
package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/rewardmill/rewardmill/api/clock"
	"github.com/rewardmill/rewardmill/api/converter"
	"github.com/rewardmill/rewardmill/api/events"
	"github.com/rewardmill/rewardmill/api/manager"
	"github.com/rewardmill/rewardmill/api/middleware"
	"github.com/rewardmill/rewardmill/api/pools"
	"github.com/rewardmill/rewardmill/api/subscriptions"
	"github.com/rewardmill/rewardmill/api/tokens"
	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/api/vault"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/runtime"
)

const defaultLogsLimit = 1000

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	Log5xxErrors         bool
	LogsLimit            uint64
}

// New return api router
func New(rt *runtime.Runtime, logDB *logdb.LogDB, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}
	if opts.LogsLimit == 0 {
		opts.LogsLimit = defaultLogsLimit
	}

	router := mux.NewRouter()

	p := pools.New(rt)
	p.Mount(router, "/pools")
	p.MountEmission(router, "/emission")
	vault.New(rt).
		Mount(router, "/vault")
	manager.New(rt).
		Mount(router, "/manager")
	converter.New(rt).
		Mount(router, "/converter")
	tokens.New(rt).
		Mount(router, "/tokens")
	clock.New(rt).
		Mount(router, "/clock")
	events.New(logDB, opts.LogsLimit).
		Mount(router, "/events")
	subs := subscriptions.New(rt, logDB, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete}),
		handlers.AllowedHeaders([]string{"content-type", strings.ToLower(utils.CallerHeader)}),
	)(handler)

	reqLogger := opts.EnableReqLogger
	if reqLogger == nil {
		reqLogger = new(atomic.Bool)
	}
	handler = middleware.RequestLoggerMiddleware(log.New("pkg", "api"), reqLogger, opts.SlowQueriesThreshold, opts.Log5xxErrors)(handler)

	return handler.ServeHTTP, subs.Close // subscriptions handles hijacked conns, which need to be closed
}
