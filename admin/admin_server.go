// Copyright (c) 2024 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/co"
	"github.com/rewardmill/rewardmill/runtime"
)

func methods(get, post http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			get.ServeHTTP(w, r)
		case http.MethodPost:
			post.ServeHTTP(w, r)
		default:
			writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		}
	}
}

// HTTPHandler serves the admin endpoints under /admin.
func HTTPHandler(logLevel *slog.LevelVar, apiLogs *atomic.Bool, rt *runtime.Runtime) http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/admin/loglevel", methods(getLogLevelHandler(logLevel), postLogLevelHandler(logLevel)))
	router.HandleFunc("/admin/apilogs", methods(getAPILogsHandler(apiLogs), postAPILogsHandler(apiLogs)))
	router.HandleFunc("/admin/status", statusHandler(rt)).Methods(http.MethodGet)
	return handlers.CompressHandler(router)
}

func StartServer(addr string, logLevel *slog.LevelVar, apiLogs *atomic.Bool, rt *runtime.Runtime) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen admin API addr [%v]", addr)
	}

	srv := &http.Server{Handler: HTTPHandler(logLevel, apiLogs, rt), ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var goes co.Goes
	goes.Go(func() {
		srv.Serve(listener)
	})
	return "http://" + listener.Addr().String() + "/admin", func() {
		srv.Close()
		goes.Wait()
	}, nil
}
