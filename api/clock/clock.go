// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/runtime"
)

type Status struct {
	Now    uint64 `json:"now"`
	Manual bool   `json:"manual"`
}

type AdvanceRequest struct {
	Seconds uint64 `json:"seconds"`
}

type Clock struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Clock {
	return &Clock{rt}
}

func (c *Clock) manual() (*runtime.ManualClock, bool) {
	mc, ok := c.rt.Clock().(*runtime.ManualClock)
	return mc, ok
}

func (c *Clock) handleGetClock(w http.ResponseWriter, _ *http.Request) error {
	_, manual := c.manual()
	return utils.WriteJSON(w, &Status{c.rt.Now(), manual})
}

func (c *Clock) handleAdvance(w http.ResponseWriter, req *http.Request) error {
	mc, ok := c.manual()
	if !ok {
		return utils.Forbidden(errors.New("clock is not manual"))
	}
	var body AdvanceRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	mc.Advance(body.Seconds)
	return utils.WriteJSON(w, &Status{c.rt.Now(), true})
}

func (c *Clock) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodGet).Name("GET /clock").HandlerFunc(utils.WrapHandlerFunc(c.handleGetClock))
	sub.Path("/advance").Methods(http.MethodPost).Name("POST /clock/advance").HandlerFunc(utils.WrapHandlerFunc(c.handleAdvance))
}
