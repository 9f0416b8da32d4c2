// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"context"
	"fmt"
	"math"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/mill"
)

type Events struct {
	db    *logdb.LogDB
	limit uint64
}

func New(db *logdb.LogDB, logsLimit uint64) *Events {
	return &Events{
		db,
		logsLimit,
	}
}

// Filter query events with option
func (e *Events) filter(ctx context.Context, ef *EventFilter) ([]*FilteredEvent, error) {
	events, err := e.db.FilterEvents(ctx, convertFilter(ef))
	if err != nil {
		return nil, err
	}
	fes := make([]*FilteredEvent, len(events))
	for i, ev := range events {
		fes[i] = ConvertEvent(ev)
	}
	return fes, nil
}

func (e *Events) serve(w http.ResponseWriter, req *http.Request, filter *EventFilter) error {
	if filter.Options != nil && filter.Options.Limit > e.limit {
		return utils.Forbidden(fmt.Errorf("options.limit exceeds the maximum allowed value of %d", e.limit))
	}
	if filter.Options != nil && filter.Options.Offset > math.MaxInt64 {
		return utils.BadRequest(fmt.Errorf("options.offset exceeds the maximum allowed value of %d", int64(math.MaxInt64)))
	}
	if filter.Range != nil && filter.Range.From != nil && filter.Range.To != nil && *filter.Range.From > *filter.Range.To {
		return utils.BadRequest(errors.New("range.to must be greater than or equal to range.from"))
	}
	for i, criterion := range filter.CriteriaSet {
		if criterion == nil {
			return utils.BadRequest(fmt.Errorf("criteriaSet[%d]: null not allowed", i))
		}
	}
	if filter.Order != "" && filter.Order != logdb.ASC && filter.Order != logdb.DESC {
		return utils.BadRequest(fmt.Errorf("order: must be %q or %q", logdb.ASC, logdb.DESC))
	}
	if filter.Options == nil {
		// one over the limit tells whether the result was cut
		filter.Options = &Options{Limit: e.limit + 1}
	}

	fes, err := e.filter(req.Context(), filter)
	if err != nil {
		return err
	}
	if len(fes) > int(e.limit) {
		return utils.Forbidden(fmt.Errorf("the number of filtered events exceeds the maximum allowed value of %d, please use pagination", e.limit))
	}
	return utils.WriteJSON(w, fes)
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return e.serve(w, req, &filter)
}

// handleQuery is the query string form of handleFilter, with a single criteria.
func (e *Events) handleQuery(w http.ResponseWriter, req *http.Request) error {
	query := req.URL.Query()
	filter := EventFilter{
		ReceiptID: query.Get("receipt"),
		Order:     logdb.Order(query.Get("order")),
	}
	criteria := &EventCriteria{Name: query.Get("name")}
	if s := query.Get("address"); s != "" {
		addr, err := mill.ParseAddress(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "address"))
		}
		criteria.Address = addr
	}
	if criteria.Address != nil || criteria.Name != "" {
		filter.CriteriaSet = []*EventCriteria{criteria}
	}

	if query.Has("from") || query.Has("to") {
		filter.Range = &Range{}
		if query.Has("from") {
			from, err := utils.Uint64Query(req, "from", 0)
			if err != nil {
				return err
			}
			filter.Range.From = &from
		}
		if query.Has("to") {
			to, err := utils.Uint64Query(req, "to", 0)
			if err != nil {
				return err
			}
			filter.Range.To = &to
		}
	}
	if query.Has("offset") || query.Has("limit") {
		offset, err := utils.Uint64Query(req, "offset", 0)
		if err != nil {
			return err
		}
		limit, err := utils.Uint64Query(req, "limit", e.limit)
		if err != nil {
			return err
		}
		filter.Options = &Options{Offset: offset, Limit: limit}
	}
	return e.serve(w, req, &filter)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("GET /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleQuery))
	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
