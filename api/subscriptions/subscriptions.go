// Copyright (c) 2018 The VeChainThor developers
// Copyright (c) 2026 The RewardMill developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/rewardmill/rewardmill/api/utils"
	"github.com/rewardmill/rewardmill/log"
	"github.com/rewardmill/rewardmill/logdb"
	"github.com/rewardmill/rewardmill/mill"
	"github.com/rewardmill/rewardmill/runtime"
)

var logger = log.WithContext("pkg", "subscriptions")

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10

	pageSize = 100
)

type Subscriptions struct {
	rt       *runtime.Runtime
	db       *logdb.LogDB
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the subscription handlers. Connections are accepted from the given origins,
// or from any origin when it contains "*".
func New(rt *runtime.Runtime, db *logdb.LogDB, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		db: db,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				for _, allowed := range allowedOrigins {
					if allowed == origin || allowed == "*" {
						return true
					}
				}
				return false
			},
		},
		done: make(chan struct{}),
	}
}

func parseCriteria(req *http.Request) (*logdb.EventCriteria, error) {
	query := req.URL.Query()
	criteria := &logdb.EventCriteria{Name: query.Get("name")}
	if s := query.Get("address"); s != "" {
		addr, err := mill.ParseAddress(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "address"))
		}
		criteria.Address = addr
	}
	for i := range logdb.MaxTopics {
		s := query.Get("t" + strconv.Itoa(i))
		if s == "" {
			continue
		}
		topic, err := mill.ParseBytes32(s)
		if err != nil {
			return nil, utils.BadRequest(errors.WithMessage(err, "t"+strconv.Itoa(i)))
		}
		criteria.Topics[i] = &topic
	}
	return criteria, nil
}

// parsePosition reads the sequence number to resume after. It defaults to the newest event,
// so only events committed after connecting are sent.
func (s *Subscriptions) parsePosition(req *http.Request) (int64, error) {
	pos := req.URL.Query().Get("pos")
	if pos == "" {
		return s.db.NewestSeq(req.Context())
	}
	seq, err := strconv.ParseInt(pos, 10, 64)
	if err != nil || seq < 0 {
		return 0, utils.BadRequest(errors.New("pos: invalid sequence number"))
	}
	return seq, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	criteria, err := parseCriteria(req)
	if err != nil {
		return err
	}
	pos, err := s.parsePosition(req)
	if err != nil {
		return err
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already replied
		logger.Debug("upgrade failed", "err", err)
		return nil
	}
	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	reader := newEventReader(s.db, criteria, pos, pageSize)
	if err := s.pipe(conn, reader); err != nil {
		if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
			logger.Debug("subscription closed", "err", err)
		}
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	_ = conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseGoingAway, ""), time.Now().Add(writeWait))
	return nil
}

// pipe streams events to conn until the peer goes away or the subscriptions are closed.
func (s *Subscriptions) pipe(conn *websocket.Conn, reader *eventReader) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	closed := make(chan error, 1)
	go func() {
		conn.SetReadLimit(1024)
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(pongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				closed <- err
				cancel()
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	waiter := s.rt.NewWaiter()
	for {
		msgs, more, err := reader.Read(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return <-closed
			}
			return err
		}
		for _, msg := range msgs {
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if more {
			continue
		}
		select {
		case <-s.done:
			return nil
		case err := <-closed:
			return err
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter.C():
		}
	}
}

// Close ends every open subscription and waits for them to finish.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
