// Telephone
//
// Every player writes a prompt, then the books are passed around the table:
// the next player draws the prompt, the one after guesses the drawing, and so
// on until every book has visited every player. The books are then revealed.
//
// Features:
// - One websocket per player at /ws carrying {type, payload} JSON messages
// - Rooms identified by 6-character codes, created on demand
// - Every change sends the full room to everyone in it
// - Rooms with nobody connected are reaped periodically
// - PNG QR code for sharing a room at /room/:roomid/qr, backed by go-qrcode

package main

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"

	"github.com/Seednode/telephone/games"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 32
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client is one player's websocket. It satisfies games.Conn.
type Client struct {
	id   string
	addr string
	conn *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func newClient(conn *websocket.Conn, addr string) *Client {
	return &Client{
		id:   uuid.NewString(),
		addr: addr,
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
}

func (c *Client) ID() string {
	return c.id
}

// Send queues msg for the write pump without blocking. A client whose buffer
// is full is cut off; its read pump then runs the normal disconnect path.
func (c *Client) Send(msg []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		c.closed = true
		close(c.send)
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

func (c *Client) readPump(cfg *Config, gm *games.Manager, router *games.Router) {
	defer func() {
		gm.Disconnect(c)
		c.close()
		_ = c.conn.Close()
		logf(cfg, "GAMES: Connection %s from %s closed", c.id, c.addr)
	}()

	c.conn.SetReadLimit(cfg.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				logf(cfg, "GAMES: Read from %s failed: %v", c.id, err)
			}
			return
		}

		router.Handle(c, raw)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func serveWS(cfg *Config, gm *games.Manager, router *games.Router) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "GAMES: Websocket upgrade for %s failed: %v", realIP(r), err)
			return
		}

		client := newClient(conn, realIP(r))
		logf(cfg, "GAMES: Connection %s opened from %s", client.id, client.addr)

		go client.writePump()
		client.readPump(cfg, gm, router)
	}
}

// serveRoomQR renders a PNG QR code pointing players at a room.
func serveRoomQR(cfg *Config, gm *games.Manager, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		roomID := ps.ByName("roomid")
		if _, ok := gm.Store().Get(roomID); !ok {
			http.Error(w, "room not found", http.StatusNotFound)
			return
		}

		scheme := cfg.scheme()
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		url := scheme + "://" + r.Host + cfg.prefix + "/?room=" + roomID

		const qrSize = 320
		png, err := qrcode.Encode(url, qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			errs <- err
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			errs <- err
			return
		}

		logf(cfg, "SERVE: QR code for %s (%s) to %s in %s",
			roomID,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// registerTelephoneGame sets up routes so that:
//   - $prefix/ws              → websocket for every room
//   - $prefix/room/:roomid/qr → PNG QR code for that room
func registerTelephoneGame(ctx context.Context, cfg *Config, mux *httprouter.Router, errs chan<- error) *games.Manager {
	gm := games.NewManager(func(format string, args ...any) {
		logf(cfg, format, args...)
	})
	router := games.NewRouter(gm)

	go gm.RunReaper(ctx, cfg.reapInterval)

	mux.GET(cfg.prefix+"/ws", serveWS(cfg, gm, router))

	mux.GET(cfg.prefix+"/room/:roomid/qr", serveRoomQR(cfg, gm, errs))

	return gm
}
