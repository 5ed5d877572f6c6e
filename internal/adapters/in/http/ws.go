package http

import (
	nethttp "net/http"
	"time"

	"courieragent/internal/connectivity"
	"courieragent/internal/core/application/usecases/queries"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	snapshotInterval = 5 * time.Second
	writeTimeout     = 10 * time.Second
)

// The control API only listens on the loopback interface, so cross-origin
// checks add nothing here.
var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *nethttp.Request) bool { return true },
}

// StreamTracking handles GET /api/v1/tracking/ws - upgrades the connection
// and pushes a tracking snapshot every few seconds, plus an immediate one
// whenever the connectivity classification flips, until the client
// disconnects.
func (s *Server) StreamTracking(ctx echo.Context) error {
	conn, err := upgrader.Upgrade(ctx.Response(), ctx.Request(), nil)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	// A nil channel never fires, so the select below degrades to
	// interval-only pushes when no stream is wired.
	var changes <-chan connectivity.Status
	if s.network != nil {
		var unsubscribe func()
		changes, unsubscribe = s.network.Subscribe()
		defer unsubscribe()
	}

	// The read pump exists only to observe the close handshake; the stream
	// is one-way.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(snapshotInterval)
	defer ticker.Stop()

	requestCtx := ctx.Request().Context()
	for {
		session, err := s.getTrackingSessionHandler.Handle(
			requestCtx, queries.NewGetTrackingSessionQuery())
		if err != nil {
			s.logger.Error("Tracking snapshot failed", "error", err)
			return nil
		}

		if err := conn.SetWriteDeadline(time.Now().Add(writeTimeout)); err != nil {
			return nil
		}
		if err := conn.WriteJSON(toTrackingResponse(session)); err != nil {
			return nil
		}

		select {
		case <-ticker.C:
		case <-changes:
		case <-done:
			return nil
		case <-requestCtx.Done():
			return nil
		}
	}
}
