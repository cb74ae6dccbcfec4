/*
Package handler provides the HTTP handler function for WebSocket connection
upgrading and initialization.

This file contains the HandleWebSocket function, which is responsible for
rate limiting, upgrading the HTTP connection to WebSocket, minting a session
id, and starting the client lifecycle. Joining a circle happens after the
upgrade, via the newUser event on the socket itself.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"circlechat/internal/app/chat"
	"circlechat/internal/pkg/errs"
	"circlechat/internal/pkg/limiter"
	"circlechat/internal/pkg/logx"
	"circlechat/internal/pkg/randx"
	"circlechat/internal/pkg/resp"
)

// HandleWebSocket creates an HTTP HandlerFunc to process WebSocket connection
// requests.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		sessionID, err := randx.SessionID()
		if err != nil {
			logx.Error(err, "Failed to generate session id")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := chat.NewSession(sessionID)
		client := chat.NewClient(deps.Hub, deps.Gateway, conn, session)

		deps.Hub.Register(client)

		go client.WritePump()

		logx.Info("WebSocket connection established", "session_id", sessionID)

		client.ReadPump()
	}
}
