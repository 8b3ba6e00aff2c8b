/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"go.uber.org/zap"

	"github.com/Seednode/tictactoe/lobby"
)

const (
	roomIDLength = 8
	qrSize       = 320
)

const roomIDLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

func randomRoomID(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}

	out := make([]byte, n)
	for i := range out {
		out[i] = roomIDLetters[int(buf[i])%len(roomIDLetters)]
	}

	return string(out), nil
}

// joinURL is the link a second player follows to land in roomID.
func joinURL(cfg *Config, r *http.Request, roomID string) string {
	if cfg.clientURL != "" {
		u, err := url.Parse(cfg.clientURL)
		if err == nil {
			q := u.Query()
			q.Set("room", roomID)
			u.RawQuery = q.Encode()

			return u.String()
		}
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = proto
	}

	return scheme + "://" + r.Host + cfg.prefix + "/rooms/" + url.PathEscape(roomID)
}

type roomResponse struct {
	lobby.RoomInfo

	JoinURL string `json:"joinUrl"`
	QR      string `json:"qr"`
}

func redirectNewRoom(cfg *Config, coord *lobby.Coordinator, logger *zap.Logger) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		for {
			id, err := randomRoomID(roomIDLength)
			if err != nil {
				http.Error(w, "room id generation failed", http.StatusInternalServerError)

				return
			}

			_, err = coord.Room(r.Context(), id)
			switch {
			case errors.Is(err, lobby.ErrNotFound):
				logger.Debug("issued room code", zap.String("room", id), zap.String("remote", realIP(r)))

				http.Redirect(w, r, cfg.prefix+"/rooms/"+id, http.StatusTemporaryRedirect)

				return
			case err != nil:
				http.Error(w, "lobby unavailable", http.StatusServiceUnavailable)

				return
			}
		}
	}
}

func serveRoom(cfg *Config, coord *lobby.Coordinator, logger *zap.Logger, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		roomID := ps.ByName("roomid")

		info, err := coord.Room(r.Context(), roomID)
		switch {
		case errors.Is(err, lobby.ErrNotFound):
			info = lobby.RoomInfo{ID: roomID, Occupants: []string{}}
		case err != nil:
			http.Error(w, "lobby unavailable", http.StatusServiceUnavailable)

			return
		}

		data, err := json.Marshal(roomResponse{
			RoomInfo: info,
			JoinURL:  joinURL(cfg, r, roomID),
			QR:       cfg.prefix + "/rooms/" + url.PathEscape(roomID) + "/qr",
		})
		if err != nil {
			errs <- err

			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		securityHeaders(cfg, w)

		written, err := w.Write(data)
		if err != nil {
			errs <- err

			return
		}

		logger.Debug("served room",
			zap.String("room", roomID),
			zap.String("size", humanReadableSize(int64(written))),
			zap.String("remote", realIP(r)),
			zap.Duration("elapsed", time.Since(startTime).Round(time.Microsecond)),
		)
	}
}

func serveRoomQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		png, err := qrcode.Encode(joinURL(cfg, r, ps.ByName("roomid")), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

// registerRooms sets up routes so that:
//   - /rooms              → redirects to a fresh 8-char room code
//   - /rooms/:roomid      → JSON description of the room
//   - /rooms/:roomid/qr   → PNG QR code of the room's join link
func registerRooms(cfg *Config, mux *httprouter.Router, coord *lobby.Coordinator, logger *zap.Logger, errs chan<- error) {
	mux.GET(cfg.prefix+"/rooms", redirectNewRoom(cfg, coord, logger))

	mux.GET(cfg.prefix+"/rooms/:roomid", serveRoom(cfg, coord, logger, errs))

	mux.GET(cfg.prefix+"/rooms/:roomid/qr", serveRoomQR(cfg, errs))
}
