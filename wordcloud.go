// Wordcloud
//
// An organizer creates a session with a question and shares it by URL or
// QR code. Every visitor submits a short phrase per question, and everyone
// connected sees the same word cloud update live.
//
// Routes:
//   - $prefix/                    → organizer page
//   - $prefix/join/:session       → visitor page
//   - $prefix/create-session      → POST, returns {"sessionId": "..."}
//   - $prefix/ws                  → websocket shared by organizers and visitors
//   - $prefix/qr/:session         → PNG QR code of the visitor URL
//   - $prefix/settings            → submission limits, for the client
//   - $prefix/stats               → session and connection counts

package main

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/Seednode/wordcloud/cloud"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	maxRequestBody = 4096
	qrSize         = 320
)

type createSessionRequest struct {
	Question string `json:"question"`
}

type createSessionResponse struct {
	SessionID string `json:"sessionId"`
}

type settingsResponse struct {
	MaxWords       int  `json:"maxWords"`
	MaxPhrases     int  `json:"maxPhrases"`
	MaxLength      int  `json:"maxLength"`
	OnePerQuestion bool `json:"onePerQuestion"`
}

func writeJSON(cfg *Config, w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(cfg, w)
	w.WriteHeader(status)

	return json.NewEncoder(w).Encode(v)
}

func serveCreateSession(cfg *Config, hub *cloud.Hub, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		var req createSessionRequest

		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
			http.Error(w, "invalid request body", http.StatusBadRequest)

			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		id, err := hub.CreateSession(ctx, req.Question)
		switch {
		case errors.Is(err, cloud.ErrClosed):
			http.Error(w, "server is shutting down", http.StatusServiceUnavailable)

			return
		case err != nil:
			errorf("creating session: %v", err)
			http.Error(w, "unable to create session", http.StatusInternalServerError)

			return
		}

		if err := writeJSON(cfg, w, http.StatusOK, createSessionResponse{SessionID: id}); err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: Created session %s for %s in %s",
			id,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveSocket(cfg *Config, hub *cloud.Hub) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logf(cfg, "SERVE: Websocket upgrade failed for %s: %v", realIP(r), err)

			return
		}

		startTime := time.Now()

		logf(cfg, "SERVE: Websocket opened by %s", realIP(r))

		hub.Serve(newSocket(conn))

		logf(cfg, "SERVE: Websocket closed for %s after %s",
			realIP(r),
			time.Since(startTime).Round(time.Second),
		)
	}
}

// joinURL is the visitor link for a session, as seen from the client that
// made this request.
func joinURL(cfg *Config, r *http.Request, id string) string {
	scheme := cfg.scheme()
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "http" || proto == "https" {
		scheme = proto
	}

	return scheme + "://" + r.Host + cfg.prefix + "/join/" + id
}

func serveQR(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		startTime := time.Now()

		id, ok := cloud.NormalizeID(ps.ByName("session"))
		if !ok {
			http.Error(w, cloud.ErrInvalidID.Error(), http.StatusBadRequest)

			return
		}

		png, err := qrcode.Encode(joinURL(cfg, r, id), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)

			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		securityHeaders(cfg, w)

		written, err := w.Write(png)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: QR code for %s (%s) to %s in %s",
			id,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

func serveSettings(cfg *Config, errs chan<- error) httprouter.Handle {
	settings := settingsResponse{
		MaxWords:       cfg.maxWords,
		MaxPhrases:     cfg.maxPhrases,
		MaxLength:      cfg.maxLength,
		OnePerQuestion: cfg.onePerQuestion,
	}

	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		if err := writeJSON(cfg, w, http.StatusOK, settings); err != nil {
			errs <- err
		}
	}
}

func serveStats(cfg *Config, hub *cloud.Hub, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		stats, err := hub.Stats(ctx)
		if err != nil {
			http.Error(w, "stats unavailable", http.StatusServiceUnavailable)

			return
		}

		if err := writeJSON(cfg, w, http.StatusOK, stats); err != nil {
			errs <- err
		}
	}
}

func registerWordCloud(cfg *Config, hub *cloud.Hub, mux *httprouter.Router, errs chan<- error) {
	organizer := servePage(cfg, organizerHTML, errs)
	visitor := servePage(cfg, visitorHTML, errs)

	mux.GET(cfg.prefix+"/", organizer)
	mux.GET(cfg.prefix+"/join/:session", visitor)
	mux.GET(cfg.prefix+"/visitor.html", visitor)

	mux.POST(cfg.prefix+"/create-session", serveCreateSession(cfg, hub, errs))

	mux.GET(cfg.prefix+"/ws", serveSocket(cfg, hub))

	mux.GET(cfg.prefix+"/qr/:session", serveQR(cfg, errs))

	mux.GET(cfg.prefix+"/settings", serveSettings(cfg, errs))

	mux.GET(cfg.prefix+"/stats", serveStats(cfg, hub, errs))
}
