/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Partybox Impostor
//
// Players join a room from their phones. Everyone but the impostor is shown
// a secret word from the round's category; each player submits a related
// word, then everybody votes on who the impostor is.
//
// Routes, relative to $path:
//   - GET  $path                 → open a new room and redirect to it
//   - POST $path                 → open a new room, reply with its code
//   - GET  $path/:code           → player page
//   - GET  $path/:code/monitor   → shared screen page (not for phones)
//   - GET  $path/:code/view      → the room as seen by the cookie's player
//   - GET  $path/:code/state     → public room state, for polling
//   - POST $path/:code/join      → join or rejoin, sets the player cookie
//   - POST $path/:code/start     → host starts a round
//   - POST $path/:code/submit    → submit a word
//   - POST $path/:code/vote      → vote for a player
//   - POST $path/:code/reset     → back to the lobby with a new category
//   - GET  $path/:code/ws        → websocket of room state
//   - GET  $path/:code/qr        → PNG QR code of the player page

package main

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/julienschmidt/httprouter"

	"github.com/Seednode/impostor/games/impostor"
)

const (
	playerCookieName = "impostor_player"
	maxBodyBytes     = 4 << 10
)

var mobileKeywords = []string{"android", "iphone", "ipad", "ipod", "webos", "blackberry", "windows phone"}

type createResponse struct {
	Code impostor.Code `json:"code"`
	URL  string        `json:"url"`
}

type actionRequest struct {
	Name   string            `json:"name"`
	Word   string            `json:"word"`
	Target impostor.PlayerID `json:"target"`
}

// actionResponse is the caller's fresh view, plus the error that stopped
// the action if there was one.
type actionResponse struct {
	impostor.View
	Error string `json:"error,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type impostorGame struct {
	cfg       *Config
	path      string
	directory *impostor.Directory
	hub       *Hub
	qr        *qrCache
	errs      chan<- error
}

func isMobileUserAgent(userAgent string) bool {
	if userAgent == "" {
		return false
	}

	userAgent = strings.ToLower(userAgent)
	for _, keyword := range mobileKeywords {
		if strings.Contains(userAgent, keyword) {
			return true
		}
	}

	return false
}

// playerToken returns the secret the browser was given when it joined.
func playerToken(r *http.Request) impostor.Token {
	if c, err := r.Cookie(playerCookieName); err == nil {
		return impostor.Token(c.Value)
	}

	return ""
}

func (g *impostorGame) setPlayerToken(w http.ResponseWriter, token impostor.Token) {
	http.SetCookie(w, &http.Cookie{
		Name:     playerCookieName,
		Value:    string(token),
		Path:     g.cfg.prefix + "/",
		HttpOnly: true,
		Secure:   g.cfg.scheme() == "https",
		SameSite: http.SameSiteLaxMode,
	})
}

func (g *impostorGame) roomPath(code impostor.Code) string {
	return g.cfg.prefix + g.path + "/" + string(code)
}

func statusFor(err error) int {
	switch {
	case err == nil, impostor.IsBenign(err):
		return http.StatusOK
	case errors.Is(err, impostor.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, impostor.ErrInvalidName):
		return http.StatusBadRequest
	case errors.Is(err, impostor.ErrNotHost):
		return http.StatusForbidden
	case errors.Is(err, impostor.ErrRoundInProgress), errors.Is(err, impostor.ErrNoPlayers):
		return http.StatusConflict
	case errors.Is(err, impostor.ErrNoCodeAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func (g *impostorGame) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	securityHeaders(g.cfg, w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		g.errs <- err
	}
}

func (g *impostorGame) writeError(w http.ResponseWriter, err error) {
	g.writeJSON(w, statusFor(err), errorResponse{Error: err.Error()})
}

// respond answers a room action with the caller's view of the room after
// it, and pushes the room to its watchers when the action went through.
func (g *impostorGame) respond(w http.ResponseWriter, code impostor.Code, token impostor.Token, err error) {
	if errors.Is(err, impostor.ErrRoomNotFound) {
		g.writeError(w, err)

		return
	}

	if err == nil {
		g.publish(code)
	}

	view, viewErr := g.directory.View(code, token)
	if viewErr != nil {
		g.writeError(w, viewErr)

		return
	}

	resp := actionResponse{View: view}
	if err != nil && !impostor.IsBenign(err) {
		resp.Error = err.Error()
	}

	g.writeJSON(w, statusFor(err), resp)
}

func (g *impostorGame) publish(code impostor.Code) {
	snapshot, err := g.directory.Snapshot(code)
	if err != nil {
		return
	}

	g.hub.broadcast(code, snapshot)
}

func readAction(w http.ResponseWriter, r *http.Request) (actionRequest, error) {
	var req actionRequest

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && !errors.Is(err, io.EOF) {
			return req, err
		}

		return req, nil
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := r.ParseForm(); err != nil {
		return req, err
	}

	req.Name = r.PostForm.Get("name")
	req.Word = r.PostForm.Get("word")
	req.Target = impostor.PlayerID(r.PostForm.Get("target"))

	return req, nil
}

func (g *impostorGame) serveCreate(redirect bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		code, err := g.directory.Create()
		if err != nil {
			logf(g.cfg, "GAMES: Unable to create room for %s: %v", realIP(r), err)
			g.writeError(w, err)

			return
		}

		logf(g.cfg, "GAMES: Created room %s for %s", code, realIP(r))

		if redirect {
			http.Redirect(w, r, g.roomPath(code), http.StatusSeeOther)

			return
		}

		g.writeJSON(w, http.StatusCreated, createResponse{
			Code: code,
			URL:  externalURL(r, g.roomPath(code)),
		})
	}
}

func (g *impostorGame) servePage(monitor bool) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		room, err := g.directory.Room(impostor.Code(ps.ByName("code")))
		if err != nil {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			securityHeaders(g.cfg, w)
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, newPage(g.cfg, "Sala no encontrada", "Ese enlace ya no existe. Crea una sala nueva."))

			return
		}

		if monitor && isMobileUserAgent(r.UserAgent()) {
			if err := renderPage(g.cfg, w, http.StatusOK, "monitor_blocked.html", pageData{Code: room.Code()}); err != nil {
				g.errs <- err
			}

			return
		}

		if err := renderPage(g.cfg, w, http.StatusOK, "room.html", pageData{Code: room.Code(), Monitor: monitor}); err != nil {
			g.errs <- err
		}
	}
}

func (g *impostorGame) serveView(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	view, err := g.directory.View(impostor.Code(ps.ByName("code")), playerToken(r))
	if err != nil {
		g.writeError(w, err)

		return
	}

	g.writeJSON(w, http.StatusOK, view)
}

func (g *impostorGame) serveState(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	snapshot, err := g.directory.Snapshot(impostor.Code(ps.ByName("code")))
	if err != nil {
		g.writeError(w, err)

		return
	}

	g.writeJSON(w, http.StatusOK, snapshot)
}

func (g *impostorGame) serveJoin(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))

	req, err := readAction(w, r)
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	token := playerToken(r)

	player, err := g.directory.Join(code, token, req.Name)
	if err == nil {
		if player.Token() != token {
			logf(g.cfg, "GAMES: Player %q joined %s from %s", player.Name, code, realIP(r))
		}

		token = player.Token()
		g.setPlayerToken(w, token)
	} else if !errors.Is(err, impostor.ErrRoomNotFound) {
		logf(g.cfg, "GAMES: Rejected join to %s from %s: %v", code, realIP(r), err)
	}

	g.respond(w, code, token, err)
}

func (g *impostorGame) serveStart(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))
	token := playerToken(r)

	err := g.directory.Start(code, token)
	switch {
	case err == nil:
		logf(g.cfg, "GAMES: Round started in %s", code)
	case !errors.Is(err, impostor.ErrRoomNotFound):
		logf(g.cfg, "GAMES: Rejected start in %s from %s: %v", code, realIP(r), err)
	}

	g.respond(w, code, token, err)
}

func (g *impostorGame) serveSubmit(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))
	token := playerToken(r)

	req, err := readAction(w, r)
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	advanced, err := g.directory.Submit(code, token, req.Word)
	if advanced {
		logf(g.cfg, "GAMES: All words are in for %s, voting", code)
	}

	g.respond(w, code, token, err)
}

func (g *impostorGame) serveVote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))
	token := playerToken(r)

	req, err := readAction(w, r)
	if err != nil {
		g.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})

		return
	}

	advanced, err := g.directory.Vote(code, token, req.Target)
	if advanced {
		logf(g.cfg, "GAMES: All votes are in for %s, showing results", code)
	}

	g.respond(w, code, token, err)
}

func (g *impostorGame) serveReset(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))

	err := g.directory.Reset(code)
	if err == nil {
		logf(g.cfg, "GAMES: Round reset in %s by %s", code, realIP(r))
	}

	g.respond(w, code, playerToken(r), err)
}

func (g *impostorGame) serveWS(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	code := impostor.NormalizeCode(ps.ByName("code"))

	snapshot, err := g.directory.Snapshot(code)
	if err != nil {
		g.writeError(w, err)

		return
	}

	logf(g.cfg, "GAMES: %s is watching %s (%d watchers)", realIP(r), code, g.hub.watchers(code)+1)

	if err := g.hub.serve(w, r, code, snapshot); err != nil {
		logf(g.cfg, "GAMES: Websocket upgrade for %s failed: %v", code, err)
	}
}

// serveQR renders the player page URL of the room as a PNG.
func (g *impostorGame) serveQR(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	room, err := g.directory.Room(impostor.Code(ps.ByName("code")))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)

		return
	}

	png, err := g.qr.png(externalURL(r, g.roomPath(room.Code())))
	if err != nil {
		http.Error(w, "qr generation failed", http.StatusInternalServerError)

		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	securityHeaders(g.cfg, w)

	if _, err := w.Write(png); err != nil {
		g.errs <- err
	}
}

// registerImpostorGame sets up the routes listed at the top of this file.
func registerImpostorGame(cfg *Config, path string, directory *impostor.Directory, mux *httprouter.Router, errs chan<- error) error {
	qr, err := newQRCache(cfg.qrCache, cfg.qrSize)
	if err != nil {
		return err
	}

	g := &impostorGame{
		cfg:       cfg,
		path:      path,
		directory: directory,
		hub:       newHub(),
		qr:        qr,
		errs:      errs,
	}

	base := cfg.prefix + path

	mux.GET(base, g.serveCreate(true))
	mux.POST(base, g.serveCreate(false))

	mux.GET(base+"/:code", g.servePage(false))
	mux.GET(base+"/:code/monitor", g.servePage(true))
	mux.GET(base+"/:code/view", g.serveView)
	mux.GET(base+"/:code/state", g.serveState)
	mux.GET(base+"/:code/ws", g.serveWS)
	mux.GET(base+"/:code/qr", g.serveQR)

	mux.POST(base+"/:code/join", g.serveJoin)
	mux.POST(base+"/:code/start", g.serveStart)
	mux.POST(base+"/:code/submit", g.serveSubmit)
	mux.POST(base+"/:code/vote", g.serveVote)
	mux.POST(base+"/:code/reset", g.serveReset)

	return nil
}
