package mux

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	gmux "github.com/gorilla/mux"

	"liars-server/internal/jwt"
	"liars-server/pkg/audit"
	"liars-server/pkg/ledger"
	"liars-server/pkg/room"
)

type ctxKey int

const (
	ctxPlayerIDKey ctxKey = iota
	ctxDealerKey
)

// Mux handles HTTP requests
type Mux struct {
	*gmux.Router
	version string
	pitBoss *room.PitBoss
	ledger  ledger.Ledger
	store   audit.Store

	// store for testing purposes
	authRouter *gmux.Router
}

// NewMux returns a new HTTP mux
func NewMux(version string, pitBoss *room.PitBoss, l ledger.Ledger, store audit.Store) *Mux {
	this := &Mux{
		Router:  gmux.NewRouter(),
		version: version,
		pitBoss: pitBoss,
		ledger:  l,
		store:   store,
	}

	this.authRouter = this.Router.NewRoute().Subrouter()
	this.authRouter.Use(this.authMiddleware)

	// unauthorized endpoints
	{
		r := this.Router
		r.Methods(http.MethodGet).Path("/health").Handler(this.getHealth())
		r.Methods(http.MethodGet).Path("/audit/{id:0x[a-fA-F0-9]{64}}").Handler(this.getAuditID())
		r.Methods(http.MethodGet).Path("/audit/{id:0x[a-fA-F0-9]{64}}/verify").Handler(this.getAuditIDVerify())
	}

	// requires bearer authorization
	{
		r := this.authRouter

		r.Methods(http.MethodGet).Path("/balance").Handler(this.getBalance())
		r.Methods(http.MethodGet).Path("/lobby").Handler(this.getLobby())
		r.Methods(http.MethodPost).Path("/lobby").Handler(this.postLobby())

		lr := r.PathPrefix("/lobby/{uuid:(?i)[a-f0-9]{8}(?:-[a-f0-9]{4}){3}-[a-f0-9]{12}}").Subrouter()
		lr.Use(this.lobbyMiddleware)

		lr.Methods(http.MethodGet).Path("").Handler(this.getLobbyUUID())
		lr.Methods(http.MethodGet).Path("/ws").Handler(this.getLobbyUUIDWS())
		lr.Methods(http.MethodPost).Path("/action").Handler(this.postLobbyUUIDAction())
	}

	return this
}

func (m *Mux) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := r.FormValue("access_token")
		if token == "" {
			authHeader := strings.Split(r.Header.Get("Authorization"), " ")
			if len(authHeader) != 2 || strings.ToLower(authHeader[0]) != "bearer" {
				writeJSONError(w, http.StatusUnauthorized, nil)
				return
			}

			token = authHeader[1]
		}

		id, err := jwt.ValidUserID(token)
		if err != nil {
			writeJSONError(w, http.StatusUnauthorized, nil)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxPlayerIDKey, id)
		w.Header().Set("Liars-PlayerID", strconv.FormatInt(id, 10))
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

// lobbyMiddleware requires authMiddleware to execute first
func (m *Mux) lobbyMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		uuid := strings.ToLower(gmux.Vars(r)["uuid"])
		dealer, found := m.pitBoss.Dealer(uuid)
		if !found {
			writeJSONError(w, http.StatusNotFound, room.ErrLobbyNotFound)
			return
		}

		newCtx := context.WithValue(r.Context(), ctxDealerKey, dealer)
		next.ServeHTTP(w, r.WithContext(newCtx))
	})
}

func playerIDFromContext(ctx context.Context) int64 {
	return ctx.Value(ctxPlayerIDKey).(int64)
}

func dealerFromContext(ctx context.Context) *room.Dealer {
	return ctx.Value(ctxDealerKey).(*room.Dealer)
}
