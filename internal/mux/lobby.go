package mux

import (
	"context"
	"errors"
	"net/http"
	"regexp"

	"liars-server/pkg/lobby"
	"liars-server/pkg/playable"
)

func (m *Mux) getLobby() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		offset, limit, err := parsePaginationOptions(r)
		if err != nil {
			writeJSONError(w, http.StatusBadRequest, err)
			return
		}

		writeJSON(w, http.StatusOK, paginate(m.pitBoss.Lobbies(), offset, limit))
	}
}

type postLobbyPayload struct {
	Name string `json:"name"`
}

func (m *Mux) postLobby() http.HandlerFunc {
	var wordChar = regexp.MustCompile(`\w`)
	return func(w http.ResponseWriter, r *http.Request) {
		var pp postLobbyPayload
		if !decodeRequest(w, r, &pp) {
			return
		}

		// an empty name gets a random one
		if pp.Name != "" && (!wordChar.MatchString(pp.Name) || len(pp.Name) < 3 || len(pp.Name) > 40) {
			writeJSONError(w, http.StatusBadRequest, errors.New("name must be 3-40 characters"))
			return
		}

		dealer, err := m.pitBoss.OpenLobby(playerIDFromContext(r.Context()), pp.Name)
		if err != nil {
			if errors.Is(err, lobby.ErrInvalidOptions) {
				writeJSONError(w, http.StatusBadRequest, err)
			} else {
				writeJSONError(w, http.StatusInternalServerError, err)
			}
			return
		}

		writeJSON(w, http.StatusCreated, dealer.Lobby().GetDetails())
	}
}

func (m *Mux) getLobbyUUID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dealer := dealerFromContext(r.Context())
		writeJSON(w, http.StatusOK, dealer.Lobby().GetDetails())
	}
}

// postLobbyUUIDAction runs a single command for clients that do not hold a websocket open
func (m *Mux) postLobbyUUIDAction() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var msg playable.PayloadIn
		if !decodeRequest(w, r, &msg) {
			return
		}

		playerID := playerIDFromContext(r.Context())
		dealer := dealerFromContext(r.Context())

		var response *playable.Response
		err := dealer.Do(r.Context(), func(ctx context.Context, l *lobby.Lobby) error {
			res, _, err := l.Action(ctx, playerID, &msg)
			response = res
			return err
		})

		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				writeJSONError(w, http.StatusServiceUnavailable, err)
			} else {
				writeJSONError(w, http.StatusBadRequest, err)
			}
			return
		}

		writeJSON(w, http.StatusOK, response)
	}
}
