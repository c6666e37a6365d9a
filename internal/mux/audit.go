package mux

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"liars-server/pkg/audit"
)

func auditID(r *http.Request) audit.ID {
	return audit.ID(strings.ToLower(mux.Vars(r)["id"]))
}

// getAuditID returns a stored record exactly as it was published
func (m *Mux) getAuditID() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		content, err := m.store.Get(r.Context(), auditID(r))
		if err != nil {
			writeMaybeNotFoundError(w, err)
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write(content); err != nil {
			logrus.WithError(err).Error("could not write audit record")
		}
	}
}

// getAuditIDVerify checks a stored move against its commitment and claim
func (m *Mux) getAuditIDVerify() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		verification, err := audit.VerifyMove(r.Context(), m.store, auditID(r))
		if err != nil {
			if errors.Is(err, audit.ErrInvalidRecord) {
				writeJSONError(w, http.StatusBadRequest, err)
				return
			}

			writeMaybeNotFoundError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, verification)
	}
}
