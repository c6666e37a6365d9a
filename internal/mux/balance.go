package mux

import (
	"net/http"

	"liars-server/pkg/ledger"
)

type balanceResponse struct {
	Account ledger.Account `json:"account"`
	Balance int            `json:"balance"`
}

func (m *Mux) getBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		account := ledger.PlayerAccount(playerIDFromContext(r.Context()))
		balance, err := m.ledger.BalanceOf(r.Context(), account)
		if err != nil {
			writeJSONError(w, http.StatusInternalServerError, err)
			return
		}

		writeJSON(w, http.StatusOK, balanceResponse{
			Account: account,
			Balance: balance,
		})
	}
}
