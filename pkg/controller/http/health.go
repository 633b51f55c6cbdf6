package http

import (
	"net/http"

	"github.com/junglesafari/safaridesk/pkg/domain/interfaces"
)

type healthResponse struct {
	Status   string `json:"status"`
	Backend  string `json:"backend"`
	Sessions int    `json:"sessions"`
}

func healthHandler(backend string, sessions interfaces.SessionStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(r.Context(), w, http.StatusOK, healthResponse{
			Status:   "ok",
			Backend:  backend,
			Sessions: sessions.Len(),
		})
	}
}
