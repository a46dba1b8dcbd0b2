package httpx

import (
	"net/http"

	apperrors "github.com/target/xstats/internal/errors"
	"github.com/target/xstats/internal/service"
)

// AccountHandlers serves stored statistics and the tweet passthrough.
type AccountHandlers struct {
	Svc *service.AccountService
}

// GetUser returns the stored statistics for a handle, or JSON null when the
// account has never been ingested.
func (h *AccountHandlers) GetUser(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Svc.GetByHandle(r.Context(), r.PathValue("handle"))
	if apperrors.IsNotFound(err) {
		WriteJSON(w, http.StatusOK, nil)
		return
	}
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, stats)
}

// Tweets lists recent tweets of an account. Upstream failures yield [].
func (h *AccountHandlers) Tweets(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Svc.Tweets(r.Context(), r.PathValue("accountID")))
}
