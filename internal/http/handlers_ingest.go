// Package httpx exposes the ingestion pipeline over HTTP.
package httpx

import (
	"net/http"

	"github.com/target/xstats/internal/service"
)

// IngestHandlers serves job submission and status polling.
type IngestHandlers struct {
	Svc *service.IngestService
}

// Parse accepts a JSON array of account references, seeds every handle as
// pending and returns the job id as a JSON string.
func (h *IngestHandlers) Parse(w http.ResponseWriter, r *http.Request) {
	var refs []string
	if !DecodeJSON(w, r, &refs) {
		return
	}

	jobID, err := h.Svc.Submit(r.Context(), refs)
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, jobID)
}

// Status lists every live (handle, status) entry of a job. Unknown jobs yield [].
func (h *IngestHandlers) Status(w http.ResponseWriter, r *http.Request) {
	entries, err := h.Svc.Statuses(r.Context(), r.PathValue("jobID"))
	if err != nil {
		WriteServiceError(w, err)
		return
	}

	WriteJSON(w, http.StatusOK, entries)
}
