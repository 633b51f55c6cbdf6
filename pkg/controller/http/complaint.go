package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/model"
	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
)

type listComplaintsResponse struct {
	Complaints []complaintResponse `json:"complaints"`
}

type updateComplaintRequest struct {
	Status     *string `json:"status"`
	AssignedTo *string `json:"assigned_to"`
	Resolution *string `json:"resolution"`
}

type updateComplaintResponse struct {
	Success          bool              `json:"success"`
	UpdatedComplaint complaintResponse `json:"updated_complaint"`
}

type statsResponse struct {
	Total      int            `json:"total"`
	ByCategory map[string]int `json:"by_category"`
	BySeverity map[string]int `json:"by_severity"`
	ByStatus   map[string]int `json:"by_status"`
	ByLocation map[string]int `json:"by_location"`
}

func listComplaintsHandler(complaintUC *usecase.ComplaintUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		status := types.ComplaintStatus(strings.TrimSpace(r.URL.Query().Get("status")))

		complaints, err := complaintUC.ListComplaints(ctx, status)
		if err != nil {
			handleComplaintError(w, r, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, listComplaintsResponse{
			Complaints: toComplaintResponses(complaints),
		})
	}
}

func getComplaintHandler(complaintUC *usecase.ComplaintUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := types.ComplaintID(chi.URLParam(r, "id"))

		complaint, err := complaintUC.GetComplaint(ctx, id)
		if err != nil {
			handleComplaintError(w, r, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, toComplaintResponse(complaint))
	}
}

func updateComplaintHandler(complaintUC *usecase.ComplaintUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		id := types.ComplaintID(chi.URLParam(r, "id"))

		var req updateComplaintRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(usecase.ErrInvalidRequest, "failed to decode update request", goerr.V("cause", err.Error())),
				http.StatusBadRequest, "invalid JSON body")
			return
		}

		var update model.ComplaintUpdate
		if req.Status != nil {
			status := types.ComplaintStatus(strings.TrimSpace(*req.Status))
			update.Status = &status
		}
		update.AssignedTo = req.AssignedTo
		update.Resolution = req.Resolution

		updated, err := complaintUC.UpdateComplaint(ctx, id, update)
		if err != nil {
			handleComplaintError(w, r, err)
			return
		}

		writeJSON(ctx, w, http.StatusOK, updateComplaintResponse{
			Success:          true,
			UpdatedComplaint: toComplaintResponse(updated),
		})
	}
}

func complaintStatsHandler(complaintUC *usecase.ComplaintUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		stats, err := complaintUC.Stats(ctx)
		if err != nil {
			handleComplaintError(w, r, err)
			return
		}

		resp := statsResponse{
			Total:      stats.Total,
			ByCategory: make(map[string]int, len(stats.ByCategory)),
			BySeverity: make(map[string]int, len(stats.BySeverity)),
			ByStatus:   make(map[string]int, len(stats.ByStatus)),
			ByLocation: make(map[string]int, len(stats.ByLocation)),
		}
		for k, v := range stats.ByCategory {
			resp.ByCategory[k.String()] = v
		}
		for k, v := range stats.BySeverity {
			resp.BySeverity[k.String()] = v
		}
		for k, v := range stats.ByStatus {
			resp.ByStatus[k.String()] = v
		}
		for k, v := range stats.ByLocation {
			resp.ByLocation[k.String()] = v
		}

		writeJSON(ctx, w, http.StatusOK, resp)
	}
}

// handleComplaintError maps use case errors to status codes without leaking internal text
func handleComplaintError(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	switch {
	case errors.Is(err, usecase.ErrComplaintNotFound):
		errutil.HandleHTTP(ctx, w, err, http.StatusNotFound, "complaint not found")
	case errors.Is(err, usecase.ErrInvalidStatus):
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest, "invalid status")
	case errors.Is(err, usecase.ErrInvalidRequest):
		errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest, "invalid request")
	default:
		errutil.HandleHTTP(ctx, w, err, http.StatusInternalServerError, "internal server error")
	}
}
