package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/junglesafari/safaridesk/pkg/domain/types"
	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
)

type chatRequest struct {
	Message   string `json:"message"`
	SessionID string `json:"session_id"`
}

type chatResponse struct {
	Response          string `json:"response"`
	SessionID         string `json:"session_id"`
	ComplaintLogged   bool   `json:"complaint_logged"`
	ComplaintCategory string `json:"complaint_category"`
	Severity          string `json:"severity"`
	ComplaintID       string `json:"complaint_id,omitempty"`
}

type chatFailureResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
}

func chatHandler(chatUC *usecase.ChatUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var req chatRequest
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(usecase.ErrInvalidRequest, "failed to decode chat request", goerr.V("cause", err.Error())),
				http.StatusBadRequest, "invalid JSON body")
			return
		}
		if strings.TrimSpace(req.Message) == "" {
			errutil.HandleHTTP(ctx, w, goerr.Wrap(usecase.ErrEmptyMessage, "blank chat message"),
				http.StatusBadRequest, "message is required")
			return
		}

		result, err := chatUC.HandleMessage(ctx, types.SessionID(strings.TrimSpace(req.SessionID)), req.Message)
		if err != nil {
			if errors.Is(err, usecase.ErrEmptyMessage) {
				errutil.HandleHTTP(ctx, w, err, http.StatusBadRequest, "message is required")
				return
			}
			errutil.Handle(ctx, err, "failed to handle chat message")
			writeJSON(ctx, w, http.StatusInternalServerError, chatFailureResponse{
				Response:  usecase.FallbackReply,
				SessionID: req.SessionID,
			})
			return
		}

		writeJSON(ctx, w, http.StatusOK, chatResponse{
			Response:          result.Reply,
			SessionID:         result.SessionID.String(),
			ComplaintLogged:   result.Logged,
			ComplaintCategory: result.Attributes.Category.String(),
			Severity:          result.Attributes.Severity.String(),
			ComplaintID:       result.ComplaintID.String(),
		})
	}
}
