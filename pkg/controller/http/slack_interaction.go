package http

import (
	"encoding/json"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"

	"github.com/junglesafari/safaridesk/pkg/usecase"
	"github.com/junglesafari/safaridesk/pkg/utils/errutil"
	"github.com/junglesafari/safaridesk/pkg/utils/logging"
)

// SlackInteractionHandler handles Slack interactive component payloads (button clicks)
type SlackInteractionHandler struct {
	complaintUC *usecase.ComplaintUseCase
}

func NewSlackInteractionHandler(complaintUC *usecase.ComplaintUseCase) *SlackInteractionHandler {
	return &SlackInteractionHandler{
		complaintUC: complaintUC,
	}
}

// ServeHTTP handles Slack interaction webhook requests
func (h *SlackInteractionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Slack sends interaction payloads as application/x-www-form-urlencoded
	// with a "payload" field containing JSON
	payload := r.FormValue("payload")
	if payload == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("missing payload field in interaction request"), http.StatusBadRequest, "missing payload")
		return
	}

	var callback slack.InteractionCallback
	if err := json.Unmarshal([]byte(payload), &callback); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to parse interaction payload"), http.StatusBadRequest, "invalid payload")
		return
	}

	if callback.Type != slack.InteractionTypeBlockActions {
		w.WriteHeader(http.StatusOK)
		return
	}

	logger := logging.From(ctx)
	for _, action := range callback.ActionCallback.BlockActions {
		switch action.ActionID {
		case usecase.SlackActionIDAssign, usecase.SlackActionIDInProgress, usecase.SlackActionIDResolve, usecase.SlackActionIDClose:
			complaintID, err := usecase.ParseSlackActionValue(action.Value)
			if err != nil {
				logger.Warn("failed to parse Slack action value",
					"error", err,
					"value", action.Value,
				)
				continue
			}

			userID := callback.User.ID
			if err := h.complaintUC.HandleSlackInteraction(ctx, complaintID, userID, action.ActionID); err != nil {
				errutil.Handle(ctx, err, "failed to handle Slack interaction")
			}

		default:
			continue
		}
	}

	w.WriteHeader(http.StatusOK)
}
