package control

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/sirupsen/logrus"

	"github.com/faradayfan/instance-power/internal/compute"
	"github.com/faradayfan/instance-power/internal/protocol"
)

// Handler turns one inbound event into one response envelope for the single
// instance it is bound to. It keeps no state between calls.
type Handler struct {
	instanceID string
	compute    compute.Compute
	log        logrus.FieldLogger
}

func NewHandler(instanceID string, c compute.Compute, log logrus.FieldLogger) *Handler {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Handler{
		instanceID: instanceID,
		compute:    c,
		log:        log,
	}
}

func (h *Handler) InstanceID() string { return h.instanceID }

// Handle never returns a non-nil error: every failure is reported through the
// envelope so the host always gets a well-formed response.
func (h *Handler) Handle(ctx context.Context, ev protocol.Event) (resp protocol.Response, err error) {
	entry := h.log.WithField("instance_id", h.instanceID)
	if lc, ok := lambdacontext.FromContext(ctx); ok {
		entry = entry.WithField("request_id", lc.AwsRequestID)
	}

	raw, mErr := json.Marshal(ev)
	if mErr != nil {
		raw = []byte(fmt.Sprintf("%v", map[string]any(ev)))
	}
	entry.WithField("event", string(raw)).Info("received event")

	action := ev.Action()
	if !action.Valid() {
		entry.WithField("action", string(action)).Warn("invalid action")
		return protocol.NewMessage(http.StatusBadRequest, protocol.InvalidActionMessage), nil
	}
	entry = entry.WithField("action", string(action))

	defer func() {
		if r := recover(); r != nil {
			entry.WithField("panic", r).Error("compute call panicked")
			resp = protocol.NewError(http.StatusInternalServerError, fmt.Errorf("%v", r))
			err = nil
		}
	}()

	msg, dErr := h.dispatch(ctx, action)
	if dErr != nil {
		entry.WithError(dErr).Error("compute call failed")
		return protocol.NewError(http.StatusInternalServerError, dErr), nil
	}

	entry.Info(msg)
	return protocol.NewMessage(http.StatusOK, msg), nil
}

func (h *Handler) dispatch(ctx context.Context, action protocol.Action) (string, error) {
	switch action {
	case protocol.ActionStart:
		if err := h.compute.StartInstance(ctx, h.instanceID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Instance %s is starting.", h.instanceID), nil

	case protocol.ActionStop:
		if err := h.compute.StopInstance(ctx, h.instanceID); err != nil {
			return "", err
		}
		return fmt.Sprintf("Instance %s is stopping.", h.instanceID), nil

	case protocol.ActionStatus:
		state, err := h.compute.InstanceState(ctx, h.instanceID)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Instance %s is currently %s.", h.instanceID, state), nil

	default:
		return "", fmt.Errorf("unknown action: %s", action)
	}
}
