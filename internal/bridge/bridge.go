// Package bridge exposes the engine to presentation layers through a small
// request/response message contract. Handlers never return structured
// errors: anything that goes wrong becomes one user-visible message string
// in the response envelope.
package bridge

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"

	log "github.com/sirupsen/logrus"

	"ccswitch/config"
	"ccswitch/config/models"
	"ccswitch/internal/templates"
	"ccswitch/internal/utils"
)

// Request message types.
const (
	MsgReady         = "ready"
	MsgGetTemplates  = "getTemplates"
	MsgAddConfig     = "addConfig"
	MsgUpdateConfig  = "updateConfig"
	MsgDeleteConfig  = "deleteConfig"
	MsgSetActive     = "setActive"
	MsgRefreshStatus = "refreshStatus"
	MsgRefreshAll    = "refreshAll"
	MsgRequestConfig = "requestConfig"
	MsgOpenWebsite   = "openWebsite"
)

// Request is one message from the presentation layer. Payload carries a
// ProviderRecord-shaped input for add/update; ID and Kind address a record
// and endpoint where the operation needs one.
type Request struct {
	Type    string              `json:"type"`
	ID      string              `json:"id,omitempty"`
	Kind    models.EndpointKind `json:"kind,omitempty"`
	Payload json.RawMessage     `json:"payload,omitempty"`
}

// State is the full redacted view the presentation layer renders.
type State struct {
	Summaries []models.Summary `json:"summaries"`
}

// Response is the reply envelope. Error, when set, is the single
// user-visible message for whatever went wrong.
type Response struct {
	Type        string                  `json:"type"`
	Error       string                  `json:"error,omitempty"`
	Notice      string                  `json:"notice,omitempty"`
	HotReloaded bool                    `json:"hotReloaded,omitempty"`
	State       *State                  `json:"state,omitempty"`
	Templates   []models.ProviderRecord `json:"templates,omitempty"`
	Detail      *models.ProviderRecord  `json:"detail,omitempty"`
}

// Handler dispatches requests against a Manager.
type Handler struct {
	mgr *config.Manager
}

// NewHandler creates a Handler over mgr.
func NewHandler(mgr *config.Manager) *Handler {
	return &Handler{mgr: mgr}
}

// Handle processes one request to completion.
func (h *Handler) Handle(ctx context.Context, req Request) Response {
	switch req.Type {
	case MsgReady:
		return h.state()

	case MsgGetTemplates:
		return Response{Type: "templates", Templates: templates.All()}

	case MsgAddConfig:
		rec, err := decodeRecord(req.Payload)
		if err != nil {
			return h.fail(err)
		}
		added, err := h.mgr.Add(rec)
		if err != nil {
			return h.fail(err)
		}
		resp := h.state()
		resp.Notice = fmt.Sprintf("added configuration '%s'", added.Name)
		return resp

	case MsgUpdateConfig:
		rec, err := decodeRecord(req.Payload)
		if err != nil {
			return h.fail(err)
		}
		hot, err := h.mgr.Update(req.ID, rec)
		if err != nil {
			return h.fail(err)
		}
		resp := h.state()
		resp.HotReloaded = hot
		resp.Notice = fmt.Sprintf("updated configuration '%s'", rec.Name)
		return resp

	case MsgDeleteConfig:
		if err := h.mgr.Delete(req.ID); err != nil {
			return h.fail(err)
		}
		resp := h.state()
		resp.Notice = "configuration deleted"
		return resp

	case MsgSetActive:
		if err := h.mgr.SetActive(req.ID, req.Kind); err != nil {
			return h.fail(err)
		}
		return h.state()

	case MsgRefreshStatus:
		if _, err := h.mgr.RefreshStatus(ctx, req.ID); err != nil {
			return h.fail(err)
		}
		return h.state()

	case MsgRefreshAll:
		h.mgr.RefreshAll(ctx)
		return h.state()

	case MsgRequestConfig:
		detail, err := h.mgr.GetDetail(req.ID)
		if err != nil {
			return h.fail(err)
		}
		return Response{Type: "configDetail", Detail: &detail}

	case MsgOpenWebsite:
		detail, err := h.mgr.GetDetail(req.ID)
		if err != nil {
			return h.fail(err)
		}
		if err := utils.OpenBrowser(detail.Website); err != nil {
			return h.fail(err)
		}
		return Response{Type: "ok"}

	default:
		return Response{Type: "error", Error: fmt.Sprintf("unknown message type %q", req.Type)}
	}
}

func (h *Handler) state() Response {
	return Response{Type: "state", State: &State{Summaries: h.mgr.ListSummaries()}}
}

// fail returns the current state alongside the error message so the
// presentation layer never renders a stale view after a rejected operation.
func (h *Handler) fail(err error) Response {
	resp := h.state()
	resp.Error = err.Error()
	return resp
}

func decodeRecord(payload json.RawMessage) (models.ProviderRecord, error) {
	var rec models.ProviderRecord
	if len(payload) == 0 {
		return rec, fmt.Errorf("missing payload")
	}
	if err := json.Unmarshal(payload, &rec); err != nil {
		return rec, fmt.Errorf("invalid payload: %w", err)
	}
	return rec, nil
}

// Serve runs a JSON-lines request/response loop until the reader is
// exhausted or the context is cancelled. Each line is one request; each
// reply is one line on w. Protocol frames own stdout, so diagnostics go
// through logrus on stderr.
func Serve(ctx context.Context, mgr *config.Manager, r io.Reader, w io.Writer) error {
	h := NewHandler(mgr)
	scanner := bufio.NewScanner(r)
	// Settings documents can be large; raise the default line limit.
	scanner.Buffer(make([]byte, 64*1024), 4*1024*1024)
	enc := json.NewEncoder(w)

	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var req Request
		if err := json.Unmarshal(line, &req); err != nil {
			if encErr := enc.Encode(Response{Type: "error", Error: fmt.Sprintf("malformed request: %v", err)}); encErr != nil {
				return encErr
			}
			continue
		}
		log.Debugf("bridge: handling %s", req.Type)
		if err := enc.Encode(h.Handle(ctx, req)); err != nil {
			return err
		}
	}
	return scanner.Err()
}
