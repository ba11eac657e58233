package httpadapter

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"tilefarm/internal/app/action"
	"tilefarm/internal/app/auth"
	"tilefarm/internal/app/catalog"
	"tilefarm/internal/app/ports"
	"tilefarm/internal/app/replay"
	"tilefarm/internal/app/session"
	"tilefarm/internal/app/status"
	"tilefarm/internal/domain/farm"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/adaptor"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

const userIDHeader = "X-User-ID"

type Handler struct {
	ActionUC  action.UseCase
	StatusUC  status.UseCase
	ReplayUC  replay.UseCase
	CatalogUC catalog.UseCase
	KPI       kpiSnapshotProvider
	Metrics   http.Handler
}

func (h Handler) RegisterRoutes(s *server.Hertz) {
	s.Use(corsMiddleware())

	farmGroup := s.Group("/api/farm")
	farmGroup.GET("/state", h.state)
	farmGroup.POST("/action", h.action)
	farmGroup.GET("/replay", h.replay)

	s.GET("/api/catalog", h.catalog)
	s.GET("/api/catalog/crops.json", h.catalogRaw)
	s.GET("/ops/kpi", h.kpi)
	if h.Metrics != nil {
		s.GET("/metrics", adaptor.HertzHandler(h.Metrics))
	}
}

type actionRequest struct {
	Type   string `json:"type"`
	Lot    *int   `json:"lot"`
	Crop   string `json:"crop,omitempty"`
	Amount int    `json:"amount,omitempty"`
}

func (h Handler) state(c context.Context, ctx *app.RequestContext) {
	userKey, err := requireUserKey(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	resp, err := h.StatusUC.Execute(c, status.Request{UserKey: userKey})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) action(c context.Context, ctx *app.RequestContext) {
	userKey, err := requireUserKey(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}

	var body actionRequest
	if err := decodeJSON(ctx, &body); err != nil {
		writeErrorBody(ctx, consts.StatusBadRequest, "invalid_json", "invalid json")
		return
	}

	resp, err := h.ActionUC.Execute(c, action.Request{
		UserKey: userKey,
		Type:    farm.IntentType(body.Type),
		Lot:     body.Lot,
		Crop:    farm.CropID(body.Crop),
		Amount:  body.Amount,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	if resp.ResultCode == farm.ResultRejected {
		writeActionRejected(ctx, resp)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) replay(c context.Context, ctx *app.RequestContext) {
	userKey, err := requireUserKey(ctx)
	if err != nil {
		writeError(ctx, err)
		return
	}
	limit, _ := strconv.Atoi(string(ctx.Query("limit")))
	occurredFrom, _ := strconv.ParseInt(string(ctx.Query("occurred_from")), 10, 64)
	occurredTo, _ := strconv.ParseInt(string(ctx.Query("occurred_to")), 10, 64)
	resp, err := h.ReplayUC.Execute(c, replay.Request{
		UserKey:      userKey,
		Limit:        limit,
		OccurredFrom: occurredFrom,
		OccurredTo:   occurredTo,
	})
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) catalog(c context.Context, ctx *app.RequestContext) {
	resp, err := h.CatalogUC.Execute(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(consts.StatusOK, resp)
}

func (h Handler) catalogRaw(c context.Context, ctx *app.RequestContext) {
	b, err := h.CatalogUC.Raw(c)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, "application/json", b)
}

type kpiSnapshotProvider interface {
	SnapshotAny() any
}

func (h Handler) kpi(_ context.Context, ctx *app.RequestContext) {
	if h.KPI == nil {
		writeErrorBody(ctx, consts.StatusNotFound, "not_configured", "kpi provider not configured")
		return
	}
	ctx.JSON(consts.StatusOK, h.KPI.SnapshotAny())
}

func decodeJSON(ctx *app.RequestContext, out any) error {
	body := ctx.Request.Body()
	if len(body) == 0 {
		return nil
	}
	return json.Unmarshal(body, out)
}

var ErrMissingUserIDHeader = errors.New("missing x-user-id header")

// requireUserKey trusts the header as given; it is an identity, not a
// credential.
func requireUserKey(ctx *app.RequestContext) (string, error) {
	userID := strings.TrimSpace(string(ctx.GetHeader(userIDHeader)))
	if userID == "" {
		return "", ErrMissingUserIDHeader
	}
	return auth.SaveKey(ports.UserRecord{Email: userID})
}

func writeError(ctx *app.RequestContext, err error) {
	switch {
	case errors.Is(err, ErrMissingUserIDHeader):
		writeErrorBody(ctx, consts.StatusBadRequest, "missing_user_id", err.Error())
	case errors.Is(err, action.ErrInvalidRequest),
		errors.Is(err, replay.ErrInvalidRequest),
		errors.Is(err, status.ErrInvalidRequest):
		writeErrorBody(ctx, consts.StatusBadRequest, "bad_request", err.Error())
	case errors.Is(err, farm.ErrUnknownCrop),
		errors.Is(err, farm.ErrCorruptState):
		writeErrorBody(ctx, consts.StatusUnprocessableEntity, "save_unreadable", err.Error())
	case errors.Is(err, session.ErrSessionClosed):
		writeErrorBody(ctx, consts.StatusServiceUnavailable, "session_closed", err.Error())
	case errors.Is(err, ports.ErrNotFound):
		writeErrorBody(ctx, consts.StatusNotFound, "not_found", err.Error())
	default:
		writeErrorBody(ctx, consts.StatusInternalServerError, "internal_error", "internal error")
	}
}

func writeErrorBody(ctx *app.RequestContext, status int, code, message string) {
	ctx.JSON(status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeActionRejected(ctx *app.RequestContext, resp action.Response) {
	ctx.JSON(consts.StatusConflict, map[string]any{
		"applied":     false,
		"result_code": resp.ResultCode,
		"message":     resp.Message,
		"state":       resp.State,
		"view":        resp.View,
		"error": map[string]any{
			"code":    "action_rejected",
			"message": resp.Message,
		},
	})
}
