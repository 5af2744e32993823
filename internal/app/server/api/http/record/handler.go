package record

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"golang.org/x/exp/slog"

	"punchclock/internal/app/server/api/http/middleware/auth"
	"punchclock/internal/domain/punch"
)

type Handler struct {
	service    punch.Servicer
	log        *slog.Logger
	middleware huma.Middlewares
}

func NewHandler(service punch.Servicer, log *slog.Logger, mws huma.Middlewares) *Handler {
	return &Handler{
		service:    service,
		log:        log,
		middleware: mws,
	}
}

func (h *Handler) SetupRoutes(api huma.API) {
	huma.Register(api, h.createOp(), h.create)
	huma.Register(api, h.findByOfflineIDOp(), h.findByOfflineID)
	huma.Register(api, h.listOp(), h.list)
}

func (h *Handler) create(ctx context.Context, input *createInput) (*createOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	req := punch.CreateRequest{
		OfflineID: input.Body.OfflineID,
		Type:      input.Body.Type,
		Timestamp: input.Body.Timestamp,
		Device:    input.Body.Device,
		Location:  input.Body.Location,
	}

	rec, inserted, err := h.service.CreateIdempotent(ctx, userID, req)
	if err != nil {
		if errors.Is(err, punch.ErrInvalidRecord) {
			return nil, huma.Error422UnprocessableEntity(err.Error())
		}
		return nil, err
	}

	status := http.StatusOK
	if inserted {
		status = http.StatusCreated
	}

	return &createOutput{
		Status: status,
		Body: createResponse{
			Record:   *rec,
			Inserted: inserted,
		},
	}, nil
}

func (h *Handler) findByOfflineID(ctx context.Context, input *findByOfflineIDInput) (*findOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	rec, err := h.service.FindByOfflineID(ctx, userID, input.OfflineID)
	if err != nil {
		if errors.Is(err, punch.ErrNotFound) {
			return nil, huma.Error404NotFound("record not found")
		}
		return nil, err
	}

	return &findOutput{Body: *rec}, nil
}

func (h *Handler) list(ctx context.Context, input *listInput) (*listOutput, error) {
	userID, ok := auth.GetUserID(ctx)
	if !ok {
		return nil, huma.Error401Unauthorized("Unauthorized")
	}

	var records []punch.TimeRecord
	var err error
	if input.From.IsZero() && input.To.IsZero() {
		// No bounds means the current calendar day (server zone).
		records, err = h.service.ListDay(ctx, userID, time.Now())
	} else {
		records, err = h.service.ListRange(ctx, userID, input.From, input.To)
	}
	if err != nil {
		return nil, err
	}

	return &listOutput{
		Body: listResponse{
			Records: records,
			Total:   len(records),
		},
	}, nil
}
