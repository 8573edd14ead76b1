package services

import (
	"context"

	"github.com/landgriffon/landgriffon-backend/internal/platform/logger"
	"github.com/landgriffon/landgriffon-backend/internal/realtime"
	"github.com/landgriffon/landgriffon-backend/internal/realtime/bus"
)

// ImportStep identifies the phase an import is in when progress is emitted.
type ImportStep string

const (
	StepValidatingData    ImportStep = "VALIDATING_DATA"
	StepImportingData     ImportStep = "IMPORTING_DATA"
	StepGeocoding         ImportStep = "GEOCODING"
	StepCalculatingImpact ImportStep = "CALCULATING_IMPACT"
)

type ImportProgressPayload struct {
	Step     ImportStep `json:"step"`
	Progress float64    `json:"progress"`
}

// ImportProgressEmitter pushes import progress onto the message bus.
// Emission is fire and forget: a lost update never fails the import.
type ImportProgressEmitter interface {
	EmitProgress(ctx context.Context, jobID string, step ImportStep, progress float64)
	EmitCompleted(ctx context.Context, jobID string, data any)
	EmitFailed(ctx context.Context, jobID string, errs any)
}

type importProgressEmitter struct {
	bus bus.Bus
	log *logger.Logger
}

func NewImportProgressEmitter(b bus.Bus, baseLog *logger.Logger) ImportProgressEmitter {
	return &importProgressEmitter{bus: b, log: baseLog.With("service", "ImportProgressEmitter")}
}

func (e *importProgressEmitter) EmitProgress(ctx context.Context, jobID string, step ImportStep, progress float64) {
	e.publish(ctx, realtime.SSEMessage{
		Channel: jobID,
		Event:   realtime.EventImportProgress,
		Data:    ImportProgressPayload{Step: step, Progress: progress},
	})
}

func (e *importProgressEmitter) EmitCompleted(ctx context.Context, jobID string, data any) {
	e.publish(ctx, realtime.SSEMessage{
		Channel: jobID,
		Event:   realtime.EventImportCompleted,
		Data:    data,
	})
}

func (e *importProgressEmitter) EmitFailed(ctx context.Context, jobID string, errs any) {
	e.publish(ctx, realtime.SSEMessage{
		Channel: jobID,
		Event:   realtime.EventImportFailed,
		Data:    errs,
	})
}

func (e *importProgressEmitter) publish(ctx context.Context, msg realtime.SSEMessage) {
	if err := e.bus.Publish(ctx, msg); err != nil {
		e.log.Warn("failed to publish progress message", "channel", msg.Channel, "event", msg.Event, "error", err)
	}
}
