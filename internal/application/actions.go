package application

import (
	"context"
	"fmt"

	"github.com/bnema/paymail/internal/domain"
	"github.com/bnema/paymail/internal/ports"
)

type Action string

const (
	ActionStart            Action = "start"
	ActionStop             Action = "stop"
	ActionStatus           Action = "status"
	ActionUpdate           Action = "update"
	ActionUploadAndMonitor Action = "upload-and-monitor"
	actionUploadAndStart   Action = "uploadAndStart"
)

const (
	defaultStartSource  = "test-mode"
	defaultUploadSource = "uploaded-file"
)

type ControlRequest struct {
	Action         Action                `json:"action"`
	Source         string                `json:"source"`
	InitialRecords []domain.VendorRecord `json:"initialRecords"`
	NewRecords     []domain.VendorRecord `json:"newRecords"`
	Rows           []map[string]any      `json:"rows"`
	SourceName     string                `json:"sourceName"`
}

type ControlResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	*MonitorStatus
	*UpdateReport
}

// MonitorController routes string-tagged control actions to the session.
type MonitorController struct {
	session *MonitoringSession
	rows    ports.RowNormalizer
}

func NewMonitorController(session *MonitoringSession, rows ports.RowNormalizer) *MonitorController {
	return &MonitorController{session: session, rows: rows}
}

func (c *MonitorController) Handle(ctx context.Context, req ControlRequest) (ControlResponse, error) {
	switch req.Action {
	case "":
		return ControlResponse{}, &domain.ValidationError{Field: "action", Reason: "is required"}
	case ActionStart:
		return c.start(req)
	case ActionStop:
		if err := c.session.Stop(); err != nil {
			return ControlResponse{}, err
		}
		return ControlResponse{Success: true, Message: "monitoring stopped"}, nil
	case ActionStatus:
		status := c.session.Status()
		return ControlResponse{Success: true, MonitorStatus: &status}, nil
	case ActionUpdate:
		return c.update(ctx, req)
	case ActionUploadAndMonitor, actionUploadAndStart:
		return c.upload(req)
	default:
		return ControlResponse{}, fmt.Errorf("%w: %q: %w", domain.ErrUnknownAction, req.Action,
			&domain.ValidationError{Field: "action", Reason: "use start, stop, status, update or upload-and-monitor"})
	}
}

func (c *MonitorController) start(req ControlRequest) (ControlResponse, error) {
	if req.Source == "" && req.InitialRecords == nil {
		return ControlResponse{}, &domain.ValidationError{Field: "source", Reason: "source or initialRecords is required to start monitoring"}
	}

	source := req.Source
	if source == "" {
		source = defaultStartSource
	}

	status, err := c.session.Start(source, req.InitialRecords)
	if err != nil {
		return ControlResponse{}, err
	}

	return ControlResponse{Success: true, Message: "monitoring started", MonitorStatus: &status}, nil
}

func (c *MonitorController) update(ctx context.Context, req ControlRequest) (ControlResponse, error) {
	if req.NewRecords == nil {
		return ControlResponse{}, &domain.ValidationError{Field: "newRecords", Reason: "is required for update"}
	}

	report, err := c.session.Update(ctx, req.NewRecords)
	if err != nil {
		return ControlResponse{}, err
	}

	return ControlResponse{Success: true, UpdateReport: &report}, nil
}

func (c *MonitorController) upload(req ControlRequest) (ControlResponse, error) {
	if req.Rows == nil {
		return ControlResponse{}, &domain.ValidationError{Field: "rows", Reason: "file data is required"}
	}

	records, err := c.rows.Normalize(req.Rows)
	if err != nil {
		return ControlResponse{}, fmt.Errorf("normalize uploaded rows: %w", err)
	}

	source := req.SourceName
	if source == "" {
		source = defaultUploadSource
	}

	status, err := c.session.Start(source, records)
	if err != nil {
		return ControlResponse{}, err
	}

	return ControlResponse{Success: true, Message: "file uploaded and monitoring started", MonitorStatus: &status}, nil
}
