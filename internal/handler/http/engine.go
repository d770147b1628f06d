package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/kantorkita/presensi-backend-go/internal/domain/attendance"
	"github.com/kantorkita/presensi-backend-go/internal/domain/audit"
	"github.com/kantorkita/presensi-backend-go/internal/handler/http/response"
	"github.com/kantorkita/presensi-backend-go/internal/pkg/cron"
)

type EngineHandler interface {
	TriggerGenerate(w http.ResponseWriter, r *http.Request)
	TriggerFinalize(w http.ResponseWriter, r *http.Request)
	TriggerReconcile(w http.ResponseWriter, r *http.Request)
	LeaveRevoked(w http.ResponseWriter, r *http.Request)
	Status(w http.ResponseWriter, r *http.Request)
}

type EngineHandlerImpl struct {
	engine    attendance.EngineService
	scheduler *cron.Scheduler
	auditRepo audit.LogRepository
}

func NewEngineHandler(engine attendance.EngineService, scheduler *cron.Scheduler, auditRepo audit.LogRepository) EngineHandler {
	return &EngineHandlerImpl{
		engine:    engine,
		scheduler: scheduler,
		auditRepo: auditRepo,
	}
}

const dateLayout = "2006-01-02"

// TriggerGenerate implements EngineHandler. Accepts a single date or
// an inclusive range; the manual run is recorded in the system log.
func (h *EngineHandlerImpl) TriggerGenerate(w http.ResponseWriter, r *http.Request) {
	var req attendance.GenerateTriggerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("TriggerGenerate decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	h.recordManualTrigger(r, "generate")

	if req.Date != "" {
		date, _ := time.Parse(dateLayout, req.Date)
		result, err := h.engine.GenerateForDate(r.Context(), date)
		if err != nil {
			response.HandleError(w, err)
			return
		}
		response.Success(w, result)
		return
	}

	start, _ := time.Parse(dateLayout, req.StartDate)
	end, _ := time.Parse(dateLayout, req.EndDate)
	result, err := h.engine.GenerateForRange(r.Context(), start, end)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// TriggerFinalize implements EngineHandler. Runs the full end-of-day
// pass for the date: finalize missing check-ins, then close open
// check-outs.
func (h *EngineHandlerImpl) TriggerFinalize(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReconcileTriggerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("TriggerFinalize decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	h.recordManualTrigger(r, "finalize")

	date, _ := time.Parse(dateLayout, req.Date)

	finalizeResult, err := h.engine.FinalizeDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	closeOutResult, err := h.engine.CloseOpenCheckOuts(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, map[string]interface{}{
		"finalize":  finalizeResult,
		"close_out": closeOutResult,
	})
}

// TriggerReconcile implements EngineHandler.
func (h *EngineHandlerImpl) TriggerReconcile(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReconcileTriggerRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("TriggerReconcile decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	h.recordManualTrigger(r, "reconcile")

	date, _ := time.Parse(dateLayout, req.Date)
	result, err := h.engine.ReconcileDate(r.Context(), date)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// LeaveRevoked implements EngineHandler. Called by the leave
// management surface after an approval is withdrawn.
func (h *EngineHandlerImpl) LeaveRevoked(w http.ResponseWriter, r *http.Request) {
	var req attendance.LeaveRevokedRequest

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("LeaveRevoked decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.engine.HandleLeaveRevoked(r.Context(), req.LeaveID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Status implements EngineHandler. Returns the scheduler's job
// snapshot and the most recent system log entries.
func (h *EngineHandlerImpl) Status(w http.ResponseWriter, r *http.Request) {
	entries, err := h.auditRepo.ListRecent(r.Context(), 20)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	logs := make([]map[string]interface{}, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, map[string]interface{}{
			"event_type":  e.EventType,
			"description": e.Description,
			"created_at":  e.CreatedAt,
		})
	}

	var jobs []cron.JobStatus
	if h.scheduler != nil {
		jobs = h.scheduler.Snapshot()
	}

	response.Success(w, map[string]interface{}{
		"jobs":        jobs,
		"recent_logs": logs,
	})
}

func (h *EngineHandlerImpl) recordManualTrigger(r *http.Request, operation string) {
	if err := h.auditRepo.Append(r.Context(), audit.EventManualTrigger,
		"Manual trigger: "+operation); err != nil {
		slog.Warn("Failed to record manual trigger", "operation", operation, "error", err)
	}
}
