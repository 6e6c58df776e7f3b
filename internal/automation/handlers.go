// Package automation exposes the HTTP surface of the image automation
// service: batch triggers, a health check and the composed-image files.
package automation

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/imagemodify/imagemodify/internal/logger"
	"github.com/imagemodify/imagemodify/internal/models"
	"github.com/imagemodify/imagemodify/internal/processor"
	"github.com/imagemodify/imagemodify/internal/sheets"
)

const (
	unauthorizedMessage   = "Unauthorized"
	invalidRequestMessage = "Invalid request"
	missingSheetMessage   = "sheet_id is required"
	runInProgressMessage  = "A run for this sheet is already in progress"
	noStaticSheetMessage  = "No static sheet configured"
)

// SheetResolver opens a worksheet by id and optional name.
type SheetResolver interface {
	Resolve(sheetID, sheetName string) (sheets.Sheet, error)
}

// Runner executes one batch over a sheet.
type Runner interface {
	ProcessSheet(ctx context.Context, sheet sheets.Sheet) (processor.Summary, error)
}

type Handler struct {
	staticSheetID   string
	staticSheetName string
	resolver        SheetResolver
	runner          Runner
	locks           *runLocks
}

func NewHandler(resolver SheetResolver, runner Runner, staticSheetID, staticSheetName string) *Handler {
	return &Handler{
		staticSheetID:   staticSheetID,
		staticSheetName: staticSheetName,
		resolver:        resolver,
		runner:          runner,
		locks:           newRunLocks(),
	}
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// Run triggers a batch against the statically configured sheet.
func (h *Handler) Run(w http.ResponseWriter, r *http.Request) {
	if h.staticSheetID == "" {
		http.Error(w, noStaticSheetMessage, http.StatusServiceUnavailable)
		return
	}

	h.startRun(w, "static", h.staticSheetID, h.staticSheetName)
}

// RunDynamic triggers a batch against a caller-supplied sheet.
func (h *Handler) RunDynamic(w http.ResponseWriter, r *http.Request) {
	var req models.DynamicRunRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, invalidRequestMessage, http.StatusBadRequest)
		return
	}

	if req.SheetID == "" {
		http.Error(w, missingSheetMessage, http.StatusBadRequest)
		return
	}

	h.startRun(w, "dynamic", req.SheetID, req.SheetName)
}

// startRun spawns the batch on a background context detached from the
// request and acknowledges immediately. Fire-and-forget: callers observe
// results by polling the sheet.
func (h *Handler) startRun(w http.ResponseWriter, mode, sheetID, sheetName string) {
	sheet, err := h.resolver.Resolve(sheetID, sheetName)
	if err != nil {
		logger.Log.Error("failed to open sheet", "sheet_id", sheetID, "error", err)
		http.Error(w, "Failed to open sheet", http.StatusBadGateway)
		return
	}

	if !h.locks.TryAcquire(sheetID) {
		http.Error(w, runInProgressMessage, http.StatusConflict)
		return
	}

	runID := uuid.New().String()
	logger.Log.Info("processing started",
		"run_id", runID,
		"mode", mode,
		"sheet_id", sheetID)

	go func() {
		defer h.locks.Release(sheetID)

		if _, err := h.runner.ProcessSheet(context.Background(), sheet); err != nil {
			logger.Log.Error("batch run failed",
				"run_id", runID,
				"sheet_id", sheetID,
				"error", err)
		}
	}()

	resp := models.RunResponse{
		Status: "processing_started",
		Mode:   mode,
		RunID:  runID,
	}
	if mode == "dynamic" {
		resp.SheetID = sheetID
		resp.SheetName = sheetName
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}
