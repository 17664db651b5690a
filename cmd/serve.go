package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"sitepulse/internal/bootstrap"
	"sitepulse/internal/bootstrap/logging"
	domainrisk "sitepulse/internal/domain/risk"
	"sitepulse/internal/errs"
	"sitepulse/internal/ports"
	riskuc "sitepulse/internal/usecase/risk"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: withApp(func(cmd *cobra.Command, _ *bootstrap.App, svc *riskuc.Service) error {
		ctx := logging.WithAttrs(cmd.Context(), slog.String("command", cmd.CommandPath()))

		addr, _ := cmd.Flags().GetString("addr")
		addr = strings.TrimSpace(addr)
		if addr == "" {
			addr = ":8080"
		}

		server := &http.Server{
			Addr:    addr,
			Handler: newAPIHandler(svc),
		}

		logging.Info(ctx, "api server started", slog.String("addr", addr))

		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error(ctx, "api server failed", slog.Any("err", errs.Loggable(err)))
			return errs.Wrap(err, "serve api")
		}
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", ":8080", "API listen address")
}

type riskAPIService interface {
	SetThresholds(ctx context.Context, input riskuc.SetThresholdsInput) error
	GetThresholds(ctx context.Context, projectID string) (riskuc.ThresholdsView, error)
	RecomputeRiskScore(ctx context.Context, input riskuc.RecomputeInput) (riskuc.RecomputeResult, error)
	GetRiskSummary(ctx context.Context, projectID string) (riskuc.RiskSummary, error)
	GetAreaRiskLevel(ctx context.Context, projectID string, areaID string) (domainrisk.Level, error)
	GetRiskScore(ctx context.Context, projectID string, areaID string) (ports.RiskScoreRecord, error)
	DeleteAreaScore(ctx context.Context, projectID string, areaID string) error
	ReportDefect(ctx context.Context, input riskuc.ReportDefectInput) (riskuc.ReportDefectResult, error)
	ResolveDefect(ctx context.Context, defectID uint64) (riskuc.RecomputeResult, error)
	ListDefects(ctx context.Context, projectID string, areaID string) ([]ports.DefectRecord, error)
	ListInspections(ctx context.Context, projectID string) ([]ports.InspectionRecord, error)
	CompleteInspection(ctx context.Context, inspectionID uint64) error
	CancelInspection(ctx context.Context, inspectionID uint64) error
	ListNotifications(ctx context.Context, recipientID string, limit int) ([]ports.NotificationRecord, error)
	MarkNotificationRead(ctx context.Context, notificationID uint64) error
}

type apiHandler struct {
	svc riskAPIService
}

func newAPIHandler(svc riskAPIService) http.Handler {
	h := &apiHandler{svc: svc}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestAttrs)

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/projects/{projectID}", func(r chi.Router) {
			r.Put("/risk-thresholds", h.putThresholds)
			r.Get("/risk-thresholds", h.getThresholds)
			r.Get("/risk-summary", h.getSummary)
			r.Get("/risk-scores", h.listScores)
			r.Get("/inspections", h.listInspections)

			r.Route("/areas/{areaID}", func(r chi.Router) {
				r.Post("/risk/recompute", h.recompute)
				r.Get("/risk-score", h.getScore)
				r.Delete("/risk-score", h.deleteScore)
				r.Get("/risk-level", h.getLevel)
				r.Post("/defects", h.postDefect)
				r.Get("/defects", h.listDefects)
			})
		})

		r.Post("/defects/{defectID}/resolve", h.resolveDefect)
		r.Post("/inspections/{inspectionID}/complete", h.completeInspection)
		r.Post("/inspections/{inspectionID}/cancel", h.cancelInspection)

		r.Get("/notifications", h.listNotifications)
		r.Post("/notifications/{notificationID}/read", h.readNotification)
	})

	return r
}

type thresholdsPayload struct {
	LowThreshold      float64 `json:"low_threshold"`
	MediumThreshold   float64 `json:"medium_threshold"`
	HighThreshold     float64 `json:"high_threshold"`
	CriticalThreshold float64 `json:"critical_threshold"`
	AutoSchedule      bool    `json:"auto_schedule"`
	AutoScheduleAt    string  `json:"auto_schedule_at"`
}

type thresholdsResponse struct {
	ProjectID string `json:"project_id"`
	thresholdsPayload
	Configured bool   `json:"configured"`
	UpdatedAt  string `json:"updated_at,omitempty"`
}

type scoreResponse struct {
	ProjectID     string  `json:"project_id"`
	AreaID        string  `json:"area_id"`
	RiskScore     float64 `json:"risk_score"`
	RiskLevel     string  `json:"risk_level"`
	SeverityScore float64 `json:"severity_score"`
	DefectCount   int     `json:"defect_count"`
	ComputedAt    string  `json:"computed_at"`
}

type recomputeResponse struct {
	scoreResponse
	AutoScheduled    bool   `json:"auto_scheduled"`
	AlreadyScheduled bool   `json:"already_scheduled"`
	InspectionID     uint64 `json:"inspection_id,omitempty"`
	InspectionRef    string `json:"inspection_ref,omitempty"`
	Warning          string `json:"warning,omitempty"`
}

type defectPayload struct {
	Severity    string `json:"severity"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

type apiErrorResponse struct {
	Error string `json:"error"`
}

func (h *apiHandler) putThresholds(w http.ResponseWriter, r *http.Request) {
	var payload thresholdsPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	err := h.svc.SetThresholds(r.Context(), riskuc.SetThresholdsInput{
		ProjectID:         chi.URLParam(r, "projectID"),
		LowThreshold:      payload.LowThreshold,
		MediumThreshold:   payload.MediumThreshold,
		HighThreshold:     payload.HighThreshold,
		CriticalThreshold: payload.CriticalThreshold,
		AutoSchedule:      payload.AutoSchedule,
		AutoScheduleAt:    payload.AutoScheduleAt,
	})
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	h.getThresholds(w, r)
}

func (h *apiHandler) getThresholds(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetThresholds(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	writeAPIJSON(w, http.StatusOK, thresholdsResponse{
		ProjectID: view.ProjectID,
		thresholdsPayload: thresholdsPayload{
			LowThreshold:      view.LowThreshold,
			MediumThreshold:   view.MediumThreshold,
			HighThreshold:     view.HighThreshold,
			CriticalThreshold: view.CriticalThreshold,
			AutoSchedule:      view.AutoSchedule,
			AutoScheduleAt:    view.AutoScheduleAt,
		},
		Configured: view.Configured,
		UpdatedAt:  view.UpdatedAt,
	})
}

func (h *apiHandler) recompute(w http.ResponseWriter, r *http.Request) {
	out, err := h.svc.RecomputeRiskScore(r.Context(), riskuc.RecomputeInput{
		ProjectID: chi.URLParam(r, "projectID"),
		AreaID:    chi.URLParam(r, "areaID"),
	})
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	writeAPIJSON(w, http.StatusOK, recomputeResponseFrom(out))
}

func (h *apiHandler) getSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetRiskSummary(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	areas := make([]scoreResponse, 0, len(summary.Areas))
	for _, area := range summary.Areas {
		areas = append(areas, scoreResponseFrom(area))
	}

	writeAPIJSON(w, http.StatusOK, struct {
		ProjectID     string          `json:"project_id"`
		AreaCount     int             `json:"area_count"`
		AverageScore  float64         `json:"average_score"`
		MaxScore      float64         `json:"max_score"`
		CountsByLevel map[string]int  `json:"counts_by_level"`
		Areas         []scoreResponse `json:"areas"`
	}{
		ProjectID:     summary.ProjectID,
		AreaCount:     summary.AreaCount,
		AverageScore:  summary.AverageScore,
		MaxScore:      summary.MaxScore,
		CountsByLevel: levelCounts(summary.CountsByLevel),
		Areas:         areas,
	})
}

func (h *apiHandler) listScores(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetRiskSummary(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	scores := make([]scoreResponse, 0, len(summary.Areas))
	for _, area := range summary.Areas {
		scores = append(scores, scoreResponseFrom(area))
	}
	writeAPIJSON(w, http.StatusOK, scores)
}

func (h *apiHandler) getScore(w http.ResponseWriter, r *http.Request) {
	score, err := h.svc.GetRiskScore(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "areaID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	writeAPIJSON(w, http.StatusOK, scoreResponseFrom(score))
}

// requestAttrs stamps the chi request id onto the context logger and echoes
// it back to the caller.
func requestAttrs(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if reqID := middleware.GetReqID(r.Context()); reqID != "" {
			w.Header().Set("X-Request-Id", reqID)
			r = r.WithContext(logging.WithAttrs(r.Context(), slog.String("request_id", reqID)))
		}
		next.ServeHTTP(w, r)
	})
}

func (h *apiHandler) getLevel(w http.ResponseWriter, r *http.Request) {
	level, err := h.svc.GetAreaRiskLevel(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "areaID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	writeAPIJSON(w, http.StatusOK, struct {
		ProjectID string `json:"project_id"`
		AreaID    string `json:"area_id"`
		RiskLevel string `json:"risk_level"`
	}{
		ProjectID: chi.URLParam(r, "projectID"),
		AreaID:    chi.URLParam(r, "areaID"),
		RiskLevel: level.String(),
	})
}

func (h *apiHandler) deleteScore(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteAreaScore(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "areaID")); err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) postDefect(w http.ResponseWriter, r *http.Request) {
	var payload defectPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid json payload")
		return
	}

	out, err := h.svc.ReportDefect(r.Context(), riskuc.ReportDefectInput{
		ProjectID:   chi.URLParam(r, "projectID"),
		AreaID:      chi.URLParam(r, "areaID"),
		Severity:    payload.Severity,
		Category:    payload.Category,
		Description: payload.Description,
	})
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}

	writeAPIJSON(w, http.StatusCreated, struct {
		DefectID  uint64            `json:"defect_id"`
		Severity  string            `json:"severity"`
		Status    string            `json:"status"`
		Recompute recomputeResponse `json:"recompute"`
	}{
		DefectID:  out.Defect.DefectID,
		Severity:  string(out.Defect.Severity),
		Status:    out.Defect.Status,
		Recompute: recomputeResponseFrom(out.Recompute),
	})
}

func (h *apiHandler) listDefects(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListDefects(r.Context(), chi.URLParam(r, "projectID"), chi.URLParam(r, "areaID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	writeAPIJSON(w, http.StatusOK, items)
}

func (h *apiHandler) resolveDefect(w http.ResponseWriter, r *http.Request) {
	defectID, ok := parseAPIID(w, r, "defectID")
	if !ok {
		return
	}

	out, err := h.svc.ResolveDefect(r.Context(), defectID)
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	writeAPIJSON(w, http.StatusOK, recomputeResponseFrom(out))
}

func (h *apiHandler) listInspections(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.ListInspections(r.Context(), chi.URLParam(r, "projectID"))
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	writeAPIJSON(w, http.StatusOK, items)
}

func (h *apiHandler) completeInspection(w http.ResponseWriter, r *http.Request) {
	h.finishInspection(w, r, h.svc.CompleteInspection)
}

func (h *apiHandler) cancelInspection(w http.ResponseWriter, r *http.Request) {
	h.finishInspection(w, r, h.svc.CancelInspection)
}

func (h *apiHandler) finishInspection(w http.ResponseWriter, r *http.Request, finish func(context.Context, uint64) error) {
	inspectionID, ok := parseAPIID(w, r, "inspectionID")
	if !ok {
		return
	}

	if err := finish(r.Context(), inspectionID); err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *apiHandler) listNotifications(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if raw := strings.TrimSpace(r.URL.Query().Get("limit")); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeAPIError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}

	items, err := h.svc.ListNotifications(r.Context(), r.URL.Query().Get("recipient"), limit)
	if err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	writeAPIJSON(w, http.StatusOK, items)
}

func (h *apiHandler) readNotification(w http.ResponseWriter, r *http.Request) {
	notificationID, ok := parseAPIID(w, r, "notificationID")
	if !ok {
		return
	}

	if err := h.svc.MarkNotificationRead(r.Context(), notificationID); err != nil {
		writeAPIError(w, apiStatusFor(err), err.Error())
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func recomputeResponseFrom(out riskuc.RecomputeResult) recomputeResponse {
	return recomputeResponse{
		scoreResponse: scoreResponse{
			ProjectID:     out.ProjectID,
			AreaID:        out.AreaID,
			RiskScore:     out.RiskScore,
			RiskLevel:     out.RiskLevel.String(),
			SeverityScore: out.SeverityScore,
			DefectCount:   out.DefectCount,
			ComputedAt:    out.ComputedAt,
		},
		AutoScheduled:    out.AutoScheduled,
		AlreadyScheduled: out.AlreadyScheduled,
		InspectionID:     out.InspectionID,
		InspectionRef:    out.InspectionRef,
		Warning:          out.Warning,
	}
}

func scoreResponseFrom(record ports.RiskScoreRecord) scoreResponse {
	return scoreResponse{
		ProjectID:     record.ProjectID,
		AreaID:        record.AreaID,
		RiskScore:     record.RiskScore,
		RiskLevel:     record.RiskLevel.String(),
		SeverityScore: record.SeverityScore,
		DefectCount:   record.DefectCount,
		ComputedAt:    record.ComputedAt,
	}
}

func levelCounts(counts map[domainrisk.Level]int) map[string]int {
	out := make(map[string]int, len(counts))
	for level, count := range counts {
		out[level.String()] = count
	}
	return out
}

func parseAPIID(w http.ResponseWriter, r *http.Request, param string) (uint64, bool) {
	id, err := strconv.ParseUint(chi.URLParam(r, param), 10, 64)
	if err != nil {
		writeAPIError(w, http.StatusBadRequest, "invalid "+param)
		return 0, false
	}
	return id, true
}

func apiStatusFor(err error) int {
	switch {
	case errors.Is(err, ports.ErrScoreNotFound),
		errors.Is(err, ports.ErrDefectNotFound),
		errors.Is(err, ports.ErrInspectionNotFound),
		errors.Is(err, ports.ErrNotificationNotFound):
		return http.StatusNotFound
	case errors.Is(err, domainrisk.ErrUnknownLevel),
		errors.Is(err, domainrisk.ErrUnknownSeverity),
		errors.Is(err, domainrisk.ErrInvalidThresholds):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeAPIJSON(w, status, apiErrorResponse{Error: message})
}

func writeAPIJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
