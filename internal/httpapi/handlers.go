package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/alexanderramin/shiftclock/internal/app"
	"github.com/alexanderramin/shiftclock/internal/contract"
	"github.com/alexanderramin/shiftclock/internal/domain"
	"github.com/go-chi/chi/v5"
)

const maxBodyBytes = 64 << 10

// decodeBody decodes an optional JSON body into v; an empty body leaves v
// at its zero value.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeBadRequest(w, "could not parse request body: "+err.Error())
		return false
	}
	return true
}

type trackingHandler struct {
	uc app.TrackingUseCase
}

// respond runs fn for the request's actor and writes the snapshot.
func (h *trackingHandler) respond(w http.ResponseWriter, r *http.Request, fn func(actor app.Actor) (*app.TrackingSnapshot, error)) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	snap, err := fn(actor)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromSnapshot(snap))
}

func (h *trackingHandler) Snapshot(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(actor app.Actor) (*app.TrackingSnapshot, error) {
		return h.uc.Snapshot(r.Context(), actor)
	})
}

func (h *trackingHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	var req contract.ClockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respond(w, r, func(actor app.Actor) (*app.TrackingSnapshot, error) {
		return h.uc.ClockIn(r.Context(), actor, req.Notes)
	})
}

func (h *trackingHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	var req contract.ClockRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respond(w, r, func(actor app.Actor) (*app.TrackingSnapshot, error) {
		return h.uc.ClockOut(r.Context(), actor, req.Notes)
	})
}

func (h *trackingHandler) StartBreak(w http.ResponseWriter, r *http.Request) {
	var req contract.StartBreakRequest
	if !decodeBody(w, r, &req) {
		return
	}
	h.respond(w, r, func(actor app.Actor) (*app.TrackingSnapshot, error) {
		bt, err := domain.ParseBreakType(req.Type)
		if err != nil {
			return nil, err
		}
		return h.uc.StartBreak(r.Context(), actor, bt)
	})
}

func (h *trackingHandler) ResumeWork(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, func(actor app.Actor) (*app.TrackingSnapshot, error) {
		return h.uc.ResumeWork(r.Context(), actor)
	})
}

type reportHandler struct {
	uc app.ReportUseCase
}

// Daily serves GET /reports/daily?date=YYYY-MM-DD; no date means today.
func (h *reportHandler) Daily(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sum, err := h.uc.Daily(r.Context(), actor, r.URL.Query().Get("date"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromDailySummary(sum))
}

// Weekly serves GET /reports/weekly?week=YYYY-MM-DD; any day in the week works.
func (h *reportHandler) Weekly(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	sum, err := h.uc.Weekly(r.Context(), actor, r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromWeeklySummary(sum))
}

type approvalHandler struct {
	uc app.ApprovalUseCase
}

// Review serves PUT /approvals/{userID}/{date}.
func (h *approvalHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewer, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var body contract.ReviewRequest
	if !decodeBody(w, r, &body) {
		return
	}
	approval, err := h.uc.Review(r.Context(), reviewer, app.ReviewRequest{
		SubjectUserID: chi.URLParam(r, "userID"),
		WorkDate:      chi.URLParam(r, "date"),
		Status:        domain.ReviewStatus(body.Status),
		Notes:         body.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromApproval(approval))
}

type correctionHandler struct {
	uc app.CorrectionUseCase
}

// Submit serves POST /corrections.
func (h *correctionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var body contract.SubmitCorrectionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.uc.Submit(r.Context(), actor, app.CorrectionSubmission{
		SessionID: body.SessionID,
		ClockIn:   body.ClockIn,
		ClockOut:  body.ClockOut,
		Reason:    body.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, contract.FromCorrection(req))
}

// List serves GET /corrections?status=pending&user=ID.
func (h *correctionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	q := r.URL.Query()
	list, err := h.uc.List(r.Context(), actor, app.CorrectionQuery{
		UserID: q.Get("user"),
		Status: domain.CorrectionStatus(q.Get("status")),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromCorrections(list))
}

// Review serves PUT /corrections/{id}.
func (h *correctionHandler) Review(w http.ResponseWriter, r *http.Request) {
	reviewer, err := ActorFromContext(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	var body contract.ReviewRequest
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := h.uc.Review(r.Context(), reviewer, app.CorrectionDecision{
		RequestID: chi.URLParam(r, "id"),
		Status:    domain.ReviewStatus(body.Status),
		Notes:     body.Notes,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, contract.FromCorrection(req))
}
