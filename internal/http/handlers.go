package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"legtrack/internal/config"
	"legtrack/internal/core"
	"legtrack/internal/log"
)

type categorySummary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	ShortTitle    string `json:"short_title,omitempty"`
	Description   string `json:"description,omitempty"`
	Image         string `json:"image,omitempty"`
	BillCount     int    `json:"bill_count"`
	BillsResolved bool   `json:"bills_resolved"`
	DetailFetched bool   `json:"detail_fetched"`
}

type billView struct {
	ID           string             `json:"id"`
	Title        string             `json:"title,omitempty"`
	Description  string             `json:"description,omitempty"`
	CompanionID  string             `json:"companion_id,omitempty"`
	ConferenceID string             `json:"conference_id,omitempty"`
	Categories   []string           `json:"categories"`
	Fetched      bool               `json:"fetched"`
	Events       []core.CustomEvent `json:"events,omitempty"`
	External     []externalView     `json:"external,omitempty"`
}

type externalView struct {
	BillID       string     `json:"bill_id"`
	Title        string     `json:"title,omitempty"`
	Chamber      string     `json:"chamber,omitempty"`
	LastActivity *time.Time `json:"last_activity,omitempty"`
}

type categoryDetail struct {
	categorySummary
	Bills []billView `json:"bills"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":           "ok",
		"timestamp":        time.Now().Format(time.RFC3339),
		"uptime":           time.Since(s.started).String(),
		"base_data_loaded": s.tracker.BaseDataLoaded(),
	})
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.tracker.FetchBillData(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}

	cats := s.tracker.Store().Categories()
	out := make([]categorySummary, 0, len(cats))
	for _, c := range cats {
		out = append(out, summarize(c))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleCategory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := r.PathValue("id")
	force := r.URL.Query().Get("force") == "true"

	if err := s.tracker.FetchBillData(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.tracker.FetchCategoryBills(ctx, id, force); err != nil {
		s.writeError(w, r, err)
		return
	}

	c := s.tracker.Store().LookupCategory(id)
	detail := categoryDetail{categorySummary: summarize(c)}
	for _, b := range c.Bills() {
		detail.Bills = append(detail.Bills, s.viewBill(b))
	}
	writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleBill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, ok := core.CanonicalBillID(r.PathValue("id"))
	if !ok {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unrecognizable bill number"})
		return
	}

	if err := s.tracker.FetchBillData(ctx); err != nil {
		s.writeError(w, r, err)
		return
	}

	b := s.tracker.Store().LookupBill(id)
	if b == nil {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "bill not tracked"})
		return
	}
	writeJSON(w, http.StatusOK, s.viewBill(b))
}

func summarize(c *core.Category) categorySummary {
	return categorySummary{
		ID:            c.ID,
		Title:         c.Title,
		ShortTitle:    c.ShortTitle,
		Description:   c.Description,
		Image:         c.Image,
		BillCount:     len(c.Bills()),
		BillsResolved: c.BillsResolved(),
		DetailFetched: c.DetailFetched(),
	}
}

func (s *Server) viewBill(b *core.Bill) billView {
	view := billView{
		ID:           b.ID,
		Title:        b.Title,
		Description:  b.Description,
		CompanionID:  b.CompanionID,
		ConferenceID: b.ConferenceID,
		Categories:   b.Categories(),
		Fetched:      b.Fetched(),
		Events:       b.Events(),
	}
	for _, id := range b.ExternalIDs(true) {
		eb := s.tracker.Store().LookupExternalBill(id)
		if eb == nil {
			continue
		}
		ev := externalView{
			BillID:  eb.BillID,
			Title:   eb.Title,
			Chamber: translateChamber(eb.Chamber),
		}
		if la := eb.LastActivity(); !la.IsZero() {
			ev.LastActivity = &la
		}
		view.External = append(view.External, ev)
	}
	return view
}

func translateChamber(chamber string) string {
	if label, ok := config.ChamberLabels[chamber]; ok {
		return label
	}
	return chamber
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, core.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, core.ErrBadTranslation), errors.Is(err, core.ErrMissingIdentity):
		status = http.StatusInternalServerError
	}
	s.logger.ErrorContext(r.Context(), "Request failed",
		log.FieldPath, r.URL.Path, log.FieldError, err.Error())
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
