package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
	"adaptcoach/internal/service"
)

type prescriptionPreviewRequest struct {
	Base    adaptive.Baseline       `json:"base"`
	Profile adaptive.AthleteProfile `json:"profile"`
	RuleIDs []int                   `json:"ruleIds"`
}

type nutritionPreviewRequest struct {
	Profile   adaptive.AthleteProfile `json:"profile"`
	Intensity adaptive.Intensity      `json:"intensity"`
}

type ingredientAdjustRequest struct {
	Cantidad    any                `json:"cantidad"`
	Unidad      string             `json:"unidad"`
	FactorTotal *float64           `json:"factorTotal"`
	Intensity   adaptive.Intensity `json:"intensity"`
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return badRequestError{err: fmt.Errorf("invalid JSON body: %w", err)}
	}
	return nil
}

func athleteID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, badRequestError{err: fmt.Errorf("invalid athlete id: %w", err)}
	}
	return id, service.ValidateAthleteID(id)
}

func (s *Server) healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) previewPrescription(w http.ResponseWriter, r *http.Request) {
	var req prescriptionPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.RuleIDs == nil {
		req.RuleIDs = []int{adaptive.MasterRule}
	}
	result, err := s.prescriptions.Preview(req.Base, req.Profile, req.RuleIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) previewNutrition(w http.ResponseWriter, r *http.Request) {
	var req nutritionPreviewRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	if req.Intensity == "" {
		req.Intensity = adaptive.Intermedio
	}
	factors, err := s.nutrition.Preview(req.Profile, req.Intensity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, factors)
}

func (s *Server) adjustIngredient(w http.ResponseWriter, r *http.Request) {
	var req ingredientAdjustRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, r, err)
		return
	}
	factor := 1.0
	if req.FactorTotal != nil {
		factor = *req.FactorTotal
	}
	if req.Intensity == "" {
		req.Intensity = adaptive.Intermedio
	}
	writeJSON(w, http.StatusOK, s.nutrition.AdjustIngredient(req.Cantidad, req.Unidad, factor, req.Intensity))
}

func (s *Server) createAthlete(w http.ResponseWriter, r *http.Request) {
	var a models.Athlete
	if err := decodeJSON(r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	a.ID = 0
	if err := s.athletes.SaveAthlete(r.Context(), &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, a)
}

func (s *Server) getAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	a, err := s.prescriptions.Athlete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) updateAthlete(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var a models.Athlete
	if err := decodeJSON(r, &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	a.ID = id
	if err := s.athletes.SaveAthlete(r.Context(), &a); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

func (s *Server) createBaseline(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	var b models.ExerciseBaseline
	if err := decodeJSON(r, &b); err != nil {
		s.writeError(w, r, err)
		return
	}
	b.ID = 0
	if err := s.athletes.SaveBaseline(r.Context(), id, &b); err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, b)
}

func (s *Server) recompute(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ruleIDs := []int{adaptive.MasterRule}
	if raw := r.URL.Query().Get("rules"); raw != "" {
		if ruleIDs, err = service.ParseRuleIDs(raw); err != nil {
			s.writeError(w, r, err)
			return
		}
	}
	prescriptions, err := s.prescriptions.Recompute(r.Context(), id, ruleIDs)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

func (s *Server) latest(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prescriptions, err := s.prescriptions.Latest(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, prescriptions)
}

func (s *Server) exportWorkbook(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	athlete, err := s.prescriptions.Athlete(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	prescriptions, err := s.prescriptions.Latest(r.Context(), id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	lang := s.lang
	if i18n.IsValidLanguage(athlete.Lang) {
		lang = i18n.ParseLanguage(athlete.Lang)
	}

	// Render fully before writing so a failure still gets a JSON error.
	var buf bytes.Buffer
	if err := s.workbook(&buf, athlete.Name, prescriptions, lang); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="prescripciones_%d.xlsx"`, id))
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) nutritionPlan(w http.ResponseWriter, r *http.Request) {
	id, err := athleteID(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	intensity := adaptive.ParseIntensity(r.URL.Query().Get("intensity"))
	plan, err := s.nutrition.Plan(r.Context(), id, intensity)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, plan)
}
