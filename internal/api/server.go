// Package api exposes the adaptive engine and stored plans over HTTP.
package api

import (
	"context"
	"io"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"adaptcoach/internal/adaptive"
	"adaptcoach/internal/i18n"
	"adaptcoach/internal/models"
)

// PrescriptionService is the exercise side the API needs.
type PrescriptionService interface {
	Preview(base adaptive.Baseline, profile adaptive.AthleteProfile, ruleIDs []int) (adaptive.AdaptiveResult, error)
	Recompute(ctx context.Context, athleteID int, ruleIDs []int) ([]models.Prescription, error)
	Latest(ctx context.Context, athleteID int) ([]models.Prescription, error)
	Athlete(ctx context.Context, athleteID int) (*models.Athlete, error)
}

// NutritionService is the nutrition side the API needs.
type NutritionService interface {
	Preview(profile adaptive.AthleteProfile, intensity adaptive.Intensity) (adaptive.NutritionFactors, error)
	AdjustIngredient(cantidad any, unidad string, factorTotal float64, intensity adaptive.Intensity) adaptive.IngredientQuantity
	Plan(ctx context.Context, athleteID int, intensity adaptive.Intensity) (*models.NutritionPlan, error)
}

// AthleteService registers athletes and their baselines.
type AthleteService interface {
	SaveAthlete(ctx context.Context, a *models.Athlete) error
	SaveBaseline(ctx context.Context, athleteID int, b *models.ExerciseBaseline) error
}

// WorkbookWriter renders the prescription workbook; excel.WritePrescriptions matches it.
type WorkbookWriter func(w io.Writer, athleteName string, prescriptions []models.Prescription, lang i18n.Language) error

// Server holds the handlers' dependencies.
type Server struct {
	prescriptions PrescriptionService
	nutrition     NutritionService
	athletes      AthleteService
	workbook      WorkbookWriter
	lang          i18n.Language
	logger        *zap.Logger
}

// NewServer creates a Server. lang is used for exports when the athlete has none.
func NewServer(prescriptions PrescriptionService, nutrition NutritionService, athletes AthleteService,
	workbook WorkbookWriter, lang i18n.Language, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		prescriptions: prescriptions,
		nutrition:     nutrition,
		athletes:      athletes,
		workbook:      workbook,
		lang:          lang,
		logger:        logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/healthz", s.healthz).Methods(http.MethodGet)

	v1 := r.PathPrefix("/api/v1").Subrouter()
	v1.HandleFunc("/prescriptions/preview", s.previewPrescription).Methods(http.MethodPost)
	v1.HandleFunc("/nutrition/preview", s.previewNutrition).Methods(http.MethodPost)
	v1.HandleFunc("/ingredients/adjust", s.adjustIngredient).Methods(http.MethodPost)
	v1.HandleFunc("/athletes", s.createAthlete).Methods(http.MethodPost)
	v1.HandleFunc("/athletes/{id:[0-9]+}", s.getAthlete).Methods(http.MethodGet)
	v1.HandleFunc("/athletes/{id:[0-9]+}", s.updateAthlete).Methods(http.MethodPut)
	v1.HandleFunc("/athletes/{id:[0-9]+}/baselines", s.createBaseline).Methods(http.MethodPost)
	v1.HandleFunc("/athletes/{id:[0-9]+}/prescriptions", s.recompute).Methods(http.MethodPost)
	v1.HandleFunc("/athletes/{id:[0-9]+}/prescriptions", s.latest).Methods(http.MethodGet)
	v1.HandleFunc("/athletes/{id:[0-9]+}/prescriptions.xlsx", s.exportWorkbook).Methods(http.MethodGet)
	v1.HandleFunc("/athletes/{id:[0-9]+}/nutrition", s.nutritionPlan).Methods(http.MethodGet)

	return r
}

// Handler returns the router wrapped in CORS and request logging.
func (s *Server) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodOptions},
		AllowedHeaders: []string{"*"},
	})
	return c.Handler(loggingMiddleware(s.logger)(s.Router()))
}

// NewHTTPServer wraps Handler in an http.Server with sane timeouts.
func (s *Server) NewHTTPServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}
}
