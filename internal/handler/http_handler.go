package handler

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"log"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/DeadlyParkour777/cpp-simulator/internal/events"
	"github.com/DeadlyParkour777/cpp-simulator/internal/judge"
	"github.com/DeadlyParkour777/cpp-simulator/internal/lessons"
	"github.com/DeadlyParkour777/cpp-simulator/internal/simulator"
	"github.com/DeadlyParkour777/cpp-simulator/internal/store"
	"github.com/DeadlyParkour777/cpp-simulator/internal/tutor"
	"github.com/DeadlyParkour777/cpp-simulator/internal/types"
	"github.com/DeadlyParkour777/cpp-simulator/pkg/utils"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
	httpSwagger "github.com/swaggo/http-swagger"
)

//go:embed openapi.yaml
var openAPISpec []byte

const publishTimeout = 5 * time.Second

type userCtxKey string

const userIDKey = userCtxKey("userID")

type Executor interface {
	Execute(ctx context.Context, code string) (*types.ExecutionResult, error)
}

type Tutor interface {
	Ask(ctx context.Context, message string, history []types.ChatMessage) (*types.TutorResponse, error)
}

type Catalog interface {
	List() []types.Module
	Get(id string) (*types.ModuleDetail, error)
}

type TokenVerifier interface {
	Verify(ctx context.Context, token string) (string, error)
}

type Handler struct {
	executor  Executor
	tutor     Tutor
	catalog   Catalog
	publisher events.Publisher
	progress  store.Store
	verifier  TokenVerifier
	validator *validator.Validate
}

// NewHandler wires the HTTP surface. progress and verifier may both be nil,
// in which case the progress routes are not mounted.
func NewHandler(
	executor Executor,
	tutor Tutor,
	catalog Catalog,
	publisher events.Publisher,
	progress store.Store,
	verifier TokenVerifier,
) *Handler {
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return &Handler{
		executor:  executor,
		tutor:     tutor,
		catalog:   catalog,
		publisher: publisher,
		progress:  progress,
		verifier:  verifier,
		validator: newValidator(),
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	if err := v.RegisterValidation("notblank", validators.NotBlank); err != nil {
		log.Fatalf("Failed to register notblank validation: %v", err)
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"https://*", "http://*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml")
		if _, err := w.Write(openAPISpec); err != nil {
			log.Printf("Failed to write OpenAPI document: %v", err)
		}
	})
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/openapi.yaml")))

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, "C++ simulator API is running")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/execute", h.handleExecute)
		r.Post("/tutor", h.handleTutor)

		r.Route("/modules", func(r chi.Router) {
			r.Get("/", h.handleListModules)
			r.Get("/{moduleID}", h.handleGetModule)
		})

		r.Route("/simulator", func(r chi.Router) {
			r.Get("/example", h.handleSimulatorExample)
			r.Post("/analyze", h.handleAnalyze)
		})

		if h.progress != nil && h.verifier != nil {
			r.Group(func(r chi.Router) {
				r.Use(h.AuthMiddleware)
				r.Get("/progress", h.handleGetProgress)
				r.Post("/progress/modules/{moduleID}/complete", h.handleCompleteModule)
			})
		}
	})

	return r
}

func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader := r.Header.Get("Authorization")
		if authHeader == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Authorization header is required")
			return
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || token == "" {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid authorization header format")
			return
		}

		userID, err := h.verifier.Verify(r.Context(), token)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		ctx := context.WithValue(r.Context(), userIDKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// validationMessage turns the first failed field into a short client message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		if fe.Tag() == "notblank" || fe.Tag() == "required" {
			return fmt.Sprintf("%s is required", fe.Field())
		}
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
	return err.Error()
}

// @Summary Execute C++ code
// @Description Runs a single-file C++17 program on the remote judge and returns its normalized result.
// @Tags execution
// @Accept json
// @Produce json
// @Param request body types.ExecuteRequest true "Source code"
// @Success 200 {object} types.ExecutionResult
// @Failure 400 {object} map[string]string "Invalid request body or empty code"
// @Router /api/execute [post]
func (h *Handler) handleExecute(w http.ResponseWriter, r *http.Request) {
	var req types.ExecuteRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	result, err := h.executor.Execute(r.Context(), req.Code)
	if errors.Is(err, judge.ErrEmptyCode) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if r.Context().Err() == nil {
		events.PublishAsync(h.publisher, result, publishTimeout)
	}
	utils.WriteJSON(w, http.StatusOK, result)
}

// @Summary Ask the C++ tutor
// @Description Sends a learner question with recent history to the tutor model.
// @Tags tutor
// @Accept json
// @Produce json
// @Param request body types.TutorRequest true "Question and history"
// @Success 200 {object} types.TutorResponse
// @Failure 400 {object} map[string]string "Invalid request body or empty message"
// @Router /api/tutor [post]
func (h *Handler) handleTutor(w http.ResponseWriter, r *http.Request) {
	var req types.TutorRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	resp, err := h.tutor.Ask(r.Context(), req.Message, req.History)
	if errors.Is(err, tutor.ErrEmptyMessage) {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	utils.WriteJSON(w, http.StatusOK, resp)
}

// @Summary List learning modules
// @Tags modules
// @Produce json
// @Success 200 {array} types.Module
// @Router /api/modules [get]
func (h *Handler) handleListModules(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.catalog.List())
}

// @Summary Get a learning module with its lesson content
// @Tags modules
// @Produce json
// @Param moduleID path string true "Module ID"
// @Success 200 {object} types.ModuleDetail
// @Failure 404 {object} map[string]string "Module not found"
// @Router /api/modules/{moduleID} [get]
func (h *Handler) handleGetModule(w http.ResponseWriter, r *http.Request) {
	module, err := h.catalog.Get(chi.URLParam(r, "moduleID"))
	if err != nil {
		utils.WriteError(w, http.StatusNotFound, "Module not found")
		return
	}
	utils.WriteJSON(w, http.StatusOK, module)
}

// @Summary Get the default simulator program
// @Description Returns the example program the memory view is built around.
// @Tags simulator
// @Produce json
// @Success 200 {object} map[string]string "Example program under the code key"
// @Router /api/simulator/example [get]
func (h *Handler) handleSimulatorExample(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, map[string]string{"code": simulator.DefaultProgram})
}

// @Summary Analyze a program for the memory view
// @Description Returns the memory walkthrough steps and the first compiler error line, if any.
// @Tags simulator
// @Accept json
// @Produce json
// @Param request body types.AnalyzeRequest true "Code and optional stderr"
// @Success 200 {object} types.AnalyzeResponse
// @Failure 400 {object} map[string]string "Invalid request body or empty code"
// @Router /api/simulator/analyze [post]
func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req types.AnalyzeRequest
	if err := utils.ParseJSON(r, &req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.validator.Struct(req); err != nil {
		utils.WriteError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	utils.WriteJSON(w, http.StatusOK, simulator.Analyze(req.Code, req.Stderr))
}

// @Summary Get learner progress
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {object} types.Progress
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /api/progress [get]
func (h *Handler) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(userIDKey).(string)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "Could not retrieve user ID")
		return
	}

	progress, err := h.progress.GetProgress(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to load progress for user %s: %v", userID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}
	utils.WriteJSON(w, http.StatusOK, progress)
}

// @Summary Mark a module as completed
// @Description Records the completion once and returns the updated progress.
// @Tags progress
// @Security ApiKeyAuth
// @Produce json
// @Param moduleID path string true "Module ID"
// @Success 200 {object} types.Progress
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Module not found"
// @Router /api/progress/modules/{moduleID}/complete [post]
func (h *Handler) handleCompleteModule(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value(userIDKey).(string)
	if !ok {
		utils.WriteError(w, http.StatusInternalServerError, "Could not retrieve user ID")
		return
	}

	module, err := h.catalog.Get(chi.URLParam(r, "moduleID"))
	if errors.Is(err, lessons.ErrModuleNotFound) {
		utils.WriteError(w, http.StatusNotFound, "Module not found")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if _, err := h.progress.CompleteModule(r.Context(), userID, module.ID, module.XPReward); err != nil {
		log.Printf("Failed to complete module %s for user %s: %v", module.ID, userID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to record completion")
		return
	}

	progress, err := h.progress.GetProgress(r.Context(), userID)
	if err != nil {
		log.Printf("Failed to load progress for user %s: %v", userID, err)
		utils.WriteError(w, http.StatusInternalServerError, "Failed to load progress")
		return
	}
	utils.WriteJSON(w, http.StatusOK, progress)
}
