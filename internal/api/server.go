// Package api exposes the dispatch engine over HTTP: triggering a
// simulation or mesh search and fetching the resulting report.
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"

	"energy_dispatch/internal/entities"
	"energy_dispatch/internal/policy"
	"energy_dispatch/internal/report"
	"energy_dispatch/internal/repository"
	"energy_dispatch/internal/search"
)

// EntitiesBuilder constructs a fresh, fully-loaded EntitiesManager for
// one request — the same contract search.Builder uses, since a
// simulation mutates every asset it touches.
type EntitiesBuilder func() (*entities.EntitiesManager, error)

// Server wires together the handlers this engine exposes over HTTP.
type Server struct {
	build   EntitiesBuilder
	drivers *policy.DriverTable
	repo    *repository.Repository
}

// NewServer constructs a Server. repo may be nil, in which case
// mesh-search results are returned but not persisted.
func NewServer(build EntitiesBuilder, drivers *policy.DriverTable, repo *repository.Repository) *Server {
	return &Server{build: build, drivers: drivers, repo: repo}
}

// Handler returns the fully configured gin engine, with CORS applied for
// browser clients.
func (s *Server) Handler() http.Handler {
	router := gin.Default()

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.POST("/simulate", s.handleSimulate)
	router.POST("/search", s.handleSearch)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	})
	return corsHandler.Handler(router)
}

// simulateRequest selects a policy and horizon for a /simulate call.
type simulateRequest struct {
	Policy          string               `json:"policy" binding:"required"` // "standard" or "optimizer"
	InitialDatetime string               `json:"initial_datetime" binding:"required"`
	FinalDatetime   string               `json:"final_datetime" binding:"required"`
	TimeLapseHours  float64              `json:"time_lapse_hours" binding:"required"`
	Coefficients    *policy.Coefficients `json:"coefficients,omitempty"`
}

func (s *Server) handleSimulate(c *gin.Context) {
	var req simulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	em, err := s.build()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch req.Policy {
	case "standard":
		sp := policy.NewStandardPolicy(em)
		if err := sp.Simulate(req.InitialDatetime, req.FinalDatetime, req.TimeLapseHours); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	case "optimizer":
		if req.Coefficients == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "coefficients are required for the optimizer policy"})
			return
		}
		op := policy.NewOptimizerPolicy(em, *req.Coefficients, s.drivers)
		if err := op.Simulate(req.InitialDatetime, req.FinalDatetime, req.TimeLapseHours); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "policy must be \"standard\" or \"optimizer\""})
		return
	}

	rows, err := report.Export(em, req.InitialDatetime, req.FinalDatetime, req.TimeLapseHours)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}
	cost, err := report.Cost(em, rows, req.TimeLapseHours)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"rows": rows, "cost": cost})
}

type searchRequest struct {
	InitialDatetime string  `json:"initial_datetime" binding:"required"`
	FinalDatetime   string  `json:"final_datetime" binding:"required"`
	TimeLapseHours  float64 `json:"time_lapse_hours" binding:"required"`
}

func (s *Server) handleSearch(c *gin.Context) {
	var req searchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ms := search.New(s.drivers, search.Builder(s.build))
	best, _, err := ms.Run(req.InitialDatetime, req.FinalDatetime, req.TimeLapseHours)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	runID := ""
	if s.repo != nil {
		id, err := s.repo.SaveRun(req.InitialDatetime, req.FinalDatetime, best)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		runID = id
	}

	c.JSON(http.StatusOK, gin.H{"run_id": runID, "coefficients": best.Coefficients, "cost": best.Cost})
}
