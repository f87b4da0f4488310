package api

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/rumbo-transit/rumbo_core/internal/cache"
	"github.com/rumbo-transit/rumbo_core/internal/graph"
	"github.com/rumbo-transit/rumbo_core/internal/heuristic"
	"github.com/rumbo-transit/rumbo_core/internal/models"
	"github.com/rumbo-transit/rumbo_core/internal/routing"
	"github.com/rumbo-transit/rumbo_core/internal/rules"
	"github.com/rumbo-transit/rumbo_core/internal/summary"
)

// Server wires the HTTP handlers to an explicitly constructed network.
// The network, rule engine, and planner are built once and shared
// read-only across requests.
type Server struct {
	net          *graph.Network
	rules        *rules.Engine
	planner      *routing.Planner
	cacheEnabled bool
	cacheTTL     time.Duration
}

// NewServer builds the handler set over a constructed network.
// cacheEnabled controls whether route results go through Redis.
func NewServer(net *graph.Network, cacheEnabled bool) *Server {
	eng := rules.NewEngine(net)
	est := heuristic.NewGeodesic(net)

	ttl := 10 * time.Minute
	if cacheEnabled {
		ttl = cache.LoadConfigFromEnv().TTL
	}

	return &Server{
		net:          net,
		rules:        eng,
		planner:      routing.NewPlanner(net, eng, est),
		cacheEnabled: cacheEnabled,
		cacheTTL:     ttl,
	}
}

// StationSummary is one entry in the station list response.
type StationSummary struct {
	Name        string   `json:"name"`
	Lat         float64  `json:"lat"`
	Lon         float64  `json:"lon"`
	Lines       []string `json:"lines"`
	Interchange bool     `json:"interchange"`
}

// RouteSearch handles GET /v1/route?from=&to=&criterion=
func (s *Server) RouteSearch(c *fiber.Ctx) error {
	from := c.Query("from")
	to := c.Query("to")

	if from == "" || to == "" {
		return c.Status(400).JSON(fiber.Map{
			"error": "missing required parameters: from and to",
		})
	}

	criterion, err := models.ParseCriterion(c.Query("criterion", string(models.CriterionTime)))
	if err != nil {
		return c.Status(400).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	route, err := s.computeRoute(c.Context(), from, to, criterion)
	if err != nil {
		return s.routeError(c, err)
	}

	return c.JSON(route)
}

// computeRoute searches for a route, going through the cache when enabled.
func (s *Server) computeRoute(ctx context.Context, from, to string, criterion models.Criterion) (*models.Route, error) {
	if !s.cacheEnabled {
		return s.search(from, to, criterion)
	}

	cacheKey := cache.RouteKey(from, to, criterion)
	lockKey := cache.LockKey(cacheKey)

	cached, err := cache.GetRoute(ctx, cacheKey)
	if err == nil && cached != nil {
		return cached, nil
	}

	acquired, err := cache.AcquireLock(ctx, lockKey, 5*time.Second)
	if err != nil {
		log.Printf("Failed to acquire lock: %v", err)
		// Continue without lock (degrade gracefully)
	} else if !acquired {
		// Another request is computing this route, wait for it
		cached, err := cache.WaitForLock(ctx, cacheKey, 3*time.Second)
		if err == nil && cached != nil {
			return cached, nil
		}
		// If waiting failed, compute anyway
	}

	defer func() {
		if acquired {
			cache.ReleaseLock(ctx, lockKey)
		}
	}()

	route, err := s.search(from, to, criterion)
	if err != nil {
		return nil, err
	}

	if err := cache.SetRoute(ctx, cacheKey, route, s.cacheTTL); err != nil {
		log.Printf("Failed to cache route: %v", err)
	}

	return route, nil
}

// search runs the planner and summarizes the state path.
func (s *Server) search(from, to string, criterion models.Criterion) (*models.Route, error) {
	states, cost, err := s.planner.FindPath(from, to, criterion)
	if err != nil {
		return nil, err
	}
	return summary.Summarize(s.net, s.rules, states, criterion, cost)
}

// routeError maps the core's typed failures onto HTTP responses.
func (s *Server) routeError(c *fiber.Ctx, err error) error {
	var unknown *models.UnknownStationError
	if errors.As(err, &unknown) {
		return c.Status(404).JSON(fiber.Map{
			"error":    unknown.Error(),
			"stations": unknown.Known,
		})
	}

	var unsupported *models.UnsupportedCriterionError
	if errors.As(err, &unsupported) {
		return c.Status(400).JSON(fiber.Map{
			"error": unsupported.Error(),
		})
	}

	if errors.Is(err, models.ErrNoRouteFound) {
		return c.Status(404).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("Route computation failed: %v", err)
	return c.Status(500).JSON(fiber.Map{
		"error": "internal error",
	})
}

// Stations handles GET /v1/stations
func (s *Server) Stations(c *fiber.Ctx) error {
	names := s.net.Stations()
	stations := make([]StationSummary, 0, len(names))

	for _, name := range names {
		lat, lon, err := s.net.Coordinate(name)
		if err != nil {
			continue
		}
		stations = append(stations, StationSummary{
			Name:        name,
			Lat:         lat,
			Lon:         lon,
			Lines:       s.rules.Lines(name),
			Interchange: s.rules.IsInterchange(name),
		})
	}

	return c.JSON(fiber.Map{
		"stations": stations,
		"count":    len(stations),
	})
}

// StationDetail handles GET /v1/stations/:name
func (s *Server) StationDetail(c *fiber.Ctx) error {
	name, err := url.PathUnescape(c.Params("name"))
	if err != nil {
		name = c.Params("name")
	}

	lat, lon, err := s.net.Coordinate(name)
	if err != nil {
		var unknown *models.UnknownStationError
		if errors.As(err, &unknown) {
			return c.Status(404).JSON(fiber.Map{
				"error":    unknown.Error(),
				"stations": unknown.Known,
			})
		}
		return c.Status(500).JSON(fiber.Map{"error": "internal error"})
	}

	return c.JSON(StationSummary{
		Name:        name,
		Lat:         lat,
		Lon:         lon,
		Lines:       s.rules.Lines(name),
		Interchange: s.rules.IsInterchange(name),
	})
}

// Health handles GET /health
func (s *Server) Health(c *fiber.Ctx) error {
	status := "healthy"
	httpStatus := 200

	checks := fiber.Map{
		"network": fmt.Sprintf("%d stations, %d links", len(s.net.Stations()), s.net.LinkCount()),
	}

	if s.cacheEnabled {
		redisStatus := "ok"
		if err := cache.HealthCheck(c.Context()); err != nil {
			redisStatus = err.Error()
			status = "unhealthy"
			httpStatus = 503
		}
		checks["redis"] = redisStatus
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status": status,
		"checks": checks,
	})
}
