package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/insightdelivered/food-ledger/internal/ledger"
	"github.com/insightdelivered/food-ledger/internal/models"
)

// Version is reported by the health endpoint.
const Version = "1.0.0"

// LogRequest is the JSON body of POST /api/log.
type LogRequest struct {
	Name     string     `json:"name"`
	Calories flexNumber `json:"calories"`
	Protein  flexNumber `json:"protein"`
	Carbs    flexNumber `json:"carbs"`
	Fat      flexNumber `json:"fat"`
}

// LogResponse is the JSON response of POST /api/log.
type LogResponse struct {
	Entry models.Record `json:"entry"`
}

// DayResponse is the JSON response of GET /api/log.
type DayResponse struct {
	Date    string          `json:"date"`
	Entries []models.Record `json:"entries"`
	Totals  models.Totals   `json:"totals"`
	Skipped int             `json:"skipped"`
}

// ErrorResponse carries a user-facing error message.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Handler holds the HTTP handlers for the API.
type Handler struct {
	Store     *ledger.Store
	Logger    *slog.Logger
	StaticDir string

	// Now is the clock used to date new entries; time.Now when nil.
	Now func() time.Time
}

// NewApp returns a fiber app with the API routes registered.
func (h *Handler) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "food-ledger",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	h.RegisterRoutes(app)
	return app
}

// RegisterRoutes sets up the HTTP routes.
func (h *Handler) RegisterRoutes(app *fiber.App) {
	app.Get("/api/health", h.HandleHealth)
	app.Post("/api/log", h.HandleLog)
	app.Get("/api/log", h.HandleDay)

	if h.StaticDir != "" {
		app.Static("/", h.StaticDir)
	}
}

// HandleHealth reports liveness.
func (h *Handler) HandleHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"engine":  "fiber",
		"version": Version,
	})
}

// HandleLog appends a new entry dated today (UTC).
func (h *Handler) HandleLog(c *fiber.Ctx) error {
	var req LogRequest
	if err := c.BodyParser(&req); err != nil {
		return writeError(c, fiber.StatusBadRequest, "Invalid request body")
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return writeError(c, fiber.StatusBadRequest, "Food name is required")
	}
	for _, v := range []flexNumber{req.Calories, req.Protein, req.Carbs, req.Fat} {
		if v < 0 {
			return writeError(c, fiber.StatusBadRequest, "Nutrition values must not be negative")
		}
	}

	entry := models.NewRecord(
		name,
		float64(req.Calories),
		ledger.RoundTenth(float64(req.Protein)),
		ledger.RoundTenth(float64(req.Carbs)),
		ledger.RoundTenth(float64(req.Fat)),
		h.now(),
	)

	if err := h.Store.Append(entry); err != nil {
		h.logger().Error("log error", "err", err)
		return writeError(c, fiber.StatusInternalServerError, "Failed to save entry")
	}
	return c.Status(fiber.StatusCreated).JSON(LogResponse{Entry: entry})
}

// HandleDay returns the entries and totals for ?date=YYYY-MM-DD, defaulting
// to today (UTC).
func (h *Handler) HandleDay(c *fiber.Ctx) error {
	date := c.Query("date")
	if date == "" {
		date = h.now().UTC().Format(models.DateLayout)
	}

	res, err := h.Store.LoadReport(date)
	if err != nil {
		h.logger().Error("load error", "err", err)
		return writeError(c, fiber.StatusInternalServerError, "Failed to load entries")
	}

	return c.JSON(DayResponse{
		Date:    date,
		Entries: res.Records,
		Totals:  ledger.Aggregate(res.Records),
		Skipped: res.Skipped,
	})
}

func (h *Handler) now() time.Time {
	if h.Now != nil {
		return h.Now()
	}
	return time.Now()
}

func (h *Handler) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

func writeError(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(ErrorResponse{Error: msg})
}

// flexNumber accepts a JSON number or a numeric string. Anything else,
// including null and non-numeric text, reads as zero.
type flexNumber float64

func (n *flexNumber) UnmarshalJSON(b []byte) error {
	*n = 0
	b = bytes.TrimSpace(b)

	var s string
	if len(b) > 0 && b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
	} else {
		s = string(b)
	}

	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	*n = flexNumber(v)
	return nil
}
