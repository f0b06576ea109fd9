package http

import (
	"context"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/LerianStudio/lib-openhours/openhours"
	"github.com/LerianStudio/lib-openhours/openhours/catalog"
	cn "github.com/LerianStudio/lib-openhours/openhours/constants"
	"github.com/LerianStudio/lib-openhours/openhours/hours"
	"github.com/LerianStudio/lib-openhours/openhours/opentelemetry"
)

// Query parameters understood by the hours endpoints.
const (
	QueryHours = "hours"
	QueryAt    = "at"

	entityPlace = "Place"
)

// Query outcomes recorded on the hours_queries_total counter.
const (
	resultError     = "error"
	resultProjected = "projected"
	resultNone      = "none"
)

// StatusResponse answers "is it open at this instant?". Open is null when unknown.
type StatusResponse struct {
	Place  string    `json:"place,omitempty"`
	Open   *bool     `json:"open"`
	Status string    `json:"status"`
	At     time.Time `json:"at"`
}

// NextOpenResponse carries the next opening, or nulls when there is none to project.
type NextOpenResponse struct {
	Place      string     `json:"place,omitempty"`
	At         time.Time  `json:"at"`
	NextOpenAt *time.Time `json:"nextOpenAt"`
	Label      *string    `json:"label"`
}

// IntervalResponse is one interval rendered in clock notation.
type IntervalResponse struct {
	From      string `json:"from"`
	To        string `json:"to,omitempty"`
	OpenEnded bool   `json:"openEnded,omitempty"`
}

// EntryResponse is one weekday entry of a schedule.
type EntryResponse struct {
	Day       string             `json:"day"`
	Intervals []IntervalResponse `json:"intervals"`
}

// ScheduleResponse describes a parsed schedule.
type ScheduleResponse struct {
	Place      string          `json:"place,omitempty"`
	Hours      string          `json:"hours"`
	Normalized string          `json:"normalized"`
	Absent     bool            `json:"absent"`
	Entries    []EntryResponse `json:"entries"`
}

// PlaceResponse summarises one catalog place.
type PlaceResponse struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Hours       string `json:"hours"`
}

// PlacesResponse lists the catalog.
type PlacesResponse struct {
	Items []PlaceResponse `json:"items"`
	Total int             `json:"total"`
}

// HoursHandler serves opening-hours queries for ad-hoc text and catalog places.
type HoursHandler struct {
	Catalog *catalog.Catalog
	Now     func() time.Time

	queries metric.Int64Counter
}

// HoursHandlerOption configures a HoursHandler.
type HoursHandlerOption func(h *HoursHandler) error

// WithClock sets the clock used when a request carries no instant.
func WithClock(now func() time.Time) HoursHandlerOption {
	return func(h *HoursHandler) error {
		if now != nil {
			h.Now = now
		}

		return nil
	}
}

// WithMeter registers the hours_queries_total counter on meter.
func WithMeter(meter metric.Meter) HoursHandlerOption {
	return func(h *HoursHandler) error {
		if meter == nil {
			return nil
		}

		counter, err := meter.Int64Counter(cn.MetricHoursQueriesTotal,
			metric.WithDescription("Opening-hours queries answered, by operation and result"),
			metric.WithUnit("{query}"),
		)
		if err != nil {
			return err
		}

		h.queries = counter

		return nil
	}
}

// NewHoursHandler builds a handler over places. A nil catalog serves no places.
func NewHoursHandler(places *catalog.Catalog, opts ...HoursHandlerOption) (*HoursHandler, error) {
	if places == nil {
		places = catalog.Empty()
	}

	h := &HoursHandler{
		Catalog: places,
		Now:     time.Now,
	}

	for _, opt := range opts {
		if err := opt(h); err != nil {
			return nil, err
		}
	}

	return h, nil
}

// Register mounts the hours and places routes on router.
func (h *HoursHandler) Register(router fiber.Router) {
	v1 := router.Group("/v1")

	v1.Get("/hours/status", h.GetStatus)
	v1.Get("/hours/next-open", h.GetNextOpen)
	v1.Get("/hours/schedule", h.GetSchedule)

	v1.Get("/places", h.ListPlaces)
	v1.Get("/places/:name", h.GetPlace)
	v1.Get("/places/:name/status", h.GetPlaceStatus)
	v1.Get("/places/:name/next-open", h.GetPlaceNextOpen)
}

// GetStatus evaluates the "hours" query parameter at the "at" instant.
func (h *HoursHandler) GetStatus(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.hours.status")
	defer span.End()

	schedule, err := h.parseQueryHours(ctx, span, c)
	if err != nil {
		return err
	}

	return h.respondStatus(ctx, span, c, "", schedule)
}

// GetNextOpen projects the next opening of the "hours" query parameter.
func (h *HoursHandler) GetNextOpen(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.hours.next_open")
	defer span.End()

	schedule, err := h.parseQueryHours(ctx, span, c)
	if err != nil {
		return err
	}

	return h.respondNextOpen(ctx, span, c, "", schedule)
}

// GetSchedule returns the parsed form of the "hours" query parameter.
func (h *HoursHandler) GetSchedule(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.hours.schedule")
	defer span.End()

	text := c.Query(QueryHours)

	schedule, err := h.parseQueryHours(ctx, span, c)
	if err != nil {
		return err
	}

	return OK(c, newScheduleResponse("", text, schedule))
}

// ListPlaces lists every catalog place in name order.
func (h *HoursHandler) ListPlaces(c *fiber.Ctx) error {
	_, span := h.startSpan(c, "handler.places.list")
	defer span.End()

	names := h.Catalog.Names()
	items := make([]PlaceResponse, 0, len(names))

	for _, name := range names {
		place, _ := h.Catalog.Lookup(name)
		items = append(items, PlaceResponse{Name: place.Name, Description: place.Description, Hours: place.Hours})
	}

	return OK(c, PlacesResponse{Items: items, Total: len(items)})
}

// GetPlace returns the schedule of one catalog place.
func (h *HoursHandler) GetPlace(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.places.get")
	defer span.End()

	place, err := h.lookupPlace(ctx, span, c)
	if err != nil {
		return err
	}

	return OK(c, newScheduleResponse(place.Name, place.Hours, place.Schedule))
}

// GetPlaceStatus evaluates a catalog place at the "at" instant.
func (h *HoursHandler) GetPlaceStatus(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.places.status")
	defer span.End()

	place, err := h.lookupPlace(ctx, span, c)
	if err != nil {
		return err
	}

	return h.respondStatus(ctx, span, c, place.Name, place.Schedule)
}

// GetPlaceNextOpen projects the next opening of a catalog place.
func (h *HoursHandler) GetPlaceNextOpen(c *fiber.Ctx) error {
	ctx, span := h.startSpan(c, "handler.places.next_open")
	defer span.End()

	place, err := h.lookupPlace(ctx, span, c)
	if err != nil {
		return err
	}

	return h.respondNextOpen(ctx, span, c, place.Name, place.Schedule)
}

func (h *HoursHandler) respondStatus(ctx context.Context, span trace.Span, c *fiber.Ctx, place string, schedule hours.Schedule) error {
	at, err := hours.ParseInstant(c.Query(QueryAt), h.Now)
	if err != nil {
		return h.fail(ctx, span, "status", err)
	}

	status, err := schedule.StatusAt(at)
	if err != nil {
		return h.fail(ctx, span, "status", err)
	}

	span.SetAttributes(attribute.String(cn.AttrPrefixHours+"status", status.String()))
	h.record(ctx, "status", status.String())

	return OK(c, StatusResponse{
		Place:  place,
		Open:   status.Bool(),
		Status: status.String(),
		At:     at,
	})
}

func (h *HoursHandler) respondNextOpen(ctx context.Context, span trace.Span, c *fiber.Ctx, place string, schedule hours.Schedule) error {
	at, err := hours.ParseInstant(c.Query(QueryAt), h.Now)
	if err != nil {
		return h.fail(ctx, span, "next_open", err)
	}

	opening, err := schedule.NextOpenAt(at)
	if err != nil {
		return h.fail(ctx, span, "next_open", err)
	}

	response := NextOpenResponse{Place: place, At: at}

	if opening == nil {
		h.record(ctx, "next_open", resultNone)

		return OK(c, response)
	}

	label := opening.Label()
	response.NextOpenAt = &opening.At
	response.Label = &label

	span.SetAttributes(attribute.String(cn.AttrPrefixHours+"next_open", label))
	h.record(ctx, "next_open", resultProjected)

	return OK(c, response)
}

func (h *HoursHandler) parseQueryHours(ctx context.Context, span trace.Span, c *fiber.Ctx) (hours.Schedule, error) {
	schedule, err := hours.Parse(c.Query(QueryHours))
	if err != nil {
		return nil, h.fail(ctx, span, "parse", err)
	}

	return schedule, nil
}

func (h *HoursHandler) lookupPlace(ctx context.Context, span trace.Span, c *fiber.Ctx) (catalog.Place, error) {
	place, err := h.Catalog.Get(c.Params("name"))
	if err != nil {
		return catalog.Place{}, h.fail(ctx, span, "lookup", err)
	}

	return place, nil
}

// fail classifies err, annotates the span and returns the error for FiberErrorHandler.
func (h *HoursHandler) fail(ctx context.Context, span trace.Span, operation string, err error) error {
	businessErr := openhours.ValidateBusinessError(err, entityPlace)

	if StatusFromError(businessErr) >= fiber.StatusInternalServerError {
		opentelemetry.HandleSpanError(span, "failed to answer "+operation, err)
	} else {
		opentelemetry.HandleSpanBusinessErrorEvent(span, "invalid "+operation+" request", businessErr)
	}

	h.record(ctx, operation, resultError)

	return businessErr
}

func (h *HoursHandler) startSpan(c *fiber.Ctx, name string) (context.Context, trace.Span) {
	if place := c.Params("name"); place != "" {
		opentelemetry.SetSpanAttributeForParam(c, "name", place, strings.ToLower(entityPlace))
	}

	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}

	_, tracer, _ := openhours.NewTrackingFromContext(ctx)

	return tracer.Start(ctx, name)
}

func (h *HoursHandler) record(ctx context.Context, operation, result string) {
	if h.queries == nil {
		return
	}

	h.queries.Add(ctx, 1, metric.WithAttributes(
		attribute.String(cn.AttrPrefixHours+"operation", operation),
		attribute.String(cn.AttrPrefixHours+"result", cn.SanitizeMetricLabel(result)),
	))
}

func newScheduleResponse(place, text string, schedule hours.Schedule) ScheduleResponse {
	entries := make([]EntryResponse, 0, len(schedule))

	for _, entry := range schedule {
		intervals := make([]IntervalResponse, 0, len(entry.Intervals))

		for _, interval := range entry.Intervals {
			rendered := IntervalResponse{From: hours.FormatClock(interval.From), OpenEnded: interval.OpenEnded}
			if !interval.OpenEnded {
				rendered.To = hours.FormatClock(interval.To)
			}

			intervals = append(intervals, rendered)
		}

		entries = append(entries, EntryResponse{Day: hours.WeekdayName(entry.Day), Intervals: intervals})
	}

	return ScheduleResponse{
		Place:      place,
		Hours:      text,
		Normalized: schedule.String(),
		Absent:     schedule.IsAbsent(),
		Entries:    entries,
	}
}
