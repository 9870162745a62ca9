// Package http exposes the fleet operations core over REST. The server
// is a thin adapter: it binds JSON, builds commands and queries, and
// maps domain errors to status codes. All business rules live in the
// core.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"fleetops/internal/core/application/usecases/commands"
	"fleetops/internal/core/application/usecases/queries"
	"fleetops/internal/core/domain/model/deliverycode"
	"fleetops/internal/core/domain/model/kernel"
	"fleetops/internal/core/domain/model/order"
	"fleetops/internal/core/fleet"
	"fleetops/internal/core/ports"
	"fleetops/internal/pkg/clock"
	"fleetops/internal/pkg/errs"
	"fleetops/internal/ratelimit"
	"fleetops/internal/telemetry"

	"github.com/labstack/echo/v4"
)

// CodeAuditReader serves the delivery code audit trail read endpoint.
// Satisfied by the postgres code repository.
type CodeAuditReader interface {
	GetAuditByOrder(ctx context.Context, orderID kernel.UUID) ([]ports.CodeAuditRecord, error)
}

// Server wires HTTP routes to command and query handlers.
type Server struct {
	createOrder       commands.CreateOrderCommandHandler
	registerDrone     commands.RegisterDroneCommandHandler
	assignMission     commands.AssignMissionCommandHandler
	completeMission   commands.CompleteMissionCommandHandler
	cancelOrder       commands.CancelOrderCommandHandler
	updateOrderStatus commands.UpdateOrderStatusCommandHandler
	updateTelemetry   commands.UpdateTelemetryCommandHandler

	getOrder     queries.GetOrderQueryHandler
	listOrders   queries.ListOrdersQueryHandler
	listDrones   queries.ListDronesQueryHandler
	listMissions queries.ListMissionsQueryHandler
	fleetStats   queries.GetFleetStatsQueryHandler

	monitor   *telemetry.Monitor
	codeAudit CodeAuditReader
	limiter   *ratelimit.Limiter
	clock     clock.Clock
}

// NewServer creates the HTTP adapter over the given handlers and
// components.
func NewServer(
	createOrder commands.CreateOrderCommandHandler,
	registerDrone commands.RegisterDroneCommandHandler,
	assignMission commands.AssignMissionCommandHandler,
	completeMission commands.CompleteMissionCommandHandler,
	cancelOrder commands.CancelOrderCommandHandler,
	updateOrderStatus commands.UpdateOrderStatusCommandHandler,
	updateTelemetry commands.UpdateTelemetryCommandHandler,
	getOrder queries.GetOrderQueryHandler,
	listOrders queries.ListOrdersQueryHandler,
	listDrones queries.ListDronesQueryHandler,
	listMissions queries.ListMissionsQueryHandler,
	fleetStats queries.GetFleetStatsQueryHandler,
	monitor *telemetry.Monitor,
	codeAudit CodeAuditReader,
	limiter *ratelimit.Limiter,
	clk clock.Clock,
) *Server {
	return &Server{
		createOrder:       createOrder,
		registerDrone:     registerDrone,
		assignMission:     assignMission,
		completeMission:   completeMission,
		cancelOrder:       cancelOrder,
		updateOrderStatus: updateOrderStatus,
		updateTelemetry:   updateTelemetry,
		getOrder:          getOrder,
		listOrders:        listOrders,
		listDrones:        listDrones,
		listMissions:      listMissions,
		fleetStats:        fleetStats,
		monitor:           monitor,
		codeAudit:         codeAudit,
		limiter:           limiter,
		clock:             clk,
	}
}

// Register mounts all routes on the echo instance. Every route sits
// behind the per-client rate limit.
func (s *Server) Register(e *echo.Echo) {
	api := e.Group("/api/v1", s.rateLimit)

	api.POST("/orders", s.handleCreateOrder)
	api.GET("/orders", s.handleListOrders)
	api.GET("/orders/:id", s.handleGetOrder)
	api.PATCH("/orders/:id/status", s.handleUpdateOrderStatus)
	api.POST("/orders/:id/assign", s.handleAssignMission)
	api.POST("/orders/:id/complete", s.handleCompleteMission)
	api.POST("/orders/:id/cancel", s.handleCancelOrder)
	api.GET("/orders/:id/code-history", s.handleCodeHistory)

	api.POST("/drones", s.handleRegisterDrone)
	api.GET("/drones", s.handleListDrones)
	api.POST("/drones/:id/telemetry", s.handleUpdateTelemetry)
	api.GET("/drones/:id/health", s.handleDroneHealth)
	api.GET("/drones/:id/alerts", s.handleDroneAlerts)

	api.GET("/missions", s.handleListMissions)
	api.GET("/stats", s.handleFleetStats)
}

// rateLimit denies clients that exceed the per-minute or per-hour
// budget, keyed by source IP.
func (s *Server) rateLimit(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		decision := s.limiter.Check(c.RealIP(), s.clock.Now())
		if !decision.Allowed {
			c.Response().Header().Set("Retry-After",
				formatRetryAfter(decision.RetryAfter))
			return c.JSON(http.StatusTooManyRequests, errorBody{
				Code:    http.StatusTooManyRequests,
				Message: "rate limit exceeded: " + decision.Reason,
			})
		}
		return next(c)
	}
}

func formatRetryAfter(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

type errorBody struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// fail maps a core error to an HTTP response.
func fail(c echo.Context, err error) error {
	status := statusFor(err)
	return c.JSON(status, errorBody{Code: status, Message: err.Error()})
}

// statusFor translates the core error taxonomy to status codes.
func statusFor(err error) int {
	var notFound *errs.ObjectNotFoundError
	switch {
	case errors.As(err, &notFound),
		errors.Is(err, fleet.ErrOrderNotFound),
		errors.Is(err, fleet.ErrDroneNotFound),
		errors.Is(err, fleet.ErrMissionNotFound),
		errors.Is(err, fleet.ErrCodeNotFound):
		return http.StatusNotFound
	case errors.Is(err, deliverycode.ErrCodeLocked),
		errors.Is(err, deliverycode.ErrCodeExpired):
		return http.StatusGone
	case errors.Is(err, deliverycode.ErrCodeMismatch):
		return http.StatusBadRequest
	case isConflict(err):
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}

// isConflict reports whether the error means the request was valid but
// the current state refuses it.
func isConflict(err error) bool {
	var (
		transition *errs.InvalidTransitionError
		unsafe     *commands.WeatherUnsafeError
	)
	return errors.As(err, &transition) ||
		errors.As(err, &unsafe) ||
		errors.Is(err, fleet.ErrAlreadyRegistered) ||
		errors.Is(err, commands.ErrOrderNotAssignable) ||
		errors.Is(err, commands.ErrOrderNotDeliverable) ||
		errors.Is(err, commands.ErrNoDroneAvailable)
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

type createOrderRequest struct {
	CustomerName  string  `json:"customer_name"`
	CustomerPhone string  `json:"customer_phone"`
	Address       string  `json:"address"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	WeightKg      float64 `json:"weight_kg"`
	Priority      int     `json:"priority"`
}

type createdResponse struct {
	ID string `json:"id"`
}

func (s *Server) handleCreateOrder(c echo.Context) error {
	var req createOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	destination, err := kernel.NewGeoPoint(req.Latitude, req.Longitude, 0)
	if err != nil {
		return fail(c, err)
	}

	priority, err := order.PriorityFromInt(req.Priority)
	if err != nil {
		return fail(c, err)
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(
		orderID,
		req.CustomerName,
		req.CustomerPhone,
		req.Address,
		destination,
		req.WeightKg,
		priority,
	)
	if err != nil {
		return fail(c, err)
	}

	if err := s.createOrder.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: orderID.String()})
}

func (s *Server) handleGetOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	query, err := queries.NewGetOrderQuery(id)
	if err != nil {
		return fail(c, err)
	}

	response, err := s.getOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, orderJSON(response))
}

func (s *Server) handleListOrders(c echo.Context) error {
	query, err := queries.NewListOrdersQuery(c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}

	responses, err := s.listOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	out := make([]orderResponse, len(responses))
	for i, response := range responses {
		out[i] = orderJSON(response)
	}
	return c.JSON(http.StatusOK, out)
}

type updateOrderStatusRequest struct {
	Status  string  `json:"status"`
	DroneID *string `json:"drone_id"`
}

func (s *Server) handleUpdateOrderStatus(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req updateOrderStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	target, err := order.StatusFromString(req.Status)
	if err != nil {
		return fail(c, err)
	}

	var droneID *kernel.UUID
	if req.DroneID != nil {
		parsed, parseErr := kernel.UUIDFromString(*req.DroneID)
		if parseErr != nil {
			return fail(c, parseErr)
		}
		droneID = &parsed
	}

	cmd, err := commands.NewUpdateOrderStatusCommand(id, target, droneID)
	if err != nil {
		return fail(c, err)
	}

	if err := s.updateOrderStatus.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type assignMissionResponse struct {
	MissionID    string `json:"mission_id"`
	DroneID      string `json:"drone_id"`
	DroneName    string `json:"drone_name"`
	DeliveryCode string `json:"delivery_code"`
}

type assignMissionRequest struct {
	DroneID string `json:"drone_id"`
}

func (s *Server) handleAssignMission(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	// The body is optional: without one the dispatcher picks the drone.
	var req assignMissionRequest
	if c.Request().ContentLength != 0 {
		if err := c.Bind(&req); err != nil {
			return c.JSON(http.StatusBadRequest, errorBody{
				Code:    http.StatusBadRequest,
				Message: "invalid request body",
			})
		}
	}

	var cmd commands.AssignMissionCommand
	if req.DroneID != "" {
		droneID, parseErr := kernel.UUIDFromString(req.DroneID)
		if parseErr != nil {
			return fail(c, parseErr)
		}
		cmd, err = commands.NewAssignMissionCommandForDrone(id, droneID)
	} else {
		cmd, err = commands.NewAssignMissionCommand(id)
	}
	if err != nil {
		return fail(c, err)
	}

	result, err := s.assignMission.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, assignMissionResponse{
		MissionID:    result.MissionID.String(),
		DroneID:      result.DroneID.String(),
		DroneName:    result.DroneName,
		DeliveryCode: result.Code,
	})
}

type completeMissionRequest struct {
	Code           string  `json:"code"`
	BatteryUsedPct float64 `json:"battery_used_pct"`
	DistanceKm     float64 `json:"distance_km"`
}

// handleCompleteMission closes out a delivery. The order must already
// be in_transit (via PATCH /orders/:id/status after assignment);
// completion of an order still in assigned is refused with a conflict.
func (s *Server) handleCompleteMission(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req completeMissionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	cmd, err := commands.NewCompleteMissionCommand(id, req.Code, req.BatteryUsedPct, req.DistanceKm)
	if err != nil {
		return fail(c, err)
	}

	if err := s.completeMission.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (s *Server) handleCancelOrder(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewCancelOrderCommand(id)
	if err != nil {
		return fail(c, err)
	}

	if err := s.cancelOrder.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

type auditEntryResponse struct {
	Event  string    `json:"event"`
	Detail string    `json:"detail,omitempty"`
	At     time.Time `json:"at"`
}

func (s *Server) handleCodeHistory(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	trail, err := s.codeAudit.GetAuditByOrder(c.Request().Context(), id)
	if err != nil {
		return fail(c, err)
	}

	out := make([]auditEntryResponse, len(trail))
	for i, record := range trail {
		out[i] = auditEntryResponse{
			Event:  string(record.Event),
			Detail: record.Detail,
			At:     record.At,
		}
	}
	return c.JSON(http.StatusOK, out)
}

type registerDroneRequest struct {
	Name         string  `json:"name"`
	MaxPayloadKg float64 `json:"max_payload_kg"`
	BatteryPct   float64 `json:"battery_pct"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
}

func (s *Server) handleRegisterDrone(c echo.Context) error {
	var req registerDroneRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	home, err := kernel.NewGeoPoint(req.Latitude, req.Longitude, 0)
	if err != nil {
		return fail(c, err)
	}

	droneID := kernel.NewUUID()
	cmd, err := commands.NewRegisterDroneCommand(
		droneID,
		req.Name,
		req.MaxPayloadKg,
		req.BatteryPct,
		home,
	)
	if err != nil {
		return fail(c, err)
	}

	if err := s.registerDrone.Handle(c.Request().Context(), cmd); err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusCreated, createdResponse{ID: droneID.String()})
}

func (s *Server) handleListDrones(c echo.Context) error {
	query, err := queries.NewListDronesQuery(c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}

	responses, err := s.listDrones.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	out := make([]droneResponse, len(responses))
	for i, response := range responses {
		out[i] = droneJSON(response)
	}
	return c.JSON(http.StatusOK, out)
}

type telemetryRequest struct {
	BatteryPct   float64 `json:"battery_pct"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Altitude     float64 `json:"altitude"`
	SpeedMps     float64 `json:"speed_mps"`
	TemperatureC float64 `json:"temperature_c"`
}

type alertResponse struct {
	Kind     string    `json:"kind"`
	Detail   string    `json:"detail"`
	Critical bool      `json:"critical"`
	At       time.Time `json:"at"`
}

type telemetryResponse struct {
	Alerts []alertResponse `json:"alerts"`
}

func (s *Server) handleUpdateTelemetry(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	var req telemetryRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody{
			Code:    http.StatusBadRequest,
			Message: "invalid request body",
		})
	}

	position, err := kernel.NewGeoPoint(req.Latitude, req.Longitude, req.Altitude)
	if err != nil {
		return fail(c, err)
	}

	cmd, err := commands.NewUpdateTelemetryCommand(
		id,
		req.BatteryPct,
		position,
		req.SpeedMps,
		req.TemperatureC,
	)
	if err != nil {
		return fail(c, err)
	}

	alerts, err := s.updateTelemetry.Handle(c.Request().Context(), cmd)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, telemetryResponse{Alerts: alertsJSON(alerts)})
}

type droneHealthResponse struct {
	DroneID string `json:"drone_id"`
	Status  string `json:"status"`
	Score   int    `json:"score"`
}

func (s *Server) handleDroneHealth(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	status, err := s.monitor.Health(id, s.clock.Now())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, droneHealthResponse{
		DroneID: id.String(),
		Status:  string(status),
		Score:   status.Score(),
	})
}

func (s *Server) handleDroneAlerts(c echo.Context) error {
	id, err := pathID(c)
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, alertsJSON(s.monitor.Alerts(id)))
}

func (s *Server) handleListMissions(c echo.Context) error {
	query, err := queries.NewListMissionsQuery(c.QueryParam("status"))
	if err != nil {
		return fail(c, err)
	}

	responses, err := s.listMissions.Handle(c.Request().Context(), query)
	if err != nil {
		return fail(c, err)
	}

	out := make([]missionResponse, len(responses))
	for i, response := range responses {
		out[i] = missionJSON(response)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) handleFleetStats(c echo.Context) error {
	response, err := s.fleetStats.Handle(c.Request().Context(), queries.NewGetFleetStatsQuery())
	if err != nil {
		return fail(c, err)
	}

	return c.JSON(http.StatusOK, fleetStatsJSON(response))
}

func alertsJSON(alerts []telemetry.Alert) []alertResponse {
	out := make([]alertResponse, len(alerts))
	for i, alert := range alerts {
		out[i] = alertResponse{
			Kind:     string(alert.Kind),
			Detail:   alert.Detail,
			Critical: alert.Critical,
			At:       alert.At,
		}
	}
	return out
}
