package calendar

import (
	"strconv"
	"time"

	common_api "assixx/internal/common/api"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type EventController struct {
	EventService EventService
	Logger       *zap.Logger
}

func NewEventController(eventService EventService, logger *zap.Logger) *EventController {
	return &EventController{
		EventService: eventService,
		Logger:       logger,
	}
}

func rangeFrom(c *fiber.Ctx) (Range, error) {
	var r Range
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return r, err
		}
		r.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return r, err
		}
		r.To = t
	}
	return r, nil
}

// CreateEvent godoc
// @Summary      Create a calendar event
// @Tags         calendar
// @Accept       json
// @Produce      json
// @Param        event body CreateEventRequest true "Event payload"
// @Success      201  {object} Event
// @Router       /api/v2/calendar [post]
func (ctrl *EventController) CreateEvent(c *fiber.Ctx) error {
	var req CreateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	event, err := ctrl.EventService.CreateEvent(c.UserContext(), req)
	if err != nil {
		ctrl.Logger.Warn("create event failed", zap.Error(err))
		return common_api.Error(c, err)
	}
	return common_api.Created(c, event)
}

// ListEvents godoc
// @Summary      List events visible to the caller
// @Tags         calendar
// @Produce      json
// @Param        from query string false "RFC3339 range start"
// @Param        to query string false "RFC3339 range end"
// @Success      200  {array} Event
// @Router       /api/v2/calendar [get]
func (ctrl *EventController) ListEvents(c *fiber.Ctx) error {
	r, err := rangeFrom(c)
	if err != nil {
		return common_api.ValidationError(c, "Invalid time range")
	}

	events, err := ctrl.EventService.ListEvents(c.UserContext(), r)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, events)
}

// GetEvent godoc
// @Summary      Get an event by id
// @Tags         calendar
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200  {object} Event
// @Router       /api/v2/calendar/{id} [get]
func (ctrl *EventController) GetEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid event id")
	}

	event, err := ctrl.EventService.GetEvent(c.UserContext(), id)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, event)
}

// UpdateEvent godoc
// @Summary      Update an event
// @Tags         calendar
// @Accept       json
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200  {object} Event
// @Router       /api/v2/calendar/{id} [put]
func (ctrl *EventController) UpdateEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid event id")
	}

	var req UpdateEventRequest
	if err := c.BodyParser(&req); err != nil {
		return common_api.ValidationError(c, "Invalid request body")
	}

	event, err := ctrl.EventService.UpdateEvent(c.UserContext(), id, req)
	if err != nil {
		return common_api.Error(c, err)
	}
	return common_api.Success(c, event)
}

// DeleteEvent godoc
// @Summary      Delete an event
// @Tags         calendar
// @Produce      json
// @Param        id path int true "Event ID"
// @Success      200  {object} map[string]string
// @Router       /api/v2/calendar/{id} [delete]
func (ctrl *EventController) DeleteEvent(c *fiber.Ctx) error {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return common_api.ValidationError(c, "Invalid event id")
	}

	if err := ctrl.EventService.DeleteEvent(c.UserContext(), id); err != nil {
		return common_api.Error(c, err)
	}
	return common_api.SuccessMessage(c, nil, "Event deleted successfully")
}

// Export godoc
// @Summary      Export visible events as CSV
// @Tags         calendar
// @Produce      text/csv
// @Success      200
// @Router       /api/v2/calendar/export [get]
func (ctrl *EventController) Export(c *fiber.Ctx) error {
	r, err := rangeFrom(c)
	if err != nil {
		return common_api.ValidationError(c, "Invalid time range")
	}

	data, err := ctrl.EventService.ExportCSV(c.UserContext(), r)
	if err != nil {
		return common_api.Error(c, err)
	}

	c.Set(fiber.HeaderContentDisposition, `attachment; filename="calendar.csv"`)
	c.Set(fiber.HeaderContentType, "text/csv")
	return c.Send(data)
}
