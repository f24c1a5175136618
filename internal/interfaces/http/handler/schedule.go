package handler

import (
	"github.com/gin-gonic/gin"
)

// ScheduleHandler serves recurring sync schedules
type ScheduleHandler struct {
	BaseHandler
	schedules ScheduleService
}

// NewScheduleHandler creates a ScheduleHandler
func NewScheduleHandler(schedules ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// Create handles POST /v1/inventory/schedule
//
//	@ID			createSchedule
//	@Summary		Create a sync schedule
//	@Tags			schedules
//	@Accept			json
//	@Produce		json
//	@Param			request	body	CreateScheduleRequest	true	"Schedule to create"
//	@Success		201	{object}	APIResponse[ScheduleResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule [post]
func (h *ScheduleHandler) Create(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	s, err := h.schedules.CreateSchedule(c.Request.Context(), req.toInput(sellerID))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, toScheduleResponse(s))
}

// List handles GET /v1/inventory/schedule
//
//	@ID			listSchedules
//	@Summary		List sync schedules
//	@Tags			schedules
//	@Produce		json
//	@Success		200	{object}	APIResponse[[]ScheduleResponse]
//	@Failure		401	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule [get]
func (h *ScheduleHandler) List(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	schedules, err := h.schedules.ListSchedules(c.Request.Context(), sellerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toScheduleResponses(schedules))
}

// Get handles GET /v1/inventory/schedule/:id
//
//	@ID			getSchedule
//	@Summary		Get a sync schedule
//	@Tags			schedules
//	@Produce		json
//	@Param			id	path	string	true	"Schedule ID"	format(uuid)
//	@Success		200	{object}	APIResponse[ScheduleResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule/{id} [get]
func (h *ScheduleHandler) Get(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.schedules.GetSchedule(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toScheduleResponse(s))
}

// Update handles PUT /v1/inventory/schedule/:id
//
//	@ID			updateSchedule
//	@Summary		Update a sync schedule
//	@Tags			schedules
//	@Accept			json
//	@Produce		json
//	@Param			id	path	string	true	"Schedule ID"	format(uuid)
//	@Param			request	body	UpdateScheduleRequest	true	"Fields to change"
//	@Success		200	{object}	APIResponse[ScheduleResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule/{id} [put]
func (h *ScheduleHandler) Update(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	var req UpdateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ctx := c.Request.Context()
	current, err := h.schedules.GetSchedule(ctx, sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	s, err := h.schedules.UpdateSchedule(ctx, sellerID, id, req.toUpdate(current))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toScheduleResponse(s))
}

// Disable handles POST /v1/inventory/schedule/:id/disable
//
//	@ID			disableSchedule
//	@Summary		Disable a sync schedule
//	@Tags			schedules
//	@Produce		json
//	@Param			id	path	string	true	"Schedule ID"	format(uuid)
//	@Success		200	{object}	APIResponse[ScheduleResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule/{id}/disable [post]
func (h *ScheduleHandler) Disable(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	s, err := h.schedules.DisableSchedule(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, toScheduleResponse(s))
}

// RunNow handles POST /v1/inventory/schedule/:id/run. The run continues in
// the background; a schedule already running answers 409.
//
//	@ID			runScheduleNow
//	@Summary		Run a sync schedule now
//	@Tags			schedules
//	@Produce		json
//	@Param			id	path	string	true	"Schedule ID"	format(uuid)
//	@Success		202	{object}	APIResponse[SyncRunResponse]
//	@Failure		400	{object}	ErrorResponse
//	@Failure		401	{object}	ErrorResponse
//	@Failure		404	{object}	ErrorResponse
//	@Failure		409	{object}	ErrorResponse
//	@Failure		500	{object}	ErrorResponse
//	@Security		ApiKeyAuth
//	@Router			/v1/inventory/schedule/{id}/run [post]
func (h *ScheduleHandler) RunNow(c *gin.Context) {
	sellerID, ok := h.sellerID(c)
	if !ok {
		return
	}
	id, ok := h.pathID(c, "id")
	if !ok {
		return
	}
	run, err := h.schedules.RunNow(c.Request.Context(), sellerID, id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Accepted(c, toSyncRunResponse(run))
}
