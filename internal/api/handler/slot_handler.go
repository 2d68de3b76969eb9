package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/Freeeeeet/meetme/internal/api/response"
	"github.com/Freeeeeet/meetme/internal/model"
)

type SlotHandler struct {
	slots SlotService
}

func NewSlotHandler(slots SlotService) *SlotHandler {
	return &SlotHandler{slots: slots}
}

// Add публикует слот
// POST /slots
func (h *SlotHandler) Add(c *gin.Context) {
	var slot model.Slot
	if err := c.ShouldBindJSON(&slot); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.slots.Publish(c.Request.Context(), slot); err != nil {
		response.Fail(c, err)
		return
	}
	response.Created(c, slot)
}

// Save публикует слот, если у профессора нет другого слота на то же время
// POST /available-slots
func (h *SlotHandler) Save(c *gin.Context) {
	var slot model.Slot
	if err := c.ShouldBindJSON(&slot); err != nil {
		response.BadRequest(c, "invalid request body")
		return
	}

	if err := h.slots.PublishExclusive(c.Request.Context(), slot); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Slot saved successfully")
}

// ByCourse
// GET /slots/:course_id
func (h *SlotHandler) ByCourse(c *gin.Context) {
	h.list(c, model.SlotFilter{CourseID: c.Param("course_id")})
}

// Find ищет слоты профессора по курсу и дате
// GET /available-slots?professor_email=&course_id=&date=
func (h *SlotHandler) Find(c *gin.Context) {
	h.list(c, model.SlotFilter{
		ProfessorEmail: c.Query("professor_email"),
		CourseID:       c.Query("course_id"),
		Date:           c.Query("date"),
	})
}

func (h *SlotHandler) list(c *gin.Context, filter model.SlotFilter) {
	slots, err := h.slots.List(c.Request.Context(), filter)
	if err != nil {
		response.Fail(c, err)
		return
	}
	if slots == nil {
		slots = []model.Slot{}
	}
	response.OK(c, slots)
}

// Withdraw снимает слот
// DELETE /available-slots?professor_email=&course_id=&date=&time=
func (h *SlotHandler) Withdraw(c *gin.Context) {
	slot := model.Slot{
		ProfessorEmail: c.Query("professor_email"),
		CourseID:       c.Query("course_id"),
		Date:           c.Query("date"),
		Time:           c.Query("time"),
	}
	if err := h.slots.Withdraw(c.Request.Context(), slot); err != nil {
		response.Fail(c, err)
		return
	}
	response.Message(c, "Slot deleted successfully")
}
