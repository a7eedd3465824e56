package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mentorlink/mentorlink-api/internal/middleware"
	"github.com/mentorlink/mentorlink-api/internal/models"
	"github.com/mentorlink/mentorlink-api/internal/services"
)

// TaskHandler handles task endpoints on both trust models: the mentor
// routes run behind the ownership policies, the mentee route behind the
// token guard, and the status toggle behind the combined guard. Every
// handler reads its principal from context; none of them re-check
// authorization.
type TaskHandler struct {
	service services.TaskServiceInterface
}

// NewTaskHandler creates a new TaskHandler
func NewTaskHandler(service services.TaskServiceInterface) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// ListMenteeTasks handles GET /api/v1/mentees/:id/tasks
// The mentee principal was bound by the ownership policy.
func (h *TaskHandler) ListMenteeTasks(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	resp, err := h.service.TasksForMentee(c.Request.Context(), mentee)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// CreateTask handles POST /api/v1/mentees/:id/tasks
func (h *TaskHandler) CreateTask(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	var req models.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	task, err := h.service.CreateTask(c.Request.Context(), mentee, &req)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to create task", err)
		return
	}

	c.JSON(http.StatusCreated, task)
}

// MyTasks handles GET /mentee/tasks
// The mentee principal was resolved from the capability token; the
// response can only ever contain that mentee's own tasks.
func (h *TaskHandler) MyTasks(c *gin.Context) {
	mentee, err := middleware.GetMentee(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	resp, err := h.service.TasksForMentee(c.Request.Context(), mentee)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to list tasks", err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// ToggleStatus handles POST /tasks/:id/status
// The task was resolved and ownership-checked by the combined guard.
func (h *TaskHandler) ToggleStatus(c *gin.Context) {
	task, err := middleware.GetTask(c)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Internal error", err)
		return
	}

	updated, err := h.service.ToggleStatus(c.Request.Context(), task)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to update task", err)
		return
	}

	c.JSON(http.StatusOK, updated)
}
