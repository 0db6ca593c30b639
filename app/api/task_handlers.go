package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/CoDataLab/newswire/app/database"
	"github.com/CoDataLab/newswire/app/tasks"
)

func (h *Handler) ListTasks(c *gin.Context) {
	stored, err := h.taskRepo.FindAll(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_tasks", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": stored, "count": len(stored)})
}

func (h *Handler) ScheduleTask(c *gin.Context) {
	var req scheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	groupID, err := primitive.ObjectIDFromHex(req.GroupID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid group id"})
		return
	}

	group, err := h.sourceGroupRepo.FindByID(c.Request.Context(), groupID)
	if err != nil {
		slog.Error("Database error", "operation", "schedule_task", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if group == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "source group not found"})
		return
	}

	when := req.DateTime
	if when.IsZero() {
		when = time.Now()
	}

	task := database.ScrapeTask{
		TaskName:    req.TaskName,
		DateTime:    when,
		SourceGroup: group.Name,
		GroupID:     groupID,
		Status:      database.TaskStatusPending,
	}

	id, err := h.taskRepo.Insert(c.Request.Context(), task)
	if err != nil {
		slog.Error("Database error", "operation", "schedule_task", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": id.Hex(), "status": database.TaskStatusPending})
}

func (h *Handler) ExecuteTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	task, err := h.taskRepo.FindByID(c.Request.Context(), id)
	if err != nil {
		slog.Error("Database error", "operation", "execute_task", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	if task == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "task not found"})
		return
	}
	if task.Status == database.TaskStatusInProgress {
		c.JSON(http.StatusConflict, gin.H{"error": "task is already running"})
		return
	}

	scrapeTask := tasks.NewScrapeTask(task.TaskName, task.ID, h.orchestrator)
	if err := h.scheduler.EnqueueTask(scrapeTask); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"id": id.Hex(), "message": "task enqueued"})
}

func (h *Handler) DeleteTask(c *gin.Context) {
	id, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	if err := h.taskRepo.Delete(c.Request.Context(), id); err != nil {
		slog.Error("Database error", "operation", "delete_task", "id", id.Hex(), "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) GetScrapeHistory(c *gin.Context) {
	history, err := h.taskRepo.FindHistory(c.Request.Context(), limitParam(c))
	if err != nil {
		slog.Error("Database error", "operation", "scrape_history", "error", err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.JSON(http.StatusOK, gin.H{"history": history, "count": len(history)})
}

func (h *Handler) GetLogHistory(c *gin.Context) {
	entries := h.log.Entries()
	c.JSON(http.StatusOK, gin.H{"logs": entries, "count": len(entries)})
}

func (h *Handler) ClearLogHistory(c *gin.Context) {
	h.log.Clear()
	c.Status(http.StatusNoContent)
}

// StreamLogs pushes pipeline log entries to the client as server-sent
// events until the client disconnects.
func (h *Handler) StreamLogs(c *gin.Context) {
	entries, cancel := h.log.Subscribe()
	defer cancel()

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-clientGone:
			return false
		case entry, ok := <-entries:
			if !ok {
				return false
			}
			data, err := json.Marshal(entry)
			if err != nil {
				return true
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			return true
		}
	})
}
