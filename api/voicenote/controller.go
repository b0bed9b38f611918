/*
Package voicenote - voice note API controller.

Responsibilities:
1. Receive HTTP requests and parse parameters
2. Call the application service for business logic
3. Use the response package for unified responses and errors

Error handling:
1. Binding and multipart errors: response.HandleError with 400
2. Business errors: response.HandleAppError maps the status automatically
*/
package voicenote

import (
	"io"
	"net/http"
	"strings"

	"voicenotes/api/ctxutil"
	"voicenotes/api/response"
	noteapp "voicenotes/application/voicenote"
	"voicenotes/pkg/errors"

	"github.com/gin-gonic/gin"
)

// Controller voice note controller
type Controller struct {
	noteService *noteapp.Service
}

// NewController Create voice note controller
func NewController(noteService *noteapp.Service) *Controller {
	return &Controller{
		noteService: noteService,
	}
}

// RegisterRoutes Register voice note routes
func (c *Controller) RegisterRoutes(router *gin.RouterGroup) {
	noteGroup := router.Group("/voice-notes")
	{
		noteGroup.POST("", c.Upload)
		noteGroup.GET("", c.List)
		noteGroup.GET("/:id", c.Get)
		noteGroup.PATCH("/:id/tags", c.UpdateTags)
		noteGroup.DELETE("/:id", c.Delete)
		noteGroup.POST("/:id/process", c.Process)
		noteGroup.POST("/:id/reprocess", c.Reprocess)
		noteGroup.GET("/:id/events", c.Events)
	}
}

// Upload accepts a multipart audio upload and creates a pending note.
// POST /api/v1/voice-notes
func (c *Controller) Upload(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		response.HandleError(ctx, err, "audio file is required", http.StatusBadRequest)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.HandleError(ctx, err, "failed to read audio file", http.StatusBadRequest)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		response.HandleError(ctx, err, "failed to read audio file", http.StatusBadRequest)
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	title := ctx.PostForm("title")
	if title == "" {
		title = fileHeader.Filename
	}

	var tags []string
	if raw := ctx.PostForm("tags"); raw != "" {
		for _, tag := range strings.Split(raw, ",") {
			if tag = strings.TrimSpace(tag); tag != "" {
				tags = append(tags, tag)
			}
		}
	}

	cmd := noteapp.UploadCommand{
		UserID:              ctx.PostForm("user_id"),
		SessionID:           ctx.PostForm("session_id"),
		Title:               title,
		FileName:            fileHeader.Filename,
		MimeType:            mimeType,
		Language:            ctx.PostForm("language"),
		Tags:                tags,
		TranscriptionPrompt: ctx.PostForm("transcription_prompt"),
		SummaryPrompt:       ctx.PostForm("summary_prompt"),
		Data:                data,
	}

	note, err := c.noteService.Upload(ctxutil.WithRequestID(ctx), cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleCreated(ctx, note, "voice note uploaded successfully")
}

// Process runs the transcription and summarization pipeline.
// POST /api/v1/voice-notes/:id/process
func (c *Controller) Process(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.HandleError(ctx, errors.BadRequest("voice note ID is required"), "voice note ID is required", http.StatusBadRequest)
		return
	}

	var cmd noteapp.ProcessCommand
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&cmd); err != nil {
			response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
			return
		}
	}

	note, err := c.noteService.ProcessByID(ctxutil.WithRequestID(ctx), id, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, note, "voice note processed")
}

// Reprocess re-runs summarization, optionally with a custom prompt.
// POST /api/v1/voice-notes/:id/reprocess
func (c *Controller) Reprocess(ctx *gin.Context) {
	id := ctx.Param("id")
	if id == "" {
		response.HandleError(ctx, errors.BadRequest("voice note ID is required"), "voice note ID is required", http.StatusBadRequest)
		return
	}

	var cmd noteapp.ReprocessCommand
	if ctx.Request.ContentLength > 0 {
		if err := ctx.ShouldBindJSON(&cmd); err != nil {
			response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
			return
		}
	}

	note, err := c.noteService.ReprocessByID(ctxutil.WithRequestID(ctx), id, cmd)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, note, "voice note reprocessed")
}

// Get returns one voice note.
// GET /api/v1/voice-notes/:id
func (c *Controller) Get(ctx *gin.Context) {
	note, err := c.noteService.Get(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, note, "")
}

// List returns the voice notes of one user, newest first.
// GET /api/v1/voice-notes?user_id=...
func (c *Controller) List(ctx *gin.Context) {
	userID := ctx.Query("user_id")
	if userID == "" {
		response.HandleError(ctx, errors.BadRequest("user_id is required"), "user_id is required", http.StatusBadRequest)
		return
	}

	notes, err := c.noteService.ListByUser(ctxutil.WithRequestID(ctx), userID)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, notes, "")
}

// UpdateTags replaces the tags on a voice note.
// PATCH /api/v1/voice-notes/:id/tags
func (c *Controller) UpdateTags(ctx *gin.Context) {
	var req noteapp.UpdateTagsCommand
	if err := ctx.ShouldBindJSON(&req); err != nil {
		response.HandleError(ctx, err, "invalid request parameters", http.StatusBadRequest)
		return
	}

	note, err := c.noteService.UpdateTags(ctxutil.WithRequestID(ctx), ctx.Param("id"), req.Tags)
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, note, "tags updated")
}

// Events returns the audit log of one voice note, oldest first.
// GET /api/v1/voice-notes/:id/events
func (c *Controller) Events(ctx *gin.Context) {
	events, err := c.noteService.Events(ctxutil.WithRequestID(ctx), ctx.Param("id"))
	if err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleSuccess(ctx, events, "")
}

// Delete removes a voice note and its audio.
// DELETE /api/v1/voice-notes/:id
func (c *Controller) Delete(ctx *gin.Context) {
	if err := c.noteService.Delete(ctxutil.WithRequestID(ctx), ctx.Param("id")); err != nil {
		response.HandleAppError(ctx, err)
		return
	}
	response.HandleNoContent(ctx)
}
