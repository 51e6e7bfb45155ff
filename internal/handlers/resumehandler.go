package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/justsurfingit/application-tracker/internal/middleware"
	"github.com/justsurfingit/application-tracker/internal/services"
)

// multipartSlack covers form boundaries and the tags field on top of the
// file itself.
const multipartSlack = 1 << 20

type ResumeHandler struct {
	Resumes *services.ResumeService
	Log     *slog.Logger
}

func NewResumeHandler(r *services.ResumeService, log *slog.Logger) *ResumeHandler {
	return &ResumeHandler{Resumes: r, Log: log}
}

// Upload takes a multipart "file" and an optional "tags" field.
func (h *ResumeHandler) Upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.Resumes.MaxBytes+multipartSlack)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "File too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded", "field": "file"})
		return
	}
	f, err := fh.Open()
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	defer f.Close()

	var tags *string
	if v, ok := c.GetPostForm("tags"); ok {
		tags = &v
	}

	resume, err := h.Resumes.Upload(c.Request.Context(), middleware.UserID(c), fh.Filename, f, tags)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusCreated, resume)
}

func (h *ResumeHandler) List(c *gin.Context) {
	resumes, err := h.Resumes.ListResumes(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}

// UpdateTags reads ?tags=; leaving it out clears the tags.
func (h *ResumeHandler) UpdateTags(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	var tags *string
	if v, ok := c.GetQuery("tags"); ok {
		tags = &v
	}
	resume, err := h.Resumes.UpdateTags(c.Request.Context(), id, middleware.UserID(c), tags)
	if err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

func (h *ResumeHandler) Delete(c *gin.Context) {
	id, ok := idParam(c, "id")
	if !ok {
		return
	}
	if err := h.Resumes.DeleteResume(c.Request.Context(), id, middleware.UserID(c)); err != nil {
		respondError(c, h.Log, err)
		return
	}
	c.Status(http.StatusNoContent)
}
