package httpserver

import (
	"bytes"
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"vkseva-content/internal/domain"
	"vkseva-content/internal/service/admin"
	"vkseva-content/internal/service/settings"
	"vkseva-content/internal/upload"
)

type handlers struct {
	logger *log.Logger
	deps   Deps
}

type loginRequest struct {
	Password string `json:"password" binding:"required"`
}

type moveRequest struct {
	Direction *int `json:"direction" binding:"required"`
}

func (h *handlers) listActiveCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": nonNil(h.deps.Cards.Active())})
}

func (h *handlers) listAllCards(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"cards": nonNil(h.deps.Cards.Cards())})
}

func (h *handlers) createCard(c *gin.Context) {
	var card domain.Card
	if err := c.ShouldBindJSON(&card); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	created, err := h.deps.Cards.Add(c.Request.Context(), card)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *handlers) updateCard(c *gin.Context) {
	var patch domain.CardPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	previous, _ := h.findCard(c.Param("id"))
	updated, err := h.deps.Cards.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	if previous.Image != updated.Image {
		h.releaseImage(c, previous.Image)
	}
	c.JSON(http.StatusOK, updated)
}

func (h *handlers) deleteCard(c *gin.Context) {
	previous, _ := h.findCard(c.Param("id"))
	if err := h.deps.Cards.Remove(c.Request.Context(), c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	h.releaseImage(c, previous.Image)
	c.Status(http.StatusNoContent)
}

func (h *handlers) findCard(id string) (domain.Card, bool) {
	for _, card := range h.deps.Cards.Cards() {
		if card.ID == id {
			return card, true
		}
	}
	return domain.Card{}, false
}

// releaseImage deletes an uploaded image no card or settings section
// references any more. Failures are logged; the card change already stands.
func (h *handlers) releaseImage(c *gin.Context, url string) {
	if url == "" {
		return
	}
	for _, card := range h.deps.Cards.Cards() {
		if card.Image == url {
			return
		}
	}
	if snapshot, err := json.Marshal(h.deps.Settings.Snapshot()); err != nil || bytes.Contains(snapshot, []byte(url)) {
		return
	}
	if _, err := h.deps.Uploader.Release(c.Request.Context(), url); err != nil {
		h.logger.Printf("release image %s: %v", url, err)
	}
}

func (h *handlers) toggleCard(c *gin.Context) {
	card, err := h.deps.Cards.ToggleActive(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, card)
}

func (h *handlers) moveCard(c *gin.Context) {
	var req moveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "direction required"})
		return
	}
	if err := h.deps.Cards.Move(c.Request.Context(), c.Param("id"), *req.Direction); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": nonNil(h.deps.Cards.Cards())})
}

func (h *handlers) getSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.deps.Settings.Snapshot())
}

func (h *handlers) getSection(c *gin.Context) {
	raw, err := h.deps.Settings.Section(domain.SectionKey(c.Param("section")))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

func (h *handlers) updateSection(c *gin.Context) {
	var patch settings.Patch
	if err := c.ShouldBindJSON(&patch); err != nil || patch == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be a JSON object"})
		return
	}
	raw, err := h.deps.Settings.Update(c.Request.Context(), domain.SectionKey(c.Param("section")), patch)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}

// refresh reloads both stores from persistence.
func (h *handlers) refresh(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.deps.Cards.Sync(ctx); err != nil {
		h.writeError(c, err)
		return
	}
	if err := h.deps.Settings.Sync(ctx); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": len(h.deps.Cards.Cards())})
}

func (h *handlers) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "password required"})
		return
	}
	token, err := h.deps.Admin.Login(c.Request.Context(), c.ClientIP(), req.Password)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"token":     token,
		"tokenType": "Bearer",
		"expiresIn": h.deps.Admin.IdleTimeoutSeconds(),
	})
}

func (h *handlers) logout(c *gin.Context) {
	if err := h.deps.Admin.Logout(c.Request.Context(), c.GetString(string(tokenCtxKey))); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *handlers) upload(c *gin.Context) {
	if h.deps.Uploader == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "uploads not configured"})
		return
	}
	// allow for multipart framing on top of the file itself
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.deps.Uploader.MaxBytes()+1<<20)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeError(c, upload.ErrTooLarge)
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": upload.ErrEmptyFile.Error()})
		return
	}
	f, err := fh.Open()
	if err != nil {
		h.writeError(c, err)
		return
	}
	defer f.Close()

	info, err := h.deps.Uploader.Save(c.Request.Context(), upload.Input{
		Filename: fh.Filename,
		Title:    c.PostForm("title"),
		Body:     f,
	})
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"url": info.URL})
}

// writeError maps service errors onto status codes. Unexpected errors are
// logged and reported without detail.
func (h *handlers) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUnknownSection):
		status, msg = http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInvalidCard), errors.Is(err, domain.ErrInvalidDirection),
		errors.Is(err, domain.ErrInvalidSettings), errors.Is(err, upload.ErrEmptyFile),
		errors.Is(err, upload.ErrNotImage):
		status, msg = http.StatusBadRequest, err.Error()
	case errors.Is(err, upload.ErrTooLarge):
		status, msg = http.StatusRequestEntityTooLarge, err.Error()
	case errors.Is(err, admin.ErrInvalidCredentials), errors.Is(err, admin.ErrInvalidToken):
		status, msg = http.StatusUnauthorized, err.Error()
	case errors.Is(err, admin.ErrRateLimited):
		status, msg = http.StatusTooManyRequests, err.Error()
	case errors.Is(err, admin.ErrNotConfigured):
		status, msg = http.StatusServiceUnavailable, err.Error()
	default:
		h.logger.Printf("request %s %s failed (id=%s): %v", c.Request.Method, c.FullPath(), c.GetString(string(requestIDCtxKey)), err)
	}
	c.JSON(status, gin.H{"error": msg})
}

func nonNil(cards []domain.Card) []domain.Card {
	if cards == nil {
		return []domain.Card{}
	}
	return cards
}
