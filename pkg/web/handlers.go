package web

import (
	"context"

	"github.com/gofiber/fiber/v2"

	"github.com/officevoice/go-officevoice/pkg/dictation"
	"github.com/officevoice/go-officevoice/pkg/prefs"
)

// FieldInfo is the wire shape of one form field.
type FieldInfo struct {
	ID       string `json:"id"`
	Kind     string `json:"kind"`
	Role     string `json:"role,omitempty"`
	Value    string `json:"value"`
	ReadOnly bool   `json:"read_only"`
	Enabled  bool   `json:"enabled"`
	Attached bool   `json:"attached"`
	Focused  bool   `json:"focused"`
}

func (s *Server) fieldInfo(f dictation.Field) FieldInfo {
	return FieldInfo{
		ID:       f.ID(),
		Kind:     f.Kind(),
		Role:     f.Role(),
		Value:    f.Value(),
		ReadOnly: f.ReadOnly(),
		Enabled:  f.Enabled(),
		Attached: f.Attached(),
		Focused:  s.router != nil && s.router.Focused() == f,
	}
}

// handleListen triggers a recognition session.
func (s *Server) handleListen(c *fiber.Ctx) error {
	if !s.controller.CanListen() {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "speech recognition unavailable",
		})
	}
	go s.controller.Listen(context.Background())
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"state": s.controller.State().String(),
	})
}

// handleGreet sends the empty greeting command.
func (s *Server) handleGreet(c *fiber.Ctx) error {
	go s.controller.Greet(context.Background())
	return c.SendStatus(fiber.StatusAccepted)
}

// TextRequest is the body for typed commands.
type TextRequest struct {
	Text string `json:"text"`
}

// handleText feeds a typed utterance through the assistant pipeline
// and waits for the turn to settle.
func (s *Server) handleText(c *fiber.Ctx) error {
	var req TextRequest
	if err := c.BodyParser(&req); err != nil || req.Text == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "text is required",
		})
	}

	s.controller.HandleText(c.UserContext(), req.Text)

	return c.JSON(fiber.Map{
		"state": s.controller.State().String(),
		"busy":  s.controller.Busy(),
	})
}

// handleState reports the assistant's current status.
func (s *Server) handleState(c *fiber.Ctx) error {
	dictationOn := s.router != nil && s.router.Enabled()
	return c.JSON(fiber.Map{
		"state":      s.controller.State().String(),
		"busy":       s.controller.Busy(),
		"can_listen": s.controller.CanListen(),
		"can_speak":  s.controller.CanSpeak(),
		"dictation":  dictationOn,
		"clients":    s.statusHub.ClientCount(),
	})
}

// handleGetPrefs returns persisted preferences.
func (s *Server) handleGetPrefs(c *fiber.Ctx) error {
	p, err := s.prefStore.Load()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(p)
}

// handlePutPrefs replaces the preferences and applies the dictation
// flag to the router.
func (s *Server) handlePutPrefs(c *fiber.Ctx) error {
	var p prefs.Preferences
	if err := c.BodyParser(&p); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid preferences",
		})
	}
	if err := s.prefStore.Save(p); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if s.router != nil {
		s.router.SetEnabled(p.Dictation)
	}
	saved, _ := s.prefStore.Load()
	return c.JSON(saved)
}

// DictationRequest is the body for the dictation toggle.
type DictationRequest struct {
	Enabled bool `json:"enabled"`
}

// handleDictation toggles dictation mode.
func (s *Server) handleDictation(c *fiber.Ctx) error {
	var req DictationRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}
	if err := s.prefStore.SetDictation(req.Enabled); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if s.router != nil {
		s.router.SetEnabled(req.Enabled)
	}
	return c.JSON(fiber.Map{"enabled": req.Enabled})
}

// handleTranscript returns recent conversation entries.
func (s *Server) handleTranscript(c *fiber.Ctx) error {
	s.transcriptMu.RLock()
	defer s.transcriptMu.RUnlock()
	return c.JSON(s.transcript)
}

// handleListFields lists the invoice form fields.
func (s *Server) handleListFields(c *fiber.Ctx) error {
	fields := s.invoice.Fields()
	out := make([]FieldInfo, 0, len(fields))
	for _, f := range fields {
		out = append(out, s.fieldInfo(f))
	}
	return c.JSON(out)
}

// handleFocusField makes a field the dictation target.
func (s *Server) handleFocusField(c *fiber.Ctx) error {
	field := s.invoice.Field(c.Params("id"))
	if field == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown field",
		})
	}
	if !dictation.Eligible(field) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "field cannot receive dictation",
		})
	}
	s.router.Focus(field)
	return c.JSON(s.fieldInfo(field))
}

// SetFieldRequest is the body for direct field edits.
type SetFieldRequest struct {
	Value string `json:"value"`
}

// handleSetField writes a field value directly and recomputes totals.
func (s *Server) handleSetField(c *fiber.Ctx) error {
	field := s.invoice.Field(c.Params("id"))
	if field == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "unknown field",
		})
	}
	if field.ReadOnly() {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": "field is read-only",
		})
	}

	var req SetFieldRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid body",
		})
	}
	if err := field.SetValue(req.Value); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	s.invoice.Recalculate()
	return c.JSON(s.fieldInfo(field))
}

// handleAddItem appends a blank invoice line.
func (s *Server) handleAddItem(c *fiber.Ctx) error {
	item := s.invoice.AddItem()
	return c.Status(fiber.StatusCreated).JSON([]FieldInfo{
		s.fieldInfo(item.Description),
		s.fieldInfo(item.Quantity),
		s.fieldInfo(item.UnitPrice),
		s.fieldInfo(item.Total),
	})
}
