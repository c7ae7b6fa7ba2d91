package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/couchcryptid/road-accident-dashboard/internal/alert"
	"github.com/couchcryptid/road-accident-dashboard/internal/domain"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
)

// SessionCookie carries the captcha session identifier.
const SessionCookie = "dashboard_session"

const maxBodyBytes = 1 << 16

const (
	captchaMatchedText = "Captcha matched. Proceed."
	captchaFailedText  = "Captcha failed. Assuming alcohol detected."
)

type verifyRequest struct {
	Answer string `json:"answer"`
}

type alertRequest struct {
	Speed   *float64 `json:"speed"`
	Alcohol bool     `json:"alcohol"`
}

type alertResponse struct {
	Decision alert.Decision `json:"decision"`
	Status   alert.Status   `json:"status"`
	Sent     []string       `json:"sent,omitempty"`
	Failed   []string       `json:"failed,omitempty"`
	Message  string         `json:"message"`
}

func (s *Server) handleIssueCaptcha(w http.ResponseWriter, r *http.Request) {
	id := s.session(w, r)
	sess, err := s.svc.Sessions.Issue(id)
	if err != nil {
		s.logger.Error("issue captcha", "error", err)
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.svc.Metrics.CaptchaIssued.Inc()
	sharedobs.WriteJSON(w, http.StatusOK, map[string]string{
		"key":   sess.Key,
		"state": sess.State.String(),
	})
}

func (s *Server) handleVerifyCaptcha(w http.ResponseWriter, r *http.Request) {
	var req verifyRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.session(w, r)
	result := s.svc.Sessions.Verify(id, req.Answer)
	s.svc.Metrics.CaptchaVerifications.WithLabelValues(result.String()).Inc()

	msg := captchaFailedText
	if result == alert.CaptchaMatch {
		msg = captchaMatchedText
	}
	sharedobs.WriteJSON(w, http.StatusOK, map[string]any{
		"verified": result == alert.CaptchaMatch,
		"message":  msg,
	})
}

// handleAlert decides and dispatches the alerts for one submission. Once a
// decision is made the session's captcha state is cleared, so every trigger
// needs a fresh challenge.
func (s *Server) handleAlert(w http.ResponseWriter, r *http.Request) {
	var req alertRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Speed == nil {
		writeError(w, http.StatusBadRequest, &domain.ValidationError{Field: "speed", Message: "is required"})
		return
	}

	if err := alert.ValidateSpeed(*req.Speed); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	id := s.session(w, r)
	captcha := s.svc.Sessions.Take(id)
	decision, err := alert.Decide(*req.Speed, req.Alcohol, captcha)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.recordDecision(decision)

	s.logger.Info("alert decided",
		"speed", decision.Speed,
		"overspeeding", decision.Overspeeding,
		"alcohol", decision.Alcohol,
		"captcha", captcha.String(),
	)

	out := alert.Dispatch(r.Context(), s.svc.Notifier, decision.Messages, s.logger)
	resp := alertResponse{
		Decision: decision,
		Status:   out.Status,
		Sent:     out.Sent,
		Failed:   out.Failed,
		Message:  out.Summary(),
	}
	status := http.StatusOK
	if out.Status == alert.StatusFailed {
		status = http.StatusBadGateway
	}
	sharedobs.WriteJSON(w, status, resp)
}

func (s *Server) recordDecision(d alert.Decision) {
	if d.Overspeeding {
		s.svc.Metrics.AlertDecisions.WithLabelValues("overspeeding").Inc()
	}
	if d.Alcohol {
		s.svc.Metrics.AlertDecisions.WithLabelValues("alcohol").Inc()
	}
	if !d.HasAlert() {
		s.svc.Metrics.AlertDecisions.WithLabelValues("none").Inc()
	}
}

// session returns the caller's session id, issuing a cookie for new callers.
func (s *Server) session(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(SessionCookie); err == nil && c.Value != "" {
		return c.Value
	}
	id := alert.NewSessionID()
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
