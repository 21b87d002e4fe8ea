package contact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

const noRelayNote = "Received (no SMTP configured)"

// Result is the body of every form endpoint response.
type Result struct {
	OK      bool         `json:"ok"`
	Error   string       `json:"error,omitempty"`
	Errors  []FieldError `json:"errors,omitempty"`
	Message string       `json:"message,omitempty"`
}

// Deps are the collaborators of a Server. Nil fields are derived from Config:
// a verifier only when a secret is set, a mailer only when the relay is configured.
type Deps struct {
	Limiter  *RateLimiter
	Verifier Verifier
	Mailer   Mailer
	Logger   *slog.Logger
}

type Server struct {
	cfg      *Config
	limiter  *RateLimiter
	validate *Validator
	verifier Verifier
	mailer   Mailer
	logger   *slog.Logger
}

func NewServer(cfg *Config, deps Deps) *Server {
	s := &Server{
		cfg:      cfg,
		limiter:  deps.Limiter,
		validate: NewValidator(),
		verifier: deps.Verifier,
		mailer:   deps.Mailer,
		logger:   deps.Logger,
	}
	if s.limiter == nil {
		s.limiter = NewRateLimiter(cfg.RateLimitMax, cfg.RateWindow)
	}
	if s.verifier == nil && cfg.VerificationConfigured() {
		s.verifier = NewRecaptchaVerifier(cfg.RecaptchaSecret, cfg.VerifyURL, cfg.VerifyTimeout)
	}
	if s.mailer == nil && cfg.RelayConfigured() {
		s.mailer = NewSMTPMailer(cfg.SMTP)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

// Limiter exposes the shared rate limiter so callers can run its janitor.
func (s *Server) Limiter() *RateLimiter {
	return s.limiter
}

// Contact runs a contact submission through validation, verification and delivery.
func (s *Server) Contact(ctx context.Context, req SubmissionRequest, remoteIP string) (Result, error) {
	req.normalize()
	if err := s.validate.Struct(&req); err != nil {
		return Result{}, err
	}
	if err := s.verify(ctx, req.RecaptchaToken, remoteIP); err != nil {
		return Result{}, err
	}
	return s.deliver(ctx, ContactMessage(s.cfg.SMTP.From, s.cfg.Recipient, req),
		"kind", "contact", "name", req.Name, "email", req.Email, "message", req.Message)
}

func (s *Server) Feedback(ctx context.Context, req FeedbackRequest) (Result, error) {
	req.normalize()
	if err := s.validate.Struct(&req); err != nil {
		return Result{}, err
	}
	return s.deliver(ctx, FeedbackMessage(s.cfg.SMTP.From, s.cfg.Recipient, req),
		"kind", "feedback", "name", req.Name, "message", req.Message)
}

func (s *Server) Subscribe(ctx context.Context, req SubscribeRequest) (Result, error) {
	req.normalize()
	if err := s.validate.Struct(&req); err != nil {
		return Result{}, err
	}
	return s.deliver(ctx, SubscribeMessage(s.cfg.SMTP.From, s.cfg.Recipient, req),
		"kind", "subscribe", "email", req.Email)
}

func (s *Server) verify(ctx context.Context, token, remoteIP string) error {
	if token == "" || s.verifier == nil {
		return nil
	}
	logger := LoggerFromContext(ctx)

	v, err := s.verifier.Verify(ctx, token, remoteIP)
	if err != nil {
		logger.Warn("token verification unavailable", "err", err)
		v = &Verification{}
	}
	if v.Rejects() {
		logger.Info("token rejected", "score", *v.Score, "codes", v.ErrorCodes)
		return ErrVerificationFailed
	}
	return nil
}

func (s *Server) deliver(ctx context.Context, msg Message, attrs ...any) (Result, error) {
	logger := LoggerFromContext(ctx)
	if s.mailer == nil {
		logger.Info("submission received (no SMTP)", attrs...)
		return Result{OK: true, Message: noRelayNote}, nil
	}
	if err := s.mailer.Send(ctx, msg); err != nil {
		logger.Error("send error", "err", err, "subject", msg.Subject)
		return Result{}, &DeliveryError{Err: err}
	}
	logger.Info("submission delivered", "subject", msg.Subject)
	return Result{OK: true}, nil
}

func HandleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) HandleContact(w http.ResponseWriter, r *http.Request) {
	var p SubmissionRequest
	if err := s.decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Contact(r.Context(), p, clientIP(r))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleFeedback(w http.ResponseWriter, r *http.Request) {
	var p FeedbackRequest
	if err := s.decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Feedback(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) HandleSubscribe(w http.ResponseWriter, r *http.Request) {
	var p SubscribeRequest
	if err := s.decode(w, r, &p); err != nil {
		s.fail(w, r, err)
		return
	}
	res, err := s.Subscribe(r.Context(), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// rateLimit rejects callers that used up their window before any decoding happens.
func (s *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d := s.limiter.Allow(clientIP(r))
		w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
		if !d.Allowed {
			w.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(d.RetryAfter.Seconds()))))
			s.fail(w, r, ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, res := errorResult(err)
	if status >= http.StatusInternalServerError {
		LoggerFromContext(r.Context()).Error("request failed", "err", err)
	} else {
		LoggerFromContext(r.Context()).Debug("request rejected", "status", status, "err", err)
	}
	writeJSON(w, status, res)
}

// formPayload is implemented by request types that also accept URL-encoded forms.
type formPayload interface {
	fromForm(f url.Values)
}

func (r *SubmissionRequest) fromForm(f url.Values) {
	r.Name = f.Get("name")
	r.Email = f.Get("email")
	r.Message = f.Get("message")
	r.RecaptchaToken = f.Get("recaptchaToken")
	if r.RecaptchaToken == "" {
		r.RecaptchaToken = f.Get("g-recaptcha-response")
	}
}

func (r *FeedbackRequest) fromForm(f url.Values) {
	r.Name = f.Get("name")
	r.Message = f.Get("message")
}

func (r *SubscribeRequest) fromForm(f url.Values) {
	r.Email = f.Get("email")
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst formPayload) error {
	r.Body = http.MaxBytesReader(w, r.Body, int64(s.cfg.MaxBodyKB)*1024)

	ct := r.Header.Get("Content-Type")
	switch {
	case strings.HasPrefix(ct, "application/x-www-form-urlencoded"):
		if err := r.ParseForm(); err != nil {
			return decodeError(err)
		}
		dst.fromForm(r.PostForm)
	default:
		if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
			return decodeError(err)
		}
	}
	return nil
}

func decodeError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return fmt.Errorf("%w: %v", ErrTooLarge, err)
	}
	return fmt.Errorf("%w: %v", ErrBadRequest, err)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// clientIP is the address used as the rate-limit key. Forwarding headers are
// honoured only through handlers.ProxyHeaders, which rewrites RemoteAddr.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
