// Package mailer forwards contact and newsletter submissions to the
// configured mail-send endpoint.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/metrics"
)

// Submission kinds, used as metric labels.
const (
	KindContact    = "contact"
	KindNewsletter = "newsletter"
)

// ErrNotConfigured is returned when no mail endpoint is configured.
var ErrNotConfigured = errors.MailError("mail endpoint not configured").UserAction().Build()

// Submission is a form submission as sent to the endpoint.
type Submission struct {
	Name    string `json:"name" validate:"required,max=200"`
	Email   string `json:"email" validate:"required,email,max=320"`
	Vision  string `json:"vision" validate:"max=5000"`
	Support string `json:"support" validate:"max=5000"`
	Subject string `json:"subject,omitempty"`
}

func (s Submission) trimmed() Submission {
	return Submission{
		Name:    strings.TrimSpace(s.Name),
		Email:   strings.TrimSpace(s.Email),
		Vision:  strings.TrimSpace(s.Vision),
		Support: strings.TrimSpace(s.Support),
		Subject: strings.TrimSpace(s.Subject),
	}
}

// Options configures a Client.
type Options struct {
	Endpoint          string
	Token             string
	NewsletterSubject string
	Timeout           time.Duration
	HTTPClient        *http.Client
	Recorder          metrics.Recorder
	Logger            *slog.Logger
}

// FromConfig builds Options from the mail configuration section.
func FromConfig(cfg config.MailConfig) Options {
	return Options{
		Endpoint:          cfg.Endpoint,
		Token:             cfg.Token,
		NewsletterSubject: cfg.NewsletterSubject,
		Timeout:           cfg.Timeout,
	}
}

// Client posts submissions to the mail endpoint.
type Client struct {
	opts     Options
	http     *http.Client
	validate *validator.Validate
	recorder metrics.Recorder
	logger   *slog.Logger
}

// New creates a Client. A Client without an endpoint rejects every
// submission with ErrNotConfigured.
func New(opts Options) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	rec := opts.Recorder
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		opts:     opts,
		http:     httpClient,
		validate: validator.New(),
		recorder: rec,
		logger:   logger,
	}
}

// Configured reports whether an endpoint is set.
func (c *Client) Configured() bool { return c.opts.Endpoint != "" }

// SendContact forwards a contact form submission. Contact submissions carry
// no subject.
func (c *Client) SendContact(ctx context.Context, s Submission) error {
	s.Subject = ""
	return c.send(ctx, KindContact, s)
}

// SendNewsletter forwards a newsletter signup with the configured subject.
func (c *Client) SendNewsletter(ctx context.Context, s Submission) error {
	s.Subject = c.opts.NewsletterSubject
	return c.send(ctx, KindNewsletter, s)
}

func (c *Client) send(ctx context.Context, kind string, s Submission) (err error) {
	defer func() { c.recorder.IncMailOutcome(kind, err == nil) }()

	if !c.Configured() {
		return ErrNotConfigured
	}
	s = s.trimmed()
	if err := c.Validate(s); err != nil {
		return err
	}

	payload, err := json.Marshal(s)
	if err != nil {
		return errors.InternalError("failed to encode submission").WithCause(err).Build()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.opts.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return errors.ConfigError("invalid mail endpoint").WithCause(err).WithContext("endpoint", c.opts.Endpoint).Build()
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.opts.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return errors.NetworkError("mail endpoint unreachable").WithCause(err).WithContext("kind", kind).Build()
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return errors.MailError("mail endpoint rejected submission").
			WithCause(fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))).
			WithContext("kind", kind).
			WithContext("status", resp.StatusCode).
			Build()
	}

	c.logger.Info("Mail submission delivered", slog.String("kind", kind), logfields.Status(resp.StatusCode))
	return nil
}

// Validate checks a submission and returns a validation error naming the
// offending fields.
func (c *Client) Validate(s Submission) error {
	err := c.validate.Struct(s)
	if err == nil {
		return nil
	}
	b := errors.ValidationError("invalid submission").WithCause(err)
	var fields validator.ValidationErrors
	if stderrors.As(err, &fields) {
		names := make([]string, 0, len(fields))
		for _, fe := range fields {
			names = append(names, strings.ToLower(fe.Field()))
		}
		b = b.WithContext("fields", names)
	}
	return b.Build()
}

// InvalidFields returns the field names recorded on a validation error.
func InvalidFields(err error) []string {
	classified, ok := errors.AsClassified(err)
	if !ok {
		return nil
	}
	v, ok := classified.Context().Get("fields")
	if !ok {
		return nil
	}
	names, _ := v.([]string)
	return names
}
