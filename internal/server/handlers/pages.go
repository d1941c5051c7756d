package handlers

import (
	stderrors "errors"
	"html/template"
	"log/slog"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/config"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/logfields"
	"git.home.luguber.info/inful/insightsite/internal/mailer"
	"git.home.luguber.info/inful/insightsite/internal/server/responses"
)

const (
	homeLatestCount     = 6
	homeHighlightsCount = 3
	maxFormBytes        = 64 << 10
)

// PageHandlers serves the server-rendered site.
type PageHandlers struct {
	site     config.SiteConfig
	catalog  Catalog
	renderer Renderer
	mailer   Mailer
	mediaDir string
	pages    pageSet
	logger   *slog.Logger

	errorAdapter *errors.HTTPErrorAdapter
}

// NewPageHandlers parses the embedded templates and creates the page handlers.
func NewPageHandlers(site config.SiteConfig, cat Catalog, renderer Renderer, m Mailer, mediaDir string, logger *slog.Logger) (*PageHandlers, error) {
	pages, err := parsePages()
	if err != nil {
		return nil, errors.InternalError("failed to parse page templates").WithCause(err).Build()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &PageHandlers{
		site:     site,
		catalog:  cat,
		renderer: renderer,
		mailer:   m,
		mediaDir: mediaDir,
		pages:    pages,
		logger:   logger,

		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}, nil
}

// pageData is the model handed to every page template.
type pageData struct {
	Site      config.SiteConfig
	Page      string
	Title     string
	Canonical string
	Year      int

	Insights   []responses.InsightSummary
	Highlights []responses.InsightSummary
	Tags       []catalog.TagCount
	Views      []string
	View       string
	Tag        string

	Insight *responses.InsightDetail
	Body    template.HTML

	Form       mailer.Submission
	Invalid    map[string]bool
	Sent       bool
	Subscribed bool
	Message    string
}

func (h *PageHandlers) newPage(page, title, canonicalPath string) pageData {
	d := pageData{Site: h.site, Page: page, Title: title, Year: currentYear()}
	if h.site.BaseURL != "" && canonicalPath != "" {
		d.Canonical = h.site.BaseURL + canonicalPath
	}
	return d
}

// HandleHome renders the latest insights and the future highlights.
func (h *PageHandlers) HandleHome(w http.ResponseWriter, r *http.Request) {
	all, err := h.catalog.ListAll(r.Context())
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	future := catalog.FilterByView(all, article.ViewFuture)

	data := h.newPage(pageHome, "", "/")
	data.Insights = responses.NewInsightSummaries(head(all, homeLatestCount))
	data.Highlights = responses.NewInsightSummaries(head(future, homeHighlightsCount))
	data.Subscribed = r.URL.Query().Get("subscribed") == "1"
	h.renderPage(w, r, http.StatusOK, pageHome, data)
}

// HandleInsights renders the insight listing with ?view= and ?tag= filters.
func (h *PageHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := article.ParseView(q.Get("view"))
	tag := strings.TrimSpace(q.Get("tag"))

	all, docs, err := listInsights(r, h.catalog, view, tag)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	tags := catalog.CountTags(all)

	title := "Insights"
	switch view {
	case article.ViewCareer:
		title = "Career Insights"
	case article.ViewFuture:
		title = "Future Insights"
	}

	data := h.newPage(pageInsights, title, "/insights")
	data.Insights = responses.NewInsightSummaries(docs)
	data.Tags = tags
	data.Views = []string{string(article.ViewDefault), string(article.ViewCareer), string(article.ViewFuture)}
	data.View = string(view)
	data.Tag = tag
	h.renderPage(w, r, http.StatusOK, pageInsights, data)
}

// HandleInsight renders one insight. Responses carry the document
// fingerprint as ETag and honor If-None-Match.
func (h *PageHandlers) HandleInsight(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	doc, ok, err := h.catalog.GetBySlug(r.Context(), slug)
	if err != nil {
		h.renderError(w, r, err)
		return
	}
	if !ok {
		h.renderNotFound(w, r)
		return
	}

	if notModified(w, r, etagFor(doc)) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out, err := h.renderer.Render(r.Context(), doc.Content)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	data := h.newPage(pageInsight, doc.Title, "/insights/"+doc.Slug)
	data.Insight = &responses.InsightDetail{
		InsightSummary: responses.NewInsightSummary(doc),
		Excerpt:        out.Excerpt,
		ReadingMinutes: out.ReadingMinutes,
	}
	data.Body = template.HTML(out.HTML) //nolint:gosec // article bodies are authored content
	h.renderPage(w, r, http.StatusOK, pageInsight, data)
}

// HandleAbout renders the about page.
func (h *PageHandlers) HandleAbout(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, pageAbout, h.newPage(pageAbout, "About", "/about"))
}

// HandleCollaborate renders the contact form.
func (h *PageHandlers) HandleCollaborate(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(pageCollaborate, "Collaborate", "/collaborate")
	data.Sent = r.URL.Query().Get("sent") == "1"
	h.renderPage(w, r, http.StatusOK, pageCollaborate, data)
}

// HandleContactSubmit forwards the contact form to the mail endpoint.
func (h *PageHandlers) HandleContactSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	err = h.mailer.SendContact(r.Context(), sub)
	if wantsJSON(r) {
		h.writeSubmissionJSON(w, r, err)
		return
	}
	if err == nil {
		http.Redirect(w, r, "/collaborate?sent=1", http.StatusSeeOther)
		return
	}

	data := h.newPage(pageCollaborate, "Collaborate", "/collaborate")
	data.Form = sub
	data.Invalid = invalidSet(err)
	status, msg := submissionFailure(err)
	data.Message = msg
	h.logSubmissionFailure(r, mailer.KindContact, err)
	h.renderPage(w, r, status, pageCollaborate, data)
}

// HandleNewsletterSubmit signs a reader up with the fixed newsletter subject.
func (h *PageHandlers) HandleNewsletterSubmit(w http.ResponseWriter, r *http.Request) {
	sub, err := readSubmission(w, r)
	if err != nil {
		h.renderError(w, r, err)
		return
	}

	err = h.mailer.SendNewsletter(r.Context(), sub)
	if wantsJSON(r) {
		h.writeSubmissionJSON(w, r, err)
		return
	}
	if err == nil {
		http.Redirect(w, r, "/?subscribed=1", http.StatusSeeOther)
		return
	}

	status, msg := submissionFailure(err)
	h.logSubmissionFailure(r, mailer.KindNewsletter, err)
	data := h.newPage(pageError, "Subscription failed", "")
	data.Message = msg
	h.renderPage(w, r, status, pageError, data)
}

// HandleFallback serves files from the media directory and renders the
// not-found page for everything else.
func (h *PageHandlers) HandleFallback(w http.ResponseWriter, r *http.Request) {
	if h.mediaDir != "" && (r.Method == http.MethodGet || r.Method == http.MethodHead) {
		if p, ok := h.mediaFile(r.URL.Path); ok {
			http.ServeFile(w, r, p)
			return
		}
	}
	h.renderNotFound(w, r)
}

func (h *PageHandlers) mediaFile(urlPath string) (string, bool) {
	clean := path.Clean("/" + urlPath)
	if clean == "/" {
		return "", false
	}
	p := filepath.Join(h.mediaDir, filepath.FromSlash(clean))
	info, err := os.Stat(p)
	if err != nil || info.IsDir() {
		return "", false
	}
	return p, true
}

func (h *PageHandlers) renderNotFound(w http.ResponseWriter, r *http.Request) {
	data := h.newPage(pageError, "Not found", "")
	data.Message = "The page you are looking for does not exist or has moved."
	h.renderPage(w, r, http.StatusNotFound, pageError, data)
}

func (h *PageHandlers) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := h.errorAdapter.StatusCodeFor(err)
	h.logger.Error("Page request failed", logfields.Path(r.URL.Path), logfields.Error(err))
	data := h.newPage(pageError, http.StatusText(status), "")
	data.Message = "Something went wrong while loading this page. Please try again."
	h.renderPage(w, r, status, pageError, data)
}

func (h *PageHandlers) renderPage(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	body, err := h.pages.execute(page, data)
	if err != nil {
		h.logger.Error("Template execution failed", slog.String("page", page), logfields.Path(r.URL.Path), logfields.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := w.Write(body); err != nil {
		h.logger.Debug("Failed writing page body", logfields.Error(err))
	}
}

func (h *PageHandlers) writeSubmissionJSON(w http.ResponseWriter, r *http.Request, err error) {
	if err != nil {
		if stderrors.Is(err, mailer.ErrNotConfigured) {
			w.Header().Set("Retry-After", "3600")
			_ = writeJSON(w, http.StatusServiceUnavailable, h.errorAdapter.FormatErrorResponse(err))
			return
		}
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	_ = writeJSON(w, http.StatusOK, responses.SubmissionResponse{Status: "sent"})
}

func (h *PageHandlers) logSubmissionFailure(r *http.Request, kind string, err error) {
	level := slog.LevelWarn
	if errors.HasCategory(err, errors.CategoryValidation) {
		level = slog.LevelDebug
	}
	h.logger.Log(r.Context(), level, "Form submission failed", slog.String("kind", kind), logfields.Error(err))
}

// readSubmission decodes a submission from a JSON or form-encoded body.
func readSubmission(w http.ResponseWriter, r *http.Request) (mailer.Submission, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	var sub mailer.Submission
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := decodeJSON(r, &sub); err != nil {
			return sub, errors.ValidationError("invalid JSON body").WithCause(err).Build()
		}
		return sub, nil
	}
	if err := r.ParseForm(); err != nil {
		return sub, errors.ValidationError("invalid form body").WithCause(err).Build()
	}
	sub.Name = r.PostFormValue("name")
	sub.Email = r.PostFormValue("email")
	sub.Vision = r.PostFormValue("vision")
	sub.Support = r.PostFormValue("support")
	return sub, nil
}

func invalidSet(err error) map[string]bool {
	fields := mailer.InvalidFields(err)
	if len(fields) == 0 {
		return nil
	}
	set := make(map[string]bool, len(fields))
	for _, f := range fields {
		set[f] = true
	}
	return set
}

func submissionFailure(err error) (int, string) {
	switch {
	case stderrors.Is(err, mailer.ErrNotConfigured):
		return http.StatusServiceUnavailable, "Messages cannot be sent right now. Please try again later."
	case errors.HasCategory(err, errors.CategoryValidation):
		return http.StatusBadRequest, "Please check the highlighted fields."
	default:
		return http.StatusBadGateway, "We could not deliver your message. Please try again later."
	}
}

func head(docs []article.Document, n int) []article.Document {
	if len(docs) > n {
		return docs[:n]
	}
	return docs
}
