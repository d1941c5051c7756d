package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/foundation/errors"
	"git.home.luguber.info/inful/insightsite/internal/server/responses"
)

// APIHandlers serves the JSON API over the catalog.
type APIHandlers struct {
	catalog      Catalog
	renderer     Renderer
	status       StatusSource
	errorAdapter *errors.HTTPErrorAdapter
}

// NewAPIHandlers creates the JSON API handlers. status may be nil when the
// probe is disabled.
func NewAPIHandlers(cat Catalog, renderer Renderer, status StatusSource, logger *slog.Logger) *APIHandlers {
	if logger == nil {
		logger = slog.Default()
	}
	return &APIHandlers{
		catalog:      cat,
		renderer:     renderer,
		status:       status,
		errorAdapter: errors.NewHTTPErrorAdapter(logger),
	}
}

// HandleInsights lists insights, optionally filtered by ?view= and ?tag=.
func (h *APIHandlers) HandleInsights(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	view := article.ParseView(q.Get("view"))
	tag := q.Get("tag")

	_, docs, err := listInsights(r, h.catalog, view, tag)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeList(w, r, responses.InsightListResponse{View: string(view), Tag: tag}, docs)
}

// HandleInsight returns one insight with its rendered body.
func (h *APIHandlers) HandleInsight(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	doc, ok, err := h.catalog.GetBySlug(r.Context(), slug)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	if !ok {
		h.errorAdapter.WriteErrorResponse(w, r, errors.NotFoundError("insight not found").WithContext("slug", slug).Build())
		return
	}

	etag := etagFor(doc)
	if notModified(w, r, etag) {
		w.WriteHeader(http.StatusNotModified)
		return
	}

	out, err := h.renderer.Render(r.Context(), doc.Content)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	detail := responses.InsightDetail{
		InsightSummary: responses.NewInsightSummary(doc),
		Content:        doc.Content,
		HTML:           out.HTML,
		Excerpt:        out.Excerpt,
		ReadingMinutes: out.ReadingMinutes,
		Fingerprint:    article.Fingerprint(doc),
	}
	h.write(w, r, http.StatusOK, detail)
}

// HandleTags lists tags with their document counts.
func (h *APIHandlers) HandleTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.catalog.Tags(r.Context())
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.write(w, r, http.StatusOK, responses.TagsResponse{Count: len(tags), Tags: tags})
}

// HandleTag lists insights carrying a tag.
func (h *APIHandlers) HandleTag(w http.ResponseWriter, r *http.Request) {
	tag := r.PathValue("tag")
	docs, err := h.catalog.ListByTag(r.Context(), tag)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeList(w, r, responses.InsightListResponse{Tag: tag}, docs)
}

// HandleView lists insights of a named view. Unknown names list everything.
func (h *APIHandlers) HandleView(w http.ResponseWriter, r *http.Request) {
	view := article.ParseView(r.PathValue("view"))
	docs, err := h.catalog.ListByView(r.Context(), view)
	if err != nil {
		h.errorAdapter.WriteErrorResponse(w, r, err)
		return
	}
	h.writeList(w, r, responses.InsightListResponse{View: string(view)}, docs)
}

// HandleStatus reports the last content probe.
func (h *APIHandlers) HandleStatus(w http.ResponseWriter, r *http.Request) {
	resp := responses.StatusResponse{
		Status:    "unknown",
		Resolvers: h.catalog.Resolvers(),
		Timestamp: time.Now().UTC(),
	}
	if h.status != nil {
		if last, ok := h.status.Last(); ok {
			resp.Probe = &last
			resp.Status = "ok"
			if last.Degraded() {
				resp.Status = "degraded"
			}
		}
	}
	h.write(w, r, http.StatusOK, resp)
}

func (h *APIHandlers) writeList(w http.ResponseWriter, r *http.Request, resp responses.InsightListResponse, docs []article.Document) {
	resp.Insights = responses.NewInsightSummaries(docs)
	resp.Count = len(resp.Insights)
	h.write(w, r, http.StatusOK, resp)
}

func (h *APIHandlers) write(w http.ResponseWriter, r *http.Request, status int, v any) {
	if err := writeJSONPretty(w, r, status, v); err != nil {
		internalErr := errors.WrapError(err, errors.CategoryInternal, "failed to write response").Build()
		h.errorAdapter.WriteErrorResponse(w, r, internalErr)
	}
}

// listInsights resolves the catalog once and applies the view filter and
// then, when set, the tag filter. all is the unfiltered serving tier.
func listInsights(r *http.Request, cat Catalog, view article.View, tag string) (all, docs []article.Document, err error) {
	all, err = cat.ListAll(r.Context())
	if err != nil {
		return nil, nil, err
	}
	docs = catalog.FilterByView(all, view)
	if tag != "" {
		docs = catalog.FilterByTag(docs, tag)
	}
	return all, docs, nil
}
