package handlers

import (
	"context"

	"git.home.luguber.info/inful/insightsite/internal/article"
	"git.home.luguber.info/inful/insightsite/internal/catalog"
	"git.home.luguber.info/inful/insightsite/internal/mailer"
	"git.home.luguber.info/inful/insightsite/internal/probe"
	"git.home.luguber.info/inful/insightsite/internal/render"
)

// Catalog is the query surface the handlers read from.
type Catalog interface {
	ListAll(ctx context.Context) ([]article.Document, error)
	GetBySlug(ctx context.Context, slug string) (article.Document, bool, error)
	ListByTag(ctx context.Context, tag string) ([]article.Document, error)
	ListByView(ctx context.Context, view article.View) ([]article.Document, error)
	Tags(ctx context.Context) ([]catalog.TagCount, error)
	Resolvers() []string
}

// Renderer compiles a normalized body.
type Renderer interface {
	Render(ctx context.Context, body string) (render.Output, error)
}

// Mailer forwards form submissions.
type Mailer interface {
	Configured() bool
	SendContact(ctx context.Context, s mailer.Submission) error
	SendNewsletter(ctx context.Context, s mailer.Submission) error
}

// StatusSource exposes the last probe result.
type StatusSource interface {
	Last() (probe.Status, bool)
}

var (
	_ Catalog      = (*catalog.Catalog)(nil)
	_ Renderer     = (*render.Renderer)(nil)
	_ Mailer       = (*mailer.Client)(nil)
	_ StatusSource = (*probe.Probe)(nil)
)
