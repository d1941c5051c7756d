// Package handlers contains the HTTP handlers of the insights site.
//
// This package provides handlers for:
//   - Server-rendered pages (home, insight listing and detail, about, collaborate)
//   - Contact and newsletter form submissions
//   - The JSON API over the catalog (insights, tags, views, probe status)
//   - Health checks
//
// Errors are written through the foundation/errors HTTP adapter for JSON
// endpoints and through the error page template for pages.
package handlers
