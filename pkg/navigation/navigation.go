// Package navigation implements the ways mastoshare can send the user to
// their instance: a browser, an HTTP redirect, or a printed link.
package navigation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"anime.bike/mastoshare/pkg/logging"
	"github.com/pkg/browser"
)

// ErrNoResponse is returned by Redirect when the context carries no response writer.
var ErrNoResponse = errors.New("no HTTP response bound to context")

// Browser opens targets in the default web browser.
type Browser struct {
	open   func(string) error
	out    io.Writer
	logger logging.Logger
}

// NewBrowser creates a Browser that reports fallbacks to out.
func NewBrowser(out io.Writer, logger logging.Logger) *Browser {
	return &Browser{
		open:   browser.OpenURL,
		out:    out,
		logger: logging.NoopIfNil(logger),
	}
}

// Navigate opens target. If no browser can be started the link is printed
// instead so the user can open it manually.
func (b *Browser) Navigate(ctx context.Context, target *url.URL) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := b.open(target.String()); err != nil {
		b.logger.Warnf("Failed to open browser: %v", err)
		fmt.Fprintf(b.out, "Failed to open browser automatically: %v\n", err)
		fmt.Fprintf(b.out, "Please open the URL manually in your browser:\n%s\n", target)
	}
	return nil
}

// Printer writes targets to a writer, one per line.
type Printer struct {
	out io.Writer
}

// NewPrinter creates a Printer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Navigate prints target
func (p *Printer) Navigate(ctx context.Context, target *url.URL) error {
	_, err := fmt.Fprintln(p.out, target.String())
	return err
}

type contextKey string

const responseKey contextKey = "navigation:response"

type response struct {
	w http.ResponseWriter
	r *http.Request
}

// WithResponse binds the HTTP exchange that Redirect answers.
func WithResponse(ctx context.Context, w http.ResponseWriter, r *http.Request) context.Context {
	return context.WithValue(ctx, responseKey, response{w: w, r: r})
}

// Redirect answers the request bound with WithResponse with a 303 See Other.
type Redirect struct{}

// Navigate writes the redirect
func (Redirect) Navigate(ctx context.Context, target *url.URL) error {
	resp, ok := ctx.Value(responseKey).(response)
	if !ok {
		return ErrNoResponse
	}
	http.Redirect(resp.w, resp.r, target.String(), http.StatusSeeOther)
	return nil
}
