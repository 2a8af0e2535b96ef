package userforms

import (
	"context"
	"net/http"
	"strings"
	"time"
)

// Router is the navigation capability used after a successful login.
type Router interface {
	Push(path string)
	Refresh()
}

// Clock delays navigation. Sleep returns early with ctx's error.
type Clock interface {
	Sleep(ctx context.Context, d time.Duration) error
}

type realClock struct{}

func (realClock) Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// SystemClock sleeps on real timers.
var SystemClock Clock = realClock{}

const (
	hxRequestHeader  = "HX-Request"
	hxRedirectHeader = "HX-Redirect"
	hxRefreshHeader  = "HX-Refresh"
)

// responseRouter records navigation requested while handling one request and
// turns it into a redirect once the handler is done.
type responseRouter struct {
	target  string
	refresh bool
}

func (r *responseRouter) Push(path string) { r.target = path }

func (r *responseRouter) Refresh() { r.refresh = true }

func (r *responseRouter) navigated() bool { return r.target != "" }

// apply writes the recorded navigation and reports whether it wrote anything.
func (r *responseRouter) apply(w http.ResponseWriter, req *http.Request) bool {
	if !r.navigated() {
		return false
	}
	if isHTMX(req) {
		w.Header().Set(hxRedirectHeader, r.target)
		if r.refresh {
			w.Header().Set(hxRefreshHeader, "true")
		}
		w.WriteHeader(http.StatusOK)
		return true
	}
	http.Redirect(w, req, r.target, http.StatusSeeOther)
	return true
}

func isHTMX(r *http.Request) bool {
	return r != nil && strings.EqualFold(r.Header.Get(hxRequestHeader), "true")
}
