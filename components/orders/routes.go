package orders

import (
	"errors"
	"net/http"
	"path"
	"strings"
)

// ErrMissingMux is returned when an order list is mounted on a nil mux.
var ErrMissingMux = errors.New("orders: missing mux")

// Mux is what an order list needs to mount itself; *http.ServeMux fits.
type Mux interface {
	Handle(pattern string, handler http.Handler)
}

// MountPath reports where an order list with these options lands under
// basePath, e.g. "/admin" + "/api/order-history".
func MountPath(basePath string, fns ...OptionFn) string {
	return joinMount(basePath, NewOptions(fns...).RoutePath)
}

// RegisterRoutes mounts one order list (active or history, depending on the
// records passed in fns) and returns the pattern it was mounted at.
func RegisterRoutes(mux Mux, basePath string, fns ...OptionFn) (string, error) {
	return RegisterRoutesWithOptions(mux, basePath, NewOptions(fns...))
}

// RegisterRoutesWithOptions is RegisterRoutes for a prepared Options value.
// The server mounts the active list and the history list this way, each with
// its own RoutePath and status set.
func RegisterRoutesWithOptions(mux Mux, basePath string, opts Options) (string, error) {
	if mux == nil {
		return "", ErrMissingMux
	}
	opts = NewOptions(func(o *Options) { *o = opts })
	pattern := joinMount(basePath, opts.RoutePath)
	mux.Handle(pattern, HandlerWithOptions(opts))
	return pattern, nil
}

// joinMount yields an absolute, slash-normalised pattern without a trailing
// slash, so "/api/orders" never turns into a subtree match.
func joinMount(basePath, routePath string) string {
	joined := path.Join("/", strings.TrimSpace(basePath), strings.TrimSpace(routePath))
	return path.Clean(joined)
}
