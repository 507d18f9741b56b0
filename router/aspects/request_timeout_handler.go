package aspects

import (
	"context"
	"net/http"
	"time"

	"github.com/julienschmidt/httprouter"
)

// RequestTimeout bounds the context of each request handled by f. A non-positive timeout leaves
// requests unbounded.
func RequestTimeout(f httprouter.Handle, timeout time.Duration) httprouter.Handle {
	if timeout <= 0 {
		return f
	}

	return func(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		f(w, r.WithContext(ctx), params)
	}
}
