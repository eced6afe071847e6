package middleware

import (
	"net/http"
	"strings"

	"github.com/drstein77/plantcart/internal/compress"
)

// CompressResponseMiddleware gzips responses for clients that accept it and
// transparently decodes gzip request bodies.
func CompressResponseMiddleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// By default set the original http.ResponseWriter
		ow := w

		// Check if the client can accept compressed data
		if strings.Contains(r.Header.Get("Accept-Encoding"), "gzip") {
			cw := compress.NewGzipWriter(w)
			ow = cw
			defer cw.Close()
		}

		// Check if the client sent compressed data
		if strings.Contains(r.Header.Get("Content-Encoding"), "gzip") {
			cr, err := compress.NewGzipReader(r.Body)
			if err != nil {
				w.WriteHeader(http.StatusBadRequest)
				return
			}
			r.Body = cr
			defer cr.Close()
		}

		// Transfer control to the handler
		h.ServeHTTP(ow, r)
	})
}
