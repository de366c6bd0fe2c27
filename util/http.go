package util

import (
	"net/http"
	"strings"
)

type prefixedResponseWriter struct {
	http.ResponseWriter
	prefix string // without trailing slash
}

// WriteHeader shadows and calls http.ResponseWriter.WriteHeader.
func (w prefixedResponseWriter) WriteHeader(statusCode int) {
	// absolute locations only
	if location := w.Header().Get("Location"); len(location) > 0 && location[0] == '/' {
		w.Header().Set("Location", w.prefix+location)
	}
	w.ResponseWriter.WriteHeader(statusCode)
}

// StripPrefix is like http.StripPrefix, but it also prepends the prefix to absolute redirect locations.
// If prefix is empty or "/", the handler is returned unchanged.
func StripPrefix(prefix string, handler http.Handler) http.Handler {
	prefix = strings.TrimSuffix(prefix, "/")
	if prefix == "" {
		return handler
	}
	return http.StripPrefix(
		prefix,
		http.HandlerFunc(
			func(w http.ResponseWriter, r *http.Request) {
				handler.ServeHTTP(prefixedResponseWriter{w, prefix}, r)
			},
		),
	)
}
