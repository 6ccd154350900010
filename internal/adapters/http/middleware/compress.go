package middleware

import (
	"io"
	"net/http"

	"github.com/andybalholm/brotli"
)

// compressWriter negotiates an encoder on the first 2xx write. Redirects and
// error responses go out uncompressed.
type compressWriter struct {
	http.ResponseWriter
	r       *http.Request
	enc     io.WriteCloser
	decided bool
}

func (cw *compressWriter) decide(status int) {
	if cw.decided {
		return
	}
	cw.decided = true
	if status >= 200 && status < 300 && status != http.StatusNoContent {
		cw.Header().Del("Content-Length")
		cw.enc = brotli.HTTPCompressor(cw.ResponseWriter, cw.r)
	}
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.decide(code)
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	cw.decide(http.StatusOK)
	if cw.enc == nil {
		return cw.ResponseWriter.Write(b)
	}
	return cw.enc.Write(b)
}

func (cw *compressWriter) close() error {
	if cw.enc == nil {
		return nil
	}
	return cw.enc.Close()
}

// Compress negotiates br, gzip or identity from Accept-Encoding for GET
// responses. Other methods pass through untouched.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.Header.Get("Accept-Encoding") == "" {
			next.ServeHTTP(w, r)
			return
		}
		cw := &compressWriter{ResponseWriter: w, r: r}
		defer cw.close()
		next.ServeHTTP(cw, r)
	})
}
