package compress

import (
	"compress/gzip"
	"io"
	"net/http"
)

// GzipWriter implements http.ResponseWriter, compressing the body with gzip.
type GzipWriter struct {
	w  http.ResponseWriter
	zw *gzip.Writer
}

// NewGzipWriter wraps w and marks the response as gzip encoded.
func NewGzipWriter(w http.ResponseWriter) *GzipWriter {
	w.Header().Set("Content-Encoding", "gzip")
	w.Header().Add("Vary", "Accept-Encoding")
	return &GzipWriter{
		w:  w,
		zw: gzip.NewWriter(w),
	}
}

func (c *GzipWriter) Header() http.Header {
	return c.w.Header()
}

// Write compresses p into the response body.
func (c *GzipWriter) Write(p []byte) (int, error) {
	return c.zw.Write(p)
}

// WriteHeader drops Content-Length, which no longer matches the compressed body.
func (c *GzipWriter) WriteHeader(statusCode int) {
	c.w.Header().Del("Content-Length")
	c.w.WriteHeader(statusCode)
}

// Close flushes the gzip stream.
func (c *GzipWriter) Close() error {
	return c.zw.Close()
}

// GzipReader implements io.ReadCloser over a gzip encoded request body.
type GzipReader struct {
	r  io.ReadCloser
	zr *gzip.Reader
}

// NewGzipReader fails when r does not start with a gzip header.
func NewGzipReader(r io.ReadCloser) (*GzipReader, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}

	return &GzipReader{
		r:  r,
		zr: zr,
	}, nil
}

func (c *GzipReader) Read(p []byte) (n int, err error) {
	return c.zr.Read(p)
}

// Close closes both the gzip stream and the underlying body.
func (c *GzipReader) Close() error {
	if err := c.r.Close(); err != nil {
		return err
	}
	return c.zr.Close()
}
