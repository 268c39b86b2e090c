package httpcache

import (
	"bytes"
	"net/http"

	"github.com/gin-gonic/gin"
)

// bodyBuffer holds a handler's response until the cache has inspected it.
// Headers still go straight to the underlying writer's header map.
type bodyBuffer struct {
	gin.ResponseWriter
	body   bytes.Buffer
	status int
	wrote  bool
}

func newBodyBuffer(w gin.ResponseWriter) *bodyBuffer {
	status := w.Status()
	if status == 0 {
		status = http.StatusOK
	}
	return &bodyBuffer{ResponseWriter: w, status: status}
}

func (b *bodyBuffer) WriteHeader(code int) {
	if code > 0 && !b.wrote {
		b.status = code
	}
}

func (b *bodyBuffer) WriteHeaderNow() {
	b.wrote = true
}

func (b *bodyBuffer) Write(data []byte) (int, error) {
	b.wrote = true
	return b.body.Write(data)
}

func (b *bodyBuffer) WriteString(s string) (int, error) {
	b.wrote = true
	return b.body.WriteString(s)
}

func (b *bodyBuffer) Status() int {
	return b.status
}

func (b *bodyBuffer) Size() int {
	if !b.wrote {
		return -1
	}
	return b.body.Len()
}

func (b *bodyBuffer) Written() bool {
	return b.wrote
}

// Flush is a no-op while buffering; the response goes out in flushTo.
func (b *bodyBuffer) Flush() {}

// flushTo replays the buffered response. A handler that wrote nothing only
// passes its status on, so gin can still write its own default body.
func (b *bodyBuffer) flushTo(w gin.ResponseWriter) error {
	w.WriteHeader(b.status)
	if !b.wrote {
		return nil
	}
	if b.body.Len() == 0 {
		w.WriteHeaderNow()
		return nil
	}
	_, err := w.Write(b.body.Bytes())
	return err
}
