package echo

import (
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
)

const (
	TestPath     = "/test"
	TestBody     = "Dummy transaction completed"
	NotFoundBody = "Not Found"
)

// Handler answers GET /test with a fixed body and everything else with
// 404. The request URI must match exactly, query string included.
func Handler(log logrus.FieldLogger) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		status, body := http.StatusNotFound, NotFoundBody
		if r.Method == http.MethodGet && r.URL.RequestURI() == TestPath {
			status, body = http.StatusOK, TestBody
		}

		w.Header().Set("Content-Type", "text/plain")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)

		log.WithFields(logrus.Fields{
			"method": r.Method,
			"uri":    r.RequestURI,
			"status": status,
		}).Debug("request served")
	})
}
