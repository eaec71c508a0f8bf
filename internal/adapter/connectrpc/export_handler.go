package connectrpc

import (
	"bytes"
	"mime"
	"net/http"
	"strconv"
	"time"

	"connectrpc.com/connect"
	"github.com/sirupsen/logrus"

	"github.com/eslsoft/wordpicker/internal/adapter/mapping"
	"github.com/eslsoft/wordpicker/internal/usecase"
)

// ExportPath serves the plain-text download of every collected word.
const ExportPath = "/export"

// ExportHandler streams the export artifact as an attachment.
type ExportHandler struct {
	reader usecase.WordReader
	logger logrus.FieldLogger
	clock  func() time.Time
}

func NewExportHandler(reader usecase.WordReader, logger *logrus.Logger) *ExportHandler {
	return &ExportHandler{
		reader: reader,
		logger: logger.WithField("component", "export"),
		clock:  time.Now,
	}
}

func (h *ExportHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	records, err := h.reader.ExportAll(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("export failed")
		status := httpStatus(connect.CodeOf(mapping.ToConnectError(err)))
		http.Error(w, http.StatusText(status), status)
		return
	}

	// Render before writing headers so a failure can still become a 500.
	var body bytes.Buffer
	n, err := usecase.WriteLines(&body, records)
	if err != nil {
		h.logger.WithError(err).Error("render export")
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	filename := usecase.ExportFilename(h.clock())
	header := w.Header()
	header.Set("Content-Type", "text/plain; charset=utf-8")
	header.Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	header.Set("Content-Length", strconv.Itoa(body.Len()))
	header.Set("X-Word-Count", strconv.Itoa(n))
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := body.WriteTo(w); err != nil {
		h.logger.WithError(err).Warn("client went away during export")
		return
	}
	h.logger.WithFields(logrus.Fields{"count": n, "filename": filename}).Info("export served")
}

func httpStatus(code connect.Code) int {
	switch code {
	case connect.CodeInvalidArgument:
		return http.StatusBadRequest
	case connect.CodeUnavailable:
		return http.StatusServiceUnavailable
	case connect.CodeDeadlineExceeded:
		return http.StatusGatewayTimeout
	case connect.CodeCanceled:
		return 499
	default:
		return http.StatusInternalServerError
	}
}
