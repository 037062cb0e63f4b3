package errcodes

import (
	"net/http"
	"strings"

	"github.com/iancoleman/strcase"
	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/echo/v4/middleware/logger"
	"github.com/robinjoseph08/golib/errutils"
)

// problem is what the client sees of an error.
type problem struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"status_code"`
}

type envelope struct {
	Error problem `json:"error"`
}

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

// Handle is the echo HTTPErrorHandler. Browsers get the message as plain text
// and clients that accept JSON get it wrapped in an envelope. Anything that
// isn't an *Error or *echo.HTTPError is reported as a 500.
func (h *Handler) Handle(err error, c echo.Context) {
	log := logger.FromEchoContext(c)

	if errutils.IsIgnorableErr(err) {
		log.Err(err).Warn("broken pipe")
		return
	}
	if c.Response().Committed {
		log.Err(err).Error("error after response was committed")
		return
	}

	p := describe(err)

	var e *Error
	if p.StatusCode >= http.StatusInternalServerError {
		log.Err(err).Error("server error")
	} else if errors.As(err, &e) && e.Cause != nil {
		log.Err(err).Warn("request failed")
	}

	var werr error
	if strings.Contains(c.Request().Header.Get(echo.HeaderAccept), echo.MIMEApplicationJSON) {
		werr = c.JSON(p.StatusCode, envelope{Error: p})
	} else {
		werr = c.String(p.StatusCode, p.Message)
	}
	if werr != nil {
		log.Err(errors.WithStack(werr)).Error("error handler write error")
	}
}

func describe(err error) problem {
	var e *Error
	if errors.As(err, &e) {
		return problem{Code: e.Code, Message: e.Message, StatusCode: e.HTTPCode}
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg, ok := he.Message.(string)
		if !ok {
			msg = http.StatusText(he.Code)
		}
		return problem{Code: strcase.ToSnake(msg), Message: msg, StatusCode: he.Code}
	}

	return problem{
		Code:       "internal_server_error",
		Message:    "Internal Server Error",
		StatusCode: http.StatusInternalServerError,
	}
}
