package handlers

import (
	"encoding/xml"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/oskar87/swe2/internal/apperror"
	"github.com/oskar87/swe2/internal/middleware"
	"github.com/oskar87/swe2/internal/urihelper"
	"github.com/oskar87/swe2/internal/validation"
)

var offered = []string{gin.MIMEJSON, gin.MIMEXML, gin.MIMEXML2}

// responder holds what every handler needs to answer a request.
type responder struct {
	prefix string
	logger *zap.Logger
}

func (r responder) baseURI(c *gin.Context) string {
	return urihelper.BaseURI(c.Request, r.prefix)
}

// render writes body as XML or JSON, depending on the Accept header.
func render(c *gin.Context, code int, body any) {
	respond(c, code, body, body)
}

// respond is render with a separate XML body, used for collections that need
// a named root element.
func respond(c *gin.Context, code int, jsonBody, xmlBody any) {
	switch c.NegotiateFormat(offered...) {
	case gin.MIMEXML, gin.MIMEXML2:
		c.XML(code, xmlBody)
	default:
		c.JSON(code, jsonBody)
	}
}

func locale(c *gin.Context) language.Tag {
	return validation.Locale(c.GetHeader("Accept-Language"))
}

type errorBody struct {
	XMLName    xml.Name             `json:"-" xml:"fehler"`
	Error      string               `json:"error" xml:"error"`
	Code       apperror.Code        `json:"code" xml:"code"`
	Violations []apperror.Violation `json:"violations,omitempty" xml:"violations>violation,omitempty"`
}

func statusOf(code apperror.Code) int {
	switch code {
	case apperror.CodeNotFound:
		return http.StatusNotFound
	case apperror.CodeValidation:
		return http.StatusBadRequest
	case apperror.CodeConcurrentlyDeleted:
		return http.StatusGone
	case apperror.CodeConflict, apperror.CodeDuplicate:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// fail maps err to its status and writes the error body.
func (r responder) fail(c *gin.Context, err error) {
	code := apperror.CodeOf(err)
	status := statusOf(code)

	body := errorBody{Error: err.Error(), Code: code}
	var verr *apperror.ValidationError
	if errors.As(err, &verr) {
		body.Violations = verr.Violations
	}

	requestID := zap.String("request_id", c.GetString(middleware.RequestIDKey))
	if status >= http.StatusInternalServerError {
		r.logger.Error("Request failed",
			zap.String("path", c.FullPath()),
			requestID,
			zap.Error(err))
	} else {
		r.logger.Debug("Request rejected",
			zap.String("path", c.FullPath()),
			zap.String("code", string(code)),
			requestID,
			zap.Error(err))
	}
	_ = c.Error(err)
	render(c, status, body)
}

// bindBody decodes the request body according to its Content-Type.
func bindBody(c *gin.Context, obj any) error {
	if err := c.ShouldBind(obj); err != nil {
		return apperror.New(apperror.CodeValidation, "invalid request body: %v", err)
	}
	return nil
}

// pathID parses the :id parameter. A malformed id cannot name any resource and
// is reported as NotFound.
func pathID(c *gin.Context, entity string) (uint, error) {
	raw := c.Param("id")
	id, err := urihelper.ParseID(raw)
	if err != nil {
		return 0, apperror.NotFound("no %s found with ID %s", entity, raw)
	}
	return id, nil
}

// withGuard puts the optional guard in front of handler.
func withGuard(guard gin.HandlerFunc, handler gin.HandlerFunc) []gin.HandlerFunc {
	if guard == nil {
		return []gin.HandlerFunc{handler}
	}
	return []gin.HandlerFunc{guard, handler}
}
