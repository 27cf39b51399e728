package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/todokeeper/internal/common"
	"github.com/gin-gonic/gin"
)

func statusFor(kind common.Kind) int {
	switch kind {
	case common.KindValidation, common.KindConflict, common.KindInvalidCredentials:
		return http.StatusBadRequest
	case common.KindUnauthenticated:
		return http.StatusUnauthorized
	case common.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// renderError writes the {success:false, message} body for err. Errors that
// are not AppErrors are treated as internal. The cause of a 500 is included
// as "detail" outside production only.
func (s *HTTPServer) renderError(c *gin.Context, err error) {
	var ae *common.AppError
	if !errors.As(err, &ae) {
		ae = common.NewInternalError(err)
	}
	_ = c.Error(err)

	status := statusFor(ae.Kind)
	body := gin.H{"success": false, "message": ae.Message}
	if len(ae.Fields) > 0 {
		body["errors"] = ae.Fields
	}
	if status == http.StatusInternalServerError && !s.cfg.IsProduction() && ae.Err != nil {
		body["detail"] = ae.Err.Error()
	}
	c.JSON(status, body)
}

// bindError reports a body that is not valid JSON as a validation failure.
func bindError(err error) error {
	return common.NewValidationError([]common.FieldError{
		{Field: "body", Message: "Invalid JSON body: " + err.Error()},
	})
}

func (s *HTTPServer) setTokenCookie(c *gin.Context, token string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.TokenCookieName, token, int(s.users.TokenValidity().Seconds()), "/", "", s.cfg.IsProduction(), true)
}

func (s *HTTPServer) clearTokenCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.TokenCookieName, "", -1, "/", "", s.cfg.IsProduction(), true)
}
