package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/dashgen-backend/internal/platform/apierr"
)

// ErrorBody is the JSON shape of every failed request.
type ErrorBody struct {
	Error       string `json:"error"`
	Code        string `json:"code,omitempty"`
	RawResponse string `json:"raw_response,omitempty"`
}

func RespondError(c *gin.Context, status int, code string, err error) {
	msg := "unknown error"
	if err != nil {
		msg = err.Error()
	}
	c.JSON(status, ErrorBody{Error: msg, Code: code})
}

// RespondAPIError writes err using the status and code of its *apierr.Error;
// anything else is a 500.
func RespondAPIError(c *gin.Context, err error) {
	ae := apierr.As(err)
	if ae == nil {
		RespondError(c, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	status := ae.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}
	_ = c.Error(err)
	c.JSON(status, ErrorBody{Error: ae.Error(), Code: ae.Code, RawResponse: ae.Raw})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}
