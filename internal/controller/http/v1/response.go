package v1

import (
	"net/http"

	"github.com/Egor213/LogVault/internal/protocol"
	"github.com/labstack/echo/v4"
)

// writeEnvelope renders a coordinator envelope: success is always 200,
// errors map through the fixed code-to-status table.
func writeEnvelope(c echo.Context, resp protocol.Response) error {
	if resp.OK {
		return c.JSON(http.StatusOK, resp)
	}
	return c.JSON(resp.Error.Code.HTTPStatus(), resp)
}

func writeError(c echo.Context, code protocol.ErrorCode, message string) error {
	return writeEnvelope(c, protocol.Fail(code, message))
}
