package middleware

import (
	"mime"
	"strings"

	"github.com/deppfellow/posts-api/internal/errs"
	"github.com/labstack/echo/v4"
	"github.com/munnerz/goautoneg"
)

// acceptsJSON reports whether an Accept header allows application/json.
// The most specific matching range decides, so "application/json;q=0"
// excludes JSON even next to "*/*".
func acceptsJSON(header string) bool {
	if strings.TrimSpace(header) == "" {
		return false
	}

	specificity := -1
	q := 0.0
	for _, accept := range goautoneg.ParseAccept(header) {
		s := jsonRangeSpecificity(accept)
		switch {
		case s > specificity:
			specificity, q = s, accept.Q
		case s == specificity && accept.Q > q:
			q = accept.Q
		}
	}
	return specificity >= 0 && q > 0
}

// jsonRangeSpecificity ranks how closely a media range names
// application/json: 2 exact, 1 application/*, 0 */*, -1 no match.
func jsonRangeSpecificity(accept goautoneg.Accept) int {
	switch {
	case accept.Type == "*" && accept.SubType == "*":
		return 0
	case !strings.EqualFold(accept.Type, "application"):
		return -1
	case accept.SubType == "*":
		return 1
	case strings.EqualFold(accept.SubType, "json"):
		return 2
	default:
		return -1
	}
}

// isJSONContentType ignores parameters such as charset.
func isJSONContentType(header string) bool {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return false
	}
	return mediaType == echo.MIMEApplicationJSON
}

// RequireAcceptJSON rejects requests whose Accept header does not allow
// JSON responses with 406.
func RequireAcceptJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !acceptsJSON(c.Request().Header.Get(echo.HeaderAccept)) {
				return errs.NewNotAcceptableError()
			}
			return next(c)
		}
	}
}

// RequireContentTypeJSON rejects request bodies not declared as JSON with 415.
func RequireContentTypeJSON() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !isJSONContentType(c.Request().Header.Get(echo.HeaderContentType)) {
				return errs.NewUnsupportedMediaTypeError()
			}
			return next(c)
		}
	}
}
