package shared

import (
	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Error   string `json:"error"`
}

// JSONAPI is the codec used for every response body and by the fiber app.
var JSONAPI = sonic.Config{
	UseNumber:            true,
	EscapeHTML:           false,
	SortMapKeys:          false,
	CompactMarshaler:     true,
	NoQuoteTextMarshaler: true,
	NoNullSliceOrMap:     true,
}.Froze()

var (
	successResponse       = mustMarshal(Response{Code: 200, Message: "Success"})
	createdResponse       = mustMarshal(Response{Code: 201, Message: "Created"})
	notFoundResponse      = mustMarshal(Response{Code: 404, Message: "Not Found"})
	unauthorizedResponse  = mustMarshal(Response{Code: 401, Message: "Unauthorized"})
	internalErrorResponse = mustMarshal(Response{Code: 500, Message: "Internal Server Error"})
)

func mustMarshal(v interface{}) []byte {
	b, _ := JSONAPI.Marshal(v)
	return b
}

func send(c *fiber.Ctx, httpCode int, body []byte) error {
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Status(httpCode).Send(body)
}

func ResponseJSON(c *fiber.Ctx, httpCode int, message string, data interface{}) error {
	if data == nil {
		switch {
		case httpCode == 200 && message == "Success":
			return send(c, httpCode, successResponse)
		case httpCode == 201 && message == "Created":
			return send(c, httpCode, createdResponse)
		case httpCode == 404 && message == "Not Found":
			return send(c, httpCode, notFoundResponse)
		case httpCode == 401 && message == "Unauthorized":
			return send(c, httpCode, unauthorizedResponse)
		case httpCode == 500 && message == "Internal Server Error":
			return send(c, httpCode, internalErrorResponse)
		}
	}

	body, err := JSONAPI.Marshal(Response{Code: httpCode, Message: message, Data: data})
	if err != nil {
		return err
	}
	return send(c, httpCode, body)
}

// ResponseError writes the error envelope. err may be nil.
func ResponseError(c *fiber.Ctx, httpCode int, message string, err error) error {
	detail := message
	if err != nil {
		detail = err.Error()
	}
	body, mErr := JSONAPI.Marshal(ErrorResponse{Code: httpCode, Message: message, Error: detail})
	if mErr != nil {
		return mErr
	}
	return send(c, httpCode, body)
}

func ResponseOK(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusOK, "Success", data)
}

func ResponseCreated(c *fiber.Ctx, data interface{}) error {
	return ResponseJSON(c, fiber.StatusCreated, "Created", data)
}
