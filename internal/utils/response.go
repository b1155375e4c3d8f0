package utils

import "github.com/labstack/echo/v4"

// ApiResponse is the uniform success envelope returned by every endpoint.
// Status mirrors the HTTP status code set on the response.
type ApiResponse struct {
	Status  int         `json:"status"`
	Data    interface{} `json:"data"`
	Message string      `json:"message"`
}

// ApiError is the uniform error envelope. It carries no structured error
// code beyond the status itself.
type ApiError struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}

// Respond writes the success envelope with the given HTTP status.
func Respond(c echo.Context, status int, data interface{}, message string) error {
	return c.JSON(status, ApiResponse{Status: status, Data: data, Message: message})
}

// Fail writes the error envelope with the given HTTP status.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, ApiError{Status: status, Message: message})
}
