package json

import (
	"net/http"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

func WriteError(w http.ResponseWriter, status int, msg string) {
	Write(w, status, ErrorResponse{
		Error:   http.StatusText(status),
		Message: msg,
	})
}

func WriteNotFoundError(w http.ResponseWriter) {
	WriteError(w, http.StatusNotFound, "The requested resource does not exist")
}

func WriteMethodNotAllowedError(w http.ResponseWriter) {
	WriteError(w, http.StatusMethodNotAllowed, "The method is not allowed for the requested resource")
}
