package server

import (
	"github.com/rezonia/satr/internal/model"
	xmlparser "github.com/rezonia/satr/internal/parser/xml"
)

// InvoicesResponse is the response for the invoices endpoint
type InvoicesResponse struct {
	Count    int              `json:"count"`
	Invoices []*model.Invoice `json:"invoices"`
}

// ReportResponse is the response for the report endpoint
type ReportResponse struct {
	Field string `json:"field"`
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ParseResponse is the response for the parse endpoint
type ParseResponse struct {
	Invoice *model.Invoice `json:"invoice"`
}

// InfoResponse is the response for the info endpoint
type InfoResponse struct {
	*xmlparser.Summary
	Size int `json:"size"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error     string `json:"error"`
	Field     string `json:"field,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}
