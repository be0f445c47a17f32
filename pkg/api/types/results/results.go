// Package results declares the envelopes of REST responses:
//
//	{"metadata": {"pagination": ..., "status": [...], "datafiles": [...]}, "result": ...}
package results

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Pagination struct {
	PageSize    int `json:"pageSize"`
	CurrentPage int `json:"currentPage"`
	TotalCount  int `json:"totalCount"`
	TotalPages  int `json:"totalPages"`
}

// NewPagination computes total pages. Non-positive pageSize gives 0 pages.
func NewPagination(page, pageSize, total int) *Pagination {
	pages := 0
	if 0 < pageSize {
		pages = (total + pageSize - 1) / pageSize
	}
	return &Pagination{PageSize: pageSize, CurrentPage: page, TotalCount: total, TotalPages: pages}
}

const (
	StatusError = "Error"
	StatusInfo  = "Info"
)

type StatusException struct {
	Type    string `json:"type"`
	Href    string `json:"href,omitempty"`
	Details string `json:"details,omitempty"`
}

// Status reports outcome of a part of request.
type Status struct {
	Message   string          `json:"message"`
	Exception StatusException `json:"exception"`
}

func Error(message string, details string) Status {
	return Status{Message: message, Exception: StatusException{Type: StatusError, Details: details}}
}

func Errorf(message string, format string, args ...any) Status {
	return Error(message, fmt.Sprintf(format, args...))
}

func Info(message string, details string) Status {
	return Status{Message: message, Exception: StatusException{Type: StatusInfo, Details: details}}
}

type Metadata struct {
	Pagination *Pagination `json:"pagination"`
	Status     []Status    `json:"status"`
	Datafiles  []string    `json:"datafiles"`
}

func newMetadata() Metadata {
	return Metadata{Status: []Status{}, Datafiles: []string{}}
}

type Data[T any] struct {
	Data []T `json:"data"`
}

// Response is the body of successful responses.
type Response[R any] struct {
	Metadata Metadata `json:"metadata"`
	Result   R        `json:"result"`
}

// List of a page.
func List[T any](items []T, page, pageSize, total int) Response[Data[T]] {
	if items == nil {
		items = []T{}
	}
	md := newMetadata()
	md.Pagination = NewPagination(page, pageSize, total)
	return Response[Data[T]]{Metadata: md, Result: Data[T]{Data: items}}
}

// Single resource.
func Single[T any](item T) Response[T] {
	return Response[T]{Metadata: newMetadata(), Result: item}
}

// Created lists URIs of created resources in datafiles.
func Created(uris []string, statuses ...Status) Response[any] {
	md := newMetadata()
	if uris != nil {
		md.Datafiles = uris
	}
	md.Status = append(md.Status, statuses...)
	return Response[any]{Metadata: md}
}

// CheckResult collects statuses of checks on a request.
type CheckResult struct {
	Statuses []Status
}

func (cr *CheckResult) Add(s ...Status) {
	cr.Statuses = append(cr.Statuses, s...)
}

// Failf adds an error status.
func (cr *CheckResult) Failf(message string, format string, args ...any) {
	cr.Add(Errorf(message, format, args...))
}

// OK tells no error statuses are collected.
func (cr *CheckResult) OK() bool {
	for _, s := range cr.Statuses {
		if s.Exception.Type == StatusError {
			return false
		}
	}
	return true
}

// Err is nil when OK, otherwise a CheckError with collected statuses.
func (cr *CheckResult) Err() error {
	if cr.OK() {
		return nil
	}
	return &CheckError{Statuses: cr.Statuses}
}

// CheckError reports failed checks. Handlers respond 400 with its statuses.
type CheckError struct {
	Statuses []Status
}

func (ce *CheckError) Error() string {
	msg := "check failed"
	for _, s := range ce.Statuses {
		if s.Exception.Type == StatusError {
			msg += fmt.Sprintf("; %s: %s", s.Message, s.Exception.Details)
		}
	}
	return msg
}

// HTTPError is a 400 response with statuses in metadata.
func (ce *CheckError) HTTPError() *echo.HTTPError {
	md := newMetadata()
	md.Status = append(md.Status, ce.Statuses...)
	return echo.NewHTTPError(
		http.StatusBadRequest, Response[any]{Metadata: md},
	).SetInternal(ce)
}
