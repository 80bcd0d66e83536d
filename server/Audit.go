package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/reaandrew/a11ygrade/analyzers"
	"github.com/reaandrew/a11ygrade/core"
	"github.com/reaandrew/a11ygrade/metrics"
	"github.com/reaandrew/a11ygrade/report"
)

type AuditRequest struct {
	Code     string `json:"code" validate:"required"`
	FileType string `json:"fileType" validate:"omitempty,max=32"`
	Language string `json:"language" validate:"omitempty,max=32"`
}

type AuditResponse struct {
	Success bool           `json:"success"`
	Report  *report.Report `json:"report,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// Auditor decodes, validates and runs audit requests. It is shared by the
// HTTP handler and the Lambda entry point.
type Auditor struct {
	MaxRequestBytes int64
	validate        *validator.Validate
}

func NewAuditor(maxRequestBytes int64) *Auditor {
	return &Auditor{
		MaxRequestBytes: maxRequestBytes,
		validate:        validator.New(),
	}
}

// Decode parses a JSON body into a validated request.
func (a *Auditor) Decode(body []byte) (AuditRequest, error) {
	var req AuditRequest
	if a.MaxRequestBytes > 0 && int64(len(body)) > a.MaxRequestBytes {
		return req, &ErrTooLarge{Limit: a.MaxRequestBytes}
	}
	if err := json.Unmarshal(body, &req); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) && typeErr.Field == "code" {
			return req, &ErrValidation{Message: "Code is required and must be a string"}
		}
		return req, &ErrValidation{Message: "Invalid JSON: " + err.Error()}
	}
	if err := a.validate.Struct(req); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Field() == "Code" {
			return req, &ErrValidation{Message: "Code is required and must be a string"}
		}
		return req, &ErrValidation{Message: err.Error()}
	}
	return req, nil
}

// Audit runs the analysis the request asks for and records metrics.
func (a *Auditor) Audit(req AuditRequest) (report.Report, error) {
	mode, language := ModeFor(req)

	start := time.Now()
	findings, err := analyzers.SafeAnalyze(func() []core.Finding {
		if mode == analyzers.ModeSource {
			return analyzers.AnalyzeSource(language, req.Code)
		}
		return analyzers.AnalyzeByFileType(req.FileType, req.Code)
	})
	metrics.AuditDuration.WithLabelValues(mode).Observe(time.Since(start).Seconds())
	if err != nil {
		return report.Report{}, err
	}

	r := report.BuildReport(findings)
	metrics.AuditsTotal.WithLabelValues(mode, r.Grade).Inc()
	for _, finding := range findings {
		metrics.FindingsTotal.WithLabelValues(finding.RuleID, string(finding.Severity)).Inc()
	}
	return r, nil
}

// Handle turns a raw body into a status code and response document.
func (a *Auditor) Handle(body []byte) (int, AuditResponse) {
	req, err := a.Decode(body)
	if err == nil {
		var r report.Report
		if r, err = a.Audit(req); err == nil {
			return http.StatusOK, AuditResponse{Success: true, Report: &r}
		}
	}
	return HTTPStatus(err), AuditResponse{Success: false, Error: err.Error()}
}

// ModeFor picks the analysis mode. html and htm are documents, an explicit
// language selects source extraction, any other fileType is a component.
func ModeFor(req AuditRequest) (mode string, language string) {
	if analyzers.IsDocumentType(req.FileType) {
		return analyzers.ModeDocument, ""
	}
	if language = strings.TrimSpace(req.Language); language != "" {
		return analyzers.ModeSource, language
	}
	return analyzers.ModeComponent, ""
}
