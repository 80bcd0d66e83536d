package reporters

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/reaandrew/a11ygrade/core"
	log "github.com/sirupsen/logrus"
)

type ReportIdGenerator interface {
	Generate() string
}

type UuidReportGenerator struct{}

func (u UuidReportGenerator) Generate() string {
	return uuid.New().String()
}

type HttpClient interface {
	Do(req *http.Request) (*http.Response, error)
}

func NewDefaultHttpReporter(baseUrl string) HttpReporter {
	return HttpReporter{
		BaseURL:           baseUrl,
		HTTPClient:        &http.Client{Timeout: 30 * time.Second},
		ReportIdGenerator: UuidReportGenerator{},
	}
}

// HttpReporter posts every stored audit set to
// {BaseURL}/reports/{id}/results and then marks the report complete with a
// PATCH to {BaseURL}/report/{id}.
type HttpReporter struct {
	BaseURL           string
	HTTPClient        HttpClient
	ReportIdGenerator ReportIdGenerator
}

func (h HttpReporter) Report(repository core.FindingRepository) error {
	if h.BaseURL == "" {
		return fmt.Errorf("http reporter requires a base url")
	}

	reportId := h.ReportIdGenerator.Generate()
	log.Infof("Reporting to %s as report %s", h.BaseURL, reportId)

	iterator := repository.NewIterator()
	for iterator.HasNext() {
		set, err := iterator.Next()
		if err != nil {
			return fmt.Errorf("failed to retrieve next audit set: %w", err)
		}
		if err := h.postAudits(set, reportId); err != nil {
			return fmt.Errorf("failed to report audit set: %w", err)
		}
	}

	if err := h.signalCompletion(reportId); err != nil {
		return fmt.Errorf("failed to signal completion: %w", err)
	}
	return nil
}

func (h HttpReporter) postAudits(set core.FindingSet, reportId string) error {
	url := fmt.Sprintf("%s/reports/%s/results", h.BaseURL, reportId)

	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal audits: %w", err)
	}
	return h.send(http.MethodPost, url, payload)
}

func (h HttpReporter) signalCompletion(reportId string) error {
	url := fmt.Sprintf("%s/report/%s", h.BaseURL, reportId)
	return h.send(http.MethodPatch, url, []byte(`{"status":"completed"}`))
}

func (h HttpReporter) send(method, url string, payload []byte) error {
	req, err := http.NewRequest(method, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("unexpected response status from %s %s: %d", method, url, resp.StatusCode)
	}
	return nil
}
