package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
	"github.com/reaandrew/a11ygrade/server"
	log "github.com/sirupsen/logrus"
)

// LambdaHandler answers API Gateway proxy requests with the same body and
// responses as POST /api/audit.
type LambdaHandler struct {
	Auditor *server.Auditor
}

func (h LambdaHandler) Handle(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	body := []byte(request.Body)
	if request.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(request.Body)
		if err != nil {
			return toAPIGatewayResponse(http.StatusBadRequest, server.AuditResponse{Error: "Invalid base64 body"}), nil
		}
		body = decoded
	}

	status, resp := h.Auditor.Handle(body)
	log.WithFields(log.Fields{
		"request_id": request.RequestContext.RequestID,
		"status":     status,
	}).Info("audit request")
	if status >= http.StatusInternalServerError {
		log.Errorf("Error analyzing code: %s", resp.Error)
	}
	return toAPIGatewayResponse(status, resp), nil
}

// toAPIGatewayResponse converts an audit response to events.APIGatewayProxyResponse
func toAPIGatewayResponse(statusCode int, resp server.AuditResponse) events.APIGatewayProxyResponse {
	body, err := json.Marshal(resp)
	if err != nil {
		statusCode = http.StatusInternalServerError
		body = []byte(`{"success":false,"error":"failed to encode response"}`)
	}
	return events.APIGatewayProxyResponse{
		StatusCode: statusCode,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body:            string(body),
		IsBase64Encoded: false,
	}
}
