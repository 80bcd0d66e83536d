package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/aws/aws-lambda-go/events"
	"github.com/reaandrew/a11ygrade/server"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func invoke(t *testing.T, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, server.AuditResponse) {
	t.Helper()
	handler := LambdaHandler{Auditor: server.NewAuditor(1 << 10)}
	resp, err := handler.Handle(context.Background(), request)
	require.NoError(t, err)

	var body server.AuditResponse
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &body))
	return resp, body
}

func TestLambdaHandler_Audit(t *testing.T) {
	resp, body := invoke(t, events.APIGatewayProxyRequest{
		Body: `{"code":"<a>home</a>","fileType":"html"}`,
	})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["Content-Type"])
	require.True(t, body.Success)
	assert.Equal(t, "anchor-href", body.Report.Issues[0].RuleID)
	assert.Equal(t, 90, body.Report.Score)
}

func TestLambdaHandler_Base64Body(t *testing.T) {
	encoded := base64.StdEncoding.EncodeToString([]byte(`{"code":"export const A = () => <img src=\"a.png\" alt=\"Logo\" />;"}`))

	resp, body := invoke(t, events.APIGatewayProxyRequest{Body: encoded, IsBase64Encoded: true})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 100, body.Report.Score)
}

func TestLambdaHandler_BadRequests(t *testing.T) {
	for _, raw := range []string{`not json`, `{"fileType":"html"}`} {
		resp, body := invoke(t, events.APIGatewayProxyRequest{Body: raw})

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, raw)
		assert.False(t, body.Success)
		assert.NotEmpty(t, body.Error)
	}
}

func TestLambdaHandler_TooLarge(t *testing.T) {
	big := make([]byte, 2048)
	for i := range big {
		big[i] = 'a'
	}
	resp, body := invoke(t, events.APIGatewayProxyRequest{Body: `{"code":"` + string(big) + `"}`})

	assert.Equal(t, http.StatusRequestEntityTooLarge, resp.StatusCode)
	assert.False(t, body.Success)
}
