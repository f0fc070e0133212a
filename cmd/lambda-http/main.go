package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"advisory-backend/internal/bootstrap"
	"advisory-backend/internal/shared/config"
	"advisory-backend/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	app       *bootstrap.App
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	if cfg.ObjectStoreType != "s3" {
		telemetry.Warn("lambda.object_store.local", map[string]any{
			"detail": "staged exports are lost between invocations without OBJECT_STORE=s3",
		})
	}
	app, initErr = bootstrap.Build(cfg)
	if initErr != nil {
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("bootstrap.failed", map[string]any{"error": initErr})
		return errorResponse(http.StatusInternalServerError, "internal", "Unexpected server error"), nil
	}

	// Revoke timers from earlier invocations stall while the environment is
	// frozen; run whatever came due in the meantime.
	if n := app.Revokes.RunDue(); n > 0 {
		telemetry.Info("lambda.revokes.caught_up", map[string]any{
			"ran":     n,
			"pending": app.Revokes.Pending(),
		})
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

func errorResponse(status int, code, message string) events.APIGatewayV2HTTPResponse {
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Body:       `{"error":{"code":"` + code + `","message":"` + message + `"}}`,
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
