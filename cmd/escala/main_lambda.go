//go:build lambda

package main

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"

	"github.com/Lob0Garou/Escala-que-Converte/internal/api"
	"github.com/Lob0Garou/Escala-que-Converte/internal/config"
	"github.com/Lob0Garou/Escala-que-Converte/internal/logger"
)

var jsonHeader = map[string]string{
	"Content-Type": "application/json",
}

func newHandler(svc *api.Service) func(context.Context, events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
	return func(_ context.Context, event events.LambdaFunctionURLRequest) (events.LambdaFunctionURLResponse, error) {
		body := []byte(event.Body)
		if event.IsBase64Encoded {
			decoded, err := base64.StdEncoding.DecodeString(event.Body)
			if err != nil {
				return errResp(http.StatusBadRequest, "invalid base64 body")
			}
			body = decoded
		}
		status, out := svc.Dispatch(event.RequestContext.HTTP.Method, event.RawPath, body)
		return events.LambdaFunctionURLResponse{StatusCode: status, Headers: jsonHeader, Body: string(out)}, nil
	}
}

func errResp(code int, msg string) (events.LambdaFunctionURLResponse, error) {
	body, _ := json.Marshal(api.Envelope{Code: api.CodeBadRequest, Message: msg})
	return events.LambdaFunctionURLResponse{StatusCode: code, Headers: jsonHeader, Body: string(body)}, nil
}

func main() {
	cfg, err := config.Load(os.Getenv("ESCALA_CONFIG"))
	if err != nil {
		panic(err)
	}
	log, err := logger.New(&cfg.Log)
	if err != nil {
		panic(err)
	}
	defer log.Sync()
	log.Info("lambda starting", zap.String("function", os.Getenv("AWS_LAMBDA_FUNCTION_NAME")))

	lambda.Start(newHandler(api.NewService(cfg.Optimizer.Tuning(), log)))
}
