package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=amd64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-worker

import (
	"context"
	"log"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"

	"cv-contacts/internal/batch"
	"cv-contacts/internal/bootstrap"
	"cv-contacts/internal/shared/config"
	"cv-contacts/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	processor batch.DocumentProcessor
)

func initApp() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)
	built, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	processor = built.Processor
}

func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		log.Printf("bootstrap error: %v", initErr)
		failures := make([]events.SQSBatchItemFailure, 0, len(event.Records))
		for _, record := range event.Records {
			failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
		return events.SQSEventResponse{BatchItemFailures: failures}, initErr
	}
	return processRecords(ctx, processor, event.Records), nil
}

// processRecords reports transient failures for redelivery. Messages that
// can never succeed are logged and acknowledged.
func processRecords(ctx context.Context, proc batch.DocumentProcessor, records []events.SQSMessage) events.SQSEventResponse {
	failures := make([]events.SQSBatchItemFailure, 0)
	for _, record := range records {
		err := batch.HandleMessage(ctx, proc, record.Body)
		if err == nil {
			continue
		}
		fields := map[string]any{
			"sqs_message_id": record.MessageId,
			"error":          err.Error(),
		}
		if batch.Unrecoverable(err) {
			telemetry.Error("worker.document.dropped", fields)
			continue
		}
		telemetry.Error("worker.document.failed", fields)
		failures = append(failures, events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
	}
	return events.SQSEventResponse{BatchItemFailures: failures}
}

func main() {
	lambda.Start(handler)
}
