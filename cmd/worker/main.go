package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	sqstypes "github.com/aws/aws-sdk-go-v2/service/sqs/types"

	"cv-contacts/internal/batch"
	"cv-contacts/internal/bootstrap"
	"cv-contacts/internal/queue"
	"cv-contacts/internal/shared/config"
	"cv-contacts/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.SetLevel(cfg.LogLevel)

	queueURL := cfg.SQSQueueURL
	if queueURL == "" {
		log.Fatal("SQS_QUEUE_URL is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	region := cfg.AWSRegion
	if region == "" {
		region = queue.DefaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		log.Fatalf("load aws config: %v", err)
	}
	var sqsClient sqsAPI = sqs.NewFromConfig(awsCfg)

	app, err := bootstrap.Build(cfg)
	if err != nil {
		log.Fatalf("bootstrap build: %v", err)
	}
	defer app.Close()

	log.Printf("worker started queue=%s concurrency=%d visibility=%ds", queueURL, cfg.WorkerConcurrency, cfg.WorkerVisibilitySeconds)
	w := &worker{
		client:     sqsClient,
		queueURL:   queueURL,
		proc:       app.Processor,
		visibility: int32(cfg.WorkerVisibilitySeconds),
	}
	w.run(ctx, cfg.WorkerConcurrency)

	log.Printf("shutdown requested, waiting up to %s for in-flight jobs", cfg.ShutdownTimeout)
	if !w.wait(cfg.ShutdownTimeout) {
		log.Printf("shutdown timeout reached; exiting with in-flight jobs")
	}
}

type sqsAPI interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type worker struct {
	client     sqsAPI
	queueURL   string
	proc       batch.DocumentProcessor
	visibility int32
	wg         sync.WaitGroup
}

// run long-polls until ctx is canceled, handling at most concurrency
// messages at a time.
func (w *worker) run(ctx context.Context, concurrency int) {
	sem := make(chan struct{}, max(1, concurrency))

	for {
		if ctx.Err() != nil {
			return
		}

		resp, err := w.client.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            aws.String(w.queueURL),
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   w.visibility,
			MessageSystemAttributeNames: []sqstypes.MessageSystemAttributeName{
				sqstypes.MessageSystemAttributeNameApproximateReceiveCount,
			},
		})
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
				return
			}
			telemetry.Error("worker.receive_failed", map[string]any{"error": err.Error()})
			continue
		}

		for _, msg := range resp.Messages {
			select {
			case <-ctx.Done():
				return
			case sem <- struct{}{}:
			}
			w.wg.Add(1)
			go func(m sqstypes.Message) {
				defer w.wg.Done()
				defer func() { <-sem }()
				// In-flight jobs finish even after shutdown is requested.
				w.handleMessage(context.WithoutCancel(ctx), m)
			}(msg)
		}
	}
}

func (w *worker) wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}

func (w *worker) handleMessage(ctx context.Context, msg sqstypes.Message) {
	body := aws.ToString(msg.Body)
	err := batch.HandleMessage(ctx, w.proc, body)
	if err == nil {
		if w.deleteMessage(ctx, msg, nil) {
			telemetry.Info("worker.document.completed", baseFields(msg, body, nil))
		}
		return
	}

	if batch.Unrecoverable(err) {
		telemetry.Error("worker.document.dropped", baseFields(msg, body, err))
		w.deleteMessage(ctx, msg, err)
		return
	}
	telemetry.Error("worker.document.failed", baseFields(msg, body, err))
}

func (w *worker) deleteMessage(ctx context.Context, msg sqstypes.Message, cause error) bool {
	receipt := aws.ToString(msg.ReceiptHandle)
	if receipt == "" {
		fields := baseFields(msg, "", cause)
		fields["delete_error"] = "missing receipt handle"
		telemetry.Error("worker.document.delete_failed", fields)
		return false
	}
	if _, err := w.client.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      aws.String(w.queueURL),
		ReceiptHandle: aws.String(receipt),
	}); err != nil {
		fields := baseFields(msg, "", cause)
		fields["delete_error"] = err.Error()
		telemetry.Error("worker.document.delete_failed", fields)
		return false
	}
	return true
}

func baseFields(msg sqstypes.Message, body string, err error) map[string]any {
	fields := map[string]any{
		"sqs_message_id": aws.ToString(msg.MessageId),
		"receive_count":  receiveCount(msg),
	}
	if body != "" {
		meta := batch.ComputeMeta(body)
		fields["body_len"] = meta.BodyLen
		fields["body_sha256"] = meta.BodySHA
	}
	var procErr batch.ErrProcess
	if errors.As(err, &procErr) {
		fields["document_key"] = procErr.DocumentKey
		if strings.TrimSpace(procErr.RequestID) != "" {
			fields["request_id"] = procErr.RequestID
		}
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	return fields
}

func receiveCount(msg sqstypes.Message) int {
	raw := msg.Attributes[string(sqstypes.MessageSystemAttributeNameApproximateReceiveCount)]
	if raw == "" {
		return 0
	}
	parsed, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return parsed
}
