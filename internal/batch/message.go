package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"

	"cv-contacts/internal/exports"
	"cv-contacts/internal/queue"
)

// MessageMeta captures details useful for logging and diagnostics.
type MessageMeta struct {
	BodyLen int
	BodySHA string
}

// ComputeMeta returns the body length and SHA-256 hash.
func ComputeMeta(body string) MessageMeta {
	if body == "" {
		return MessageMeta{}
	}
	sum := sha256.Sum256([]byte(body))
	return MessageMeta{BodyLen: len(body), BodySHA: hex.EncodeToString(sum[:])}
}

// ErrEmptyBody indicates an empty queue payload.
type ErrEmptyBody struct {
	Meta MessageMeta
}

func (e ErrEmptyBody) Error() string { return "empty message body" }

// ErrDecode indicates a JSON decode failure.
type ErrDecode struct {
	Meta MessageMeta
	Err  error
}

func (e ErrDecode) Error() string {
	if e.Err == nil {
		return "decode message"
	}
	return "decode message: " + e.Err.Error()
}

func (e ErrDecode) Unwrap() error { return e.Err }

// ErrMissingDocumentKey indicates a message without a document key.
type ErrMissingDocumentKey struct {
	Meta      MessageMeta
	RequestID string
}

func (e ErrMissingDocumentKey) Error() string { return "missing document key" }

// ErrProcess indicates processing failed after successful parsing.
// Permanent failures will not succeed on redelivery.
type ErrProcess struct {
	DocumentKey string
	RequestID   string
	Permanent   bool
	Err         error
}

func (e ErrProcess) Error() string {
	if e.Err == nil {
		return "process document"
	}
	return "process document: " + e.Err.Error()
}

func (e ErrProcess) Unwrap() error { return e.Err }

// DocumentProcessor handles one decoded batch message.
type DocumentProcessor interface {
	ProcessDocument(ctx context.Context, msg queue.Message) (exports.Entry, error)
}

// ParseMessage validates and decodes the queue payload.
func ParseMessage(body string) (queue.Message, MessageMeta, error) {
	meta := ComputeMeta(body)
	if strings.TrimSpace(body) == "" {
		return queue.Message{}, meta, ErrEmptyBody{Meta: meta}
	}

	msg, err := queue.DecodeMessage([]byte(body))
	if err != nil {
		return queue.Message{}, meta, ErrDecode{Meta: meta, Err: err}
	}
	if msg.DocumentKey == "" {
		return msg, meta, ErrMissingDocumentKey{Meta: meta, RequestID: msg.RequestID}
	}
	return msg, meta, nil
}

// HandleMessage parses, validates and processes a message payload.
func HandleMessage(ctx context.Context, proc DocumentProcessor, body string) error {
	if proc == nil {
		return errors.New("batch processor not configured")
	}

	msg, _, err := ParseMessage(body)
	if err != nil {
		return err
	}

	if _, err := proc.ProcessDocument(ctx, msg); err != nil {
		return ErrProcess{
			DocumentKey: msg.DocumentKey,
			RequestID:   msg.RequestID,
			Permanent:   IsPermanent(err),
			Err:         err,
		}
	}
	return nil
}

// Unrecoverable reports whether a HandleMessage error means the message
// should be dropped instead of redelivered.
func Unrecoverable(err error) bool {
	switch e := err.(type) {
	case nil:
		return false
	case ErrEmptyBody, ErrDecode, ErrMissingDocumentKey:
		return true
	case ErrProcess:
		return e.Permanent
	default:
		return false
	}
}
