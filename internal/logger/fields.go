package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by packages that log about messages and replies.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldReplica   = "replica"
	FieldCategory  = "category"
	FieldMessageID = "message_id"
)

// Fields turns key/value pairs into zap string fields. Pairs with a blank key
// or value are skipped, as is a trailing key without a value.
func Fields(kv ...string) []zap.Field {
	result := make([]zap.Field, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key := strings.TrimSpace(kv[i])
		value := strings.TrimSpace(kv[i+1])
		if key == "" || value == "" {
			continue
		}
		result = append(result, zap.String(key, value))
	}
	return result
}

// With attaches fields to logger. A nil logger becomes a no-op one.
func With(logger *zap.Logger, fields ...zap.Field) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}

	if len(fields) == 0 {
		return logger
	}

	return logger.With(fields...)
}

// AIFields describe the provider and model behind a reply.
func AIFields(provider, model string) []zap.Field {
	return Fields(FieldProvider, provider, FieldModel, model)
}

// WithAI is With(logger, AIFields(provider, model)...).
func WithAI(logger *zap.Logger, provider, model string) *zap.Logger {
	return With(logger, AIFields(provider, model)...)
}

// SessionFields describe the replica that wrote a message and the people category it is about.
func SessionFields(replica, category string) []zap.Field {
	return Fields(FieldReplica, replica, FieldCategory, category)
}

// MessageFields are SessionFields plus the message id.
func MessageFields(id, replica, category string) []zap.Field {
	return append(Fields(FieldMessageID, id), SessionFields(replica, category)...)
}
