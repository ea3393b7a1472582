package logging

import (
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ClassificationRecord is the structured log payload for one classification run.
type ClassificationRecord struct {
	RunID            string
	ImagePath        string
	MaskPath         string
	Mode             string
	HasTransparency  bool
	FullyTransparent bool
	MaskHasContent   bool
	Width            int
	Height           int
	Duration         time.Duration
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (r ClassificationRecord) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", r.RunID)
	if r.ImagePath != "" {
		enc.AddString("image", r.ImagePath)
	}
	if r.MaskPath != "" {
		enc.AddString("mask", r.MaskPath)
	}
	enc.AddString("mode", r.Mode)
	enc.AddBool("has_transparency", r.HasTransparency)
	enc.AddBool("fully_transparent", r.FullyTransparent)
	enc.AddBool("mask_has_content", r.MaskHasContent)
	enc.AddInt("width", r.Width)
	enc.AddInt("height", r.Height)
	enc.AddDuration("duration", r.Duration)
	return nil
}

// ClassificationFields wraps a record into a single "classification" field.
//
// Example:
//
//	logger.Info("classification complete", logging.ClassificationFields(rec))
func ClassificationFields(r ClassificationRecord) zap.Field {
	return zap.Object("classification", r)
}

// ScenarioFields describes a selftest scenario outcome.
func ScenarioFields(name, expected, got string, passed bool) []zap.Field {
	return []zap.Field{
		zap.String("scenario", name),
		zap.String("expected", expected),
		zap.String("got", got),
		zap.Bool("passed", passed),
	}
}
