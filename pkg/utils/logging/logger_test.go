package logging_test

import (
	"bytes"
	"context"
	"testing"

	"github.com/hablacanaria/hablabot/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

func TestNewLevels(t *testing.T) {
	testCases := map[string]struct {
		level string
		shown []string
		muted []string
	}{
		"debug shows rejections and ignored input": {
			level: "debug",
			shown: []string{"input ignored", "input rejected", "retryable fault"},
		},
		"info hides ignored input": {
			level: "info",
			shown: []string{"input rejected", "retryable fault"},
			muted: []string{"input ignored"},
		},
		"warn keeps faults only": {
			level: "WARN",
			shown: []string{"retryable fault"},
			muted: []string{"input ignored", "input rejected"},
		},
		"unknown level falls back to info": {
			level: "verbose",
			shown: []string{"invalid log level", "input rejected"},
			muted: []string{"input ignored"},
		},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			logger := logging.New(tc.level, buf)

			logger.Debug("input ignored")
			logger.Info("input rejected")
			logger.Warn("retryable fault")

			for _, msg := range tc.shown {
				gt.S(t, buf.String()).Contains(msg)
			}
			for _, msg := range tc.muted {
				gt.S(t, buf.String()).NotContains(msg)
			}
		})
	}
}

func TestFromFallsBackToDefault(t *testing.T) {
	original := logging.Default()
	defer logging.SetDefault(original)

	buf := &bytes.Buffer{}
	logging.SetDefault(logging.New("info", buf))

	logging.From(context.Background()).Info("from default")
	gt.S(t, buf.String()).Contains("from default")
}

func TestWithAttrs(t *testing.T) {
	buf := &bytes.Buffer{}
	ctx := logging.With(context.Background(), logging.New("info", buf))
	ctx = logging.WithAttrs(ctx, "user_id", "u-42")
	ctx = logging.WithAttrs(ctx, "state", "email")

	logging.From(ctx).Info("input rejected")
	output := buf.String()
	gt.S(t, output).Contains("input rejected")
	gt.S(t, output).Contains("u-42")
	gt.S(t, output).Contains("email")
}

func TestGoerrValuesAreLogged(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := logging.New("info", buf)

	err := goerr.New("failed to save answer", goerr.V("question_id", "MC-007"))
	logger.Error("conversation aborted", "error", err)

	gt.S(t, buf.String()).Contains("failed to save answer")
	gt.S(t, buf.String()).Contains("MC-007")
}
