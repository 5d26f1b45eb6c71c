package app

import (
	"io"
	"log/slog"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"parcelbee-client/internal/config"
	"parcelbee-client/internal/logx"
)

// NewLogger builds the structured logger selected by cfg. Logs go to w,
// which is stderr in the CLI so they never mix with command output.
func NewLogger(cfg config.Log, w io.Writer) logx.Logger {
	if cfg.Format == "zap" {
		lvl, err := zapcore.ParseLevel(cfg.Level)
		if err != nil {
			lvl = zapcore.InfoLevel
		}
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
			zapcore.AddSync(w),
			lvl,
		)
		return logx.NewZapAdapter(zap.New(core))
	}

	base := slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: logx.ParseLevel(cfg.Level),
	}))
	return logx.NewSlogAdapter(base)
}
