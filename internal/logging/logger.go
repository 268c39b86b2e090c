package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/21haoxingxiu/core/internal/config"
)

// New builds the process logger. Release mode writes JSON to stdout and a
// rotated file; every entry carries the worker id so multi-worker logs can
// be told apart.
func New(cfg *config.Config) (*zap.Logger, error) {
	fields := zap.Fields(
		zap.String("service", cfg.OTELServiceName),
		zap.Int("worker_id", cfg.WorkerID),
	)
	if os.Getenv("GIN_MODE") == "release" {
		if err := os.MkdirAll("logs", 0o755); err != nil {
			return nil, err
		}
		encoderCfg := zap.NewProductionEncoderConfig()
		encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
		core := zapcore.NewCore(
			zapcore.NewJSONEncoder(encoderCfg),
			zapcore.NewMultiWriteSyncer(
				zapcore.AddSync(os.Stdout),
				zapcore.AddSync(&lumberjack.Logger{
					Filename:   "logs/core.log",
					MaxSize:    50,
					MaxBackups: 5,
					MaxAge:     14,
					Compress:   true,
				}),
			),
			zap.InfoLevel,
		)
		return zap.New(core, fields), nil
	}
	return zap.NewDevelopment(fields)
}
