// Package observability sets up the process logger and the prometheus
// counters the nodes report into.
package observability

import (
    "fmt"
    "os"
    "path/filepath"
    "strings"

    "go.uber.org/zap"
    "go.uber.org/zap/zapcore"
    "gopkg.in/natefinch/lumberjack.v2"

    "lightmesh/pkg/config"
)

// SetupLogger builds the process logger from c, installs it as the zap
// global and routes the stdlib log package through it. Every output gets its
// own core behind one tee. The caller should defer logger.Sync().
func SetupLogger(c config.LogConfig) (*zap.Logger, error) {
    level := zap.NewAtomicLevelAt(parseLevel(c.Level))
    enc := newEncoder(c)

    outs := c.Outputs
    if len(outs) == 0 { outs = []string{"stdout"} }
    cores := make([]zapcore.Core, 0, len(outs))
    for _, out := range outs {
        ws, err := writerFor(out, c)
        if err != nil { return nil, fmt.Errorf("log output %q: %w", out, err) }
        cores = append(cores, zapcore.NewCore(enc, ws, level))
    }

    opts := []zap.Option{zap.AddCaller(), zap.AddStacktrace(zap.ErrorLevel)}
    if c.Development { opts = append(opts, zap.Development()) }
    logger := zap.New(zapcore.NewTee(cores...), opts...)

    zap.ReplaceGlobals(logger)
    _, _ = zap.RedirectStdLogAt(logger, zap.InfoLevel)
    return logger, nil
}

func newEncoder(c config.LogConfig) zapcore.Encoder {
    ec := zap.NewProductionEncoderConfig()
    if c.Development {
        ec = zap.NewDevelopmentEncoderConfig()
        ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
    }
    if strings.EqualFold(c.Format, "json") {
        // colour codes do not belong in json
        if c.Development { ec.EncodeLevel = zapcore.CapitalLevelEncoder }
        return zapcore.NewJSONEncoder(ec)
    }
    return zapcore.NewConsoleEncoder(ec)
}

// writerFor maps one configured output to a sink. Anything that is not
// stdout or stderr is a file path, rotated by lumberjack when enabled.
func writerFor(out string, c config.LogConfig) (zapcore.WriteSyncer, error) {
    switch strings.ToLower(strings.TrimSpace(out)) {
    case "stdout":
        return zapcore.Lock(os.Stdout), nil
    case "stderr":
        return zapcore.Lock(os.Stderr), nil
    }
    if c.Rotation.Enable {
        name := out
        if f := strings.TrimSpace(c.Rotation.Filename); f != "" { name = f }
        return zapcore.AddSync(&lumberjack.Logger{
            Filename:   name,
            MaxSize:    atLeast(c.Rotation.MaxSizeMB, 10),
            MaxBackups: atLeast(c.Rotation.MaxBackups, 1),
            MaxAge:     atLeast(c.Rotation.MaxAgeDays, 7),
            Compress:   c.Rotation.Compress,
        }), nil
    }
    if err := os.MkdirAll(filepath.Dir(out), 0o755); err != nil { return nil, err }
    f, err := os.OpenFile(out, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
    if err != nil { return nil, err }
    return zapcore.AddSync(f), nil
}

func parseLevel(s string) zapcore.Level {
    switch strings.ToLower(strings.TrimSpace(s)) {
    case "debug":
        return zap.DebugLevel
    case "warn", "warning":
        return zap.WarnLevel
    case "error":
        return zap.ErrorLevel
    default:
        return zap.InfoLevel
    }
}

func atLeast(v, floor int) int {
    if v < floor { return floor }
    return v
}
