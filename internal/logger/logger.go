package logger

import (
	"fmt"
	"os"
	"strings"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// LogLevel 日志级别
type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

// Logger 自定义日志器，printf 风格输出
type Logger struct {
	sugar *zap.SugaredLogger
	level zap.AtomicLevel
}

// Options 日志输出配置
type Options struct {
	Level      string // debug, info, warn, error, fatal
	Output     string // stdout, stderr, file
	File       string // output 为 file 时的日志文件路径
	MaxSize    int    // 每个日志文件的最大大小（MB）
	MaxBackups int    // 保留的旧日志文件数量
	MaxAge     int    // 保留日志文件的天数
	Compress   bool   // 是否压缩旧日志文件
}

var defaultLogger *Logger

func init() {
	defaultLogger = newWithSink(INFO, zapcore.Lock(os.Stdout))
}

// New 创建输出到标准输出的日志器
func New(level LogLevel) *Logger {
	return newWithSink(level, zapcore.Lock(os.Stdout))
}

// NewWithOptions 按配置创建日志器
func NewWithOptions(opts Options) (*Logger, error) {
	level := ParseLogLevel(opts.Level)
	switch strings.ToLower(opts.Output) {
	case "", "stdout":
		return newWithSink(level, zapcore.Lock(os.Stdout)), nil
	case "stderr":
		return newWithSink(level, zapcore.Lock(os.Stderr)), nil
	case "file":
		if opts.File == "" {
			return nil, fmt.Errorf("log output is file but no file path given")
		}
		return newWithSink(level, zapcore.AddSync(rotatingFile(opts))), nil
	default:
		return nil, fmt.Errorf("unknown log output %q", opts.Output)
	}
}

// Init 按配置创建日志器并替换默认日志器
func Init(opts Options) error {
	l, err := NewWithOptions(opts)
	if err != nil {
		return err
	}
	SetDefaultLogger(l)
	return nil
}

func rotatingFile(opts Options) *lumberjack.Logger {
	// 设置默认值
	if opts.MaxSize == 0 {
		opts.MaxSize = 100
	}
	if opts.MaxBackups == 0 {
		opts.MaxBackups = 3
	}
	if opts.MaxAge == 0 {
		opts.MaxAge = 28
	}
	return &lumberjack.Logger{
		Filename:   opts.File,
		MaxSize:    opts.MaxSize,
		MaxBackups: opts.MaxBackups,
		MaxAge:     opts.MaxAge,
		Compress:   opts.Compress,
	}
}

func newWithSink(level LogLevel, sink zapcore.WriteSyncer) *Logger {
	atom := zap.NewAtomicLevelAt(zapLevelFromLogLevel(level))

	var encoder zapcore.Encoder
	if level == DEBUG {
		encoder = zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig())
	} else {
		encoder = zapcore.NewJSONEncoder(encoderConfig())
	}
	core := zapcore.NewCore(encoder, sink, atom)
	return &Logger{
		sugar: zap.New(core, zap.AddCaller(), zap.AddCallerSkip(2)).Sugar(),
		level: atom,
	}
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
		enc.AppendString(t.Format("2006-01-02 15:04:05"))
	}
	cfg.CallerKey = "caller"
	cfg.EncodeCaller = zapcore.ShortCallerEncoder
	cfg.LevelKey = "level"
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.MessageKey = "message"
	cfg.EncodeName = zapcore.FullNameEncoder
	return cfg
}

// SetLevel 设置日志级别
func (l *Logger) SetLevel(level LogLevel) {
	l.level.SetLevel(zapLevelFromLogLevel(level))
}

// Enabled 该级别是否会输出
func (l *Logger) Enabled(level LogLevel) bool {
	return l.level.Enabled(zapLevelFromLogLevel(level))
}

func (l *Logger) Debug(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }
func (l *Logger) Info(format string, args ...interface{})  { l.sugar.Infof(format, args...) }
func (l *Logger) Warn(format string, args ...interface{})  { l.sugar.Warnf(format, args...) }
func (l *Logger) Error(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }
func (l *Logger) Fatal(format string, args ...interface{}) { l.sugar.Fatalf(format, args...) }

// Sync 刷新缓冲
func (l *Logger) Sync() {
	_ = l.sugar.Sync()
}

// Named 子模块日志器，与父日志器共享级别
func (l *Logger) Named(name string) *Logger {
	return &Logger{sugar: l.sugar.Named(name), level: l.level}
}

// SetDefaultLogger 替换包级默认日志器
func SetDefaultLogger(l *Logger) {
	if defaultLogger != nil {
		defaultLogger.Sync()
	}
	defaultLogger = l
}

func Debug(format string, args ...interface{}) { defaultLogger.Debug(format, args...) }
func Info(format string, args ...interface{})  { defaultLogger.Info(format, args...) }
func Warn(format string, args ...interface{})  { defaultLogger.Warn(format, args...) }
func Error(format string, args ...interface{}) { defaultLogger.Error(format, args...) }
func Fatal(format string, args ...interface{}) { defaultLogger.Fatal(format, args...) }
func Sync()                                    { defaultLogger.Sync() }

// ParseLogLevel 解析日志级别字符串
func ParseLogLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DEBUG
	case "info":
		return INFO
	case "warn", "warning":
		return WARN
	case "error":
		return ERROR
	case "fatal":
		return FATAL
	default:
		return INFO
	}
}

// zapLevelFromLogLevel 转换日志级别
func zapLevelFromLogLevel(level LogLevel) zapcore.Level {
	switch level {
	case DEBUG:
		return zapcore.DebugLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	case FATAL:
		return zapcore.FatalLevel
	default:
		return zapcore.InfoLevel
	}
}
