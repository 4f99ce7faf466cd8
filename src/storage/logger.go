package storage

import (
	"FlightPrepare/src/config"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// LogLevel 定义日志级别类型
type LogLevel int

// 日志级别常量定义
const (
	DEBUG   LogLevel = iota // 调试信息
	INFO                    // 普通信息
	WARNING                 // 警告信息
	ERROR                   // 错误信息
	FATAL                   // 致命错误
)

// Logger 日志记录器结构体
// 同时输出到标准输出和日志文件
type Logger struct {
	filename    string
	file        *os.File       // 日志文件句柄
	stdout      io.Writer      // 控制台输出
	entry       *logrus.Logger // logrus实例
	mu          sync.Mutex     // 互斥锁，保证并发安全
	subscribers []chan string  // 订阅者通道列表
}

// NewLogger 创建新的日志记录器
// 参数:
//
//	filename: 日志文件路径，为空时只输出到控制台
//
// 返回值:
//
//	*Logger: 日志记录器实例
//	error: 创建过程中的错误
func NewLogger(filename string) (*Logger, error) {
	return newLogger(filename, os.Stdout)
}

func newLogger(filename string, stdout io.Writer) (*Logger, error) {
	l := &Logger{
		filename: filename,
		stdout:   stdout,
		entry:    logrus.New(),
	}
	l.entry.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		DisableColors:   true,
	})
	l.entry.SetLevel(logrus.DebugLevel)
	l.entry.AddHook(&subscriberHook{logger: l})

	if filename != "" {
		file, err := os.OpenFile(filename, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return nil, err
		}
		l.file = file
	}
	l.resetOutput()
	return l, nil
}

// resetOutput 调用方需持有锁或处于初始化阶段
func (l *Logger) resetOutput() {
	if l.file != nil {
		l.entry.SetOutput(io.MultiWriter(l.stdout, l.file))
		return
	}
	l.entry.SetOutput(l.stdout)
}

// SetLevel 按名称设置最低输出级别，如 "debug"、"info"
func (l *Logger) SetLevel(level string) error {
	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		return err
	}
	l.entry.SetLevel(lvl)
	return nil
}

// Log 关闭
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		l.resetOutput()
		return err
	}
	return nil
}

// Reopen 重新打开一个文件
// 参数：
// filename：新文件的路径
// 返回值：
// error：重建文件时的错误
func (l *Logger) Reopen(filename string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 关闭旧文件
	if l.file != nil {
		_ = l.file.Close()
	}

	// 重新打开
	file, err := os.OpenFile(filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		l.resetOutput()
		return err
	}
	l.file = file
	l.filename = filename
	l.resetOutput()
	return nil
}

// Log 记录日志方法
// 参数:
//
//	level: 日志级别
//	message: 日志消息内容
func (l *Logger) Log(level LogLevel, message string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	// FATAL 只记录，不退出进程，退出由调用方决定
	switch level {
	case DEBUG:
		l.entry.Debug(message)
	case INFO:
		l.entry.Info(message)
	case WARNING:
		l.entry.Warn(message)
	case ERROR:
		l.entry.Error(message)
	default:
		l.entry.WithField("fatal", true).Error(message)
	}
}

// CheckRotate 日志文件超过配置大小时轮转
func (l *Logger) CheckRotate(cfg *config.Config) error {
	l.mu.Lock()
	file := l.file
	l.mu.Unlock()

	if file == nil {
		return nil
	}
	info, err := file.Stat()
	if err != nil {
		return err
	}

	limit := eval(cfg.LogMaxSize)
	if limit > 0 && info.Size() > limit {
		return l.rotateLog()
	}
	return nil
}

func (l *Logger) rotateLog() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		l.file.Close()
		ext := ".log"
		base := strings.TrimSuffix(l.filename, ext)
		if err := os.Rename(l.filename, fmt.Sprintf("%s.%s%s", base, time.Now().Format("20060102150405"), ext)); err != nil {
			return err
		}
	}

	file, err := os.OpenFile(l.filename, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0644)
	if err != nil {
		l.file = nil
		l.resetOutput()
		return err
	}
	l.file = file
	l.resetOutput()
	return nil
}

// Subscribe 订阅日志消息
// 返回值:
//
//	<-chan string: 只读通道，用于接收日志消息
func (l *Logger) Subscribe() <-chan string {
	l.mu.Lock()
	defer l.mu.Unlock()

	// 创建带缓冲的通道(容量100)
	ch := make(chan string, 100)
	l.subscribers = append(l.subscribers, ch)
	return ch
}

// subscriberHook 把格式化后的日志条目推送给订阅者
// Fire 在 Log 持有锁时被调用
type subscriberHook struct {
	logger *Logger
}

func (h *subscriberHook) Levels() []logrus.Level {
	return logrus.AllLevels
}

func (h *subscriberHook) Fire(e *logrus.Entry) error {
	if len(h.logger.subscribers) == 0 {
		return nil
	}
	line, err := e.String()
	if err != nil {
		return err
	}
	for _, ch := range h.logger.subscribers {
		select {
		case ch <- line:
		default: // 如果通道已满则跳过
		}
	}
	return nil
}

// String 实现LogLevel的String方法
// 返回值:
//
//	string: 日志级别的字符串表示
func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARNING:
		return "WARNING"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// eval 解析形如 "10 * 1024 * 1024" 的大小表达式
func eval(expr string) int64 {
	parts := strings.Split(expr, "*")
	var result int64 = 1
	for _, part := range parts {
		num, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return 0
		}
		result *= int64(num)
	}
	return result
}

// 以下是快捷日志方法
func (l *Logger) Debug(msg string)   { l.Log(DEBUG, msg) }   // 记录调试信息
func (l *Logger) Info(msg string)    { l.Log(INFO, msg) }    // 记录普通信息
func (l *Logger) Warning(msg string) { l.Log(WARNING, msg) } // 记录警告信息
func (l *Logger) Error(msg string)   { l.Log(ERROR, msg) }   // 记录错误信息
func (l *Logger) Fatal(msg string)   { l.Log(FATAL, msg) }   // 记录致命错误
