package debug

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	"github.com/signadot/ydata/encode"
	"github.com/signadot/ydata/format"
	"github.com/signadot/ydata/ir"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logMu  sync.Mutex
	logger *zap.SugaredLogger
)

func defaultLogger() *zap.SugaredLogger {
	cfg := zap.NewDevelopmentConfig()
	cfg.DisableStacktrace = true
	cfg.DisableCaller = true
	cfg.EncoderConfig.TimeKey = ""
	cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar().Named("yd")
}

// SetLogger replaces the logger used by Logf.  A nil logger restores the
// default stderr logger.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	if l == nil {
		logger = nil
		return
	}
	logger = l.Sugar()
}

// Logger returns the logger used by Logf.
func Logger() *zap.SugaredLogger {
	logMu.Lock()
	defer logMu.Unlock()
	if logger == nil {
		logger = defaultLogger()
	}
	return logger
}

type IR struct{ Nodes []*ir.Node }

func (x IR) String() string {
	buf := bytes.NewBuffer(nil)
	if err := encode.Encode(x.Nodes, buf, encode.EncodeFormat(format.JSONFormat), encode.EncodeShrink(true)); err != nil {
		return fmt.Sprintf("[raw ir] %v", x.Nodes)
	}
	return strings.TrimSpace(buf.String())
}

func Logf(msg string, args ...any) {
	for i := range args {
		switch x := args[i].(type) {
		case *ir.Node:
			args[i] = IR{Nodes: []*ir.Node{x}}.String()
		case []*ir.Node:
			args[i] = IR{Nodes: x}.String()
		}
	}
	Logger().Debug(strings.TrimRight(fmt.Sprintf(msg, args...), "\n"))
}
