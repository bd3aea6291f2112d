// Package log wraps go-zero's logx and forwards errors to Rollbar when a
// token has been configured.
package log

import (
	"context"
	"fmt"

	"github.com/rollbar/rollbar-go"
	rollbarerrors "github.com/rollbar/rollbar-go/errors"
	"github.com/zeromicro/go-zero/core/logx"
)

var reporting bool

// Setup configures logx and enables Rollbar when token is not empty.
func Setup(env string, debug bool, token string) {
	logx.DisableStat()
	if debug {
		logx.SetLevel(logx.DebugLevel)
	} else {
		logx.SetLevel(logx.InfoLevel)
	}

	reporting = token != ""
	rollbar.SetEnabled(reporting)
	if reporting {
		rollbar.SetToken(token)
		rollbar.SetEnvironment(env)
		rollbar.SetStackTracer(rollbarerrors.StackTracer)
	}
}

// Close flushes pending Rollbar items.
func Close() {
	if reporting {
		rollbar.Close()
	}
}

func Info(format string, args ...interface{}) {
	logx.Infof(format, args...)
}

func Debug(format string, args ...interface{}) {
	logx.Debugf(format, args...)
}

func Error(format string, args ...interface{}) {
	logx.Errorf(format, args...)
}

func CtxInfo(ctx context.Context, format string, args ...interface{}) {
	logx.WithContext(ctx).Infof(format, args...)
}

func CtxError(ctx context.Context, format string, args ...interface{}) {
	logx.WithContext(ctx).Errorf(format, args...)
}

// Report logs err and sends it to Rollbar together with extra fields.
func Report(ctx context.Context, err error, extras map[string]interface{}) {
	CtxError(ctx, "%+v", err)
	if !reporting {
		return
	}
	if extras == nil {
		extras = map[string]interface{}{}
	}
	rollbar.Error(err, extras)
}

// Fatal logs and exits.
func Fatal(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if reporting {
		rollbar.Critical(msg)
		rollbar.Close()
	}
	logx.Must(fmt.Errorf("%s", msg))
}
