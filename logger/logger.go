package logger

import (
	"go.uber.org/zap"
)

// Init builds the process logger and installs it as the zap global so
// packages can log through zap.L().
func Init(mode string) (*zap.Logger, error) {
	var (
		l   *zap.Logger
		err error
	)
	switch mode {
	case "development", "debug":
		l, err = zap.NewDevelopment()
	case "nop":
		l = zap.NewNop()
	default:
		l, err = zap.NewProduction()
	}
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(l)
	return l, nil
}
