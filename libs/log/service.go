package log

import (
	tmlog "github.com/tendermint/tendermint/libs/log"
)

// ServiceLogger adapts l to the logger taken by tendermint services, such as
// the ABCI socket server.
func ServiceLogger(l Logger) tmlog.Logger {
	return serviceLogger{Logger: l}
}

type serviceLogger struct {
	Logger
}

func (l serviceLogger) With(keyVals ...interface{}) tmlog.Logger {
	return serviceLogger{Logger: l.Logger.With(keyVals...)}
}
