package logger

import (
	"go.uber.org/zap"
)

var Log *zap.Logger = zap.NewNop()

// InitLogger swaps the no-op logger for a development or production one.
func InitLogger(production bool) {
	var err error
	if production {
		Log, err = zap.NewProduction()
	} else {
		Log, err = zap.NewDevelopment()
	}
	if err != nil {
		panic("Failed to init logger: " + err.Error())
	}
}

func SyncLogger() {
	_ = Log.Sync()
}
