package logger

import (
	"io"
	"os"

	"github.com/inconshreveable/log15"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Config 定義 log 輸出
type Config struct {
	Level string `yaml:"level"` // debug | info | warn | error | crit
	File  string `yaml:"file"`  // 空字串代表輸出到 stderr
}

// Handler 依配置建立 log15 Handler
// 有指定檔案時以 lumberjack 輪替，否則寫到 stderr
func Handler(cfg Config) log15.Handler {
	lvl, err := log15.LvlFromString(cfg.Level)
	if err != nil {
		lvl = log15.LvlInfo
	}
	var out io.Writer = os.Stderr
	if cfg.File != "" {
		out = rotatingFile(cfg.File)
	}
	return log15.LvlFilterHandler(lvl, log15.StreamHandler(out, log15.LogfmtFormat()))
}

// Setup 設定 root logger，之後所有 log15.New 建立的 logger 都會使用它
func Setup(cfg Config) {
	log15.Root().SetHandler(Handler(cfg))
}

// Discard 丟棄所有輸出的 logger (測試用)
func Discard() log15.Logger {
	l := log15.New()
	l.SetHandler(log15.DiscardHandler())
	return l
}

func rotatingFile(path string) io.Writer {
	return &lumberjack.Logger{
		Filename:   path,
		MaxSize:    100,
		MaxBackups: 14,
		MaxAge:     14,
		Compress:   true,
		LocalTime:  true,
	}
}
