package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/zshrun/zshrun"
	"github.com/zshrun/zshrun/pkg/fmtt"
)

func main() {
	// Create Zap logger
	logConfig := zap.NewDevelopmentConfig()
	logConfig.EncoderConfig.TimeKey = ""
	logConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	logConfig.DisableStacktrace = true
	logConfig.DisableCaller = true
	log := zap.Must(logConfig.Build())
	defer log.Sync()
	log = log.Named("main")

	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: zshrun-demo <command string>")
		os.Exit(2)
	}

	r := zshrun.Sh(os.Args[1])
	res, err := r.Wait()
	if err != nil {
		log.Error("command rejected", zap.Error(err))
		if os.Getenv("ZSHRUN_DEBUG") != "" {
			fmtt.PrintErrChainDebug(err)
		}
		os.Exit(1)
	}

	fmt.Print(res.Stdout.String())
	fmt.Fprint(os.Stderr, res.Stderr.String())
	os.Exit(res.Code)
}
