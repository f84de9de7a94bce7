package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/network"
)

// keypad forwards key lines from stdin to a running console.
func main() {
	addr := flag.String("addr", "localhost:8888", "Keypad address of the console")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	parsedLogLevel, err := log.ParseLogLevel(*logLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	log.SetDefaultLogger(log.New(os.Stderr, "", log.DefaultLoggerFlag, parsedLogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := network.NewKeypadClient(*addr)
	if err := client.Connect(ctx); err != nil {
		log.Error("%v", err)
		os.Exit(1)
	}
	defer client.Close()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		cmd, ok, err := parseLine(scanner.Text())
		if err != nil {
			log.Warn("%v", err)
			continue
		}
		if !ok {
			continue
		}

		switch {
		case cmd.ping:
			pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
			rtt, err := client.Ping(pingCtx)
			cancel()
			if err != nil {
				log.Error("Ping failed: %v", err)
				continue
			}
			log.Info("Pong in %s", rtt)
		case cmd.sleep > 0:
			select {
			case <-ctx.Done():
				return
			case <-time.After(cmd.sleep):
			}
		default:
			if err := client.SendKey(cmd.key, cmd.action); err != nil {
				log.Error("%v", err)
				return
			}
		}
	}
	if err := scanner.Err(); err != nil {
		log.Error("Failed to read stdin: %v", err)
	}
}
