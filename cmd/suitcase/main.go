package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/cbodonnell/suitcase/client/desktop"
	"github.com/cbodonnell/suitcase/client/terminal"
	"github.com/cbodonnell/suitcase/pkg/config"
	"github.com/cbodonnell/suitcase/pkg/effects"
	"github.com/cbodonnell/suitcase/pkg/effects/audio"
	"github.com/cbodonnell/suitcase/pkg/game"
	"github.com/cbodonnell/suitcase/pkg/game/types"
	"github.com/cbodonnell/suitcase/pkg/log"
	"github.com/cbodonnell/suitcase/pkg/network"
	"github.com/cbodonnell/suitcase/pkg/preview"
	"github.com/cbodonnell/suitcase/pkg/queue"
	"github.com/cbodonnell/suitcase/pkg/repositories"
	"github.com/cbodonnell/suitcase/pkg/scheduler"
	"github.com/cbodonnell/suitcase/pkg/workers"
)

func main() {
	configPath := flag.String("config", "", "Path to a YAML config file")
	ui := flag.String("ui", "", "Frontend: desktop, terminal, headless or web")
	logLevel := flag.String("log-level", "", "Log level")
	logFile := flag.String("log-file", "", "Write logs to this file instead of stdout")
	previewAddr := flag.String("preview-addr", "", "Serve the web preview on this address, e.g. :8080")
	keypadAddr := flag.String("keypad-addr", "", "Accept keypad bridges on this address, e.g. :8888")
	dbURL := flag.String("db", "", "Round journal: a sqlite path or a postgres:// url")
	fullscreen := flag.Bool("fullscreen", false, "Run the desktop frontend fullscreen")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic(fmt.Sprintf("Failed to load config: %v", err))
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "ui":
			cfg.UI = *ui
		case "log-level":
			cfg.LogLevel = *logLevel
		case "preview-addr":
			cfg.PreviewAddr = *previewAddr
		case "keypad-addr":
			cfg.KeypadAddr = *keypadAddr
		case "db":
			cfg.DatabaseURL = *dbURL
		}
	})
	if err := cfg.Validate(); err != nil {
		panic(fmt.Sprintf("Invalid config: %v", err))
	}

	parsedLogLevel, err := log.ParseLogLevel(cfg.LogLevel)
	if err != nil {
		panic(fmt.Sprintf("Failed to parse log level: %v", err))
	}
	var logOut io.Writer = os.Stdout
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			panic(fmt.Sprintf("Failed to open log file: %v", err))
		}
		defer f.Close()
		logOut = f
	} else if cfg.UI == config.UITerminal {
		// the terminal frontend owns the screen
		logOut = io.Discard
	}
	logger := log.New(logOut, "", log.DefaultLoggerFlag, parsedLogLevel)
	log.SetDefaultLogger(logger)
	log.Info("Log level set to %s", parsedLogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repository repositories.Repository
	if cfg.DatabaseURL != "" {
		repository, err = repositories.NewRepository(ctx, cfg.DatabaseURL)
		if err != nil {
			panic(fmt.Sprintf("Failed to open round journal: %v", err))
		}
		defer repository.Close(context.Background())
	}

	// workers outlive the console loop so they can drain what it produced
	workerCtx, cancelWorkers := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	defer wg.Wait()
	defer cancelWorkers()

	panel := effects.NewPanel()
	tonePlayer := audio.NewTonePlayer(audio.NewTonePlayerOptions{
		Enabled:    cfg.Audio.Enabled,
		SampleRate: cfg.Audio.SampleRate,
		Logger:     logger,
	})
	defer tonePlayer.Close()
	dispatchers := effects.Multi{panel, tonePlayer}
	if cfg.LogGPIO {
		dispatchers = append(dispatchers, effects.NewLogDispatcher(logger))
	}

	var roundChan chan types.RoundRecord
	if repository != nil {
		roundChanSize := 64
		roundChan = make(chan types.RoundRecord, roundChanSize)
		journalWorker := workers.NewJournalWorker(workers.NewJournalWorkerOptions{
			Repository: repository,
			RoundChan:  roundChan,
			Logger:     logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			journalWorker.Start(workerCtx)
		}()
	}

	var snapshotChan chan types.Snapshot
	var onChange func(types.Snapshot)
	if cfg.PreviewAddr != "" {
		snapshotChan = make(chan types.Snapshot, 1)
		onChange = workers.SnapshotSink(snapshotChan)
	}

	consoleQueue := queue.NewInMemoryQueue(1024)
	manager, err := game.NewManager(game.NewManagerOptions{
		Rules:        cfg.Rules,
		Features:     cfg.Features,
		Scheduler:    scheduler.NewRealtime(consoleQueue),
		Queue:        consoleQueue,
		Dispatcher:   dispatchers,
		Logger:       logger,
		RoundRecords: roundChan,
		OnChange:     onChange,
	})
	if err != nil {
		panic(fmt.Sprintf("Failed to create console: %v", err))
	}

	if cfg.PreviewAddr != "" {
		previewServer := preview.NewPreviewServer(preview.NewPreviewServerOptions{
			Addr:       cfg.PreviewAddr,
			Console:    manager,
			Panel:      panel,
			Repository: repository,
			Logger:     logger,
		})
		broadcastWorker := workers.NewBroadcastSnapshotWorker(workers.NewBroadcastSnapshotWorkerOptions{
			Broadcaster:  previewServer.Hub(),
			SnapshotChan: snapshotChan,
		})
		wg.Add(2)
		go func() {
			defer wg.Done()
			broadcastWorker.Start(workerCtx)
		}()
		go func() {
			defer wg.Done()
			if err := previewServer.Start(ctx); err != nil {
				log.Error("Preview server stopped: %v", err)
				stop()
			}
		}()
	}

	if cfg.KeypadAddr != "" {
		keypadServer := network.NewKeypadServer(network.NewKeypadServerOptions{
			Addr:      cfg.KeypadAddr,
			Submitter: manager,
			Logger:    logger,
		})
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := keypadServer.Start(ctx); err != nil {
				log.Error("Keypad server stopped: %v", err)
				stop()
			}
		}()
	}

	consoleErr := make(chan error, 1)
	go func() {
		consoleErr <- manager.Start(ctx)
	}()

	log.Info("Starting console with the %s frontend", cfg.UI)
	switch cfg.UI {
	case config.UIDesktop:
		err = desktop.NewDesktop(desktop.NewDesktopOptions{Console: manager, Panel: panel}).Run(ctx, *fullscreen)
	case config.UITerminal:
		err = terminal.Run(terminal.NewModel(terminal.NewModelOptions{Console: manager, Panel: panel}))
	default:
		<-ctx.Done()
	}
	if err != nil {
		log.Error("Frontend stopped: %v", err)
	}
	stop()

	if err := <-consoleErr; err != nil {
		log.Error("Console stopped: %v", err)
	}
	log.Info("Console stopped")
}
