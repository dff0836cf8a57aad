// cmd/modmon/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"net"
	"os"
	"os/signal"
	"strconv"
	"sync"
	"syscall"
	"time"

	"github.com/docopt/docopt-go"

	"github.com/tamzrod/modmon/internal/config"
	"github.com/tamzrod/modmon/internal/poller"
	"github.com/tamzrod/modmon/internal/sink"
	"github.com/tamzrod/modmon/internal/status"
	"github.com/tamzrod/modmon/internal/tui"
)

const version = "1.0.0"

const usage = `Modbus register monitor.

Reads Modbus registers on individual schedules and records every
observation to the configured sinks (CSV, InfluxDB, MQTT, SQLite).

Usage:
    modmon --inifile=<file> [--logfile=<file>] [--daily-log] [--single] [--tui]
    modmon --ip=<address> --addr=<register> --type=<TYPE> [--port=<port>] [--id=<id>] [--scale=<factor>] [--loginterval=<sec>] [--holding] [--descr=<descr>] [--unit=<unit>] [--logfile=<file>] [--daily-log] [--single] [--tui]
    modmon -h | --help
    modmon --version

Options:
    -h, --help             Show this screen.
    --version              Show version.
    -i, --inifile=<file>   Read devices, points and sinks from this file.
                           YAML or TOML, chosen by extension.
    -l, --logfile=<file>   Append CSV rows to this file. Overrides the csv
                           sink path from the configuration file.
    -D, --daily-log        Start a new log file each day. The date is
                           appended to the file name.
    -S, --single           Do one read cycle instead of continuous reading.
    -T, --tui              Show a live dashboard in the terminal.
    --ip=<address>         IP address or host name of the device.
    --port=<port>          TCP port of the device [default: 502].
    --id=<id>              Modbus unit id of the device [default: 3].
    --addr=<register>      Address of the register to read.
    --type=<TYPE>          Data type at the given address. Allowed types:
                           uint16, int16, uint32, int32, uint64, float32,
                           bitfield.
    --scale=<factor>       Multiply raw values by this factor [default: 1].
    --loginterval=<sec>    Read every <sec> seconds [default: 5].
    --holding              Read holding registers (FC3) instead of input
                           registers (FC4).
    --descr=<descr>        Point label used in logs and sinks.
    --unit=<unit>          Unit of the value, e.g. --unit="V".
`

func main() {
	opts, err := docopt.ParseArgs(usage, nil, "modmon "+version)
	if err != nil {
		log.Fatalf("argument parsing failed: %v", err)
	}
	str := func(key string) string {
		s, _ := opts[key].(string)
		return s
	}
	flag := func(key string) bool {
		b, _ := opts[key].(bool)
		return b
	}

	// --------------------
	// Assemble configuration
	// --------------------

	var cfg *config.Config
	if path := str("--inifile"); path != "" {
		cfg, err = config.Load(path)
		if err != nil {
			log.Fatalf("config load failed: %v", err)
		}
	} else {
		cfg, err = adHocConfig(str, flag)
		if err != nil {
			log.Fatalf("bad arguments: %v", err)
		}
	}

	if path := str("--logfile"); path != "" || flag("--daily-log") {
		if cfg.Sinks.CSV == nil {
			cfg.Sinks.CSV = &config.CSVSinkConfig{}
		}
		if path != "" {
			cfg.Sinks.CSV.Path = path
		}
		if flag("--daily-log") {
			cfg.Sinks.CSV.Daily = true
		}
	}

	if err := config.Validate(cfg); err != nil {
		log.Fatalf("config validation failed: %v", err)
	}
	config.Normalize(cfg)

	// --------------------
	// Logging
	// --------------------

	logger := log.New(os.Stderr, "", log.LstdFlags)
	if flag("--tui") {
		// The dashboard owns the terminal; poll errors show up there.
		logger = log.New(io.Discard, "", 0)
	}

	// --------------------
	// Sinks (shared across devices, serialized inside)
	// --------------------

	snk, err := sink.Build(cfg.Sinks)
	if err != nil {
		log.Fatalf("sink build failed: %v", err)
	}

	// --------------------
	// Status board + per-device pollers
	// --------------------

	board := status.NewBoard()

	var pollers []*poller.Poller
	var buildErr error
	buildFailed := 0
	for _, d := range cfg.Devices {
		for _, pc := range d.Points {
			board.Register(d.ID, pc.Label, pc.Unit, pc.Interval.Std())
		}

		p, closeDev, err := poller.Build(d, snk)
		if err != nil {
			// A dead device must not take down monitoring of the others.
			logger.Printf("device %s unavailable: %v", d.ID, err)
			for _, pc := range d.Points {
				board.Failed(d.ID, pc.Label, err, 1)
			}
			buildErr = err
			buildFailed += len(d.Points)
			continue
		}
		defer closeDev()

		p.Log = logger
		p.Board = board
		pollers = append(pollers, p)

		logger.Printf("device %s: %d points", d.ID, len(d.Points))
	}
	if len(pollers) == 0 {
		log.Fatalf("no device reachable: %v", buildErr)
	}

	// --------------------
	// Single cycle mode
	// --------------------

	if flag("--single") {
		failed := buildFailed
		for _, p := range pollers {
			failed += p.PollOnce()
		}
		if err := snk.Close(); err != nil {
			logger.Printf("sink close: %v", err)
		}
		if failed > 0 {
			os.Exit(1)
		}
		return
	}

	// --------------------
	// Run until signal (or dashboard quit)
	// --------------------

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for _, p := range pollers {
		wg.Add(1)
		go func(p *poller.Poller) {
			defer wg.Done()
			p.Run(ctx)
		}(p)
	}

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	if flag("--tui") {
		prog := tui.NewProgram(board, version)

		// When the dashboard exits for any reason, stop polling too.
		go func() {
			if _, err := prog.Run(); err != nil {
				fmt.Fprintf(os.Stderr, "dashboard failed: %v\n", err)
			}
			cancel()
		}()

		select {
		case <-shutdown:
			prog.Quit()
			<-ctx.Done()
		case <-ctx.Done():
		}
	} else {
		<-shutdown
		logger.Printf("shutdown signal received")
		cancel()
	}

	wg.Wait()
	if err := snk.Close(); err != nil {
		logger.Printf("sink close: %v", err)
	}
}

// adHocConfig builds a one-device, one-point configuration from the
// command line, for quick reads without a configuration file.
func adHocConfig(str func(string) string, flag func(string) bool) (*config.Config, error) {
	addr, err := strconv.ParseUint(str("--addr"), 10, 16)
	if err != nil {
		return nil, fmt.Errorf("--addr: %w", err)
	}
	id, err := strconv.ParseUint(str("--id"), 10, 8)
	if err != nil {
		return nil, fmt.Errorf("--id: %w", err)
	}
	scale, err := strconv.ParseFloat(str("--scale"), 64)
	if err != nil {
		return nil, fmt.Errorf("--scale: %w", err)
	}
	secs, err := strconv.ParseUint(str("--loginterval"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("--loginterval: %w", err)
	}

	label := str("--descr")
	if label == "" {
		label = "register_" + str("--addr")
	}
	kind := ""
	if flag("--holding") {
		kind = config.KindHolding
	}

	host := str("--ip")
	return &config.Config{
		Devices: []config.DeviceConfig{
			{
				ID:       host,
				Mode:     config.ModeTCP,
				Addr:     net.JoinHostPort(host, str("--port")),
				SlaveID:  uint8(id),
				Interval: config.Duration(time.Duration(secs) * time.Second),
				Points: []config.PointConfig{
					{
						Label:        label,
						Address:      uint16(addr),
						Type:         str("--type"),
						Scale:        scale,
						RegisterKind: kind,
						Unit:         str("--unit"),
					},
				},
			},
		},
	}, nil
}
