// Command cec-controller is a reference CEC bus controller.
//
// This command connects to a network-attached CEC bridge and drives
// devices on the HDMI bus behind it:
//   - CLI argument parsing
//   - Configuration file support
//   - Bridge discovery via mDNS
//   - Interactive command interface
//   - Structured event logging
//
// Usage:
//
//	cec-controller [flags]
//
// Flags:
//
//	-config string     Configuration file path
//	-bridge string     Bridge address (host:port)
//	-discover          Discover a bridge via mDNS instead of -bridge
//	-source uint       Logical address to transmit as (default 4)
//	-osd-name string   Name reported to OSD name queries
//	-log-level string  Log level: debug, info, warn, error (default "info")
//	-log-file string   File receiving the CBOR event stream
//	-interactive       Enable interactive command mode
//
// Examples:
//
//	# Connect to a known bridge and open the console
//	cec-controller -bridge 10.0.0.5:9526 -interactive
//
//	# Find a bridge on the local network
//	cec-controller -discover -interactive
//
//	# Record the protocol exchange for later inspection
//	cec-controller -bridge 10.0.0.5:9526 -log-file session.cbor
//
// Interactive Commands:
//
//	discover [name] - Discover CEC bridges, or look one up by name
//	scan          - Poll all logical addresses for devices
//	power <addr>  - Query a device's power status
//	key <addr> <key> - Send a remote-control key press
//	on <addr>     - Turn a device on
//	standby <addr> - Put a device into standby
//	route <old> <new> - Announce a routing change
//	status        - Show controller status
//	quit          - Exit the controller
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/cec-protocol/cec-go/cmd/cec-controller/interactive"
	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/config"
	"github.com/cec-protocol/cec-go/pkg/discovery"
	"github.com/cec-protocol/cec-go/pkg/log"
	"github.com/cec-protocol/cec-go/pkg/service"
	"github.com/cec-protocol/cec-go/pkg/transport"
	"github.com/cec-protocol/cec-go/pkg/version"
)

// flags holds the command-line arguments. File configuration is
// loaded first; any flag set explicitly wins.
type flags struct {
	ConfigFile  string
	Bridge      string
	Discover    bool
	Source      uint
	OSDName     string
	LogLevel    string
	LogFile     string
	Interactive bool
	Version     bool
}

var args flags

func init() {
	flag.StringVar(&args.ConfigFile, "config", "", "Configuration file path")
	flag.StringVar(&args.Bridge, "bridge", "", "Bridge address (host:port)")
	flag.BoolVar(&args.Discover, "discover", false, "Discover a bridge via mDNS")
	flag.UintVar(&args.Source, "source", uint(cec.AddrPlayback1), "Logical address to transmit as (0-14)")
	flag.StringVar(&args.OSDName, "osd-name", "", "Name reported to OSD name queries")
	flag.StringVar(&args.LogLevel, "log-level", "", "Log level: debug, info, warn, error")
	flag.StringVar(&args.LogFile, "log-file", "", "File receiving the CBOR event stream")
	flag.BoolVar(&args.Interactive, "interactive", false, "Enable interactive command mode")
	flag.BoolVar(&args.Version, "version", false, "Print version and exit")
}

func main() {
	flag.Parse()

	if args.Version {
		fmt.Printf("cec-controller %s (CEC %s)\n", version.Library, version.Current)
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cec-controller: %v\n", err)
		os.Exit(1)
	}

	setupLogging(os.Stderr, cfg.Log.Level)

	if err := run(cfg); err != nil {
		slog.Error("controller failed", "err", err)
		os.Exit(1)
	}
}

// loadConfig merges the config file and the command line.
func loadConfig() (*config.Config, error) {
	cfg := config.Default()
	if args.ConfigFile != "" {
		loaded, err := config.Load(args.ConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if args.Bridge != "" {
		cfg.Bridge.Address = args.Bridge
	}
	if args.OSDName != "" {
		cfg.Device.OSDName = args.OSDName
	}
	if args.LogLevel != "" {
		cfg.Log.Level = args.LogLevel
	}
	if args.LogFile != "" {
		cfg.Log.File = args.LogFile
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "source" {
			cfg.Device.Source = uint8(args.Source)
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Bridge.Address == "" && !args.Discover {
		return nil, fmt.Errorf("no bridge address: use -bridge or -discover")
	}
	return cfg, nil
}

func run(cfg *config.Config) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Resolve the bridge address, via mDNS when asked.
	bridgeAddr := cfg.Bridge.Address
	if bridgeAddr == "" {
		slog.Info("discovering bridge")
		browser := discovery.NewMDNSBrowser(discovery.DefaultBrowserConfig())
		bridge, err := browser.FindFirst(ctx)
		if err != nil {
			return fmt.Errorf("bridge discovery failed: %w", err)
		}
		bridgeAddr = bridge.Addr()
		slog.Info("bridge discovered", "name", bridge.Name, "addr", bridgeAddr)
	}

	// Connect.
	client := transport.NewClient()
	client.SetConnectTimeout(cfg.Bridge.ConnectTimeout)
	conn, err := client.Connect(ctx, bridgeAddr)
	if err != nil {
		return fmt.Errorf("failed to connect to bridge: %w", err)
	}
	defer conn.Close()
	slog.Info("connected", "bridge", conn.RemoteAddr())

	// Wire up the service.
	svc := service.New(cfg.SourceAddress(), conn)
	svc.SetBridgeAddr(conn.RemoteAddr())
	svc.SetResponseTimeout(cfg.Actions.ResponseTimeout)

	logger, closeLogger, err := buildLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLogger()
	svc.SetLogger(logger)

	svc.SetDefaultHandler(func(msg *cec.Message) {
		handleUnconsumed(svc, cfg, msg)
	})

	svc.Start()
	defer svc.Stop()

	go conn.ReadLoop(svc.HandleMessage, func(err error) {
		slog.Error("bridge connection lost", "err", err)
		cancel()
	})

	// Run interactive mode or wait for a signal.
	if args.Interactive {
		console, err := interactive.New(svc)
		if err != nil {
			return fmt.Errorf("failed to create console: %w", err)
		}
		// Route log output through readline to keep the prompt clean.
		setupLogging(console.Stdout(), cfg.Log.Level)
		go console.Run(ctx, cancel)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("received signal", "signal", sig.String())
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	return nil
}

// buildLogger assembles the event logger chain: slog always, plus the
// CBOR file sink when configured.
func buildLogger(cfg *config.Config) (log.Logger, func(), error) {
	slogLogger := log.NewSlogAdapter(slog.Default())
	if cfg.Log.File == "" {
		return slogLogger, func() {}, nil
	}

	fileLogger, err := log.NewFileLogger(cfg.Log.File)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	closer := func() {
		if err := fileLogger.Close(); err != nil {
			slog.Warn("failed to close log file", "err", err)
		}
	}
	return log.NewMultiLogger(slogLogger, fileLogger), closer, nil
}

// handleUnconsumed answers the identification queries no action
// claims and logs the rest.
func handleUnconsumed(svc *service.Service, cfg *config.Config, msg *cec.Message) {
	switch msg.Opcode {
	case cec.OpcodeGiveOSDName:
		reply := cec.New(svc.Source(), msg.Source, cec.OpcodeSetOSDName, []byte(cfg.Device.OSDName)...)
		if reply.Validate() == nil {
			svc.SendMessage(reply)
		}
	case cec.OpcodeGetCECVersion:
		svc.SendMessage(cec.New(svc.Source(), msg.Source, cec.OpcodeCECVersion, byte(version.Current)))
	default:
		slog.Debug("unhandled message", "msg", msg.String())
	}
}

func setupLogging(w io.Writer, level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})))
}
