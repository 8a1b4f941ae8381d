// Package interactive provides the interactive command-line interface
// for the CEC controller.
package interactive

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/cec-protocol/cec-go/pkg/actions"
	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/discovery"
	"github.com/cec-protocol/cec-go/pkg/service"
	"github.com/cec-protocol/cec-go/pkg/version"
)

// Console handles interactive mode for cec-controller.
type Console struct {
	svc *service.Service
	rl  *readline.Instance
}

// New creates a new interactive console handler.
func New(svc *service.Service) (*Console, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:          "cec> ",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create readline: %w", err)
	}

	return &Console{svc: svc, rl: rl}, nil
}

// Stdout returns a writer that properly coordinates with the readline
// input. Use this for log output to avoid interfering with the prompt.
func (c *Console) Stdout() io.Writer {
	return c.rl.Stdout()
}

// Stderr returns a writer that properly coordinates with the readline
// input.
func (c *Console) Stderr() io.Writer {
	return c.rl.Stderr()
}

// Run starts the interactive command loop.
func (c *Console) Run(ctx context.Context, cancel context.CancelFunc) {
	defer c.rl.Close()

	c.printHelp()

	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		line, err := c.rl.Readline()
		if err != nil {
			// EOF or interrupt
			if err == readline.ErrInterrupt {
				continue
			}
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return
		}

		input := strings.TrimSpace(line)
		if input == "" {
			continue
		}

		parts := strings.Fields(input)
		cmd := strings.ToLower(parts[0])
		args := parts[1:]

		switch cmd {
		case "help", "?":
			c.printHelp()

		case "discover":
			c.cmdDiscover(ctx, args)

		case "scan":
			c.cmdScan()

		case "power", "p":
			c.cmdPower(args)

		case "key", "k":
			c.cmdKey(args)

		case "route":
			c.cmdRoute(args)

		case "on":
			c.cmdOn(args)

		case "standby":
			c.cmdStandby(args)

		case "send":
			c.cmdSend(args)

		case "status":
			c.cmdStatus()

		case "quit", "exit", "q":
			fmt.Fprintln(c.rl.Stdout(), "Exiting...")
			cancel()
			return

		default:
			fmt.Fprintf(c.rl.Stdout(), "Unknown command: %s (type 'help' for commands)\n", cmd)
		}
	}
}

func (c *Console) printHelp() {
	fmt.Fprintln(c.rl.Stdout(), `
CEC Controller Commands:
  Discovery:
    discover [name]          - Discover CEC bridges, or look one up by name
    scan                     - Poll all logical addresses for devices

  Control:
    power <addr>             - Query a device's power status
    key <addr> <key>         - Send a remote-control key press
    on <addr>                - Turn a device on (IMAGE_VIEW_ON)
    standby <addr>           - Put a device into standby
    route <old> <new>        - Announce a routing change (paths as a.b.c.d)
    send <addr> <op> [data]  - Send a raw message (opcode and params in hex)

  General:
    status                   - Show controller status
    help                     - Show this help
    quit                     - Exit controller

  Addresses:
    Logical addresses are names (tv, audio, playback1, recorder2, ...)
    or numbers 0-14. "broadcast" is valid as a send destination.`)
}

// cmdDiscover handles the discover command. With a name argument it
// looks up that one bridge; without, it lists everything found.
func (c *Console) cmdDiscover(ctx context.Context, args []string) {
	browser := discovery.NewMDNSBrowser(discovery.DefaultBrowserConfig())

	if len(args) > 0 {
		name := strings.Join(args, " ")
		fmt.Fprintf(c.rl.Stdout(), "Looking for %q...\n", name)
		svc, err := browser.FindByName(ctx, name)
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Not found: %v\n", err)
			return
		}
		fmt.Fprintf(c.rl.Stdout(), "  %s (%s, hdmi %s)\n", svc.Name, svc.Addr(), svc.PhysicalAddr)
		return
	}

	fmt.Fprintln(c.rl.Stdout(), "Discovering bridges...")

	browseCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	results, err := browser.Browse(browseCtx)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Discovery error: %v\n", err)
		return
	}

	count := 0
	for svc := range results {
		count++
		fmt.Fprintf(c.rl.Stdout(), "  %d. %s (%s, hdmi %s)\n",
			count, svc.Name, svc.Addr(), svc.PhysicalAddr)
	}
	if count == 0 {
		fmt.Fprintln(c.rl.Stdout(), "No bridges found")
	}
}

// cmdScan polls every logical address with a power-status query and
// reports the devices that answered.
func (c *Console) cmdScan() {
	fmt.Fprintln(c.rl.Stdout(), "Scanning bus...")

	type scanResult struct {
		addr   cec.LogicalAddress
		status cec.PowerStatus
		err    error
	}
	results := make(chan scanResult, 15)

	var pending int
	for addr := cec.AddrTV; addr < cec.AddrBroadcast; addr++ {
		if addr == c.svc.Source() {
			continue
		}
		target := addr
		a := actions.NewDevicePowerStatus(c.svc, c.svc.Source(), target, func(status cec.PowerStatus, err error) {
			results <- scanResult{addr: target, status: status, err: err}
		})
		c.svc.AddAndStartAction(a)
		pending++
	}

	found := 0
	for i := 0; i < pending; i++ {
		r := <-results
		if r.err != nil {
			continue
		}
		found++
		fmt.Fprintf(c.rl.Stdout(), "  %s: %s\n", r.addr, r.status)
	}
	fmt.Fprintf(c.rl.Stdout(), "%d device(s) responded\n", found)
}

// cmdPower handles the power command.
func (c *Console) cmdPower(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: power <addr>")
		return
	}

	target, err := ParseLogicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}

	done := make(chan struct{})
	a := actions.NewDevicePowerStatus(c.svc, c.svc.Source(), target, func(status cec.PowerStatus, err error) {
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Query failed: %v\n", err)
		} else {
			fmt.Fprintf(c.rl.Stdout(), "%s: %s\n", target, status)
		}
		close(done)
	})
	c.svc.AddAndStartAction(a)
	<-done
}

// cmdKey handles the key command.
func (c *Console) cmdKey(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: key <addr> <key>")
		return
	}

	target, err := ParseLogicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}
	key, err := ParseUICommand(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid key: %v\n", err)
		return
	}

	done := make(chan struct{})
	a := actions.NewSendKey(c.svc, c.svc.Source(), target, key, func(err error) {
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Key rejected: %v\n", err)
		} else {
			fmt.Fprintf(c.rl.Stdout(), "Key sent to %s\n", target)
		}
		close(done)
	})
	c.svc.AddAndStartAction(a)
	<-done
}

// cmdRoute handles the route command.
func (c *Console) cmdRoute(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: route <old-path> <new-path>")
		return
	}

	oldPath, err := ParsePhysicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid old path: %v\n", err)
		return
	}
	newPath, err := ParsePhysicalAddress(args[1])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid new path: %v\n", err)
		return
	}

	done := make(chan struct{})
	a := actions.NewRoutingChange(c.svc, c.svc.Source(), oldPath, newPath, func(err error) {
		if err != nil {
			fmt.Fprintf(c.rl.Stdout(), "Routing change unacknowledged: %v\n", err)
		} else {
			fmt.Fprintf(c.rl.Stdout(), "Route switched to %s\n", newPath)
		}
		close(done)
	})
	c.svc.AddAndStartAction(a)
	<-done
}

// cmdOn handles the on command.
func (c *Console) cmdOn(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: on <addr>")
		return
	}
	target, err := ParseLogicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}
	c.svc.SendMessage(cec.New(c.svc.Source(), target, cec.OpcodeImageViewOn))
	fmt.Fprintf(c.rl.Stdout(), "IMAGE_VIEW_ON sent to %s\n", target)
}

// cmdStandby handles the standby command.
func (c *Console) cmdStandby(args []string) {
	if len(args) < 1 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: standby <addr>")
		return
	}
	target, err := ParseLogicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}
	c.svc.SendMessage(cec.New(c.svc.Source(), target, cec.OpcodeStandby))
	fmt.Fprintf(c.rl.Stdout(), "STANDBY sent to %s\n", target)
}

// cmdSend handles the send command.
func (c *Console) cmdSend(args []string) {
	if len(args) < 2 {
		fmt.Fprintln(c.rl.Stdout(), "Usage: send <addr> <opcode-hex> [params-hex]")
		return
	}

	target, err := ParseLogicalAddress(args[0])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid address: %v\n", err)
		return
	}
	opcode, err := strconv.ParseUint(strings.TrimPrefix(args[1], "0x"), 16, 8)
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid opcode: %v\n", err)
		return
	}
	params, err := ParseHexBytes(args[2:])
	if err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid params: %v\n", err)
		return
	}

	msg := cec.New(c.svc.Source(), target, cec.Opcode(opcode), params...)
	if err := msg.Validate(); err != nil {
		fmt.Fprintf(c.rl.Stdout(), "Invalid message: %v\n", err)
		return
	}
	c.svc.SendMessage(msg)
	fmt.Fprintf(c.rl.Stdout(), "Sent %s\n", msg)
}

// cmdStatus handles the status command.
func (c *Console) cmdStatus() {
	fmt.Fprintf(c.rl.Stdout(), "Version:        %s (CEC %s)\n", version.Library, version.Current)
	fmt.Fprintf(c.rl.Stdout(), "Source address: %s\n", c.svc.Source())
	fmt.Fprintf(c.rl.Stdout(), "Session:        %s\n", c.svc.SessionID())
	fmt.Fprintf(c.rl.Stdout(), "Active actions: %d\n", c.svc.ActionCount())
}

// logicalNames maps address mnemonics accepted on the command line.
var logicalNames = map[string]cec.LogicalAddress{
	"tv":        cec.AddrTV,
	"recorder1": cec.AddrRecorder1,
	"recorder2": cec.AddrRecorder2,
	"recorder3": cec.AddrRecorder3,
	"tuner1":    cec.AddrTuner1,
	"tuner2":    cec.AddrTuner2,
	"tuner3":    cec.AddrTuner3,
	"tuner4":    cec.AddrTuner4,
	"playback1": cec.AddrPlayback1,
	"playback2": cec.AddrPlayback2,
	"playback3": cec.AddrPlayback3,
	"audio":     cec.AddrAudioSystem,
	"broadcast": cec.AddrBroadcast,
}

// ParseLogicalAddress parses a logical address mnemonic or number.
func ParseLogicalAddress(s string) (cec.LogicalAddress, error) {
	if addr, ok := logicalNames[strings.ToLower(s)]; ok {
		return addr, nil
	}
	n, err := strconv.ParseUint(s, 10, 8)
	if err != nil || n > 14 {
		return 0, fmt.Errorf("unknown logical address: %q", s)
	}
	return cec.LogicalAddress(n), nil
}

// uiCommandNames maps key mnemonics accepted on the command line.
var uiCommandNames = map[string]cec.UICommand{
	"select":      cec.UICmdSelect,
	"ok":          cec.UICmdSelect,
	"up":          cec.UICmdUp,
	"down":        cec.UICmdDown,
	"left":        cec.UICmdLeft,
	"right":       cec.UICmdRight,
	"power":       cec.UICmdPower,
	"volume-up":   cec.UICmdVolumeUp,
	"volume-down": cec.UICmdVolumeDown,
	"mute":        cec.UICmdMute,
	"power-off":   cec.UICmdPowerOff,
	"power-on":    cec.UICmdPowerOn,
}

// ParseUICommand parses a key mnemonic or a hex key code.
func ParseUICommand(s string) (cec.UICommand, error) {
	if key, ok := uiCommandNames[strings.ToLower(s)]; ok {
		return key, nil
	}
	n, err := strconv.ParseUint(strings.TrimPrefix(s, "0x"), 16, 8)
	if err != nil {
		return 0, fmt.Errorf("unknown key: %q", s)
	}
	return cec.UICommand(n), nil
}

// ParsePhysicalAddress parses the dotted "a.b.c.d" path form, each
// digit 0-15.
func ParsePhysicalAddress(s string) (cec.PhysicalAddress, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return 0, fmt.Errorf("path must be a.b.c.d, got %q", s)
	}
	var addr cec.PhysicalAddress
	for _, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil || n > 0xF {
			return 0, fmt.Errorf("path must be a.b.c.d, got %q", s)
		}
		addr = addr<<4 | cec.PhysicalAddress(n)
	}
	return addr, nil
}

// ParseHexBytes parses hex byte arguments, one byte per argument.
func ParseHexBytes(args []string) ([]byte, error) {
	out := make([]byte, 0, len(args))
	for _, a := range args {
		n, err := strconv.ParseUint(strings.TrimPrefix(a, "0x"), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid byte %q", a)
		}
		out = append(out, byte(n))
	}
	return out, nil
}
