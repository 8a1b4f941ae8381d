package commands

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/cec-protocol/cec-go/pkg/cec"
	"github.com/cec-protocol/cec-go/pkg/log"
)

// Stats holds aggregate statistics about a log file.
type Stats struct {
	TotalEvents       int
	EventsByLayer     map[log.Layer]int
	EventsByDirection map[log.Direction]int
	MessagesByOpcode  map[cec.Opcode]int
	Sessions          map[string]int
	Errors            int
	TimeRange         struct {
		Start time.Time
		End   time.Time
	}
}

// CollectStats aggregates statistics over all events in the file.
func CollectStats(path string) (*Stats, error) {
	reader, err := log.NewReader(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	stats := &Stats{
		EventsByLayer:     make(map[log.Layer]int),
		EventsByDirection: make(map[log.Direction]int),
		MessagesByOpcode:  make(map[cec.Opcode]int),
		Sessions:          make(map[string]int),
	}

	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read event: %w", err)
		}

		stats.TotalEvents++
		stats.EventsByLayer[event.Layer]++
		stats.EventsByDirection[event.Direction]++
		stats.Sessions[event.SessionID]++

		if stats.TimeRange.Start.IsZero() || event.Timestamp.Before(stats.TimeRange.Start) {
			stats.TimeRange.Start = event.Timestamp
		}
		if event.Timestamp.After(stats.TimeRange.End) {
			stats.TimeRange.End = event.Timestamp
		}

		if event.Message != nil {
			stats.MessagesByOpcode[cec.Opcode(event.Message.Opcode)]++
		}
		if event.Category == log.CategoryError {
			stats.Errors++
		}
	}
	return stats, nil
}

// RunStats analyzes the log file and prints statistics.
func RunStats(path string, w io.Writer) error {
	stats, err := CollectStats(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "Total events: %d\n", stats.TotalEvents)
	if !stats.TimeRange.Start.IsZero() {
		fmt.Fprintf(w, "Time range:   %s - %s (%s)\n",
			stats.TimeRange.Start.UTC().Format(time.RFC3339),
			stats.TimeRange.End.UTC().Format(time.RFC3339),
			stats.TimeRange.End.Sub(stats.TimeRange.Start).Round(time.Millisecond))
	}
	fmt.Fprintf(w, "Sessions:     %d\n", len(stats.Sessions))
	fmt.Fprintf(w, "Errors:       %d\n", stats.Errors)

	fmt.Fprintln(w, "\nBy direction:")
	for _, dir := range []log.Direction{log.DirectionIn, log.DirectionOut} {
		if n := stats.EventsByDirection[dir]; n > 0 {
			fmt.Fprintf(w, "  %-4s %d\n", dir, n)
		}
	}

	fmt.Fprintln(w, "\nBy layer:")
	for _, layer := range []log.Layer{log.LayerTransport, log.LayerBus, log.LayerAction} {
		if n := stats.EventsByLayer[layer]; n > 0 {
			fmt.Fprintf(w, "  %-10s %d\n", layer, n)
		}
	}

	if len(stats.MessagesByOpcode) > 0 {
		fmt.Fprintln(w, "\nBy opcode:")
		opcodes := make([]cec.Opcode, 0, len(stats.MessagesByOpcode))
		for op := range stats.MessagesByOpcode {
			opcodes = append(opcodes, op)
		}
		sort.Slice(opcodes, func(i, j int) bool {
			return stats.MessagesByOpcode[opcodes[i]] > stats.MessagesByOpcode[opcodes[j]]
		})
		for _, op := range opcodes {
			fmt.Fprintf(w, "  %-28s %d\n", op, stats.MessagesByOpcode[op])
		}
	}
	return nil
}
