package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/cec-protocol/cec-go/pkg/log"
)

// RunFilter copies the events matching the filter into a new log
// file, preserving the CBOR encoding.
func RunFilter(path string, filter log.Filter, output string) error {
	reader, err := log.NewFilteredReader(path, filter)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer reader.Close()

	out, err := os.Create(output)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer out.Close()

	encoder := log.NewEncoder(out)
	kept := 0
	for {
		event, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read event: %w", err)
		}
		if err := encoder.Encode(event); err != nil {
			return fmt.Errorf("failed to write event: %w", err)
		}
		kept++
	}

	fmt.Printf("Wrote %d event(s) to %s\n", kept, output)
	return nil
}
