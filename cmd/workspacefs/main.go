// Command workspacefs exposes the workspace toolset over a JSON-lines
// protocol: each stdin line is a call {"tool": <name>, "args": {...}}, each
// stdout line is the matching result envelope.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/Cyclone1070/workspacefs/internal/config"
	"github.com/Cyclone1070/workspacefs/internal/toolkit"
	"github.com/rs/zerolog"
)

// call is one JSON-lines request.
type call struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args"`
}

func main() {
	root := flag.String("root", "", "workspace root directory (overrides config and WORKSPACEFS_ROOT)")
	enableWrites := flag.Bool("enable-writes", false, "allow mutating operations")
	debug := flag.Bool("debug", false, "enable debug logging")
	logFile := flag.String("log-file", "", "write logs to this file instead of discarding them")
	flag.Parse()

	logger := initLogger(*debug, *logFile)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if *root != "" {
		cfg.Workspace.Root = *root
	}
	if *enableWrites {
		cfg.Workspace.WritesEnabled = true
	}

	kit, warning, err := toolkit.New(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize toolkit: %v", err)
	}
	if warning != "" {
		fmt.Fprintln(os.Stderr, "warning:", warning)
	}

	if err := serve(context.Background(), kit, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Failed reading input: %v", err)
	}
}

func initLogger(debug bool, logFilePath string) zerolog.Logger {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	var output io.Writer
	if logFilePath != "" {
		file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		output = file
	} else {
		output = io.Discard
	}

	return zerolog.New(output).With().Timestamp().Logger()
}

// serve reads calls line by line and writes one envelope per call.
// A malformed line yields a failure envelope rather than ending the stream.
func serve(ctx context.Context, kit *toolkit.Toolkit, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 32*1024*1024)
	encoder := json.NewEncoder(out)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var c call
		if err := json.Unmarshal(line, &c); err != nil {
			env := toolkit.Envelope{
				Success: false,
				Error:   "invalid_argument",
				Message: fmt.Sprintf("malformed request: %v", err),
			}
			if err := encoder.Encode(env); err != nil {
				return err
			}
			continue
		}

		env := kit.Invoke(ctx, c.Tool, c.Args)
		if err := encoder.Encode(env); err != nil {
			return err
		}
	}

	return scanner.Err()
}
