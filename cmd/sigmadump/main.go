// Command sigmadump decodes and encodes Sigma wire frames from the
// command line, exercising the codec end to end.
//
// Usage:
//
//	sigmadump decode   < responses.bin  > responses.jsonl
//	sigmadump encode   < requests.jsonl > requests.bin
//
// decode reads length-prefixed Sigma response frames from stdin and
// writes one JSON object per line to stdout. encode reads one JSON
// Sigma request per line from stdin and writes the encoded wire frame
// for each to stdout.
package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cloudwego/sigma/protocol/sigma"
	"github.com/cloudwego/sigma/protocol/sigma/stream"
)

func main() {
	if len(os.Args) != 2 {
		fmt.Fprintln(os.Stderr, "usage: sigmadump decode|encode")
		os.Exit(2)
	}

	var err error
	switch os.Args[1] {
	case "decode":
		err = runDecode(os.Stdin, os.Stdout)
	case "encode":
		err = runEncode(os.Stdin, os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "unknown subcommand %q\n", os.Args[1])
		os.Exit(2)
	}
	if err != nil {
		slog.Error("sigmadump failed", "error", err)
		os.Exit(1)
	}
}

// runDecode streams length-prefixed Response frames from r and writes
// one JSON object per line to w.
func runDecode(r io.Reader, w io.Writer) error {
	d := stream.NewDecoder()
	defer d.Release()

	enc := json.NewEncoder(w)
	buf := make([]byte, 4096)

	for {
		for {
			resp, ok, err := d.Decode()
			if err != nil {
				return fmt.Errorf("decode frame: %w", err)
			}
			if !ok {
				break
			}
			if err := enc.Encode(resp); err != nil {
				return fmt.Errorf("write json: %w", err)
			}
			slog.Debug("decoded response", "mti", resp.MTI(), "auth_serno", resp.AuthSerno)
		}

		n, err := r.Read(buf)
		if n > 0 {
			d.Feed(buf[:n])
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read stdin: %w", err)
		}
	}
}

// runEncode reads one JSON Sigma request object per line from r and
// writes its wire-encoded form to w.
func runEncode(r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	src := sigma.NewRandomAuthSernoSource()

	for sc.Scan() {
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}

		var v interface{}
		if err := json.Unmarshal(line, &v); err != nil {
			return fmt.Errorf("parse json: %w", err)
		}

		req, err := sigma.RequestFromJSON(v, src)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}

		if err := stream.Encode(w, req); err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		slog.Debug("encoded request", "mti", req.MTI(), "auth_serno", req.AuthSerno)
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read stdin: %w", err)
	}
	return nil
}
