// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ffq-produce reads integers from stdin and pushes them onto a
// file-backed queue.
//
// Usage:
//
//	ffq-produce -path fifo.txt -capacity 5
//
// The queue is closed, and its files removed, on SIGINT or SIGTERM. At end
// of input the producer keeps the queue open so the consumer can drain it.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"code.hybscloud.com/ffq"
	"code.hybscloud.com/ffq/internal/cli"
)

func main() {
	var f cli.Flags
	f.Register(flag.CommandLine)
	wait := flag.Bool("wait", false, "wait while the queue is full instead of dropping the value")
	flag.Parse()

	log := f.Logger(os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &f, *wait, os.Stdin, os.Stdout, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("ffq-produce", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f *cli.Flags, wait bool, in io.Reader, out io.Writer, log *slog.Logger) error {
	q, err := f.Builder(ffq.RoleProducer, log).Open()
	if err != nil {
		return err
	}
	defer cli.Close(q, log)

	// The reader stays blocked in Scan after ctx is done until in yields
	// a line or EOF. main exits right after run returns.
	lines := make(chan string)
	go func() {
		defer close(lines)
		sc := bufio.NewScanner(in)
		for ctx.Err() == nil && sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		fmt.Fprintln(out, "Please enter an integer:")
		var line string
		select {
		case <-ctx.Done():
			return ctx.Err()
		case l, ok := <-lines:
			if !ok {
				// Closing here would delete values not yet popped.
				<-ctx.Done()
				return ctx.Err()
			}
			line = strings.TrimSpace(l)
		}
		if line == "" {
			continue
		}
		v, err := strconv.ParseUint(line, 10, 32)
		if err != nil {
			fmt.Fprintf(out, "Not an unsigned 32-bit integer: %q\n", line)
			continue
		}

		if wait {
			err = ffq.Send(ctx, q, uint32(v))
		} else {
			err = q.Push(uint32(v))
		}
		switch {
		case err == nil:
		case errors.Is(err, ffq.ErrFull):
			fmt.Fprintln(out, "Couldn't push. FIFO must be full.")
		case errors.Is(err, ffq.ErrPublish):
			log.Warn("pushed without cursor update", "value", v, "err", err)
		default:
			return err
		}
	}
}
