// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

// Command ffq-consume pops values from a file-backed queue and prints them
// until interrupted.
//
// Usage:
//
//	ffq-consume -path fifo.txt -capacity 5
//
// It waits for the producer to create the queue, and closes the queue on
// SIGINT or SIGTERM.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"code.hybscloud.com/ffq"
	"code.hybscloud.com/ffq/internal/cli"
)

func main() {
	var f cli.Flags
	f.Register(flag.CommandLine)
	flag.Parse()

	log := f.Logger(os.Stderr)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, &f, os.Stdout, log); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("ffq-consume", "err", err)
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context, f *cli.Flags, out io.Writer, log *slog.Logger) error {
	q, err := cli.OpenWait(ctx, f.Builder(ffq.RoleConsumer, log))
	if err != nil {
		return err
	}
	defer cli.Close(q, log)

	for {
		v, err := ffq.Receive(ctx, q)
		if errors.Is(err, ffq.ErrPublish) {
			log.Warn("popped without cursor update", "value", v, "err", err)
		} else if err != nil {
			return err
		}
		fmt.Fprintf(out, "Retrieved %d from the fifo.\n", v)
	}
}
