// Package main содержит консольный клиент сервиса обработки чеков:
// отправляет чек из файла и печатает начисленные баллы.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.uber.org/zap"

	"github.com/mmeshcher/receipt-processor/internal/client"
)

func main() {
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			os.Exit(0)
		}
		logger.Sugar().Fatalw("receipt submission failed", "error", err)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := ff.NewFlagSet("receiptctl")
	var (
		server  = fs.String('s', "server", "localhost:3001", "receipt processor address")
		file    = fs.String('f', "file", "-", "receipt JSON file, - reads stdin")
		timeout = fs.DurationLong("timeout", 5*time.Second, "HTTP request timeout")
	)

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("RECEIPTCTL")); err != nil {
		fmt.Fprintf(stderr, "%s\n", ffhelp.Flags(fs))
		return err
	}

	body, err := readReceipt(*file, stdin)
	if err != nil {
		return err
	}

	c := client.NewClient(*server, *timeout)

	id, err := c.ProcessReceipt(ctx, body)
	if err != nil {
		return fmt.Errorf("process receipt: %w", err)
	}

	points, err := c.GetPoints(ctx, id)
	if err != nil {
		return fmt.Errorf("get points for %s: %w", id, err)
	}

	fmt.Fprintf(stdout, "id: %s\npoints: %d\n", id, points)
	return nil
}

func readReceipt(path string, stdin io.Reader) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read receipt file: %w", err)
	}
	return data, nil
}
