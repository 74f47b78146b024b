// Command calc drives the calculator controller from a terminal. Each input
// line is a sequence of key presses; the display is printed after every line.
//
//	$ echo "2+2=" | calc
//	4
//
// Environment:
//
//	CALC_ENGINE     native (default), starlark, govaluate or risor
//	CALC_ANGLE      deg (default) or rad
//	CALC_LOG_LEVEL  debug, info, warn (default) or error
package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/robbyt/go-calc"
	"github.com/robbyt/go-calc/controller"
	"github.com/robbyt/go-calc/engines/types"
	"github.com/robbyt/go-calc/options"
	"github.com/robbyt/go-calc/platform/symbols"
)

// helpCommand prints the keypad instead of being pressed.
const helpCommand = "?"

func configFromEnv(getenv func(string) string, errOut io.Writer) ([]options.Option, error) {
	level := slog.LevelWarn
	if v := getenv("CALC_LOG_LEVEL"); v != "" {
		if err := level.UnmarshalText([]byte(v)); err != nil {
			return nil, fmt.Errorf("CALC_LOG_LEVEL: %w", err)
		}
	}
	opts := []options.Option{
		options.WithLogHandler(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level})),
	}

	if v := getenv("CALC_ENGINE"); v != "" {
		engineType, err := types.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("CALC_ENGINE: %w", err)
		}
		opts = append(opts, options.WithEngine(engineType))
	}

	if v := getenv("CALC_ANGLE"); v != "" {
		unit, err := symbols.ParseAngleUnit(v)
		if err != nil {
			return nil, fmt.Errorf("CALC_ANGLE: %w", err)
		}
		opts = append(opts, options.WithAngleUnit(unit))
	}
	return opts, nil
}

func printKeypad(out io.Writer, shift bool) {
	for _, row := range controller.Keypad {
		labels := make([]string, len(row))
		for i, k := range row {
			labels[i] = fmt.Sprintf("%-6s", k.Label(shift))
		}
		fmt.Fprintln(out, strings.TrimRight(strings.Join(labels, " "), " "))
	}
}

func run(
	ctx context.Context,
	in io.Reader,
	out, errOut io.Writer,
	getenv func(string) string,
) error {
	opts, err := configFromEnv(getenv, errOut)
	if err != nil {
		return err
	}

	c, err := calc.NewController(opts...)
	if err != nil {
		return fmt.Errorf("failed to create controller: %w", err)
	}

	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case helpCommand:
			printKeypad(out, c.Shift())
			continue
		}

		keys, err := controller.SplitKeys(line)
		if err != nil {
			fmt.Fprintf(errOut, "%v\n", err)
			continue
		}
		for _, k := range keys {
			c.Press(ctx, k)
		}
		fmt.Fprintln(out, c.Display())
	}
	return scanner.Err()
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, os.Stdin, os.Stdout, os.Stderr, os.Getenv); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
