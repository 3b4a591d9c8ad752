/*
 * MIT License
 *
 * Copyright (c) 2024 QuestDB Client Contributors
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in all
 * copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 *
 */

// Command ilpsend is a small operational tool that builds one row from
// command-line flags and sends it to QuestDB over the ILP client. It
// exists to exercise the public sender API end to end, the way a human
// would poke at a running server, not as a general-purpose ingestion
// client.
package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/questdb/go-ilp-client/ilperr"
	"github.com/questdb/go-ilp-client/sender"
)

var (
	colorOK   = color.New(color.FgGreen, color.Bold)
	colorErr  = color.New(color.FgRed, color.Bold)
	colorInfo = color.New(color.FgCyan)
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		colorErr.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		confStr     string
		table       string
		symbols     []string
		columns     []string
		transaction bool
		timeoutMs   int
	)

	cmd := &cobra.Command{
		Use:   "ilpsend",
		Short: "Send one Influx Line Protocol row to QuestDB",
		Long: "ilpsend builds a single row from --table/--symbol/--column flags\n" +
			"and transmits it through the go-ilp-client sender, printing the\n" +
			"resulting timing and any server-reported error.",
		Example: `  ilpsend --config "http::addr=localhost:9000;" --table metrics \
    --symbol host=server1 --column load=f:1.5 --column hits=i:42`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), runOptions{
				confStr:     confStr,
				table:       table,
				symbols:     symbols,
				columns:     columns,
				transaction: transaction,
				timeout:     time.Duration(timeoutMs) * time.Millisecond,
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&confStr, "config", "", `ILP configuration string, e.g. "http::addr=localhost:9000;"`)
	flags.StringVar(&table, "table", "", "target table name")
	flags.StringArrayVar(&symbols, "symbol", nil, "symbol in name=value form, repeatable")
	flags.StringArrayVar(&columns, "column", nil, "column in name=type:value form (type one of i,f,s,b), repeatable")
	flags.BoolVar(&transaction, "transaction", false, "wrap the row in a transaction and commit it")
	flags.IntVar(&timeoutMs, "timeout", 10000, "overall command timeout in milliseconds")
	cmd.MarkFlagRequired("config")
	cmd.MarkFlagRequired("table")

	return cmd
}

type runOptions struct {
	confStr     string
	table       string
	symbols     []string
	columns     []string
	transaction bool
	timeout     time.Duration
}

func run(ctx context.Context, o runOptions) error {
	ctx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	s, err := sender.NewFromConfigString(o.confStr, nil)
	if err != nil {
		return err
	}
	defer s.Close(ctx)

	if o.transaction {
		if err := s.Transaction(o.table); err != nil {
			return err
		}
	} else if err := s.Table(o.table); err != nil {
		return err
	}

	for _, kv := range o.symbols {
		name, value, ok := splitPair(kv)
		if !ok {
			return ilperr.Newf(ilperr.InvalidApiCall, "malformed --symbol %q, expected name=value", kv)
		}
		if err := s.Symbol(name, value); err != nil {
			return err
		}
	}

	for _, spec := range o.columns {
		if err := applyColumn(s, spec); err != nil {
			return err
		}
	}

	start := time.Now()
	if err := s.AtNow(ctx); err != nil {
		return err
	}

	if o.transaction {
		err = s.Commit(ctx)
	} else {
		err = s.Send(ctx)
	}
	if err != nil {
		return err
	}

	colorOK.Printf("sent 1 row to table %q in %s\n", o.table, time.Since(start).Round(time.Millisecond))
	colorInfo.Printf("sender buffered %d bytes, %d rows remaining\n", s.Length(), s.RowCount())
	return nil
}

func splitPair(kv string) (name, value string, ok bool) {
	for i := 0; i < len(kv); i++ {
		if kv[i] == '=' {
			return kv[:i], kv[i+1:], true
		}
	}
	return "", "", false
}

func applyColumn(s *sender.Sender, spec string) error {
	name, rest, ok := splitPair(spec)
	if !ok || len(rest) < 2 || rest[1] != ':' {
		return ilperr.Newf(ilperr.InvalidApiCall, "malformed --column %q, expected name=type:value", spec)
	}
	kind, value := rest[0], rest[2:]

	switch kind {
	case 'i':
		n, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return ilperr.Wrap(ilperr.InvalidApiCall, fmt.Sprintf("invalid long value for column %q", name), err)
		}
		return s.LongColumn(name, n)
	case 'f':
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return ilperr.Wrap(ilperr.InvalidApiCall, fmt.Sprintf("invalid double value for column %q", name), err)
		}
		return s.Float64Column(name, v)
	case 's':
		return s.StringColumn(name, value)
	case 'b':
		return s.BoolColumn(name, value == "true" || value == "t")
	default:
		return ilperr.Newf(ilperr.InvalidApiCall, "unknown column type %q for column %q, want one of i,f,s,b", string([]byte{kind}), name)
	}
}
