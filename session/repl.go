package session

import (
	"bufio"
	"fmt"
	"io"
	"strconv"

	"go.uber.org/zap"

	"kestrel/config"
	"kestrel/domain/book"
	"kestrel/engine"
	"kestrel/journal"
	"kestrel/protocol"
)

// REPL reads protocol lines from in and runs them against a
// synchronous engine, acking each accepted line and echoing the
// symbol's top of book. Accepted lines append to the event journal;
// every trade appends to the trade journal. Parse failures go to the
// logger (stderr) and never mutate state.
func REPL(in io.Reader, out io.Writer, log *zap.Logger, cfg config.Config) error {
	fmt.Fprintln(out, "\n--- Interactive mode (sync) ---")
	fmt.Fprintln(out, "Formats:")
	fmt.Fprintln(out, "  L,symbol,B|S,price,qty,GFD|IOC|FOK")
	fmt.Fprintln(out, "  M,symbol,B|S,qty")
	fmt.Fprintln(out, "  C,symbol,orderId")
	fmt.Fprintln(out, "  R,symbol,oldId,B|S,price,qty,GFD|IOC|FOK")
	fmt.Fprintln(out, "  D,symbol[,depth]   U,userId,symbol   q to quit")
	fmt.Fprintln(out)

	eventLog, err := journal.Open(cfg.EventsLog)
	if err != nil {
		log.Error("cannot open event journal", zap.String("path", cfg.EventsLog), zap.Error(err))
		return err
	}
	defer eventLog.Close()

	tradeLog, err := journal.Open(cfg.TradesLog)
	if err != nil {
		log.Error("cannot open trade journal", zap.String("path", cfg.TradesLog), zap.Error(err))
		return err
	}
	defer tradeLog.Close()

	var opts []engine.Option
	if cfg.UserTracking {
		opts = append(opts, engine.WithUserTracking(cfg.MaxAbsPosition))
	}
	eng := engine.New(func(t book.Trade) {
		fmt.Fprintf(out, "TRADE %s px=%d qty=%d buy=%d sell=%d\n",
			t.Symbol, t.Price, t.Qty, t.BuyID, t.SellID)
		if err := tradeLog.Append(protocol.TradeLine(t)); err != nil {
			log.Warn("trade journal append failed", zap.Error(err))
		}
	}, opts...)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()

		switch {
		case isQuit(line):
			fmt.Fprintln(out, "Stopping order input.")
			return nil
		case startsWith(line, 'D'):
			runDepth(out, log, eng, line, cfg.ReplDepth)
			continue
		case startsWith(line, 'U'):
			runUserQuery(out, log, eng, line)
			continue
		}

		ev, err := protocol.ParseLine(line)
		if err != nil {
			if err != protocol.ErrSkip {
				log.Warn("dropped line", zap.Error(err))
			}
			continue
		}

		if err := eventLog.Append(trimmed(line)); err != nil {
			log.Warn("event journal append failed", zap.Error(err))
		}
		ack(out, eng, ev)
		fmt.Fprintln(out, protocol.TopOfBookLine(ev.Symbol, eng.TopOfBookByName(ev.Symbol)))
	}
	return scanner.Err()
}

// ack applies one parsed event and prints its acknowledgement.
func ack(out io.Writer, eng *engine.Engine, ev engine.Event) {
	switch ev.Type {
	case engine.EventNewLimit:
		id := eng.NewLimit(eng.ResolveSymbol(ev.Symbol), ev.UserID, ev.Side, ev.Price, ev.Qty, ev.TIF)
		fmt.Fprintf(out, "ACK L id=%d symbol=%s side=%s px=%d qty=%d tif=%s\n",
			id, ev.Symbol, ev.Side, ev.Price, ev.Qty, ev.TIF)
	case engine.EventNewMarket:
		id := eng.NewMarket(eng.ResolveSymbol(ev.Symbol), ev.UserID, ev.Side, ev.Qty)
		fmt.Fprintf(out, "ACK M id=%d symbol=%s side=%s qty=%d\n",
			id, ev.Symbol, ev.Side, ev.Qty)
	case engine.EventCancel:
		verdict := "REJECT"
		if eng.CancelByName(ev.Symbol, ev.ID) {
			verdict = "ACK"
		}
		fmt.Fprintf(out, "%s C id=%d symbol=%s\n", verdict, ev.ID, ev.Symbol)
	case engine.EventReplace:
		newID := eng.Replace(eng.ResolveSymbol(ev.Symbol), ev.ID, ev.Side, ev.Price, ev.Qty, ev.TIF)
		fmt.Fprintf(out, "ACK R old_id=%d new_id=%d symbol=%s\n", ev.ID, newID, ev.Symbol)
	}
}

// D,symbol[,depth]
func runDepth(out io.Writer, log *zap.Logger, eng *engine.Engine, line string, defaultDepth int) {
	fields := protocol.Fields(trimmed(line))
	if len(fields) < 2 || len(fields) > 3 {
		log.Warn("dropped line", zap.String("reason", "invalid D line"), zap.String("line", trimmed(line)))
		return
	}
	symbol := fields[1]
	depth := defaultDepth
	if len(fields) == 3 {
		d, err := strconv.Atoi(fields[2])
		if err != nil || d <= 0 {
			log.Warn("invalid depth, using default", zap.String("line", trimmed(line)))
		} else {
			depth = d
		}
	}
	b := eng.FindBook(symbol)
	if b == nil {
		fmt.Fprintf(out, "No book for symbol: %s\n", symbol)
		return
	}
	b.PrintBook(out, depth)
}

// U,userId,symbol
func runUserQuery(out io.Writer, log *zap.Logger, eng *engine.Engine, line string) {
	fields := protocol.Fields(trimmed(line))
	if len(fields) != 3 {
		log.Warn("dropped line", zap.String("reason", "invalid U line"), zap.String("line", trimmed(line)))
		return
	}
	user, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		log.Warn("dropped line", zap.String("reason", "invalid user id"), zap.String("line", trimmed(line)))
		return
	}
	symbol := fields[2]
	pos, ok := eng.UserPosition(user, symbol)
	if !ok {
		fmt.Fprintf(out, "User %d has no position in %s\n", user, symbol)
		return
	}
	fmt.Fprintf(out, "User %d %s position=%d traded_volume=%d\n",
		user, symbol, pos.Position, pos.TradedVolume)
}
