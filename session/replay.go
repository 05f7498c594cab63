package session

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"kestrel/domain/book"
	"kestrel/engine"
	"kestrel/protocol"
)

// Replay parses an events.log-compatible file, feeds every valid
// line into a fresh synchronous engine, and prints the per-symbol
// top of book and stats at the end. Malformed lines are reported and
// skipped.
func Replay(path string, out io.Writer, log *zap.Logger) error {
	f, err := os.Open(path)
	if err != nil {
		log.Error("cannot open replay file", zap.String("path", path), zap.Error(err))
		return err
	}
	defer f.Close()

	eng := engine.New(nil)

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		ev, err := protocol.ParseLine(scanner.Text())
		if err != nil {
			if err != protocol.ErrSkip {
				log.Warn("dropped line", zap.Error(err))
			}
			continue
		}
		eng.Process(ev)
	}
	if err := scanner.Err(); err != nil {
		return err
	}

	fmt.Fprintf(out, "\n--- Replay summary for file: %s ---\n", path)
	symbols := eng.Symbols()
	for id := 0; id < symbols.Size(); id++ {
		sid := uint32(id)
		name := symbols.Name(sid)
		fmt.Fprintln(out, protocol.TopOfBookLine(name, eng.TopOfBook(sid)))
		if stats, ok := eng.Stats(sid); ok {
			fmt.Fprint(out, statsLine(stats))
		}
	}
	return nil
}

func statsLine(stats book.BookStats) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "  trades=%d volume=%d", stats.TradeCount, stats.TradedQty)
	if stats.HasLastTrade {
		fmt.Fprintf(&sb, " last_px=%d", stats.LastTradePrice)
	}
	sb.WriteByte('\n')
	return sb.String()
}
