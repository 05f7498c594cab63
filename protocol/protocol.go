// Package protocol implements the line-oriented text protocol: one
// comma-separated record per line, parsed into engine events, plus
// the formatters for trade and top-of-book output lines.
package protocol

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"kestrel/domain/book"
	"kestrel/engine"
)

// ErrSkip marks blank lines and comments: not an error worth
// reporting, just nothing to do.
var ErrSkip = errors.New("blank or comment line")

// Fields splits a record on commas and trims each field.
func Fields(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

func ParseSide(tok string) (book.Side, bool) {
	switch tok {
	case "B":
		return book.Buy, true
	case "S":
		return book.Sell, true
	}
	return book.Buy, false
}

func ParseTIF(tok string) (book.TimeInForce, bool) {
	switch tok {
	case "GFD":
		return book.GFD, true
	case "IOC":
		return book.IOC, true
	case "FOK":
		return book.FOK, true
	}
	return book.GFD, false
}

// ParseLine parses one L/M/C/R record into an Event. Malformed lines
// return a descriptive error and must not mutate any state; blank
// lines and '#' comments return ErrSkip.
func ParseLine(raw string) (engine.Event, error) {
	line := strings.TrimSpace(raw)
	if line == "" || line[0] == '#' {
		return engine.Event{}, ErrSkip
	}

	fields := Fields(line)
	switch fields[0] {
	case "L":
		return parseLimit(line, fields)
	case "M":
		return parseMarket(line, fields)
	case "C":
		return parseCancel(line, fields)
	case "R":
		return parseReplace(line, fields)
	}
	return engine.Event{}, fmt.Errorf("unknown event type in line: %s", line)
}

// L,symbol,side,price,qty,tif
// L,user,symbol,side,price,qty,tif
func parseLimit(line string, fields []string) (engine.Event, error) {
	ev := engine.Event{Type: engine.EventNewLimit, UserID: 1}

	var sideTok, pxTok, qtyTok, tifTok string
	switch len(fields) {
	case 6:
		ev.Symbol = fields[1]
		sideTok, pxTok, qtyTok, tifTok = fields[2], fields[3], fields[4], fields[5]
	case 7:
		user, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return ev, fmt.Errorf("invalid user id in line: %s", line)
		}
		ev.UserID = user
		ev.Symbol = fields[2]
		sideTok, pxTok, qtyTok, tifTok = fields[3], fields[4], fields[5], fields[6]
	default:
		return ev, fmt.Errorf("invalid L line: %s", line)
	}

	var ok bool
	if ev.Side, ok = ParseSide(sideTok); !ok {
		return ev, fmt.Errorf("invalid side in line: %s", line)
	}
	px, err1 := strconv.ParseInt(pxTok, 10, 64)
	qty, err2 := strconv.ParseInt(qtyTok, 10, 64)
	if err1 != nil || err2 != nil {
		return ev, fmt.Errorf("invalid price/qty in line: %s", line)
	}
	ev.Price, ev.Qty = px, qty
	if ev.TIF, ok = ParseTIF(tifTok); !ok {
		return ev, fmt.Errorf("invalid TIF in line: %s", line)
	}
	return ev, nil
}

// M,symbol,side,qty
// M,user,symbol,side,qty
func parseMarket(line string, fields []string) (engine.Event, error) {
	ev := engine.Event{Type: engine.EventNewMarket, UserID: 1, TIF: book.IOC}

	var sideTok, qtyTok string
	switch len(fields) {
	case 4:
		ev.Symbol = fields[1]
		sideTok, qtyTok = fields[2], fields[3]
	case 5:
		user, err := strconv.ParseInt(fields[1], 10, 64)
		if err != nil {
			return ev, fmt.Errorf("invalid user id in line: %s", line)
		}
		ev.UserID = user
		ev.Symbol = fields[2]
		sideTok, qtyTok = fields[3], fields[4]
	default:
		return ev, fmt.Errorf("invalid M line: %s", line)
	}

	var ok bool
	if ev.Side, ok = ParseSide(sideTok); !ok {
		return ev, fmt.Errorf("invalid side in line: %s", line)
	}
	qty, err := strconv.ParseInt(qtyTok, 10, 64)
	if err != nil {
		return ev, fmt.Errorf("invalid qty in line: %s", line)
	}
	ev.Qty = qty
	return ev, nil
}

// C,symbol,orderId
func parseCancel(line string, fields []string) (engine.Event, error) {
	ev := engine.Event{Type: engine.EventCancel, UserID: 1}
	if len(fields) != 3 {
		return ev, fmt.Errorf("invalid C line: %s", line)
	}
	ev.Symbol = fields[1]
	id, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return ev, fmt.Errorf("invalid orderId in line: %s", line)
	}
	ev.ID = id
	return ev, nil
}

// R,symbol,oldId,side,price,qty,tif
func parseReplace(line string, fields []string) (engine.Event, error) {
	ev := engine.Event{Type: engine.EventReplace, UserID: 1}
	if len(fields) != 7 {
		return ev, fmt.Errorf("invalid R line: %s", line)
	}
	ev.Symbol = fields[1]
	id, err := strconv.ParseInt(fields[2], 10, 64)
	if err != nil {
		return ev, fmt.Errorf("invalid oldId in line: %s", line)
	}
	ev.ID = id
	var ok bool
	if ev.Side, ok = ParseSide(fields[3]); !ok {
		return ev, fmt.Errorf("invalid side in line: %s", line)
	}
	px, err1 := strconv.ParseInt(fields[4], 10, 64)
	qty, err2 := strconv.ParseInt(fields[5], 10, 64)
	if err1 != nil || err2 != nil {
		return ev, fmt.Errorf("invalid price/qty in line: %s", line)
	}
	ev.Price, ev.Qty = px, qty
	if ev.TIF, ok = ParseTIF(fields[6]); !ok {
		return ev, fmt.Errorf("invalid TIF in line: %s", line)
	}
	return ev, nil
}

// ---- output formatting ----

// TradeLine renders the trades.log CSV record.
func TradeLine(t book.Trade) string {
	return fmt.Sprintf("T,%s,%d,%d,%d,%d", t.Symbol, t.Price, t.Qty, t.BuyID, t.SellID)
}

// TopOfBookLine renders the one-line book summary printed after each
// accepted command and in replay summaries.
func TopOfBookLine(symbol string, tob engine.TopOfBook) string {
	bid, bidSize := "none", "0"
	if tob.HasBid {
		bid = strconv.FormatInt(tob.BestBid, 10)
		bidSize = strconv.FormatInt(tob.BidSize, 10)
	}
	ask, askSize := "none", "0"
	if tob.HasAsk {
		ask = strconv.FormatInt(tob.BestAsk, 10)
		askSize = strconv.FormatInt(tob.AskSize, 10)
	}
	line := fmt.Sprintf("%s bid=%s x %s   ask=%s x %s", symbol, bid, bidSize, ask, askSize)
	if tob.HasMid {
		line += fmt.Sprintf("   mid=%d", tob.Mid)
	}
	return line
}
