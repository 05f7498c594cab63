package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDemoScript(t *testing.T) {
	var out bytes.Buffer
	Demo(&out)
	got := out.String()

	assert.Contains(t, got, "TRADE symbol=FOO px=100 qty=50 buy=3 sell=1")
	assert.Contains(t, got, "TRADE symbol=FOO px=100 qty=30 buy=3 sell=2")
	assert.Contains(t, got, "after cancel:")
	assert.Contains(t, got, "FOO bid=none x 0   ask=none x 0")
	assert.Contains(t, got, "after FOK(80) BAZ bid=none x 0   ask=100 x 50")
	assert.Contains(t, got, "after FOK(40) BAZ bid=none x 0   ask=100 x 10")
	assert.Contains(t, got, "QUX bid=101 x 100   ask=102 x 30")
	assert.Contains(t, got, "FOO trades=2 volume=80 last_px=100")
	assert.Contains(t, got, "ASY TRADE symbol=ASY px=100 qty=50 buy=2 sell=1")
	assert.Contains(t, got, "ASY bid=none x 0   ask=none x 0")
}

func TestBenchSmallRun(t *testing.T) {
	var out bytes.Buffer
	Bench(&out, 2000)
	assert.Contains(t, out.String(), "Processed 2000 events in")
	assert.Contains(t, out.String(), "Trades executed:")
}

func TestBenchAsyncSmallRun(t *testing.T) {
	var out bytes.Buffer
	BenchAsync(&out, 2000, 1<<8)
	assert.Contains(t, out.String(), "Processed 2000 events in")
	assert.Contains(t, out.String(), "FOO trades=")
}
