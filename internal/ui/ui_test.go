package ui

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColorMode(t *testing.T) {
	assert.Equal(t, ColorAlways, NormalizeColorMode(" ALWAYS "))
	assert.Equal(t, ColorNever, NormalizeColorMode("never"))
	assert.Equal(t, ColorAuto, NormalizeColorMode("bogus"))
}

func TestMessagesWithoutColor(t *testing.T) {
	var out, errOut bytes.Buffer
	u := New(&out, &errOut, ColorNever, false)

	u.Infof("stored %d\n", 2)
	u.Successf("done")
	u.Warnf("careful")
	u.Errorf("failed: %s", "boom")
	u.Notef("page %d", 1)

	assert.Equal(t, "stored 2\ndone\n", out.String())
	assert.Equal(t, "careful\nfailed: boom\npage 1\n", errOut.String())
}

func TestColorDisabledByFlagAndEnv(t *testing.T) {
	var out bytes.Buffer
	assert.False(t, New(&out, &out, ColorAlways, true).ColorEnabled)

	t.Setenv("NO_COLOR", "1")
	assert.False(t, New(&out, &out, ColorAlways, false).ColorEnabled)
}

func TestStatusTextPlain(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, ColorNever, false)
	assert.Equal(t, "inserted", u.StatusText("inserted"))
	assert.Equal(t, "https://example.com", u.LinkText("https://example.com"))
}

func TestSpinnerNoopOffTerminal(t *testing.T) {
	var out bytes.Buffer
	u := New(&out, &out, ColorNever, false)
	stop := u.Spinner("Crawling")
	stop()
	assert.Empty(t, out.String())
}
