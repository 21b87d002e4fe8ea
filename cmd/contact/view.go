package main

import (
	"fmt"
	"io"
	"time"

	"github.com/briandowns/spinner"

	"github.com/nazarhussain/site-contact/internal/client"
)

// terminalView renders controller feedback on a terminal. Pending states show
// a spinner on the error stream; final messages go to out.
type terminalView struct {
	out  io.Writer
	spin *spinner.Spinner
}

func newTerminalView(out, errOut io.Writer) *terminalView {
	return &terminalView{
		out:  out,
		spin: spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(errOut)),
	}
}

func (v *terminalView) SetMessage(kind client.MessageKind, text string) {
	v.stop()
	switch {
	case text == "":
	case kind == client.Info:
		v.spin.Suffix = " " + text
		v.spin.Start()
	case kind == client.Error:
		fmt.Fprintln(v.out, "error:", text)
	default:
		fmt.Fprintln(v.out, text)
	}
}

func (v *terminalView) Reset() {}

func (v *terminalView) Open(url string) {
	v.stop()
	fmt.Fprintln(v.out, "Open this link in your mail client to send the message yourself:")
	fmt.Fprintln(v.out, url)
}

func (v *terminalView) stop() {
	if v.spin.Active() {
		v.spin.Stop()
	}
}
