package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	tcruntime "github.com/gosuda/tinyc/runtime"
)

type appConfig struct {
	file     string
	debug    bool
	envPath  string
	dumpPath string
	timeout  time.Duration
}

type vmStartedMsg struct {
	events   <-chan tea.Msg
	requests chan<- string
}

type vmOutputMsg struct {
	out tcruntime.Output
}

// vmBusyMsg announces a run; cancel interrupts just that run.
type vmBusyMsg struct {
	label  string
	cancel context.CancelFunc
}

type vmDoneMsg struct {
	err error
}

type vmPollMsg struct{}

// vmClosedMsg reports that the VM goroutine has exited.
type vmClosedMsg struct{}
