package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/fueltrace/fleetsim/internal/dispatcher"
	"github.com/fueltrace/fleetsim/internal/sim"
	"github.com/fueltrace/fleetsim/internal/util"
)

// Dispatcher command names.
const (
	CmdAssignTrip = ":ASSIGN:TRIP:"
	CmdAckAlert   = ":ACK:ALERT:"
	CmdStatus     = ":STATUS:"
	CmdSnapshot   = ":SNAPSHOT:"
)

// registerCommands binds the engine's command surface to the dispatcher.
func registerCommands(d *dispatcher.Dispatcher, engine *sim.Engine) {
	d.Register(CmdAssignTrip, func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 2 {
			return nil, fmt.Errorf("assign trip: want <truckId> <zoneId>, got %d args", len(c.Args))
		}
		if err := engine.AssignTrip(c.Args[0], c.Args[1]); err != nil {
			return nil, err
		}
		return "assigned", nil
	}, dispatcher.Logged())

	d.Register(CmdAckAlert, func(c dispatcher.Command) (any, error) {
		if len(c.Args) < 1 {
			return nil, fmt.Errorf("ack alert: want <alertId>")
		}
		engine.AcknowledgeAlert(c.Args[0])
		return "acknowledged", nil
	}, dispatcher.Buffered(64), dispatcher.Logged())

	d.Register(CmdStatus, func(c dispatcher.Command) (any, error) {
		return engine.Status(), nil
	})

	d.Register(CmdSnapshot, func(c dispatcher.Command) (any, error) {
		snap := struct {
			Trucks any `json:"trucks"`
			Alerts any `json:"alerts"`
		}{
			Trucks: engine.Trucks(),
			Alerts: engine.Alerts(),
		}
		return snap, nil
	})
}

// verbs maps interactive stdin verbs to dispatcher command names.
var verbs = map[string]string{
	"ASSIGN":   CmdAssignTrip,
	"ACK":      CmdAckAlert,
	"STATUS":   CmdStatus,
	"SNAPSHOT": CmdSnapshot,
}

// readCommands drives the dispatcher from stdin lines:
//
//	assign TRK-001 delivery-2
//	ack <alertId>
//	status
//	snapshot
func readCommands(ctx context.Context, d *dispatcher.Dispatcher, logger *slog.Logger) {
	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return
		}
		verb, args, ok := util.ParseCommandLine(scanner.Text())
		if !ok {
			continue
		}
		name, ok := verbs[verb]
		if !ok {
			fmt.Fprintf(os.Stderr, "unknown command %q (want assign, ack, status, snapshot)\n", verb)
			continue
		}

		result, err := d.Dispatch(dispatcher.Command{
			Name:      name,
			Args:      args,
			Timestamp: time.Now().UTC(),
		})
		if err != nil {
			logger.Error("command failed", "command", name, "error", err)
			continue
		}
		switch v := result.(type) {
		case string:
			fmt.Println(v)
		default:
			out, err := json.MarshalIndent(v, "", "  ")
			if err != nil {
				logger.Error("encoding command result", "error", err)
				continue
			}
			fmt.Println(string(out))
		}
	}
}
