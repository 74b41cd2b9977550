package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"darwinian-be/pkg/events"
	pktNats "darwinian-be/pkg/nats"

	"github.com/spf13/cobra"
)

func runEventsCommand(cmd *cobra.Command, args []string) error {
	if cfg.App.NatsURL == "" {
		return errors.New("NATS_URL is not set")
	}

	sub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		return err
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, pktNats.SubjectWildcard, durable, func(_ context.Context, e events.Event) error {
		data, _ := json.Marshal(e.Payload())
		agentColor.Printf("%s ", e.EventType())
		dimColor.Printf("%s %s ", e.Timestamp().Format("15:04:05"), e.SessionID())
		fmt.Println(string(data))
		return nil
	})
	if err != nil {
		return err
	}

	dimColor.Printf("listening on %s (ctrl-c to stop)\n", pktNats.SubjectWildcard)
	<-ctx.Done()
	return nil
}
