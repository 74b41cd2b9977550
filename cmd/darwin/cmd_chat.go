package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"darwinian-be/internal/dto"
	"darwinian-be/internal/service"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func runChatCommand(cmd *cobra.Command, args []string) error {
	container, err := newContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Forwards session events to NATS when configured
	if err := container.Start(ctx); err != nil {
		return err
	}

	chat := container.ChatService
	session, err := chat.CreateSession(ctx, &dto.CreateSessionRequest{
		Settings: dto.SettingsRequest{APIKey: apiKey, CoderModel: coderModel},
	})
	if err != nil {
		return err
	}
	fmt.Println(session.Greeting)
	dimColor.Printf("session %s\n\n", session.Id)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		promptColor.Print("you> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())

		switch strings.ToLower(line) {
		case "exit", "quit":
			return nil
		case dto.ActionGood:
			approve(ctx, chat, session.Id)
		case dto.ActionBad:
			promptColor.Print("what was wrong? ")
			if !scanner.Scan() {
				return scanner.Err()
			}
			reject(ctx, chat, session.Id, scanner.Text())
		case dto.ActionVerify:
			verify(ctx, chat, session.Id)
		default:
			turn(ctx, chat, session.Id, line)
		}

		if ctx.Err() != nil {
			return nil
		}
	}
}

func turn(ctx context.Context, chat service.IChatService, id uuid.UUID, message string) {
	res, err := chat.SendMessage(ctx, id, &dto.SendMessageRequest{Message: message})
	if err != nil {
		warnColor.Printf("error: %v\n", err)
		return
	}

	agentColor.Printf("[%s] ", strings.ToUpper(res.Agent))
	dimColor.Println(res.Reasoning)
	if res.Plan != "" {
		dimColor.Printf("plan:\n%s\n", res.Plan)
	}
	if res.RecalledMemory {
		dimColor.Println("(recalled lessons from memory)")
	}
	fmt.Printf("\n%s\n\n", res.Output)
	dimColor.Printf("actions: %s\n", strings.Join(res.Actions, " | "))
}

func approve(ctx context.Context, chat service.IChatService, id uuid.UUID) {
	res, err := chat.Approve(ctx, id)
	if err != nil {
		printActionError(err)
		return
	}
	okColor.Printf("✅ Logic reinforced. Total memories: %d\n", res.TotalMemories)
}

func reject(ctx context.Context, chat service.IChatService, id uuid.UUID, feedback string) {
	if strings.TrimSpace(feedback) == "" {
		warnColor.Println("feedback is required")
		return
	}
	res, err := chat.Reject(ctx, id, &dto.RejectRequest{Feedback: feedback})
	if err != nil {
		printActionError(err)
		return
	}
	fmt.Printf("\n%s\n\n", res.Fixed)
	if res.Saved {
		okColor.Printf("🧠 Correction learned. Total memories: %d\n", res.TotalMemories)
	}
}

func verify(ctx context.Context, chat service.IChatService, id uuid.UUID) {
	res, err := chat.Verify(ctx, id)
	if err != nil {
		printActionError(err)
		return
	}
	agentColor.Println("[AUDIT]")
	fmt.Printf("%s\n\n", res.Report)
}

func printActionError(err error) {
	switch {
	case errors.Is(err, service.ErrNoAnswer):
		warnColor.Println("nothing to act on yet, ask something first")
	case errors.Is(err, service.ErrNoCodeToVerify):
		warnColor.Println("the last answer has no code to verify")
	default:
		warnColor.Printf("error: %v\n", err)
	}
}
