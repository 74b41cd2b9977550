package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func runMemoryListCommand(cmd *cobra.Command, args []string) error {
	container, err := newContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	res, err := container.ChatService.ListMemories(cmd.Context())
	if err != nil {
		return err
	}

	dimColor.Printf("%d memories (%s backend)\n\n", res.Total, res.Backend)
	for i, r := range res.Records {
		agentColor.Printf("%d. Q: ", i+1)
		fmt.Println(r.Question)
		fmt.Printf("   A: %s\n\n", r.Answer)
	}
	return nil
}
