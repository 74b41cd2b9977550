package main

import (
	"fmt"
	"strings"

	"darwinian-be/internal/dto"

	"github.com/spf13/cobra"
)

func runRefineCommand(cmd *cobra.Command, args []string) error {
	container, err := newContainer()
	if err != nil {
		return err
	}
	defer container.Close()

	question := strings.Join(args, " ")
	dimColor.Printf("refining with %s: %s\n", cfg.Ai.RefineModel, question)

	res, err := container.RefineService.Refine(cmd.Context(), &dto.RefineRequest{Question: question})
	if err != nil {
		return err
	}

	for _, rev := range res.History {
		agentColor.Printf("revision %d ", rev.Revision)
		dimColor.Printf("score %d/10\n", rev.Score)
	}
	fmt.Printf("\n%s\n\n", res.Answer)
	okColor.Printf("final score %d/10 after %d revisions\n", res.Score, res.Revisions)
	return nil
}
