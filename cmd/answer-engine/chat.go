// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/answer-engine/internal/answer"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive question-answering loop",
	Long: `Chat reads questions from standard input in a loop and answers each one
through the same pipeline as ask. Blank lines are ignored; "exit" or "quit"
(case-insensitive) ends the session.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, args []string) error {
	eng, st, err := openEngine()
	if err != nil {
		return err
	}
	defer st.Close()

	return chatLoop(cmd.Context(), eng, cmd.InOrStdin(), cmd.OutOrStdout())
}

func chatLoop(ctx context.Context, eng *answer.Engine, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Query> ")
		if !scanner.Scan() {
			break
		}
		query := strings.TrimSpace(scanner.Text())
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "exit", "quit":
			return scanner.Err()
		}

		res, err := eng.Answer(ctx, query)
		if err != nil {
			fmt.Fprintf(out, "failed %q: %v\n", query, err)
			continue
		}
		printResult(out, res)
	}
	return scanner.Err()
}

func init() {
	rootCmd.AddCommand(chatCmd)
}
