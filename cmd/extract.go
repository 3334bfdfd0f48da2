package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/replica-matcher/internal/session"
)

var extractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Extract and rank people from an assistant message read from a file or stdin",
	Run: func(cmd *cobra.Command, _ []string) {
		extract(cmd)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringP("file", "f", "", "a file with the assistant message (default is stdin)")
	extractCmd.Flags().StringP("query", "q", "", "the user request the message answers")
	extractCmd.Flags().StringP("replica", "r", "", "the replica that wrote the message")
}

func extract(cmd *cobra.Command) {
	// stdout carries the result
	rt := setup("stderr")

	content, err := readMessage(cmd)
	if err != nil {
		rt.logger.Fatal("reading message", zap.Error(err))
	}

	query, _ := cmd.Flags().GetString("query")
	replicaName, _ := cmd.Flags().GetString("replica")
	if replicaName == "" {
		replicaName = rt.config.Replica
	}

	result, err := rt.tracker.Observe(cmd.Context(), session.Message{
		ID:        uuid.NewString(),
		Role:      session.RoleAssistant,
		Content:   content,
		Replica:   replicaName,
		UserQuery: query,
		Created:   time.Now(),
	})
	if err != nil {
		rt.logger.Fatal("processing message", zap.Error(err))
	}

	rt.logger.Debug("message processed",
		zap.String("category", string(result.Category)),
		zap.Int("people", len(result.People)),
	)

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		rt.logger.Fatal("writing result", zap.Error(err))
	}
}

func readMessage(cmd *cobra.Command) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	if path == "" || path == "-" {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading file %q: %w", path, err)
	}
	return string(data), nil
}
