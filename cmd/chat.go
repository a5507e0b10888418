package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/enfoco/enfoco/internal/gateway"
)

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask a question about a piece of context or a book",
	Long: `Answers a question grounded in the given context. With --book the
context is that book's description and the message defaults to a question
about its core theme.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contextText, _ := cmd.Flags().GetString("context")
		bookID, _ := cmd.Flags().GetInt("book")

		var message string
		if len(args) == 1 {
			message = args[0]
		}

		if bookID != 0 {
			cat, err := loadCatalog(cfg)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}
			desc, ok := cat.BookContext(bookID)
			if !ok {
				return fmt.Errorf("no book with id %d", bookID)
			}
			contextText = desc
			if strings.TrimSpace(message) == "" {
				message = gateway.DefaultBookQuestion
			}
		}
		if strings.TrimSpace(message) == "" {
			return fmt.Errorf("a message is required unless --book is given")
		}

		answer := newGateway(cfg, logger).Chat(cmd.Context(), contextText, message)
		fmt.Fprintln(cmd.OutOrStdout(), answer)
		return nil
	},
}

func init() {
	chatCmd.Flags().String("context", "", "context the answer is grounded in")
	chatCmd.Flags().Int("book", 0, "answer about the book with this id")
	rootCmd.AddCommand(chatCmd)
}
