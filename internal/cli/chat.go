package cli

import (
	"github.com/spf13/cobra"
)

func newChatCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Chat commands",
	}

	cmd.AddCommand(newChatSendCmd())
	cmd.AddCommand(newChatHistoryCmd())

	return cmd
}

func newChatSendCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "send <message>",
		Short: "Send a message to the lobby or a game channel",
		Long: `Send a chat message. Without --game the message goes to the lobby
channel; with --game it goes to that game's channel. Messages starting
with / are slash commands (try "/help").`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]string{
				"type":    "lobby",
				"userId":  userID,
				"message": args[0],
			}
			if gameID != "" {
				req["type"] = "game"
				req["gameId"] = gameID
			}

			var result Message
			if err := client.Post("/api/v1/chat", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			if result.ID == "" {
				// Slash command consumed without a message
				out.PrintMessage("OK")
				return nil
			}
			out.Print([]Message{result})
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game id for game chat")

	return cmd
}

func newChatHistoryCmd() *cobra.Command {
	var gameID string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent chat history",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			path := "/api/v1/chat?type=lobby&userId=" + userID
			if gameID != "" {
				path = "/api/v1/chat?type=game&gameId=" + gameID + "&userId=" + userID
			}

			var result []Message
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&gameID, "game", "", "Game id for game chat")

	return cmd
}
