package cli

import (
	"github.com/spf13/cobra"
)

func newLobbyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lobby",
		Short: "Game room commands",
	}

	cmd.AddCommand(newLobbyListCmd())
	cmd.AddCommand(newLobbyGetCmd())
	cmd.AddCommand(newLobbyCreateCmd())
	cmd.AddCommand(newLobbyJoinCmd())
	cmd.AddCommand(newLobbyLeaveCmd())
	cmd.AddCommand(newLobbyKickCmd())
	cmd.AddCommand(newLobbyDeleteCmd())

	return cmd
}

func newLobbyListCmd() *cobra.Command {
	var mine bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List game rooms",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "/api/v1/lobby"
			if mine {
				userID, err := requireUser()
				if err != nil {
					return err
				}
				path += "?userId=" + userID
			}

			var result []Game
			if err := client.Get(path, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().BoolVar(&mine, "mine", false, "Only rooms you created or joined")

	return cmd
}

func newLobbyGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <game-id>",
		Short: "Show a game room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var result Game
			if err := client.Get("/api/v1/lobby/"+args[0], &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLobbyCreateCmd() *cobra.Command {
	var name, password string
	var maxPlayers int

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a game room",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]any{
				"name":    name,
				"creator": userID,
			}
			if maxPlayers > 0 {
				req["maxPlayers"] = maxPlayers
			}
			if password != "" {
				req["password"] = password
			}

			var result Game
			if err := client.Post("/api/v1/lobby", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Game name (required)")
	cmd.Flags().IntVar(&maxPlayers, "max-players", 0, "Player cap (1-4, default 4)")
	cmd.Flags().StringVar(&password, "password", "", "Join password")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newLobbyJoinCmd() *cobra.Command {
	var password string

	cmd := &cobra.Command{
		Use:   "join <game-id>",
		Short: "Join a game room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]string{"userId": userID}
			if password != "" {
				req["password"] = password
			}

			var result Game
			if err := client.Post("/api/v1/lobby/"+args[0]+"/join", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "Join password")

	return cmd
}

func newLobbyLeaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "leave <game-id>",
		Short: "Leave a game room",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]string{"userId": userID}

			var result Game
			if err := client.Post("/api/v1/lobby/"+args[0]+"/leave", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}
}

func newLobbyKickCmd() *cobra.Command {
	var target string

	cmd := &cobra.Command{
		Use:   "kick <game-id>",
		Short: "Kick a player from a game room you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]string{
				"requesterId": userID,
				"targetId":    target,
			}

			var result Game
			if err := client.Post("/api/v1/lobby/"+args[0]+"/kick", req, &result); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&target, "target", "", "User id to kick (required)")
	_ = cmd.MarkFlagRequired("target")

	return cmd
}

func newLobbyDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <game-id>",
		Short: "Delete a game room you created",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := requireUser()
			if err != nil {
				return err
			}

			req := map[string]string{"userId": userID}
			if err := client.Delete("/api/v1/lobby/"+args[0], req); err != nil {
				return err
			}

			out := NewOutput(cfg.Output)
			out.PrintMessage("Game deleted")
			return nil
		},
	}
}
