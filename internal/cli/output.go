package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case User:
		o.printUser(v)
	case Game:
		o.printGame(v)
	case []Game:
		o.printGames(v)
	case []Message:
		o.printMessages(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// User response type (matches API)
type User struct {
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	Deleted   bool      `json:"deleted"`
	CreatedAt time.Time `json:"createdAt"`
}

// GameMember response type
type GameMember struct {
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Deleted  bool   `json:"deleted"`
}

// Game response type
type Game struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Creator         string       `json:"creator"`
	CreatorNickname string       `json:"creatorNickname"`
	CreatorDeleted  bool         `json:"creatorDeleted"`
	MaxPlayers      int          `json:"maxPlayers"`
	HasPassword     bool         `json:"hasPassword"`
	Players         []GameMember `json:"players"`
	Created         time.Time    `json:"created"`
}

// Message response type
type Message struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	GameID      string    `json:"gameId"`
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	Nickname    string    `json:"nickname"`
	Message     string    `json:"message"`
	Timestamp   time.Time `json:"timestamp"`
	Private     bool      `json:"private"`
	RecipientID string    `json:"recipientId"`
	Deleted     bool      `json:"deleted"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printUser(u User) {
	fmt.Printf("User: %s (%s)\n", u.Nickname, u.UserID)
	fmt.Printf("Username: %s\n", u.Username)
	if u.Deleted {
		fmt.Println("Deleted: yes")
	}
}

func (o *Output) printGame(g Game) {
	fmt.Printf("Game: %s (%s)\n", g.Name, g.ID)
	fmt.Printf("Creator: %s\n", g.CreatorNickname)
	lockStr := "no"
	if g.HasPassword {
		lockStr = "yes"
	}
	fmt.Printf("Password: %s\n", lockStr)
	fmt.Printf("Players (%d/%d):\n", len(g.Players), g.MaxPlayers)
	for _, m := range g.Players {
		deletedStr := ""
		if m.Deleted {
			deletedStr = " [deleted]"
		}
		fmt.Printf("  - %s (%s)%s\n", m.Nickname, m.UserID, deletedStr)
	}
}

func (o *Output) printGames(games []Game) {
	if len(games) == 0 {
		fmt.Println("No games")
		return
	}
	for _, g := range games {
		lockStr := ""
		if g.HasPassword {
			lockStr = " [locked]"
		}
		fmt.Printf("%s  %s  %d/%d players%s\n", g.ID, g.Name, len(g.Players), g.MaxPlayers, lockStr)
	}
}

func (o *Output) printMessages(messages []Message) {
	if len(messages) == 0 {
		fmt.Println("No messages")
		return
	}
	for _, m := range messages {
		privateStr := ""
		if m.Private {
			privateStr = " (private)"
		}
		fmt.Printf("[%s] %s%s: %s\n", m.Timestamp.Format("15:04:05"), m.Nickname, privateStr, m.Message)
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
