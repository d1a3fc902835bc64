package notifications

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Kushal-np/SocialMedia/cmd/cli/client"
	"github.com/Kushal-np/SocialMedia/cmd/cli/output"
	"github.com/spf13/cobra"
)

type apiNotification struct {
	ID   int `json:"id"`
	From struct {
		Username string `json:"username"`
	} `json:"from"`
	Kind      string    `json:"kind"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"createdAt"`
}

// Init registers notification commands on the root command.
func Init(rootCmd *cobra.Command) {
	notifCmd := &cobra.Command{
		Use:   "notifications",
		Short: "Manage your notification feed",
	}
	notifCmd.AddCommand(listCmd(), clearCmd())
	rootCmd.AddCommand(notifCmd)
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			var notifs []apiNotification
			if err := client.Call(http.MethodGet, "/notification/", nil, &notifs, true); err != nil {
				return fmt.Errorf("fetch notifications failed: %w", err)
			}
			rows := make([][]interface{}, 0, len(notifs))
			for _, n := range notifs {
				rows = append(rows, []interface{}{
					n.ID, n.From.Username, n.Kind, n.Read, n.CreatedAt.Format(time.RFC3339),
				})
			}
			output.RenderTable([]string{"ID", "From", "Kind", "Read", "Created"}, rows)
			return nil
		},
	}
}

func clearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all your notifications",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Call(http.MethodDelete, "/notification/", nil, nil, true); err != nil {
				return fmt.Errorf("clear notifications failed: %w", err)
			}
			fmt.Println("Notifications cleared.")
			return nil
		},
	}
}
