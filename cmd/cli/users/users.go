package users

import (
	"fmt"
	"net/http"

	"github.com/Kushal-np/SocialMedia/cmd/cli/client"
	"github.com/Kushal-np/SocialMedia/cmd/cli/output"
	"github.com/spf13/cobra"
)

type apiUser struct {
	ID        int    `json:"id"`
	FullName  string `json:"fullName"`
	Username  string `json:"username"`
	Bio       string `json:"bio"`
	Followers []int  `json:"followers"`
	Following []int  `json:"following"`
}

// Init registers user commands on the root command.
func Init(rootCmd *cobra.Command) {
	userCmd := &cobra.Command{
		Use:   "user",
		Short: "Profiles and the follow graph",
	}
	userCmd.AddCommand(profileCmd(), suggestedCmd(), followCmd())
	rootCmd.AddCommand(userCmd)
}

func profileCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "profile <username>",
		Short: "Show a user's profile",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var u apiUser
			if err := client.Call(http.MethodGet, "/user/profile/"+args[0], nil, &u, false); err != nil {
				return fmt.Errorf("fetch profile failed: %w", err)
			}
			output.RenderTable(
				[]string{"ID", "Name", "Username", "Bio", "Followers", "Following"},
				[][]interface{}{{u.ID, u.FullName, u.Username, u.Bio, len(u.Followers), len(u.Following)}},
			)
			return nil
		},
	}
}

func suggestedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "suggested",
		Short: "Show users you might want to follow",
		RunE: func(cmd *cobra.Command, args []string) error {
			var users []apiUser
			if err := client.Call(http.MethodGet, "/user/suggested", nil, &users, true); err != nil {
				return fmt.Errorf("fetch suggestions failed: %w", err)
			}
			rows := make([][]interface{}, 0, len(users))
			for _, u := range users {
				rows = append(rows, []interface{}{u.ID, u.FullName, u.Username})
			}
			output.RenderTable([]string{"ID", "Name", "Username"}, rows)
			return nil
		},
	}
}

func followCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "follow <user-id>",
		Short: "Follow or unfollow a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string `json:"message"`
			}
			if err := client.Call(http.MethodPost, "/user/follow/"+args[0], nil, &resp, true); err != nil {
				return fmt.Errorf("follow failed: %w", err)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
}
