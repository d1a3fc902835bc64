package posts

import (
	"fmt"
	"net/http"
	"time"

	"github.com/Kushal-np/SocialMedia/cmd/cli/client"
	"github.com/Kushal-np/SocialMedia/cmd/cli/output"
	"github.com/spf13/cobra"
)

// feedPost mirrors the API's post shape; only the fields the tables show.
type feedPost struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	User struct {
		Username string `json:"username"`
	} `json:"user"`
	Likes     []int     `json:"likes"`
	Comments  []any     `json:"comments"`
	CreatedAt time.Time `json:"createdAt"`
}

// Init registers post commands on the root command.
func Init(rootCmd *cobra.Command) {
	postCmd := &cobra.Command{
		Use:   "post",
		Short: "Create and browse posts",
	}
	postCmd.AddCommand(createCmd(), allCmd(), feedCmd(), likeCmd(), commentCmd(), deleteCmd())
	rootCmd.AddCommand(postCmd)
}

func createCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a text post",
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return fmt.Errorf("text is required")
			}
			var resp feedPost
			if err := client.CallMultipart("/post/create", map[string]string{"text": text}, &resp); err != nil {
				return fmt.Errorf("create post failed: %w", err)
			}
			fmt.Printf("Created post %d\n", resp.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Post text")
	return cmd
}

func allCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "all",
		Short: "Show the global feed",
		RunE: func(cmd *cobra.Command, args []string) error {
			var posts []feedPost
			if err := client.Call(http.MethodGet, "/post/AllPosts", nil, &posts, false); err != nil {
				return fmt.Errorf("fetch feed failed: %w", err)
			}
			renderPosts(posts)
			return nil
		},
	}
}

func feedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "feed",
		Short: "Show posts from users you follow",
		RunE: func(cmd *cobra.Command, args []string) error {
			var posts []feedPost
			if err := client.Call(http.MethodGet, "/post/following", nil, &posts, true); err != nil {
				return fmt.Errorf("fetch feed failed: %w", err)
			}
			renderPosts(posts)
			return nil
		},
	}
}

func likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "like <post-id>",
		Short: "Like or unlike a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp struct {
				Message string `json:"message"`
			}
			if err := client.Call(http.MethodPost, "/post/like/"+args[0], nil, &resp, true); err != nil {
				return fmt.Errorf("like failed: %w", err)
			}
			fmt.Println(resp.Message)
			return nil
		},
	}
}

func commentCmd() *cobra.Command {
	var text string

	cmd := &cobra.Command{
		Use:   "comment <post-id>",
		Short: "Comment on a post",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if text == "" {
				return fmt.Errorf("text is required")
			}
			if err := client.Call(http.MethodPost, "/post/comment/"+args[0],
				map[string]string{"text": text}, nil, true); err != nil {
				return fmt.Errorf("comment failed: %w", err)
			}
			fmt.Println("Comment added.")
			return nil
		},
	}

	cmd.Flags().StringVar(&text, "text", "", "Comment text")
	return cmd
}

func deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <post-id>",
		Short: "Delete one of your posts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := client.Call(http.MethodDelete, "/post/"+args[0], nil, nil, true); err != nil {
				return fmt.Errorf("delete failed: %w", err)
			}
			fmt.Println("Post deleted.")
			return nil
		},
	}
}

func renderPosts(posts []feedPost) {
	rows := make([][]interface{}, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, []interface{}{
			p.ID, p.User.Username, truncate(p.Text, 60),
			len(p.Likes), len(p.Comments), p.CreatedAt.Format(time.RFC3339),
		})
	}
	output.RenderTable([]string{"ID", "Author", "Text", "Likes", "Comments", "Created"}, rows)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}
