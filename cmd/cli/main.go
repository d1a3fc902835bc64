package main

import (
	"fmt"
	"os"

	"github.com/Kushal-np/SocialMedia/cmd/cli/auth"
	"github.com/Kushal-np/SocialMedia/cmd/cli/notifications"
	"github.com/Kushal-np/SocialMedia/cmd/cli/posts"
	"github.com/Kushal-np/SocialMedia/cmd/cli/root"
	"github.com/Kushal-np/SocialMedia/cmd/cli/users"
)

func main() {
	rootCmd := root.GetRoot()
	auth.Init(rootCmd)
	posts.Init(rootCmd)
	users.Init(rootCmd)
	notifications.Init(rootCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
