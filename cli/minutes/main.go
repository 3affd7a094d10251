package main

import (
	"os"

	minutescmder "github.com/team-mirai-volunteer-ota1975/gov-meeting-rag/cmd/minutes"
)

func main() {
	cmd := minutescmder.NewMinutesCmd()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
