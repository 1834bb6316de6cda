package main

import (
	"context"
	"time"

	client "github.com/hugolgst/rich-go/client"
)

var discordReady bool

func initDiscordRPC(ctx context.Context) {
	if err := client.Login("1406171210240360509"); err != nil {
		logError("discord rpc login: %v", err)
		return
	}
	discordReady = true
	now := time.Now()
	if err := client.SetActivity(client.Activity{
		State:      "Tilevale",
		Details:    "In game",
		Timestamps: &client.Timestamps{Start: &now},
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
	go func() {
		<-ctx.Done()
		client.Logout()
	}()
}

// updateDiscordStatus reflects the current world and map in the rich
// presence after loads and teleports.
func updateDiscordStatus(world, mapID string) {
	if !discordReady {
		return
	}
	if err := client.SetActivity(client.Activity{
		State:   "Exploring " + world,
		Details: mapID,
	}); err != nil {
		logError("discord rpc activity: %v", err)
	}
}
