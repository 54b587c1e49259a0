// Command tmi-echo connects to Twitch chat and echoes every received
// message to stdout.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/neon-sunset/minitwitch/tmi"
)

func main() {
	username := flag.String("user", "", "Twitch username (used together with -token)")
	token := flag.String("token", os.Getenv("TMI_TOKEN"), "OAuth token (without the oauth: prefix); omit for anonymous/read-only mode")
	channel := flag.String("channel", "", "Channel to join")
	global := flag.Bool("global-ratelimit", false, "Account sends against the global quota instead of per-channel")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "tmi-echo - connect to Twitch chat and print messages\n\n")
		fmt.Fprintf(os.Stderr, "Usage: tmi-echo -channel <name> [-user <name> -token <oauth token>]\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *channel == "" {
		fmt.Fprintln(os.Stderr, "error: -channel is required")
		flag.Usage()
		os.Exit(1)
	}

	client := tmi.NewClient(*username, *token,
		tmi.WithGlobalRateLimit(*global),
	)

	client.OnMessage(func(msg *tmi.ChatMessage) {
		fmt.Printf("#%s <%s> %s\n", msg.Channel, msg.User, msg.Message)
	}).OnConnect(func() {
		fmt.Println("connected")
	}).OnReconnect(func() {
		fmt.Println("reconnected")
	}).OnNotice(func(n *tmi.Notice) {
		fmt.Fprintf(os.Stderr, "NOTICE [%s]: %s\n", n.MsgID, n.Message)
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if !client.Connect(ctx) {
		fmt.Fprintln(os.Stderr, "failed to connect")
		os.Exit(1)
	}

	if !client.Join(ctx, *channel) {
		fmt.Fprintf(os.Stderr, "failed to join #%s\n", *channel)
		os.Exit(1)
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	fmt.Println("\nshutting down...")
	_ = client.Dispose(context.Background())
}
