package tmi

import (
	"context"
	"testing"
	"time"
)

// connectedTestClient returns a client already past the welcome handshake,
// ready to have raw lines injected straight at the dispatcher.
func connectedTestClient(t *testing.T) (*Client, *fakeTransport) {
	t.Helper()
	c, ft := newTestClient("bot", "tok")
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		c.Connect(ctx)
	}()
	time.Sleep(20 * time.Millisecond)
	ft.injectLine(":tmi.twitch.tv 001 bot :Welcome, GLHF!")
	time.Sleep(20 * time.Millisecond)
	return c, ft
}

func TestDispatchUserNoticeRoutesByType(t *testing.T) {
	cases := []struct {
		name string
		line string
		hook func(c *Client, got chan<- *UserNotice)
	}{
		{
			name: "sub",
			line: "@msg-id=sub;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c :subscribed!",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnSubscription(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "resub",
			line: "@msg-id=resub;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c :resubscribed!",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnSubscription(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "subgift",
			line: "@msg-id=subgift;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnGiftSub(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "submysterygift",
			line: "@msg-id=submysterygift;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnGiftSubIntro(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "giftpaidupgrade",
			line: "@msg-id=giftpaidupgrade;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnPaidUpgrade(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "primepaidupgrade",
			line: "@msg-id=primepaidupgrade;login=a;display-name=A :tmi.twitch.tv USERNOTICE #c",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnPrimeUpgrade(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "raid",
			line: "@msg-id=raid;msg-param-displayName=Raider;msg-param-viewerCount=5 :tmi.twitch.tv USERNOTICE #c",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnRaid(func(un *UserNotice) { got <- un }) },
		},
		{
			name: "announcement",
			line: "@msg-id=announcement :tmi.twitch.tv USERNOTICE #c :listen up",
			hook: func(c *Client, got chan<- *UserNotice) { c.OnAnnouncement(func(un *UserNotice) { got <- un }) },
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := connectedTestClient(t)
			got := make(chan *UserNotice, 1)
			tt.hook(c, got)

			ft.injectLine(tt.line)

			select {
			case un := <-got:
				if un.Channel != "c" {
					t.Errorf("expected channel c, got %q", un.Channel)
				}
			case <-time.After(time.Second):
				t.Fatalf("expected the %s hook to fire", tt.name)
			}
		})
	}
}

func TestDispatchUserNoticeUnknownTypeIgnored(t *testing.T) {
	c, ft := connectedTestClient(t)
	fired := make(chan struct{}, 1)
	c.OnSubscription(func(*UserNotice) { fired <- struct{}{} })

	ft.injectLine("@msg-id=something-made-up :tmi.twitch.tv USERNOTICE #c :whatever")
	time.Sleep(50 * time.Millisecond)

	select {
	case <-fired:
		t.Fatalf("expected an unrecognized msg-id not to fire OnSubscription")
	default:
	}
}

func TestDispatchClearChatThreeWay(t *testing.T) {
	cases := []struct {
		name string
		line string
		hook func(c *Client, got chan<- *ClearChat)
	}{
		{
			name: "chat cleared",
			line: ":tmi.twitch.tv CLEARCHAT #c",
			hook: func(c *Client, got chan<- *ClearChat) { c.OnChatClear(func(cc *ClearChat) { got <- cc }) },
		},
		{
			name: "ban",
			line: ":tmi.twitch.tv CLEARCHAT #c :baduser",
			hook: func(c *Client, got chan<- *ClearChat) { c.OnUserBan(func(cc *ClearChat) { got <- cc }) },
		},
		{
			name: "timeout",
			line: "@ban-duration=600 :tmi.twitch.tv CLEARCHAT #c :baduser",
			hook: func(c *Client, got chan<- *ClearChat) { c.OnUserTimeout(func(cc *ClearChat) { got <- cc }) },
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := connectedTestClient(t)
			got := make(chan *ClearChat, 1)
			tt.hook(c, got)

			ft.injectLine(tt.line)

			select {
			case <-got:
			case <-time.After(time.Second):
				t.Fatalf("expected the %s hook to fire", tt.name)
			}
		})
	}
}

func TestDispatchRoomStatePartialFieldsRouteToDistinctHooks(t *testing.T) {
	cases := []struct {
		name string
		line string
		hook func(c *Client, got chan<- *RoomState)
	}{
		{
			name: "emote-only",
			line: "@emote-only=1 :tmi.twitch.tv ROOMSTATE #c",
			hook: func(c *Client, got chan<- *RoomState) { c.OnEmoteOnly(func(rs *RoomState) { got <- rs }) },
		},
		{
			name: "followers-only",
			line: "@followers-only=10 :tmi.twitch.tv ROOMSTATE #c",
			hook: func(c *Client, got chan<- *RoomState) { c.OnFollowersOnly(func(rs *RoomState) { got <- rs }) },
		},
		{
			name: "r9k",
			line: "@r9k=1 :tmi.twitch.tv ROOMSTATE #c",
			hook: func(c *Client, got chan<- *RoomState) { c.OnUniqueChat(func(rs *RoomState) { got <- rs }) },
		},
		{
			name: "slow",
			line: "@slow=30 :tmi.twitch.tv ROOMSTATE #c",
			hook: func(c *Client, got chan<- *RoomState) { c.OnSlowMode(func(rs *RoomState) { got <- rs }) },
		},
		{
			name: "subs-only",
			line: "@subs-only=1 :tmi.twitch.tv ROOMSTATE #c",
			hook: func(c *Client, got chan<- *RoomState) { c.OnSubsOnly(func(rs *RoomState) { got <- rs }) },
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			c, ft := connectedTestClient(t)
			got := make(chan *RoomState, 1)
			tt.hook(c, got)

			ft.injectLine(tt.line)

			select {
			case <-got:
			case <-time.After(time.Second):
				t.Fatalf("expected the %s hook to fire", tt.name)
			}
		})
	}
}

func TestDispatchRoomStateMalformedLogsWarningNotPanic(t *testing.T) {
	c, ft := connectedTestClient(t)
	// no recognized field present and not a full snapshot: dispatchRoomState's
	// default branch should just log, never crash or fire a hook.
	fired := make(chan struct{}, 1)
	c.OnEmoteOnly(func(*RoomState) { fired <- struct{}{} })

	ft.injectLine("@unknown-field=1 :tmi.twitch.tv ROOMSTATE #c")
	time.Sleep(50 * time.Millisecond)

	select {
	case <-fired:
		t.Fatalf("expected no hook to fire for an unrecognized ROOMSTATE field")
	default:
	}
}

func TestDispatchNoticeChannelSuspendedLogged(t *testing.T) {
	c, ft := connectedTestClient(t)
	got := make(chan *Notice, 1)
	c.OnNotice(func(n *Notice) { got <- n })

	ft.injectLine("@msg-id=msg_channel_suspended :tmi.twitch.tv NOTICE #c :This channel is suspended.")

	select {
	case n := <-got:
		if n.MsgID != "msg_channel_suspended" {
			t.Errorf("MsgID: got %q", n.MsgID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OnNotice to fire for msg_channel_suspended")
	}
}

func TestDispatchNoticeBadAuthLogged(t *testing.T) {
	c, ft := connectedTestClient(t)
	got := make(chan *Notice, 1)
	c.OnNotice(func(n *Notice) { got <- n })

	ft.injectLine(":tmi.twitch.tv NOTICE * :Login authentication failed")

	select {
	case n := <-got:
		if n.Message != "Login authentication failed" {
			t.Errorf("Message: got %q", n.Message)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OnNotice to fire for a failed-auth NOTICE")
	}
}

func TestDispatchClearMsgFiresOnMessageDelete(t *testing.T) {
	c, ft := connectedTestClient(t)
	got := make(chan *ClearMessage, 1)
	c.OnMessageDelete(func(cm *ClearMessage) { got <- cm })

	ft.injectLine("@target-msg-id=abc123 :tmi.twitch.tv CLEARMSG #c :bad message")

	select {
	case cm := <-got:
		if cm.TargetMsgID != "abc123" {
			t.Errorf("TargetMsgID: got %q", cm.TargetMsgID)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OnMessageDelete to fire")
	}
}

func TestDispatchWhisperFiresOnWhisper(t *testing.T) {
	c, ft := connectedTestClient(t)
	got := make(chan *Whisper, 1)
	c.OnWhisper(func(w *Whisper) { got <- w })

	ft.injectLine(":sender!sender@sender.tmi.twitch.tv WHISPER bot :hey there")

	select {
	case w := <-got:
		if w.Message != "hey there" {
			t.Errorf("Message: got %q", w.Message)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OnWhisper to fire")
	}
}

func TestDispatchPartFiresOnChannelPartAndRemovesChannel(t *testing.T) {
	c, ft := connectedTestClient(t)
	c.channels.Add(ChannelState{Channel: "c"})

	got := make(chan *PartEvent, 1)
	c.OnChannelPart(func(ev *PartEvent) { got <- ev })

	ft.injectLine(":bot!bot@bot.tmi.twitch.tv PART #c")

	select {
	case ev := <-got:
		if ev.Channel != "c" {
			t.Errorf("Channel: got %q", ev.Channel)
		}
	case <-time.After(time.Second):
		t.Fatalf("expected OnChannelPart to fire")
	}
	if c.channels.Contains("c") {
		t.Fatalf("expected channel removed from joined set on PART")
	}
}

func TestDispatchIgnoredCommandsAreDropped(t *testing.T) {
	c, ft := newTestClient("bot", "tok", WithIgnoredCommands("PRIVMSG"))
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		c.Connect(ctx)
	}()
	time.Sleep(20 * time.Millisecond)
	ft.injectLine(":tmi.twitch.tv 001 bot :Welcome, GLHF!")
	time.Sleep(20 * time.Millisecond)

	fired := make(chan struct{}, 1)
	c.OnMessage(func(*ChatMessage) { fired <- struct{}{} })

	ft.injectLine(":testuser!testuser@testuser.tmi.twitch.tv PRIVMSG #c :hi")
	time.Sleep(50 * time.Millisecond)

	select {
	case <-fired:
		t.Fatalf("expected PRIVMSG to be dropped before dispatch when ignored")
	default:
	}
}
