package tmi

// Event-hook registration. Each setter returns the Client so calls can be
// chained, mirroring the teacher's Bot.OnMessage/OnWhisper-style setters
// (irc/bot.go) rather than requiring callers to implement a single large
// interface (spec.md §9 leaves the choice open).

func (c *Client) OnConnect(fn func()) *Client {
	c.onConnect = fn
	return c
}

func (c *Client) OnReconnect(fn func()) *Client {
	c.onReconnect = fn
	return c
}

func (c *Client) OnDisconnect(fn func()) *Client {
	c.onDisconnect = fn
	return c
}

func (c *Client) OnMessage(fn func(*ChatMessage)) *Client {
	c.onMessage = fn
	return c
}

func (c *Client) OnWhisper(fn func(*Whisper)) *Client {
	c.onWhisper = fn
	return c
}

func (c *Client) OnSubscription(fn func(*UserNotice)) *Client {
	c.onSubscription = fn
	return c
}

func (c *Client) OnGiftSub(fn func(*UserNotice)) *Client {
	c.onGiftSub = fn
	return c
}

func (c *Client) OnGiftSubIntro(fn func(*UserNotice)) *Client {
	c.onGiftSubIntro = fn
	return c
}

func (c *Client) OnRaid(fn func(*UserNotice)) *Client {
	c.onRaid = fn
	return c
}

func (c *Client) OnPaidUpgrade(fn func(*UserNotice)) *Client {
	c.onPaidUpgrade = fn
	return c
}

func (c *Client) OnPrimeUpgrade(fn func(*UserNotice)) *Client {
	c.onPrimeUpgrade = fn
	return c
}

func (c *Client) OnAnnouncement(fn func(*UserNotice)) *Client {
	c.onAnnouncement = fn
	return c
}

func (c *Client) OnChatClear(fn func(*ClearChat)) *Client {
	c.onChatClear = fn
	return c
}

func (c *Client) OnUserBan(fn func(*ClearChat)) *Client {
	c.onUserBan = fn
	return c
}

func (c *Client) OnUserTimeout(fn func(*ClearChat)) *Client {
	c.onUserTimeout = fn
	return c
}

func (c *Client) OnMessageDelete(fn func(*ClearMessage)) *Client {
	c.onMessageDelete = fn
	return c
}

func (c *Client) OnChannelJoin(fn func(*RoomState)) *Client {
	c.onChannelJoin = fn
	return c
}

func (c *Client) OnEmoteOnly(fn func(*RoomState)) *Client {
	c.onEmoteOnly = fn
	return c
}

func (c *Client) OnFollowersOnly(fn func(*RoomState)) *Client {
	c.onFollowersOnly = fn
	return c
}

func (c *Client) OnUniqueChat(fn func(*RoomState)) *Client {
	c.onUniqueChat = fn
	return c
}

func (c *Client) OnSlowMode(fn func(*RoomState)) *Client {
	c.onSlowMode = fn
	return c
}

func (c *Client) OnSubsOnly(fn func(*RoomState)) *Client {
	c.onSubsOnly = fn
	return c
}

func (c *Client) OnChannelPart(fn func(*PartEvent)) *Client {
	c.onChannelPart = fn
	return c
}

func (c *Client) OnNotice(fn func(*Notice)) *Client {
	c.onNotice = fn
	return c
}

func (c *Client) OnUserState(fn func(*UserState)) *Client {
	c.onUserState = fn
	return c
}

func (c *Client) OnGlobalUserState(fn func(*GlobalUserState)) *Client {
	c.onGlobalUserState = fn
	return c
}
