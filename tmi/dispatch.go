package tmi

import "strings"

// dispatch implements the command-switch table spec.md §4.C describes:
// ignored commands are dropped before any decoding or state change, every
// other recognized command is decoded and routed to
// its event hook (fired via fireHook so a panicking handler never reaches
// the read loop), and state (joined-channel set, moderator set, latches)
// is mutated inline before the hook runs.
func (c *Client) dispatch(cl classifiedLine) {
	if len(c.config.IgnoredCommands) > 0 {
		msg := parseMessage(cl.line)
		if c.config.IgnoredCommands[msg.Command] {
			return
		}
	}

	switch cl.cmd {
	case cmdConnected:
		c.handleConnected()

	case cmdPING:
		msg := parseMessage(cl.line)
		_ = c.sendRawUnlogged("PONG :" + msg.Trailing)

	case cmdRECONNECT:
		c.logger().Info().Msg("received RECONNECT, scheduling restart")
		if c.onReconnect != nil {
			c.fireHook(func() { c.onReconnect() })
		}
		c.scheduleRestart(c.config.ReconnectDelay)

	case cmdPRIVMSG:
		msg := parseMessage(cl.line)
		chatMsg := decodeChatMessage(msg)
		if c.onMessage != nil {
			c.fireHook(func() { c.onMessage(chatMsg) })
		}

	case cmdUSERNOTICE:
		msg := parseMessage(cl.line)
		c.dispatchUserNotice(decodeUserNotice(msg))

	case cmdCLEARCHAT:
		msg := parseMessage(cl.line)
		c.dispatchClearChat(decodeClearChat(msg))

	case cmdCLEARMSG:
		msg := parseMessage(cl.line)
		cm := decodeClearMessage(msg)
		if c.onMessageDelete != nil {
			c.fireHook(func() { c.onMessageDelete(cm) })
		}

	case cmdROOMSTATE:
		msg := parseMessage(cl.line)
		c.dispatchRoomState(decodeRoomState(msg))

	case cmdPART:
		msg := parseMessage(cl.line)
		channel := ""
		if len(msg.Params) > 0 {
			channel = parseChannel(msg.Params[0])
		}
		c.channels.Remove(channel)
		ev := &PartEvent{Channel: channel, User: parseUserFromPrefix(msg.Prefix)}
		c.logger().Debug().Str("channel", channel).Msg("parted channel")
		if c.onChannelPart != nil {
			c.fireHook(func() { c.onChannelPart(ev) })
		}

	case cmdNOTICE:
		msg := parseMessage(cl.line)
		n := decodeNotice(msg)
		c.logNotice(n)
		if c.onNotice != nil {
			c.fireHook(func() { c.onNotice(n) })
		}

	case cmdUSERSTATE:
		msg := parseMessage(cl.line)
		us := decodeUserState(msg)
		if us.IsMod {
			c.mods.Add(us.Channel)
		} else {
			c.mods.Remove(us.Channel)
		}
		if c.onUserState != nil {
			c.fireHook(func() { c.onUserState(us) })
		}

	case cmdGLOBALUSERSTATE:
		msg := parseMessage(cl.line)
		gus := decodeGlobalUserState(msg)
		if c.onGlobalUserState != nil {
			c.fireHook(func() { c.onGlobalUserState(gus) })
		}

	case cmdWHISPER:
		msg := parseMessage(cl.line)
		w := decodeWhisper(msg)
		if c.onWhisper != nil {
			c.fireHook(func() { c.onWhisper(w) })
		}
	}
}

func (c *Client) handleConnected() {
	c.mu.Lock()
	first := !c.everConnected
	c.everConnected = true
	c.phase = PhaseAuthenticated
	c.mu.Unlock()

	c.connectLatch.Release()

	if first {
		c.logger().Info().Msg("connected")
		if c.onConnect != nil {
			c.fireHook(func() { c.onConnect() })
		}
	} else {
		c.logger().Info().Msg("reconnected")
		if c.onReconnect != nil {
			c.fireHook(func() { c.onReconnect() })
		}
	}
}

// dispatchUserNotice sub-dispatches on msg-id per spec.md §4.C: sub/resub
// share OnSubscription, gifted-single-sub variants share OnGiftSub,
// paid-upgrade variants share OnPaidUpgrade, and the community-gift intro
// (submysterygift) gets its own hook. Unknown msg-ids are ignored.
func (c *Client) dispatchUserNotice(un *UserNotice) {
	switch un.Type {
	case UserNoticeSub, UserNoticeResub:
		if c.onSubscription != nil {
			c.fireHook(func() { c.onSubscription(un) })
		}
	case UserNoticeSubGift, UserNoticeAnonSubGift:
		if c.onGiftSub != nil {
			c.fireHook(func() { c.onGiftSub(un) })
		}
	case UserNoticeSubMysteryGift:
		if c.onGiftSubIntro != nil {
			c.fireHook(func() { c.onGiftSubIntro(un) })
		}
	case UserNoticeGiftPaidUpgrade, UserNoticeAnonGiftUpgrade:
		if c.onPaidUpgrade != nil {
			c.fireHook(func() { c.onPaidUpgrade(un) })
		}
	case UserNoticePrimeUpgrade:
		if c.onPrimeUpgrade != nil {
			c.fireHook(func() { c.onPrimeUpgrade(un) })
		}
	case UserNoticeRaid:
		if c.onRaid != nil {
			c.fireHook(func() { c.onRaid(un) })
		}
	case UserNoticeAnnouncement:
		if c.onAnnouncement != nil {
			c.fireHook(func() { c.onAnnouncement(un) })
		}
	default:
		c.logger().Debug().Str("msg_id", un.RawType).Msg("ignoring unrecognized USERNOTICE")
	}
}

func (c *Client) dispatchClearChat(cc *ClearChat) {
	switch cc.Kind {
	case ClearChatChatCleared:
		if c.onChatClear != nil {
			c.fireHook(func() { c.onChatClear(cc) })
		}
	case ClearChatUserTimeout:
		if c.onUserTimeout != nil {
			c.fireHook(func() { c.onUserTimeout(cc) })
		}
	case ClearChatUserBan:
		if c.onUserBan != nil {
			c.fireHook(func() { c.onUserBan(cc) })
		}
	}
}

// dispatchRoomState implements the full-vs-partial branch spec.md §4.C
// names: a full ROOMSTATE is the once-per-JOIN admission signal (add to
// the joined set, release the per-channel join latch, fire
// OnChannelJoin); a partial one reports a single mode change.
func (c *Client) dispatchRoomState(rs *RoomState) {
	if rs.Full {
		c.channels.Add(ChannelState{
			Channel:       rs.Channel,
			FollowersOnly: rs.FollowersOnly,
			SubsOnly:      rs.SubsOnly,
			EmoteOnly:     rs.EmoteOnly,
			Slow:          rs.Slow,
			R9K:           rs.R9K,
		})
		c.joinLatchFor(rs.Channel).Release()
		if c.onChannelJoin != nil {
			c.fireHook(func() { c.onChannelJoin(rs) })
		}
		return
	}

	switch rs.ChangedField {
	case "emote-only":
		if c.onEmoteOnly != nil {
			c.fireHook(func() { c.onEmoteOnly(rs) })
		}
	case "followers-only":
		if c.onFollowersOnly != nil {
			c.fireHook(func() { c.onFollowersOnly(rs) })
		}
	case "r9k":
		if c.onUniqueChat != nil {
			c.fireHook(func() { c.onUniqueChat(rs) })
		}
	case "slow":
		if c.onSlowMode != nil {
			c.fireHook(func() { c.onSlowMode(rs) })
		}
	case "subs-only":
		if c.onSubsOnly != nil {
			c.fireHook(func() { c.onSubsOnly(rs) })
		}
	default:
		c.logger().Warn().Str("channel", rs.Channel).Msg("malformed ROOMSTATE: no recognized field changed")
	}
}

// logNotice flags the two msg-ids spec.md §4.C singles out for elevated
// logging: a suspended channel and a failed auth handshake.
func (c *Client) logNotice(n *Notice) {
	switch {
	case n.MsgID == "msg_channel_suspended":
		c.logger().Error().Str("channel", n.Channel).Str("message", n.Message).Msg("channel suspended")
	case strings.Contains(n.MsgID, "bad_auth") || strings.Contains(strings.ToLower(n.Message), "login authentication failed"):
		logCritical(c.logger()).Str("message", n.Message).Msg("authentication failed")
	default:
		c.logger().Debug().Str("channel", n.Channel).Str("msg_id", n.MsgID).Msg("NOTICE")
	}
}
