package tmi

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// sanitizeIRCMessage strips CR/LF from outbound user-controlled text so a
// chat message or nonce can never smuggle a second IRC command onto the
// wire. Grounded on the teacher's sanitizeIRCMessage (helix/irc.go).
func sanitizeIRCMessage(s string) string {
	s = strings.ReplaceAll(s, "\r", "")
	s = strings.ReplaceAll(s, "\n", "")
	return s
}

// sendRaw sanitizes and writes a single IRC line, appending the CRLF
// terminator, and logs it (redacted if configured) unless suppressLog is
// set — PASS is always sent with suppressLog=true regardless of
// HideAuthLogs (spec.md §7/§8 invariant 5).
func (c *Client) sendRaw(ctx context.Context, line string, suppressLog bool) error {
	if !c.IsConnected() {
		c.logger().Error().Msg("send attempted while not connected")
		return ErrNotConnected
	}
	line = sanitizeIRCMessage(line)
	return c.transport.Send(ctx, []byte(line+"\r\n"), suppressLog)
}

func (c *Client) sendRawUnlogged(line string) error {
	return c.sendRaw(context.Background(), line, true)
}

// SendMessage implements spec.md §4.E: composes and sends a PRIVMSG,
// honoring the rate-limit governor with a sleep-and-retry loop (not
// recursion — spec.md §8 calls the two semantically identical) instead of
// failing outright on the first over-quota observation. Anonymous clients
// are always refused (spec.md §3).
func (c *Client) SendMessage(ctx context.Context, channel, text string, action bool, nonce string) error {
	if c.config.Anonymous {
		c.logger().Error().Msg("SendMessage refused: client is anonymous")
		return ErrAnonymous
	}
	if !c.IsConnected() {
		c.logger().Error().Msg("SendMessage refused: not connected")
		return ErrNotConnected
	}
	if strings.ContainsAny(nonce, " \t") {
		c.logger().Error().Str("nonce", nonce).Msg("SendMessage refused: nonce contains whitespace")
		return ErrNonceHasSpace
	}

	for {
		if c.gov.MaySend(c.sendScopeKey(channel), c.mods.Contains(channel)) {
			break
		}
		c.logger().Debug().Str("channel", channel).Msg("send quota exhausted, retrying")
		c.logger().Warn().Str("channel", channel).Msg("SendMessage delayed by rate limit")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2500 * time.Millisecond):
		}
	}

	text = sanitizeIRCMessage(text)
	if action {
		text = ".me " + text
	}

	var b strings.Builder
	if nonce != "" {
		b.WriteString("@client-nonce=")
		b.WriteString(nonce)
		b.WriteString(" ")
	}
	fmt.Fprintf(&b, "PRIVMSG #%s :%s", channel, text)

	return c.sendRaw(ctx, b.String(), false)
}

// Reply sends a threaded reply to parentMsgID in channel (spec.md §4.E),
// tagging the frame with @reply-parent-msg-id.
func (c *Client) Reply(ctx context.Context, channel, parentMsgID, text string, action bool) error {
	if c.config.Anonymous {
		c.logger().Error().Msg("Reply refused: client is anonymous")
		return ErrAnonymous
	}
	if !c.IsConnected() {
		c.logger().Error().Msg("Reply refused: not connected")
		return ErrNotConnected
	}

	for {
		if c.gov.MaySend(c.sendScopeKey(channel), c.mods.Contains(channel)) {
			break
		}
		c.logger().Debug().Str("channel", channel).Msg("send quota exhausted, retrying")
		c.logger().Warn().Str("channel", channel).Msg("Reply delayed by rate limit")
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(2500 * time.Millisecond):
		}
	}

	text = sanitizeIRCMessage(text)
	if action {
		text = ".me " + text
	}

	line := fmt.Sprintf("@reply-parent-msg-id=%s PRIVMSG #%s :%s", parentMsgID, channel, text)
	return c.sendRaw(ctx, line, false)
}

// ReplyToMessage is the ChatMessage-overload variant spec.md §4.E names,
// replying to the message the caller received from OnMessage.
func (c *Client) ReplyToMessage(ctx context.Context, parent *ChatMessage, text string, action bool) error {
	return c.Reply(ctx, parent.Channel, parent.ID, text, action)
}

func (c *Client) sendScopeKey(channel string) string {
	if c.config.GlobalRateLimit {
		return "*"
	}
	return channel
}

// Join implements spec.md §4.E: consults MayJoin with a sleep-and-retry
// loop, sends JOIN, and waits up to 10s on the per-channel join latch
// (released by a full ROOMSTATE — see dispatchRoomState).
func (c *Client) Join(ctx context.Context, channel string) bool {
	if !c.IsConnected() {
		c.logger().Error().Str("channel", channel).Msg("Join refused: not connected")
		return false
	}
	channel = strings.ToLower(strings.TrimPrefix(channel, "#"))

	for {
		if c.gov.MayJoin() {
			break
		}
		select {
		case <-ctx.Done():
			return false
		case <-time.After(1000 * time.Millisecond):
		}
	}

	joinLatch := c.joinLatchFor(channel)
	joinLatch.drain()

	if err := c.sendRaw(ctx, "JOIN #"+channel, false); err != nil {
		c.logger().Error().Err(err).Str("channel", channel).Msg("failed to send JOIN")
		return false
	}

	waitCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := joinLatch.Wait(waitCtx); err != nil {
		logCritical(c.logger()).Str("channel", channel).Msg("timed out waiting for room state")
		return false
	}
	return true
}

// JoinMany joins every channel in order, returning true iff all of them
// report success (logical AND, spec.md §4.E).
func (c *Client) JoinMany(ctx context.Context, channels []string) bool {
	all := true
	for _, channel := range channels {
		if !c.Join(ctx, channel) {
			all = false
		}
	}
	return all
}

// Part sends PART for channel. The joined set is updated when the
// server's own PART confirmation arrives back through the dispatcher
// (dispatchRoomState's counterpart for leaving — see dispatch.go's
// cmdPART case), symmetric with how JOIN is confirmed by ROOMSTATE.
func (c *Client) Part(ctx context.Context, channel string) error {
	if !c.IsConnected() {
		c.logger().Error().Str("channel", channel).Msg("Part refused: not connected")
		return ErrNotConnected
	}
	channel = strings.ToLower(strings.TrimPrefix(channel, "#"))
	return c.sendRaw(ctx, "PART #"+channel, false)
}
