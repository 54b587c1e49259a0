package tmi

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultEndpoint is the WebSocket URL for Twitch IRC (spec.md §6).
const DefaultEndpoint = "wss://irc-ws.chat.twitch.tv:443"

// Phase is the connection-lifecycle state spec.md §3/§4.D names.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseConnecting
	PhaseAuthenticated
	PhaseDisposed
)

// Config is the client's immutable-after-construction configuration
// (spec.md §3). Built up via Option functions, mirroring the teacher's
// IRCOption pattern (helix/irc.go).
type Config struct {
	Username  string
	token     string
	Anonymous bool

	Endpoint       string
	ReconnectDelay time.Duration

	NormalSendLimit int
	ModSendLimit    int
	JoinLimit       int
	GlobalRateLimit bool

	IgnoredCommands map[string]bool
	HideAuthLogs    bool
	StickyModerator bool

	Logger zerolog.Logger
	clock  clockFunc // test hook only
}

func defaultConfig() Config {
	return Config{
		Endpoint:        DefaultEndpoint,
		ReconnectDelay:  5 * time.Second,
		NormalSendLimit: 20,
		ModSendLimit:    100,
		JoinLimit:       20,
		GlobalRateLimit: false,
		IgnoredCommands: map[string]bool{},
		Logger:          defaultWriter(),
	}
}

// Option configures a Client at construction time.
type Option func(*Config)

func WithEndpoint(uri string) Option { return func(c *Config) { c.Endpoint = uri } }

func WithReconnectDelay(d time.Duration) Option {
	return func(c *Config) { c.ReconnectDelay = d }
}

// WithRateLimits overrides the per-user, moderator, and join quotas (spec.md
// §3 defaults: 20/30s, 100/30s, 20/10s).
func WithRateLimits(normalSend, modSend, join int) Option {
	return func(c *Config) {
		c.NormalSendLimit = normalSend
		c.ModSendLimit = modSend
		c.JoinLimit = join
	}
}

// WithGlobalRateLimit switches send-quota accounting from per-channel to
// global scope (spec.md §4.A/§9).
func WithGlobalRateLimit(global bool) Option {
	return func(c *Config) { c.GlobalRateLimit = global }
}

// WithIgnoredCommands configures the inbound bitset of commands to drop
// silently (spec.md §3/§4.C step 1). Command names are the IRC command
// tokens, e.g. "PRIVMSG".
func WithIgnoredCommands(commands ...string) Option {
	return func(c *Config) {
		for _, cmd := range commands {
			c.IgnoredCommands[strings.ToUpper(cmd)] = true
		}
	}
}

// WithHideAuthLogs redacts oauth: token values from transport log messages
// (spec.md §7/§8 invariant 5); see redactAuth.
func WithHideAuthLogs(hide bool) Option { return func(c *Config) { c.HideAuthLogs = hide } }

// WithStickyModerator restores the source's literal "moderator set never
// shrinks" behavior (spec.md §9 Open Question, resolved as a deviation by
// default — see SPEC_FULL.md).
func WithStickyModerator(sticky bool) Option { return func(c *Config) { c.StickyModerator = sticky } }

// WithLogger injects a zerolog.Logger; the component field is bound on top
// of it by newLogger.
func WithLogger(l zerolog.Logger) Option { return func(c *Config) { c.Logger = l } }

func withClock(fn clockFunc) Option { return func(c *Config) { c.clock = fn } }

// Client is a Twitch TMI chat client (spec.md §1–§4). It owns the
// transport, the rate-limit governor, the joined-channel and moderator
// sets, and the connect/join latches, and drives the lifecycle state
// machine described in spec.md §4.D.
type Client struct {
	config    Config
	transport Transport
	logPtr    atomic.Pointer[zerolog.Logger]
	gov       *governor

	channels *channelSet
	mods     *moderatorSet

	mu            sync.Mutex
	phase         Phase
	everConnected bool
	nick          string

	connectLatch *latch
	joinMu       sync.Mutex
	joinLatches  map[string]*latch

	errorSink func(error)

	// Event hooks — spec.md §9's "24 user-facing events" as a table of
	// function-typed slots, mirroring the teacher's IRCOption/Bot handler
	// fields (helix/irc.go, helix/chat_client.go) rather than a single
	// polymorphic interface (spec.md §9 allows either).
	onConnect         func()
	onReconnect       func()
	onDisconnect      func()
	onMessage         func(*ChatMessage)
	onWhisper         func(*Whisper)
	onSubscription    func(*UserNotice)
	onGiftSub         func(*UserNotice)
	onRaid            func(*UserNotice)
	onPaidUpgrade     func(*UserNotice)
	onPrimeUpgrade    func(*UserNotice)
	onAnnouncement    func(*UserNotice)
	onGiftSubIntro    func(*UserNotice)
	onChatClear       func(*ClearChat)
	onUserBan         func(*ClearChat)
	onUserTimeout     func(*ClearChat)
	onMessageDelete   func(*ClearMessage)
	onChannelJoin     func(*RoomState)
	onEmoteOnly       func(*RoomState)
	onFollowersOnly   func(*RoomState)
	onUniqueChat      func(*RoomState)
	onSlowMode        func(*RoomState)
	onSubsOnly        func(*RoomState)
	onChannelPart     func(*PartEvent)
	onNotice          func(*Notice)
	onUserState       func(*UserState)
	onGlobalUserState func(*GlobalUserState)
}

// NewClient builds a Client. token == "" puts the client in anonymous mode
// (spec.md §3): all send-side operations are refused and a random
// justinfanNNN nickname is used.
func NewClient(username, token string, opts ...Option) *Client {
	cfg := defaultConfig()
	cfg.Username = strings.ToLower(username)
	cfg.token = token
	cfg.Anonymous = token == ""

	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Client{
		config:       cfg,
		transport:    newWSTransport(),
		gov:          newGovernor(cfg.NormalSendLimit, cfg.ModSendLimit, cfg.JoinLimit, cfg.GlobalRateLimit, cfg.clock),
		channels:     newChannelSet(),
		mods:         newModeratorSet(cfg.StickyModerator),
		phase:        PhaseIdle,
		connectLatch: newLatch(),
		joinLatches:  make(map[string]*latch),
		nick:         cfg.Username,
	}
	l := newLogger(cfg.Username, cfg.Anonymous, cfg.Logger)
	c.logPtr.Store(&l)
	c.errorSink = func(err error) { c.logger().Error().Err(err).Msg("unhandled event-hook error") }
	c.wireTransport()
	return c
}

// logger returns the current logger. Connect rebinds it with a fresh
// session id on every Connect call (a transport restart keeps the current
// id), so callers on other
// goroutines (the read loop, fired hooks) always go through this instead
// of reading the field directly, since a bare struct field would race with
// that rebind.
func (c *Client) logger() zerolog.Logger { return *c.logPtr.Load() }

// WithTransport overrides the default gorilla/websocket transport — used
// by tests to inject a fake Transport.
func (c *Client) WithTransport(t Transport) *Client {
	c.transport = t
	c.wireTransport()
	return c
}

func (c *Client) wireTransport() {
	c.transport.OnConnect(c.onTransportConnect)
	c.transport.OnReconnect(func() {
		c.logger().Debug().Msg("transport redialed")
	})
	c.transport.OnDisconnect(c.onTransportDisconnect)
	c.transport.OnData(c.onTransportData)
	c.transport.OnLog(func(level, msg string) {
		msg = redactAuth(msg, c.config.HideAuthLogs)
		switch level {
		case "debug":
			c.logger().Debug().Msg(msg)
		case "info":
			c.logger().Info().Msg(msg)
		default:
			c.logger().Warn().Msg(msg)
		}
	})
	c.transport.OnLogException(func(err error) {
		c.logger().Error().Err(err).Msg("transport error")
	})
}

// WithErrorHandler sets the sink handler exceptions/panics are routed to
// (spec.md §4.C/§7: isolated, never propagated). Defaults to logging at
// error level.
func (c *Client) WithErrorHandler(fn func(error)) *Client {
	c.errorSink = fn
	return c
}

// Phase returns the current lifecycle state.
func (c *Client) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *Client) setPhase(p Phase) {
	c.mu.Lock()
	c.phase = p
	c.mu.Unlock()
}

// IsConnected reports whether the transport is currently connected.
func (c *Client) IsConnected() bool { return c.transport.IsConnected() }

// JoinedChannels returns the joined-channel set in join order.
func (c *Client) JoinedChannels() []string { return c.channels.Channels() }

// Connect dials the configured endpoint and waits up to 15s for the
// server's login confirmation (spec.md §4.D). Returns true iff the
// connect latch was released within the deadline.
func (c *Client) Connect(ctx context.Context) bool {
	if c.Phase() == PhaseDisposed {
		c.logger().Error().Msg("connect called on a disposed client")
		return false
	}
	c.setPhase(PhaseConnecting)

	sessionID := uuid.NewString()
	sessionLogger := c.logger().With().Str("session_id", sessionID).Logger()
	c.logPtr.Store(&sessionLogger)
	c.wireTransport()

	if err := c.transport.Start(ctx, c.config.Endpoint); err != nil {
		logCritical(c.logger()).Err(fmt.Errorf("connecting to %s: %w", c.config.Endpoint, err)).Msg("failed to start transport")
		return false
	}

	waitCtx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()
	if err := c.connectLatch.Wait(waitCtx); err != nil {
		logCritical(c.logger()).Msg("timed out waiting for login confirmation")
		return false
	}
	return true
}

// ConnectAsync is the fire-and-forget variant spec.md §4.D names: it
// starts the connect sequence without awaiting the latch.
func (c *Client) ConnectAsync(ctx context.Context) {
	go c.Connect(ctx)
}

// onTransportConnect runs when the transport finishes dialing (both for
// the initial Connect and for every subsequent Restart) and performs
// Login (spec.md §4.D).
func (c *Client) onTransportConnect() {
	c.login()
}

// login sends CAP REQ then either NICK (anonymous) or PASS+NICK
// (authenticated), exactly as spec.md §4.D/§6 prescribe. PASS is always
// sent with suppressLog=true since it always carries the token.
func (c *Client) login() {
	ctx := context.Background()
	_ = c.sendRaw(ctx, "CAP REQ :twitch.tv/tags twitch.tv/commands", false)

	if c.config.Anonymous {
		// NNN uniformly random in [100, 900) — see DESIGN.md for the
		// reconciliation of the two slightly different ranges spec.md
		// names for this.
		c.nick = fmt.Sprintf("justinfan%d", 100+rand.Intn(800))
		_ = c.sendRaw(ctx, "NICK "+c.nick, false)
		return
	}

	_ = c.sendRaw(ctx, "PASS oauth:"+c.config.token, true)
	_ = c.sendRaw(ctx, "NICK "+c.config.Username, false)
}

// onTransportDisconnect runs when the read loop exits. If this wasn't a
// deliberate Dispose/Disconnect, it schedules a reconnect — the transport
// can be silently dropped by an adversarial server (spec.md §1).
func (c *Client) onTransportDisconnect() {
	if c.Phase() == PhaseDisposed {
		return
	}
	c.setPhase(PhaseConnecting)
	if c.onDisconnect != nil {
		c.fireHook(func() { c.onDisconnect() })
	}
	c.scheduleRestart(c.config.ReconnectDelay)
}

// onTransportData is the transport's on_data callback: it slices the
// buffer into lines and dispatches each in order (spec.md §4.B/§5
// ordering guarantee).
func (c *Client) onTransportData(data []byte) {
	for _, cl := range splitLines(data) {
		c.dispatch(cl)
	}
}

// scheduleRestart implements spec.md §4.D's Restart + reconnect-rejoin
// sequence without blocking the caller.
func (c *Client) scheduleRestart(delay time.Duration) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), delay+30*time.Second)
		defer cancel()

		if err := c.transport.Restart(ctx, delay); err != nil {
			c.logger().Error().Err(fmt.Errorf("reconnecting: %w", err)).Msg("reconnect failed")
			return
		}

		waitCtx, cancel2 := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel2()
		if err := c.connectLatch.Wait(waitCtx); err != nil {
			c.logger().Error().Msg("reconnect: timed out waiting for re-auth")
			return
		}

		c.rejoinChannels()
	}()
}

// rejoinChannels re-attempts JOIN for every channel in the joined set,
// pacing 1s between attempts per spec.md §4.D (a crude pace below the
// join rate limit), logging success/failure per channel.
func (c *Client) rejoinChannels() {
	channels := c.channels.Channels()
	for i, channel := range channels {
		if i > 0 {
			time.Sleep(1 * time.Second)
		}
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		ok := c.Join(ctx, channel)
		cancel()
		if ok {
			c.logger().Info().Str("channel", channel).Msg("rejoined channel")
		} else {
			c.logger().Warn().Str("channel", channel).Msg("failed to rejoin channel")
		}
	}
}

// Disconnect closes the transport (spec.md §4.D).
func (c *Client) Disconnect(ctx context.Context) error {
	return c.transport.Disconnect(ctx)
}

// DisconnectAsync is the fire-and-forget variant.
func (c *Client) DisconnectAsync() {
	go func() { _ = c.Disconnect(context.Background()) }()
}

// Restart closes then starts the transport after the configured
// reconnect delay.
func (c *Client) Restart(ctx context.Context) error {
	return c.transport.Restart(ctx, c.config.ReconnectDelay)
}

// Dispose tears down the transport, drops the joined and moderator sets,
// and releases (drains) both latches — the client is unusable afterward.
func (c *Client) Dispose(ctx context.Context) error {
	c.setPhase(PhaseDisposed)
	err := c.transport.Disconnect(ctx)
	c.channels.Clear()
	c.mods.Clear()
	c.connectLatch.drain()
	c.joinMu.Lock()
	for _, l := range c.joinLatches {
		l.drain()
	}
	c.joinLatches = make(map[string]*latch)
	c.joinMu.Unlock()
	return err
}

// fireHook isolates a user-supplied event handler per spec.md §4.C/§8
// invariant 6: any panic is caught and routed to the error sink instead
// of escaping the dispatcher, and the hook runs fire-and-forget so a
// slow handler never back-pressures the inbound stream (spec.md §5).
func (c *Client) fireHook(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				c.errorSink(fmt.Errorf("event hook panic: %v", r))
			}
		}()
		fn()
	}()
}

func (c *Client) joinLatchFor(channel string) *latch {
	c.joinMu.Lock()
	defer c.joinMu.Unlock()
	l, ok := c.joinLatches[channel]
	if !ok {
		l = newLatch()
		c.joinLatches[channel] = l
	}
	return l
}
