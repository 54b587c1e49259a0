package tmi

import "time"

// Message is a parsed IRC line: tags, prefix, command, params and trailing
// parameter. Grounded on the teacher's IRCMessage (helix/irc_types.go).
type Message struct {
	Raw      string
	Tags     map[string]string
	Prefix   string
	Command  string
	Params   []string
	Trailing string
}

// Emote is an emote usage within a chat message (helix/irc_types.go IRCEmote).
type Emote struct {
	ID    string
	Start int
	End   int
}

// ChatMessage is a decoded PRIVMSG (helix/irc_types.go ChatMessage, extended
// with Nonce/IsAction for the round trip our own Send Surface composes).
type ChatMessage struct {
	ID                     string
	Channel                string
	User                   string
	UserID                 string
	Message                string
	IsAction               bool
	Nonce                  string
	Emotes                 []Emote
	Badges                 map[string]string
	BadgeInfo              map[string]string
	Color                  string
	DisplayName            string
	IsMod                  bool
	IsVIP                  bool
	IsSubscriber           bool
	IsBroadcaster          bool
	Bits                   int
	FirstMessage           bool
	ReturningChatter       bool
	ReplyParentMsgID       string
	ReplyParentUserID      string
	ReplyParentUserLogin   string
	ReplyParentDisplayName string
	ReplyParentMsgBody     string
	Timestamp              time.Time
	Raw                    string
}

// UserNoticeType enumerates the msg-id sub-types spec.md §4.C routes
// USERNOTICE to.
type UserNoticeType string

const (
	UserNoticeSub             UserNoticeType = "sub"
	UserNoticeResub           UserNoticeType = "resub"
	UserNoticeSubGift         UserNoticeType = "subgift"
	UserNoticeAnonSubGift     UserNoticeType = "anonsubgift"
	UserNoticeSubMysteryGift  UserNoticeType = "submysterygift"
	UserNoticeGiftPaidUpgrade UserNoticeType = "giftpaidupgrade"
	UserNoticeAnonGiftUpgrade UserNoticeType = "anongiftpaidupgrade"
	UserNoticePrimeUpgrade    UserNoticeType = "primepaidupgrade"
	UserNoticeRaid            UserNoticeType = "raid"
	UserNoticeAnnouncement    UserNoticeType = "announcement"
	UserNoticeUnknown         UserNoticeType = ""
)

// UserNotice is a decoded USERNOTICE (helix/irc_types.go UserNotice).
type UserNotice struct {
	Type          UserNoticeType
	RawType       string
	Channel       string
	User          string
	UserID        string
	DisplayName   string
	Message       string
	SystemMessage string
	MsgParams     map[string]string
	Badges        map[string]string
	BadgeInfo     map[string]string
	Color         string
	Emotes        []Emote
	Timestamp     time.Time
	Raw           string
}

// RoomState is a decoded ROOMSTATE. Full carries whether every room-mode
// tag was present (spec.md §4.C / GLOSSARY "ROOMSTATE (full)").
type RoomState struct {
	Channel       string
	Full          bool
	ChangedField  string // set when !Full: "emote-only"|"followers-only"|"r9k"|"slow"|"subs-only"
	EmoteOnly     bool
	FollowersOnly int
	R9K           bool
	Slow          int
	SubsOnly      bool
	RoomID        string
	Raw           string
}

// Notice is a decoded NOTICE (helix/irc_types.go Notice).
type Notice struct {
	Channel string
	Message string
	MsgID   string
	Raw     string
}

// ClearChatKind distinguishes the three CLEARCHAT sub-cases spec.md §4.C
// names.
type ClearChatKind int

const (
	ClearChatChatCleared ClearChatKind = iota
	ClearChatUserBan
	ClearChatUserTimeout
)

// ClearChat is a decoded CLEARCHAT.
type ClearChat struct {
	Kind         ClearChatKind
	Channel      string
	User         string
	BanDuration  int
	RoomID       string
	TargetUserID string
	Timestamp    time.Time
	Raw          string
}

// ClearMessage is a decoded CLEARMSG.
type ClearMessage struct {
	Channel     string
	User        string
	Message     string
	TargetMsgID string
	Timestamp   time.Time
	Raw         string
}

// Whisper is a decoded WHISPER.
type Whisper struct {
	From        string
	FromID      string
	To          string
	Message     string
	DisplayName string
	Color       string
	Badges      map[string]string
	Emotes      []Emote
	MessageID   string
	ThreadID    string
	Raw         string
}

// GlobalUserState is a decoded GLOBALUSERSTATE.
type GlobalUserState struct {
	UserID      string
	DisplayName string
	Color       string
	Badges      map[string]string
	BadgeInfo   map[string]string
	EmoteSets   []string
	IsMod       bool
	Raw         string
}

// UserState is a decoded USERSTATE.
type UserState struct {
	Channel      string
	DisplayName  string
	Color        string
	Badges       map[string]string
	BadgeInfo    map[string]string
	EmoteSets    []string
	IsMod        bool
	IsSubscriber bool
	Raw          string
}

// JoinEvent/PartEvent back the channel-joined / parted hooks.
type JoinEvent struct {
	Channel string
	User    string
}

type PartEvent struct {
	Channel string
	User    string
}
