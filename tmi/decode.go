package tmi

import "strings"

// decodeChatMessage converts a Message into a ChatMessage. Grounded on the
// teacher's parseChatMessage (helix/irc_parser.go).
func decodeChatMessage(msg *Message) *ChatMessage {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}
	badges := parseBadges(msg.Tags["badges"])

	text := msg.Trailing
	isAction := false
	if strings.HasPrefix(text, ".me ") {
		isAction = true
		text = strings.TrimPrefix(text, ".me ")
	}

	user := msg.Tags["login"]
	if user == "" {
		// PRIVMSG carries no login tag; the sender is in the :nick!user@host
		// prefix instead.
		user = parseUserFromPrefix(msg.Prefix)
	}

	return &ChatMessage{
		ID:                     msg.Tags["id"],
		Channel:                channel,
		User:                   user,
		UserID:                 msg.Tags["user-id"],
		Message:                text,
		IsAction:               isAction,
		Nonce:                  msg.Tags["client-nonce"],
		Emotes:                 parseEmotes(msg.Tags["emotes"]),
		Badges:                 badges,
		BadgeInfo:              parseBadges(msg.Tags["badge-info"]),
		Color:                  msg.Tags["color"],
		DisplayName:            msg.Tags["display-name"],
		IsMod:                  parseBool(msg.Tags["mod"]),
		IsVIP:                  badges["vip"] != "",
		IsSubscriber:           parseBool(msg.Tags["subscriber"]),
		IsBroadcaster:          badges["broadcaster"] != "",
		Bits:                   parseInt(msg.Tags["bits"]),
		FirstMessage:           parseBool(msg.Tags["first-msg"]),
		ReturningChatter:       parseBool(msg.Tags["returning-chatter"]),
		ReplyParentMsgID:       msg.Tags["reply-parent-msg-id"],
		ReplyParentUserID:      msg.Tags["reply-parent-user-id"],
		ReplyParentUserLogin:   msg.Tags["reply-parent-user-login"],
		ReplyParentDisplayName: msg.Tags["reply-parent-display-name"],
		ReplyParentMsgBody:     msg.Tags["reply-parent-msg-body"],
		Timestamp:              parseTimestamp(msg.Tags["tmi-sent-ts"]),
		Raw:                    msg.Raw,
	}
}

// userNoticeTypeOf maps a raw msg-id to the enumerated UserNoticeType
// spec.md §4.C sub-dispatches on; unrecognized msg-ids map to
// UserNoticeUnknown and are silently ignored by the dispatcher.
func userNoticeTypeOf(raw string) UserNoticeType {
	switch UserNoticeType(raw) {
	case UserNoticeSub, UserNoticeResub, UserNoticeSubGift, UserNoticeAnonSubGift,
		UserNoticeSubMysteryGift, UserNoticeGiftPaidUpgrade, UserNoticeAnonGiftUpgrade,
		UserNoticePrimeUpgrade, UserNoticeRaid, UserNoticeAnnouncement:
		return UserNoticeType(raw)
	default:
		return UserNoticeUnknown
	}
}

func decodeUserNotice(msg *Message) *UserNotice {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}

	params := make(map[string]string)
	for k, v := range msg.Tags {
		if strings.HasPrefix(k, "msg-param-") {
			params[strings.TrimPrefix(k, "msg-param-")] = v
		}
	}

	rawType := msg.Tags["msg-id"]
	return &UserNotice{
		Type:          userNoticeTypeOf(rawType),
		RawType:       rawType,
		Channel:       channel,
		User:          msg.Tags["login"],
		UserID:        msg.Tags["user-id"],
		DisplayName:   msg.Tags["display-name"],
		Message:       msg.Trailing,
		SystemMessage: msg.Tags["system-msg"],
		MsgParams:     params,
		Badges:        parseBadges(msg.Tags["badges"]),
		BadgeInfo:     parseBadges(msg.Tags["badge-info"]),
		Color:         msg.Tags["color"],
		Emotes:        parseEmotes(msg.Tags["emotes"]),
		Timestamp:     parseTimestamp(msg.Tags["tmi-sent-ts"]),
		Raw:           msg.Raw,
	}
}

// roomStateFields is every tag a "full" ROOMSTATE carries at once
// (GLOSSARY "ROOMSTATE (full)"); a line tagging all of them is the
// once-per-JOIN admission signal, anything else is a single-field change.
var roomStateFields = []string{"emote-only", "followers-only", "r9k", "slow", "subs-only"}

func decodeRoomState(msg *Message) *RoomState {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}

	present := 0
	var changed string
	for _, f := range roomStateFields {
		if _, ok := msg.Tags[f]; ok {
			present++
			changed = f
		}
	}
	full := present == len(roomStateFields)

	followersOnly := -1
	if fo, ok := msg.Tags["followers-only"]; ok {
		followersOnly = parseInt(fo)
	}

	return &RoomState{
		Channel:       channel,
		Full:          full,
		ChangedField:  changed,
		EmoteOnly:     parseBool(msg.Tags["emote-only"]),
		FollowersOnly: followersOnly,
		R9K:           parseBool(msg.Tags["r9k"]),
		Slow:          parseInt(msg.Tags["slow"]),
		SubsOnly:      parseBool(msg.Tags["subs-only"]),
		RoomID:        msg.Tags["room-id"],
		Raw:           msg.Raw,
	}
}

func decodeNotice(msg *Message) *Notice {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}
	return &Notice{
		Channel: channel,
		Message: msg.Trailing,
		MsgID:   msg.Tags["msg-id"],
		Raw:     msg.Raw,
	}
}

// decodeClearChat implements spec.md §4.C's three-way CLEARCHAT sub-typing
// by presence of target-user (Trailing) and ban-duration.
func decodeClearChat(msg *Message) *ClearChat {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}

	kind := ClearChatChatCleared
	if msg.Trailing != "" {
		if _, hasDuration := msg.Tags["ban-duration"]; hasDuration {
			kind = ClearChatUserTimeout
		} else {
			kind = ClearChatUserBan
		}
	}

	return &ClearChat{
		Kind:         kind,
		Channel:      channel,
		User:         msg.Trailing,
		BanDuration:  parseInt(msg.Tags["ban-duration"]),
		RoomID:       msg.Tags["room-id"],
		TargetUserID: msg.Tags["target-user-id"],
		Timestamp:    parseTimestamp(msg.Tags["tmi-sent-ts"]),
		Raw:          msg.Raw,
	}
}

func decodeClearMessage(msg *Message) *ClearMessage {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}
	return &ClearMessage{
		Channel:     channel,
		User:        msg.Tags["login"],
		Message:     msg.Trailing,
		TargetMsgID: msg.Tags["target-msg-id"],
		Timestamp:   parseTimestamp(msg.Tags["tmi-sent-ts"]),
		Raw:         msg.Raw,
	}
}

func decodeWhisper(msg *Message) *Whisper {
	to := ""
	if len(msg.Params) > 0 {
		to = msg.Params[0]
	}
	return &Whisper{
		From:        parseUserFromPrefix(msg.Prefix),
		FromID:      msg.Tags["user-id"],
		To:          to,
		Message:     msg.Trailing,
		DisplayName: msg.Tags["display-name"],
		Color:       msg.Tags["color"],
		Badges:      parseBadges(msg.Tags["badges"]),
		Emotes:      parseEmotes(msg.Tags["emotes"]),
		MessageID:   msg.Tags["message-id"],
		ThreadID:    msg.Tags["thread-id"],
		Raw:         msg.Raw,
	}
}

func decodeGlobalUserState(msg *Message) *GlobalUserState {
	var emoteSets []string
	if es := msg.Tags["emote-sets"]; es != "" {
		emoteSets = strings.Split(es, ",")
	}
	return &GlobalUserState{
		UserID:      msg.Tags["user-id"],
		DisplayName: msg.Tags["display-name"],
		Color:       msg.Tags["color"],
		Badges:      parseBadges(msg.Tags["badges"]),
		BadgeInfo:   parseBadges(msg.Tags["badge-info"]),
		EmoteSets:   emoteSets,
		IsMod:       parseBool(msg.Tags["mod"]),
		Raw:         msg.Raw,
	}
}

func decodeUserState(msg *Message) *UserState {
	channel := ""
	if len(msg.Params) > 0 {
		channel = parseChannel(msg.Params[0])
	}
	var emoteSets []string
	if es := msg.Tags["emote-sets"]; es != "" {
		emoteSets = strings.Split(es, ",")
	}
	return &UserState{
		Channel:      channel,
		DisplayName:  msg.Tags["display-name"],
		Color:        msg.Tags["color"],
		Badges:       parseBadges(msg.Tags["badges"]),
		BadgeInfo:    parseBadges(msg.Tags["badge-info"]),
		EmoteSets:    emoteSets,
		IsMod:        parseBool(msg.Tags["mod"]),
		IsSubscriber: parseBool(msg.Tags["subscriber"]),
		Raw:          msg.Raw,
	}
}
